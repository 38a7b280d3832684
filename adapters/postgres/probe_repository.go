package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"motifsig/ports"
)

// probeRepository implements the ProbeRepository interface
type probeRepository struct {
	db *sqlx.DB
}

// NewProbeRepository creates a new probe repository
func NewProbeRepository(db *sqlx.DB) ports.ProbeRepository {
	return &probeRepository{db: db}
}

// Connect opens a Postgres connection pool from a connection URL.
func Connect(url string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// AverageReplicates collapses the raw technical replicates into one mean
// intensity per (pig, time point, probe) key, the composite primary key of
// the averaged table downstream analysis reads.
func (r *probeRepository) AverageReplicates(ctx context.Context) ([]ports.ProbeMean, error) {
	query := `SELECT
		pig_id,
		time_point,
		probe_id,
		AVG(intensity) AS mean_intensity,
		COUNT(*) AS replicates
	FROM replicate_measurements
	GROUP BY pig_id, time_point, probe_id
	ORDER BY pig_id, time_point, probe_id`

	var means []ports.ProbeMean
	if err := r.db.SelectContext(ctx, &means, query); err != nil {
		return nil, fmt.Errorf("failed to average replicates: %w", err)
	}
	return means, nil
}
