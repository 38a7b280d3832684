package run

import (
	"time"

	"motifsig/domain/core"
	"motifsig/domain/motif"
	"motifsig/domain/nulldist"
	"motifsig/domain/seq"
)

// Manifest is the complete specification of one significance run. It is the
// truth source for replay: two runs with equal manifests (ignoring RunID and
// CreatedAt) produce bit-identical null distributions.
type Manifest struct {
	RunID     core.RunID     `json:"run_id"`
	Window    seq.Interval   `json:"window"`
	Pattern   motif.Pattern  `json:"pattern"`
	Trials    int            `json:"trials"`
	Seed      int64          `json:"seed"`
	Strategy  string         `json:"strategy"`
	Workers   int            `json:"workers"`
	CreatedAt core.Timestamp `json:"created_at"`
}

// NewManifest stamps a fresh run identity onto the given parameters.
func NewManifest(window seq.Interval, pattern motif.Pattern, trials int, seed int64, strategy string, workers int) Manifest {
	return Manifest{
		RunID:     core.RunID(core.NewID()),
		Window:    window,
		Pattern:   pattern,
		Trials:    trials,
		Seed:      seed,
		Strategy:  strategy,
		Workers:   workers,
		CreatedAt: core.Now(),
	}
}

// Validate checks if the manifest is complete
func (m Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return core.NewValidationError("manifest", "run_id cannot be empty")
	}
	if m.Trials < 1 {
		return core.NewValidationError("manifest", "trials must be >= 1")
	}
	if m.Pattern.Expr == "" {
		return core.NewValidationError("manifest", "pattern cannot be empty")
	}
	return m.Window.Validate()
}

// Report is the output artifact of a run: the empirical p-value for the
// observed count, the quantile cross-check table, and the null-distribution
// summary, together with the manifest that produced them.
type Report struct {
	Manifest Manifest                `json:"manifest"`
	Observed nulldist.ObservedResult `json:"observed"`

	// EmpiricalP is floored at 1/Trials, never reported as exactly zero.
	EmpiricalP float64 `json:"empirical_p"`

	// PoissonP is the built-in analytic tail probability under a Poisson
	// null with the empirical mean. A convenience reference only; it never
	// replaces a caller-supplied analytic value.
	PoissonP float64 `json:"poisson_p"`

	Null    nulldist.Summary       `json:"null"`
	Table   nulldist.QuantileTable `json:"table"`
	Elapsed time.Duration          `json:"elapsed_ns"`
}
