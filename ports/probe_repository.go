package ports

import "context"

// ProbeMean is one averaged microarray measurement: the mean of the
// technical replicates for a (pig, time point, probe) key.
type ProbeMean struct {
	PigID         string  `db:"pig_id" json:"pig_id"`
	TimePoint     int     `db:"time_point" json:"time_point"`
	ProbeID       string  `db:"probe_id" json:"probe_id"`
	MeanIntensity float64 `db:"mean_intensity" json:"mean_intensity"`
	Replicates    int     `db:"replicates" json:"replicates"`
}

// ProbeRepository averages raw technical-replicate measurements into one row
// per pig/time/probe. Pure upstream data preparation: nothing in the
// significance pipeline depends on it.
type ProbeRepository interface {
	AverageReplicates(ctx context.Context) ([]ProbeMean, error)
}
