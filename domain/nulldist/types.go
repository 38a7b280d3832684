package nulldist

import (
	"fmt"

	"motifsig/domain/core"
)

// Distribution holds the per-trial motif-match counts of a completed
// Monte-Carlo run, one entry per trial in trial order. Zero-count trials are
// first-class entries: dropping them would bias every tail estimate.
//
// The only constructor rejects anything shorter than the configured trial
// count, so a partial build can never reach the estimator.
type Distribution struct {
	counts []int
}

// New validates that counts covers every configured trial and wraps it.
// The slice is owned by the distribution after the call.
func New(counts []int, trials int) (Distribution, error) {
	if trials < 1 {
		return Distribution{}, core.NewValidationError("trials", "must be >= 1")
	}
	if len(counts) != trials {
		return Distribution{}, fmt.Errorf("%w: have %d of %d trials", core.ErrPartialDistribution, len(counts), trials)
	}
	return Distribution{counts: counts}, nil
}

// Len returns the number of trials.
func (d Distribution) Len() int { return len(d.counts) }

// At returns the match count of trial i.
func (d Distribution) At(i int) int { return d.counts[i] }

// Floats returns the counts as a fresh float64 slice for the statistics
// routines, leaving the distribution itself untouched.
func (d Distribution) Floats() []float64 {
	out := make([]float64, len(d.counts))
	for i, c := range d.counts {
		out[i] = float64(c)
	}
	return out
}

// TailCount returns the number of trials with a count >= k.
func (d Distribution) TailCount(k int) int {
	n := 0
	for _, c := range d.counts {
		if c >= k {
			n++
		}
	}
	return n
}

// ZeroCount returns the number of trials in which the scanner found nothing.
func (d Distribution) ZeroCount() int {
	n := 0
	for _, c := range d.counts {
		if c == 0 {
			n++
		}
	}
	return n
}

// Max returns the largest per-trial count.
func (d Distribution) Max() int {
	m := 0
	for _, c := range d.counts {
		if c > m {
			m = c
		}
	}
	return m
}

// ObservedResult pairs the match count of the real window with the analytic
// p-value the external pattern engine reported for it. The analytic value is
// supplied by the caller, never computed here; a negative value means the
// caller had none.
type ObservedResult struct {
	Count     int     `json:"count"`
	AnalyticP float64 `json:"analytic_p"`
}

// HasAnalyticP reports whether the caller supplied an analytic p-value.
func (o ObservedResult) HasAnalyticP() bool { return o.AnalyticP >= 0 }

// QuantileRow is one line of the cross-check table: at probability level
// Level, the null model stays at or below ExpectedCount. PValue is 1-Level,
// so the table reads as (analytic p-value, expected count) for manual
// comparison against the pattern engine's own series.
type QuantileRow struct {
	Level         float64 `json:"level"`
	PValue        float64 `json:"p_value"`
	ExpectedCount float64 `json:"expected_count"`
}

// QuantileTable is the diagnostic cross-check artifact, one row per
// requested probability level, ascending.
type QuantileTable []QuantileRow

// Summary captures the shape of the null distribution for the report.
type Summary struct {
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"std_dev"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Median       float64 `json:"median"`
	Percentile95 float64 `json:"percentile_95"`
	Percentile99 float64 `json:"percentile_99"`
	ZeroTrials   int     `json:"zero_trials"`
}
