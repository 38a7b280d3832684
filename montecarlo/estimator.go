package montecarlo

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"motifsig/domain/core"
	"motifsig/domain/nulldist"
)

// Estimator converts a completed null distribution and an observed match
// count into the run's inference outputs.
type Estimator struct{}

// NewEstimator creates a new estimator
func NewEstimator() *Estimator {
	return &Estimator{}
}

// EmpiricalPValue returns the fraction of trials whose count is >= observed
// (inclusive upper tail): the probability, under the null model, of seeing
// at least as many matches as were actually observed.
//
// When the observed count exceeds every trial, the value is floored at
// 1/N rather than reported as zero: the true tail probability is merely
// below the resolution the sample size affords, not known to vanish.
func (e *Estimator) EmpiricalPValue(d nulldist.Distribution, observed int) float64 {
	tail := d.TailCount(observed)
	if tail == 0 {
		tail = 1
	}
	return float64(tail) / float64(d.Len())
}

// QuantileTable computes the empirical quantile of the distribution at each
// probability level, ascending, using linear interpolation. Each row carries
// (level, 1-level, quantile), so the table reads as (analytic p-value,
// expected count) for manual comparison against the pattern engine's series.
func (e *Estimator) QuantileTable(d nulldist.Distribution, levels []float64) (nulldist.QuantileTable, error) {
	if err := validateLevels(levels); err != nil {
		return nil, err
	}

	sorted := d.Floats()
	sort.Float64s(sorted)

	table := make(nulldist.QuantileTable, 0, len(levels))
	for _, p := range levels {
		q := stat.Quantile(p, stat.LinInterp, sorted, nil)
		table = append(table, nulldist.QuantileRow{
			Level:         p,
			PValue:        1 - p,
			ExpectedCount: q,
		})
	}
	return table, nil
}

// Summarize computes the shape statistics of the null distribution that the
// report attaches next to the p-value.
func (e *Estimator) Summarize(d nulldist.Distribution) (nulldist.Summary, error) {
	data := d.Floats()
	summary := nulldist.Summary{ZeroTrials: d.ZeroCount()}

	mean, err := stats.Mean(data)
	if err != nil {
		return summary, err
	}
	stdDev, err := stats.StandardDeviation(data)
	if err != nil {
		return summary, err
	}
	min, err := stats.Min(data)
	if err != nil {
		return summary, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return summary, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return summary, err
	}
	p95, err := stats.Percentile(data, 95)
	if err != nil {
		return summary, err
	}
	p99, err := stats.Percentile(data, 99)
	if err != nil {
		return summary, err
	}

	summary.Mean = mean
	summary.StdDev = stdDev
	summary.Min = min
	summary.Max = max
	summary.Median = median
	summary.Percentile95 = p95
	summary.Percentile99 = p99
	return summary, nil
}

// PoissonTail returns P[X >= observed] under a Poisson null whose rate is
// the empirical mean of the distribution. A built-in analytic reference for
// runs where no externally computed p-value is available; it never replaces
// a caller-supplied analytic value.
func (e *Estimator) PoissonTail(d nulldist.Distribution, observed int) (float64, error) {
	if observed <= 0 {
		return 1, nil
	}
	mean, err := stats.Mean(d.Floats())
	if err != nil {
		return 0, err
	}
	if mean <= 0 {
		// Degenerate null: nothing ever matched, any positive count is
		// beyond the model. Report the smallest representable tail.
		return e.EmpiricalPValue(d, observed), nil
	}
	pois := distuv.Poisson{Lambda: mean}
	return 1 - pois.CDF(float64(observed-1)), nil
}

// DefaultLevels is the reporting grid: 0.95 to 1.0 in steps of 0.001, the
// fine upper-tail range where the manual cross-check happens.
func DefaultLevels() []float64 {
	levels := make([]float64, 0, 51)
	for i := 950; i <= 1000; i++ {
		levels = append(levels, float64(i)/1000)
	}
	return levels
}

func validateLevels(levels []float64) error {
	if len(levels) == 0 {
		return core.NewValidationError("levels", "at least one probability level is required")
	}
	prev := -1.0
	for _, p := range levels {
		if p < 0 || p > 1 {
			return fmt.Errorf("%w: %g", core.ErrInvalidLevel, p)
		}
		if p <= prev {
			return core.NewValidationError("levels", "levels must be strictly ascending")
		}
		prev = p
	}
	return nil
}
