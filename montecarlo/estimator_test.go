package montecarlo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motifsig/adapters/rng"
	"motifsig/adapters/scanner"
	"motifsig/domain/motif"
	"motifsig/domain/nulldist"
	"motifsig/domain/seq"
)

func dist(t *testing.T, counts ...int) nulldist.Distribution {
	t.Helper()
	d, err := nulldist.New(counts, len(counts))
	require.NoError(t, err)
	return d
}

func TestEmpiricalPValue_InclusiveUpperTail(t *testing.T) {
	e := NewEstimator()
	d := dist(t, 0, 0, 1, 1, 2, 2, 3, 5, 5, 9)

	assert.InEpsilon(t, 1.0, e.EmpiricalPValue(d, 0), 1e-12)
	assert.InEpsilon(t, 0.8, e.EmpiricalPValue(d, 1), 1e-12)
	assert.InEpsilon(t, 0.3, e.EmpiricalPValue(d, 4), 1e-12)
	assert.InEpsilon(t, 0.1, e.EmpiricalPValue(d, 9), 1e-12)
}

func TestEmpiricalPValue_FlooredAtOneOverN(t *testing.T) {
	e := NewEstimator()
	d := dist(t, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)

	// Observed beyond every trial: the tail is below resolution, not zero.
	assert.InEpsilon(t, 0.1, e.EmpiricalPValue(d, 3), 1e-12)
}

func TestEmpiricalPValue_MonotoneNonIncreasing(t *testing.T) {
	e := NewEstimator()
	d := dist(t, 0, 1, 1, 2, 3, 3, 4, 7, 8, 12)

	prev := 2.0
	for k := 0; k <= 15; k++ {
		p := e.EmpiricalPValue(d, k)
		assert.GreaterOrEqual(t, p, 1.0/float64(d.Len()))
		assert.LessOrEqual(t, p, 1.0)
		assert.LessOrEqual(t, p, prev, "p-value increased at k=%d", k)
		prev = p
	}
}

func TestEmpiricalPValue_SingleTrial(t *testing.T) {
	e := NewEstimator()
	d := dist(t, 1)

	assert.Equal(t, 1.0, e.EmpiricalPValue(d, 0))
	assert.Equal(t, 1.0, e.EmpiricalPValue(d, 1))
	assert.Equal(t, 1.0, e.EmpiricalPValue(d, 2)) // floor: 1/1
}

func TestQuantileTable_MonotoneAndLabeled(t *testing.T) {
	e := NewEstimator()
	d := dist(t, 0, 0, 0, 1, 1, 2, 2, 3, 5, 9)

	levels := []float64{0.5, 0.9, 0.95, 0.99, 1.0}
	table, err := e.QuantileTable(d, levels)
	require.NoError(t, err)
	require.Len(t, table, len(levels))

	prev := -1.0
	for i, row := range table {
		assert.Equal(t, levels[i], row.Level)
		assert.InDelta(t, 1-levels[i], row.PValue, 1e-12)
		assert.GreaterOrEqual(t, row.ExpectedCount, prev, "expected count decreased at level %g", row.Level)
		prev = row.ExpectedCount
	}
	// The top of the grid reaches the empirical maximum.
	assert.Equal(t, 9.0, table[len(table)-1].ExpectedCount)
}

func TestQuantileTable_RejectsBadLevels(t *testing.T) {
	e := NewEstimator()
	d := dist(t, 0, 1, 2)

	_, err := e.QuantileTable(d, nil)
	assert.Error(t, err)
	_, err = e.QuantileTable(d, []float64{0.5, 0.4})
	assert.Error(t, err)
	_, err = e.QuantileTable(d, []float64{-0.1})
	assert.Error(t, err)
	_, err = e.QuantileTable(d, []float64{0.5, 1.1})
	assert.Error(t, err)
}

func TestDefaultLevels_FineUpperTailGrid(t *testing.T) {
	levels := DefaultLevels()
	require.Len(t, levels, 51)
	assert.Equal(t, 0.95, levels[0])
	assert.Equal(t, 1.0, levels[len(levels)-1])
	require.NoError(t, validateLevels(levels))
}

func TestSummarize(t *testing.T) {
	e := NewEstimator()
	d := dist(t, 0, 0, 1, 1, 2)

	s, err := e.Summarize(d)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, s.Mean, 1e-12)
	assert.Equal(t, 0.0, s.Min)
	assert.Equal(t, 2.0, s.Max)
	assert.Equal(t, 1.0, s.Median)
	assert.Equal(t, 2, s.ZeroTrials)
}

func TestPoissonTail(t *testing.T) {
	e := NewEstimator()
	d := dist(t, 1, 1, 1, 1) // mean 1

	p, err := e.PoissonTail(d, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p)

	// P[X >= 1] = 1 - e^-1 for lambda 1.
	p, err = e.PoissonTail(d, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.6321, p, 1e-3)

	// Degenerate all-zero null falls back to the empirical floor.
	zero := dist(t, 0, 0, 0, 0)
	p, err = e.PoissonTail(zero, 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, p, 1e-12)
}

// The reference scenario: composition {G:0.6, C:0.2, T:0.1, A:0.1}, window
// length 1000, a repeat-rich motif. Run at a reduced trial count and check
// the empirical estimate lands in the analytically expected range.
func TestScenario_RepeatMotifSignificance(t *testing.T) {
	profile, err := seq.ProfileFromCounts(map[byte]int{'G': 600, 'C': 200, 'T': 100, 'A': 100})
	require.NoError(t, err)

	const trials = 4000
	b := NewBuilder(NewGenerator(StrategyResample), scanner.NewRegex(), rng.New())
	d, err := b.Build(context.Background(), BuildParams{
		Profile: profile,
		Length:  1000,
		Trials:  trials,
		Pattern: motif.Pattern{Expr: "GGC", MinRepeats: 3},
		Seed:    42,
		Workers: 4,
	})
	require.NoError(t, err)
	require.Equal(t, trials, d.Len())

	// Expected matches per trial is about 0.37, so two or more matches is
	// a few-percent event: the p-value sits well inside (0.01, 0.15).
	e := NewEstimator()
	p := e.EmpiricalPValue(d, 2)
	assert.Greater(t, p, 0.01)
	assert.Less(t, p, 0.15)

	// Three or more is rarer, order 1e-2 to 1e-3.
	p3 := e.EmpiricalPValue(d, 3)
	assert.Less(t, p3, p)
	assert.Less(t, p3, 0.05)

	// Zero-match trials dominate and are retained.
	assert.Greater(t, d.ZeroCount(), trials/2)

	table, err := e.QuantileTable(d, DefaultLevels())
	require.NoError(t, err)
	prev := -1.0
	for _, row := range table {
		require.GreaterOrEqual(t, row.ExpectedCount, prev)
		prev = row.ExpectedCount
	}
}
