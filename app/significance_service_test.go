package app

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motifsig/adapters/rng"
	"motifsig/adapters/scanner"
	"motifsig/domain/core"
	"motifsig/domain/motif"
	"motifsig/domain/seq"
	"motifsig/internal"
	"motifsig/montecarlo"
)

// mapSource serves windows from in-memory records.
type mapSource map[string]seq.Sequence

func (m mapSource) Fetch(_ context.Context, iv seq.Interval) (seq.Sequence, error) {
	rec, ok := m[iv.Name]
	if !ok {
		return nil, core.NewSequenceError(iv.Name, fmt.Errorf("no such record"))
	}
	if iv.End > rec.Len() {
		return nil, core.NewSequenceError(iv.String(), fmt.Errorf("past end"))
	}
	return rec[iv.Start-1 : iv.End], nil
}

func testService(t *testing.T) *SignificanceService {
	t.Helper()
	window := strings.Repeat("GGCTA", 40) // 200 nt, GGC every 5 positions
	source := mapSource{"chr1": seq.New(window)}
	logger := internal.NewLogger(internal.LogLevelError)
	return NewSignificanceService(source, scanner.NewRegex(), rng.New(), logger)
}

func baseRequest() RunRequest {
	return RunRequest{
		Window:        seq.Interval{Name: "chr1", Start: 1, End: 200},
		Pattern:       motif.Pattern{Expr: "GGC"},
		Trials:        500,
		Seed:          42,
		Strategy:      montecarlo.StrategyResample,
		Workers:       2,
		ObservedCount: -1,
		AnalyticP:     -1,
	}
}

func TestRun_FullPipeline(t *testing.T) {
	service := testService(t)

	report, err := service.Run(context.Background(), baseRequest())
	require.NoError(t, err)

	// The real window holds exactly 40 GGC occurrences; a random
	// composition-matched sequence holds far fewer, so the observed count
	// pins the empirical p-value to the floor.
	assert.Equal(t, 40, report.Observed.Count)
	assert.InDelta(t, 1.0/500, report.EmpiricalP, 1e-12)
	assert.False(t, report.Observed.HasAnalyticP())

	assert.False(t, core.ID(report.Manifest.RunID).IsEmpty())
	assert.Equal(t, 500, report.Manifest.Trials)
	assert.Equal(t, string(montecarlo.StrategyResample), report.Manifest.Strategy)
	assert.Len(t, report.Table, 51)
	assert.Greater(t, report.Null.Mean, 0.0)
	assert.Less(t, report.PoissonP, 0.05)
	assert.Greater(t, report.Elapsed.Nanoseconds(), int64(0))
}

func TestRun_ObservedCountAndAnalyticPCarriedThrough(t *testing.T) {
	service := testService(t)

	req := baseRequest()
	req.ObservedCount = 2
	req.AnalyticP = 0.0042
	report, err := service.Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Observed.Count)
	require.True(t, report.Observed.HasAnalyticP())
	assert.Equal(t, 0.0042, report.Observed.AnalyticP)
}

func TestRun_DeterministicForEqualSeeds(t *testing.T) {
	service := testService(t)

	a, err := service.Run(context.Background(), baseRequest())
	require.NoError(t, err)
	b, err := service.Run(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, a.EmpiricalP, b.EmpiricalP)
	assert.Equal(t, a.Null, b.Null)
	require.Equal(t, len(a.Table), len(b.Table))
	for i := range a.Table {
		assert.Equal(t, a.Table[i], b.Table[i])
	}
	assert.NotEqual(t, a.Manifest.RunID, b.Manifest.RunID)
}

func TestRun_SequenceFailureAbortsRun(t *testing.T) {
	service := testService(t)

	req := baseRequest()
	req.Window = seq.Interval{Name: "chrX", Start: 1, End: 200}
	_, err := service.Run(context.Background(), req)
	require.Error(t, err)
	assert.True(t, core.IsSequenceError(err), "got %v", err)
}

func TestRun_InvalidRequestsRejected(t *testing.T) {
	service := testService(t)

	req := baseRequest()
	req.Pattern.Expr = ""
	_, err := service.Run(context.Background(), req)
	assert.Error(t, err)

	req = baseRequest()
	req.Trials = 0
	_, err = service.Run(context.Background(), req)
	assert.Error(t, err)
}

func TestRun_CustomLevels(t *testing.T) {
	service := testService(t)

	req := baseRequest()
	req.Levels = []float64{0.5, 0.95, 0.99}
	report, err := service.Run(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, report.Table, 3)
	assert.Equal(t, 0.5, report.Table[0].Level)
}
