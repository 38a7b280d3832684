package excel

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"motifsig/domain/motif"
	"motifsig/domain/nulldist"
	"motifsig/domain/run"
	"motifsig/domain/seq"
)

func sampleReport() *run.Report {
	manifest := run.NewManifest(
		seq.Interval{Name: "chr7", Start: 155000, End: 156000},
		motif.Pattern{Expr: "(GGC){3,}"},
		100000, 42, "resample", 4,
	)
	return &run.Report{
		Manifest:   manifest,
		Observed:   nulldist.ObservedResult{Count: 2, AnalyticP: 0.0031},
		EmpiricalP: 0.0027,
		PoissonP:   0.0029,
		Null:       nulldist.Summary{Mean: 0.37, Max: 4, ZeroTrials: 69000},
		Table: nulldist.QuantileTable{
			{Level: 0.95, PValue: 0.05, ExpectedCount: 1},
			{Level: 0.99, PValue: 0.01, ExpectedCount: 2},
			{Level: 1.0, PValue: 0, ExpectedCount: 4},
		},
		Elapsed: 3 * time.Second,
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	report := sampleReport()

	writer := NewReportWriter(path)
	require.NoError(t, writer.Write(context.Background(), report))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{summarySheet, tableSheet}, f.GetSheetList())

	window, err := f.GetCellValue(summarySheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "chr7:155000-156000", window)

	header, err := f.GetCellValue(tableSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "probability_level", header)

	rows, err := f.GetRows(tableSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 4) // header + 3 table rows
}
