package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"motifsig/domain/run"
	"motifsig/ports"
)

const (
	summarySheet = "Summary"
	tableSheet   = "Quantiles"
)

// ReportWriter exports a significance report as an xlsx workbook: one sheet
// with the run summary, one with the quantile cross-check table. The
// workbook is the medium of the manual analytic-vs-empirical comparison.
type ReportWriter struct {
	path string
}

// NewReportWriter creates a writer targeting the given .xlsx path.
func NewReportWriter(path string) *ReportWriter {
	return &ReportWriter{path: path}
}

var _ ports.ReportWriter = (*ReportWriter)(nil)

// Write renders the report and saves the workbook.
func (w *ReportWriter) Write(_ context.Context, report *run.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := w.writeSummary(f, report); err != nil {
		return fmt.Errorf("failed to write summary sheet: %w", err)
	}
	if err := w.writeTable(f, report); err != nil {
		return fmt.Errorf("failed to write quantile sheet: %w", err)
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", w.path, err)
	}
	return nil
}

func (w *ReportWriter) writeSummary(f *excelize.File, report *run.Report) error {
	idx, err := f.NewSheet(summarySheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"run_id", report.Manifest.RunID.String()},
		{"window", report.Manifest.Window.String()},
		{"pattern", report.Manifest.Pattern.Expr},
		{"strategy", report.Manifest.Strategy},
		{"trials", report.Manifest.Trials},
		{"seed", report.Manifest.Seed},
		{"observed_count", report.Observed.Count},
		{"empirical_p", report.EmpiricalP},
		{"poisson_p", report.PoissonP},
		{"null_mean", report.Null.Mean},
		{"null_std_dev", report.Null.StdDev},
		{"null_median", report.Null.Median},
		{"null_max", report.Null.Max},
		{"null_p95", report.Null.Percentile95},
		{"null_p99", report.Null.Percentile99},
		{"zero_trials", report.Null.ZeroTrials},
		{"elapsed", report.Elapsed.String()},
	}
	if report.Observed.HasAnalyticP() {
		rows = append(rows, []interface{}{"analytic_p", report.Observed.AnalyticP})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (w *ReportWriter) writeTable(f *excelize.File, report *run.Report) error {
	if _, err := f.NewSheet(tableSheet); err != nil {
		return err
	}

	header := []interface{}{"probability_level", "p_value", "expected_count"}
	if err := f.SetSheetRow(tableSheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range report.Table {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{row.Level, row.PValue, row.ExpectedCount}
		if err := f.SetSheetRow(tableSheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}
