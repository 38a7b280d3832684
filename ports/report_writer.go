package ports

import (
	"context"

	"motifsig/domain/run"
)

// ReportWriter persists a finished significance report in some external
// format (TSV stream, xlsx workbook). Writers never alter the report.
type ReportWriter interface {
	Write(ctx context.Context, report *run.Report) error
}
