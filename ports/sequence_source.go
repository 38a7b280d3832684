package ports

import (
	"context"

	"motifsig/domain/seq"
)

// SequenceSource supplies the nucleotide sequence for a named genomic
// interval. Retrieval failures wrap core.ErrSequenceUnavailable; nothing
// downstream can proceed without the window sequence.
type SequenceSource interface {
	// Fetch returns the linear sequence covering iv (1-based inclusive).
	Fetch(ctx context.Context, iv seq.Interval) (seq.Sequence, error)
}
