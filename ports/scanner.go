package ports

import (
	"context"

	"motifsig/domain/motif"
	"motifsig/domain/seq"
)

// MotifScanner finds matches for a configured pattern. The core only needs
// per-sequence match counts; overlap policy and match semantics are owned by
// the concrete engine. Implementations must be deterministic for the same
// (sequence, pattern) input and must report zero for sequences without a
// match rather than omitting them.
type MotifScanner interface {
	// CountMatches returns one count per input sequence, in input order.
	// A failure wraps core.ErrScanner and poisons the whole batch.
	CountMatches(ctx context.Context, seqs []seq.Sequence, pattern motif.Pattern) ([]int, error)
}
