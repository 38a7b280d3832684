package ports

import (
	"context"
	"math/rand"
)

// RNG provides seeded random number generation for deterministic operations
type RNG interface {
	// SeededStream creates a deterministic random number generator for a
	// named operation.
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// ChunkStream derives the sub-stream for one fixed-size block of trials.
	// Derivation depends only on (name, chunk, seed), never on scheduling,
	// so a run is bit-identical regardless of worker count.
	ChunkStream(ctx context.Context, name string, chunk int, seed int64) (*rand.Rand, error)
}
