package montecarlo

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"motifsig/domain/core"
	"motifsig/domain/motif"
	"motifsig/domain/nulldist"
	"motifsig/domain/seq"
	"motifsig/ports"
)

// chunkSize is the fixed number of trials per RNG sub-stream. Each chunk
// derives its own stream from (streamName, chunk index, seed), so the
// resulting distribution does not depend on how chunks are scheduled across
// workers. It also bounds how many generated sequences are alive at once:
// one chunk's worth, never the whole run.
const chunkSize = 256

// streamName namespaces the builder's RNG streams.
const streamName = "null-build"

// BuildParams carries everything one build needs besides the collaborators.
type BuildParams struct {
	Profile seq.CompositionProfile
	Length  int
	Trials  int
	Pattern motif.Pattern
	Seed    int64

	// Workers caps concurrent chunks. Values below 2 run sequentially.
	Workers int
}

// Builder orchestrates the Monte-Carlo trials: per trial it generates a null
// sequence, hands it to the scanner, and records the match count. Trials
// whose scan finds nothing contribute a zero entry; they are never dropped,
// which is what keeps tail-probability estimates honest.
type Builder struct {
	gen     *Generator
	scanner ports.MotifScanner
	rng     ports.RNG
}

// NewBuilder wires a builder from its collaborators.
func NewBuilder(gen *Generator, scanner ports.MotifScanner, rng ports.RNG) *Builder {
	return &Builder{gen: gen, scanner: scanner, rng: rng}
}

// Build runs p.Trials trials and returns the completed null distribution.
// Guarantees:
//   - the returned distribution has exactly p.Trials entries;
//   - equal (params, seed) produce bit-identical distributions, for any
//     worker count;
//   - any scanner failure aborts the whole build with core.ErrScanner,
//     naming the first trial of the failing chunk — a partial distribution
//     is never returned;
//   - context cancellation discards all partial work and returns ctx.Err().
func (b *Builder) Build(ctx context.Context, p BuildParams) (nulldist.Distribution, error) {
	if p.Trials < 1 {
		return nulldist.Distribution{}, core.NewValidationError("trials", "must be >= 1")
	}
	if p.Profile.IsEmpty() {
		return nulldist.Distribution{}, core.ErrInvalidProfile
	}

	counts := make([]int, p.Trials)
	chunks := (p.Trials + chunkSize - 1) / chunkSize

	g, gctx := errgroup.WithContext(ctx)
	if p.Workers > 1 {
		g.SetLimit(p.Workers)
	} else {
		g.SetLimit(1)
	}

	for c := 0; c < chunks; c++ {
		start := c * chunkSize
		end := start + chunkSize
		if end > p.Trials {
			end = p.Trials
		}
		chunk := c
		g.Go(func() error {
			return b.buildChunk(gctx, p, chunk, counts[start:end], start)
		})
	}

	if err := g.Wait(); err != nil {
		return nulldist.Distribution{}, err
	}
	if err := ctx.Err(); err != nil {
		return nulldist.Distribution{}, err
	}

	return nulldist.New(counts, p.Trials)
}

// buildChunk generates and scans the trials of one chunk, writing match
// counts into its disjoint slice of the distribution. offset is the 0-based
// index of the chunk's first trial; error reports use 1-based trial numbers.
func (b *Builder) buildChunk(ctx context.Context, p BuildParams, chunk int, out []int, offset int) error {
	stream, err := b.rng.ChunkStream(ctx, streamName, chunk, p.Seed)
	if err != nil {
		return err
	}

	seqs := make([]seq.Sequence, len(out))
	for i := range seqs {
		if err := ctx.Err(); err != nil {
			return err
		}
		s, err := b.gen.Generate(p.Profile, p.Length, stream)
		if err != nil {
			return err
		}
		seqs[i] = s
	}

	found, err := b.scanner.CountMatches(ctx, seqs, p.Pattern)
	if err != nil {
		return core.NewScannerError(offset+1, err)
	}
	if len(found) != len(seqs) {
		return core.NewScannerError(offset+1,
			fmt.Errorf("scanner returned %d counts for %d sequences", len(found), len(seqs)))
	}
	copy(out, found)
	return nil
}
