package montecarlo

import (
	"fmt"
	"math/rand"

	"motifsig/domain/core"
	"motifsig/domain/seq"
)

// Strategy selects how a null sequence preserves the reference composition.
type Strategy string

const (
	// StrategyResample draws every position independently from the profile
	// with replacement. Only the expected composition matches the reference;
	// this is the reference behavior and the default.
	StrategyResample Strategy = "resample"

	// StrategyPermute shuffles the exact symbol multiset of the reference,
	// preserving per-symbol counts exactly. The stricter null model.
	StrategyPermute Strategy = "permute"
)

// ParseStrategy maps a config string onto a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyResample, StrategyPermute:
		return Strategy(s), nil
	case "":
		return StrategyResample, nil
	}
	return "", core.NewValidationError("strategy", fmt.Sprintf("unknown strategy %q", s))
}

// Generator produces one randomized sequence per trial, preserving the
// reference composition per its Strategy.
type Generator struct {
	strategy Strategy
}

// NewGenerator creates a generator with the given sampling strategy.
func NewGenerator(strategy Strategy) *Generator {
	return &Generator{strategy: strategy}
}

// Strategy returns the configured sampling strategy.
func (g *Generator) Strategy() Strategy { return g.strategy }

// Generate returns a fresh random sequence of exactly `length` symbols drawn
// from profile using rng. The rng is consumed deterministically: equal
// (profile, length, stream position) always yield the same sequence.
func (g *Generator) Generate(profile seq.CompositionProfile, length int, rng *rand.Rand) (seq.Sequence, error) {
	if profile.IsEmpty() {
		return nil, core.ErrInvalidProfile
	}
	if length < 1 {
		return nil, core.NewValidationError("length", "must be >= 1")
	}

	switch g.strategy {
	case StrategyPermute:
		return g.permute(profile, length, rng)
	default:
		return g.resample(profile, length, rng), nil
	}
}

// resample draws each position independently, with probability proportional
// to the recorded symbol frequency.
func (g *Generator) resample(profile seq.CompositionProfile, length int, rng *rand.Rand) seq.Sequence {
	symbols := profile.Symbols()
	cumulative := make([]int, len(symbols))
	total := 0
	for i, sym := range symbols {
		total += profile.Count(sym)
		cumulative[i] = total
	}

	out := make(seq.Sequence, length)
	for i := range out {
		r := rng.Intn(total)
		for j, c := range cumulative {
			if r < c {
				out[i] = symbols[j]
				break
			}
		}
	}
	return out
}

// permute emits a Fisher-Yates shuffle of the reference multiset. The exact
// per-symbol counts carry over, so the requested length must equal the
// profile total.
func (g *Generator) permute(profile seq.CompositionProfile, length int, rng *rand.Rand) (seq.Sequence, error) {
	if length != profile.Total() {
		return nil, core.NewValidationError("length",
			fmt.Sprintf("permute strategy requires length %d to match profile total %d", length, profile.Total()))
	}

	out := make(seq.Sequence, 0, length)
	for _, sym := range profile.Symbols() {
		for i := 0; i < profile.Count(sym); i++ {
			out = append(out, sym)
		}
	}
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out, nil
}
