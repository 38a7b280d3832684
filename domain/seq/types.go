package seq

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"motifsig/domain/core"
)

// Sequence is an ordered run of nucleotide symbols. Input is case-folded to
// upper case at construction and never mutated afterwards.
type Sequence []byte

// New builds a Sequence from raw text, folding case.
func New(s string) Sequence {
	return Sequence(strings.ToUpper(s))
}

// Len returns the number of symbols.
func (s Sequence) Len() int { return len(s) }

// String returns the sequence text.
func (s Sequence) String() string { return string(s) }

// Interval names a genomic window using 1-based inclusive coordinates,
// the convention of samtools faidx style region strings.
type Interval struct {
	Name  string
	Start int
	End   int
}

// ParseInterval parses "name:start-end" into an Interval.
func ParseInterval(s string) (Interval, error) {
	name, span, ok := strings.Cut(s, ":")
	if !ok || name == "" {
		return Interval{}, core.NewValidationError("window", fmt.Sprintf("expected name:start-end, got %q", s))
	}
	lo, hi, ok := strings.Cut(span, "-")
	if !ok {
		return Interval{}, core.NewValidationError("window", fmt.Sprintf("expected name:start-end, got %q", s))
	}
	start, err := strconv.Atoi(strings.ReplaceAll(lo, ",", ""))
	if err != nil {
		return Interval{}, core.NewValidationError("window", fmt.Sprintf("bad start %q", lo))
	}
	end, err := strconv.Atoi(strings.ReplaceAll(hi, ",", ""))
	if err != nil {
		return Interval{}, core.NewValidationError("window", fmt.Sprintf("bad end %q", hi))
	}
	iv := Interval{Name: name, Start: start, End: end}
	return iv, iv.Validate()
}

// Validate checks coordinate sanity.
func (iv Interval) Validate() error {
	if iv.Start < 1 || iv.End < iv.Start {
		return fmt.Errorf("%w: %s", core.ErrInvalidWindow, iv)
	}
	return nil
}

// Length returns the window length in symbols.
func (iv Interval) Length() int { return iv.End - iv.Start + 1 }

func (iv Interval) String() string {
	return fmt.Sprintf("%s:%d-%d", iv.Name, iv.Start, iv.End)
}

// CompositionProfile maps each symbol observed in exactly one Sequence to its
// occurrence count. Symbols that never occur are absent, not zero-filled:
// downstream sampling only ever draws from observed symbols.
//
// Invariant: the counts sum to the length of the source sequence.
type CompositionProfile struct {
	counts map[byte]int
	total  int
}

// Profile computes the per-symbol composition of s. It is the only
// constructor, which keeps the sum invariant by construction. An empty
// sequence is rejected.
func Profile(s Sequence) (CompositionProfile, error) {
	if s.Len() == 0 {
		return CompositionProfile{}, core.ErrEmptySequence
	}
	counts := make(map[byte]int)
	for _, sym := range s {
		counts[sym]++
	}
	return CompositionProfile{counts: counts, total: s.Len()}, nil
}

// ProfileFromCounts builds a profile directly from symbol counts. Used by
// callers that already know the composition (e.g. test scenarios).
func ProfileFromCounts(counts map[byte]int) (CompositionProfile, error) {
	total := 0
	cp := make(map[byte]int, len(counts))
	for sym, n := range counts {
		if n < 0 {
			return CompositionProfile{}, fmt.Errorf("%w: negative count for %q", core.ErrInvalidProfile, sym)
		}
		if n == 0 {
			continue
		}
		cp[sym] = n
		total += n
	}
	if total == 0 {
		return CompositionProfile{}, core.ErrInvalidProfile
	}
	return CompositionProfile{counts: cp, total: total}, nil
}

// IsEmpty reports whether the profile has no observed symbols.
func (p CompositionProfile) IsEmpty() bool { return p.total == 0 }

// Total returns the length of the source sequence.
func (p CompositionProfile) Total() int { return p.total }

// Count returns the occurrence count for sym, zero if unobserved.
func (p CompositionProfile) Count(sym byte) int { return p.counts[sym] }

// Freq returns the relative frequency of sym in the source sequence.
func (p CompositionProfile) Freq(sym byte) float64 {
	if p.total == 0 {
		return 0
	}
	return float64(p.counts[sym]) / float64(p.total)
}

// Symbols returns the observed symbols in sorted order. The fixed order is
// what makes weighted sampling reproducible for a given seed.
func (p CompositionProfile) Symbols() []byte {
	syms := make([]byte, 0, len(p.counts))
	for sym := range p.counts {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}

func (p CompositionProfile) String() string {
	var b strings.Builder
	for i, sym := range p.Symbols() {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%c:%.3f", sym, p.Freq(sym))
	}
	return b.String()
}
