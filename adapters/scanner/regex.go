package scanner

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"motifsig/domain/core"
	"motifsig/domain/motif"
	"motifsig/domain/seq"
	"motifsig/ports"
)

// Regex is the in-process MotifScanner built on Go's regexp engine. Matching
// is case-insensitive and non-overlapping, left to right; that overlap
// policy is this engine's, not the core's. Compiled patterns are cached, so
// repeated trial batches pay compilation once.
type Regex struct {
	mu    sync.Mutex
	cache map[string]*regexp.Regexp
}

// NewRegex creates the in-process regexp scanner.
func NewRegex() *Regex {
	return &Regex{cache: make(map[string]*regexp.Regexp)}
}

var _ ports.MotifScanner = (*Regex)(nil)

// CountMatches returns one non-overlapping match count per sequence.
func (r *Regex) CountMatches(ctx context.Context, seqs []seq.Sequence, pattern motif.Pattern) ([]int, error) {
	re, err := r.compile(pattern)
	if err != nil {
		return nil, err
	}

	counts := make([]int, len(seqs))
	for i, s := range seqs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		counts[i] = len(re.FindAllIndex(s, -1))
	}
	return counts, nil
}

func (r *Regex) compile(pattern motif.Pattern) (*regexp.Regexp, error) {
	expr := pattern.Expr
	if pattern.MinRepeats > 1 {
		expr = fmt.Sprintf("(?:%s){%d,}", expr, pattern.MinRepeats)
	}
	expr = "(?i)" + expr

	r.mu.Lock()
	defer r.mu.Unlock()
	if re, ok := r.cache[expr]; ok {
		return re, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: bad pattern %q: %v", core.ErrScanner, pattern.Expr, err)
	}
	r.cache[expr] = re
	return re, nil
}
