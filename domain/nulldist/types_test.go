package nulldist

import (
	"testing"

	"motifsig/domain/core"
)

func TestNew_RejectsPartialDistributions(t *testing.T) {
	if _, err := New([]int{1, 0}, 3); !core.IsPartialDistributionError(err) {
		t.Fatalf("expected partial distribution error, got %v", err)
	}
	if _, err := New(nil, 1); !core.IsPartialDistributionError(err) {
		t.Fatalf("expected partial distribution error for empty counts, got %v", err)
	}
	if _, err := New(nil, 0); err == nil {
		t.Fatal("expected error for zero trials")
	}
}

func TestDistribution_ZeroTrialsAreFirstClass(t *testing.T) {
	d, err := New([]int{0, 2, 0, 1, 0}, 5)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if d.Len() != 5 {
		t.Errorf("Len() = %d, want 5", d.Len())
	}
	// Zero and nonzero trials together must cover every trial.
	nonzero := 0
	for i := 0; i < d.Len(); i++ {
		if d.At(i) != 0 {
			nonzero++
		}
	}
	if d.ZeroCount()+nonzero != d.Len() {
		t.Errorf("zero (%d) + nonzero (%d) != trials (%d)", d.ZeroCount(), nonzero, d.Len())
	}
	if d.Max() != 2 {
		t.Errorf("Max() = %d, want 2", d.Max())
	}
}

func TestDistribution_TailCount(t *testing.T) {
	d, err := New([]int{0, 1, 1, 2, 5}, 5)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	cases := []struct{ k, want int }{
		{0, 5},
		{1, 4},
		{2, 2},
		{5, 1},
		{6, 0},
	}
	for _, c := range cases {
		if got := d.TailCount(c.k); got != c.want {
			t.Errorf("TailCount(%d) = %d, want %d", c.k, got, c.want)
		}
	}
}
