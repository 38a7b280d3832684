package app

import (
	"context"
	"time"

	"motifsig/domain/motif"
	"motifsig/domain/nulldist"
	"motifsig/domain/run"
	"motifsig/domain/seq"
	"motifsig/internal"
	"motifsig/montecarlo"
	"motifsig/ports"
)

// RunRequest describes one significance estimation run.
type RunRequest struct {
	Window   seq.Interval
	Pattern  motif.Pattern
	Trials   int
	Seed     int64
	Strategy montecarlo.Strategy
	Workers  int

	// Levels are the quantile probability levels to report, ascending.
	// Empty selects the default 0.95..1.0 grid.
	Levels []float64

	// ObservedCount is the match count of the real window. Negative means
	// "scan the window and count for me".
	ObservedCount int

	// AnalyticP is the externally computed analytic p-value for the window,
	// negative when unavailable. Carried through to the report untouched.
	AnalyticP float64
}

// SignificanceService runs the full pipeline: fetch the observed window,
// profile its composition, build the null distribution against the
// configured scanner, and turn the observed count into the report artifact.
type SignificanceService struct {
	source  ports.SequenceSource
	scanner ports.MotifScanner
	rng     ports.RNG
	logger  *internal.Logger
}

// NewSignificanceService wires the service from its collaborators.
func NewSignificanceService(source ports.SequenceSource, scanner ports.MotifScanner, rng ports.RNG, logger *internal.Logger) *SignificanceService {
	return &SignificanceService{source: source, scanner: scanner, rng: rng, logger: logger}
}

// Run executes the request and returns the finished report. Any failure
// aborts the run: no report is ever produced from partial state.
func (s *SignificanceService) Run(ctx context.Context, req RunRequest) (*run.Report, error) {
	started := time.Now()

	manifest := run.NewManifest(req.Window, req.Pattern, req.Trials, req.Seed, string(req.Strategy), req.Workers)
	if err := manifest.Validate(); err != nil {
		return nil, err
	}

	window, err := s.source.Fetch(ctx, req.Window)
	if err != nil {
		return nil, err
	}
	profile, err := seq.Profile(window)
	if err != nil {
		return nil, err
	}
	s.logger.Info("run %s: window %s (%d nt), composition %s",
		manifest.RunID, req.Window, window.Len(), profile)

	observed := nulldist.ObservedResult{Count: req.ObservedCount, AnalyticP: req.AnalyticP}
	if observed.Count < 0 {
		counts, err := s.scanner.CountMatches(ctx, []seq.Sequence{window}, req.Pattern)
		if err != nil {
			return nil, err
		}
		observed.Count = counts[0]
		s.logger.Info("run %s: observed %d matches in window", manifest.RunID, observed.Count)
	}

	builder := montecarlo.NewBuilder(montecarlo.NewGenerator(req.Strategy), s.scanner, s.rng)
	dist, err := builder.Build(ctx, montecarlo.BuildParams{
		Profile: profile,
		Length:  window.Len(),
		Trials:  req.Trials,
		Pattern: req.Pattern,
		Seed:    req.Seed,
		Workers: req.Workers,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("run %s: null distribution complete, %d of %d trials with zero matches",
		manifest.RunID, dist.ZeroCount(), dist.Len())

	levels := req.Levels
	if len(levels) == 0 {
		levels = montecarlo.DefaultLevels()
	}

	estimator := montecarlo.NewEstimator()
	table, err := estimator.QuantileTable(dist, levels)
	if err != nil {
		return nil, err
	}
	summary, err := estimator.Summarize(dist)
	if err != nil {
		return nil, err
	}
	poissonP, err := estimator.PoissonTail(dist, observed.Count)
	if err != nil {
		return nil, err
	}

	report := &run.Report{
		Manifest:   manifest,
		Observed:   observed,
		EmpiricalP: estimator.EmpiricalPValue(dist, observed.Count),
		PoissonP:   poissonP,
		Null:       summary,
		Table:      table,
		Elapsed:    time.Since(started),
	}
	s.logger.Info("run %s: empirical p=%.3g (observed %d, %d trials) in %s",
		manifest.RunID, report.EmpiricalP, observed.Count, req.Trials, report.Elapsed)
	return report, nil
}
