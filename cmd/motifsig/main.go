package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"motifsig/adapters/excel"
	"motifsig/adapters/fasta"
	"motifsig/adapters/postgres"
	"motifsig/adapters/rng"
	"motifsig/adapters/scanner"
	"motifsig/app"
	"motifsig/domain/motif"
	"motifsig/domain/run"
	"motifsig/domain/seq"
	"motifsig/internal"
	"motifsig/internal/config"
	"motifsig/montecarlo"
	"motifsig/ports"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:   "motifsig",
		Short: "Monte-Carlo significance estimation for motif-match counts in genomic windows",
	}

	rootCmd.AddCommand(
		newNullCmd(cfg),
		newScanCmd(cfg),
		newAvgProbesCmd(cfg),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newNullCmd(cfg *config.Config) *cobra.Command {
	var (
		fastaPath  string
		window     string
		pattern    string
		minRepeats int
		patWindow  int
		trials     int
		seed       int64
		strategy   string
		workers    int
		observed   int
		analyticP  float64
		scannerCmd string
		levelsSpec string
		xlsxPath   string
	)

	cmd := &cobra.Command{
		Use:   "null",
		Short: "Build a null distribution for a window and report the empirical p-value",
		Long: `Build a null distribution of motif-match counts for the observed window.

Per trial a random sequence of matching composition is generated and scanned;
the observed count is converted into an empirical p-value and a
quantile-vs-count table for cross-checking an analytic p-value.

Example: motifsig null --fasta genome.fa --window chr7:155000-156000 --pattern "(GGC){3,}" --trials 100000 --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNull(cmd.Context(), nullOptions{
				fastaPath:   fastaPath,
				window:      window,
				pattern:     pattern,
				minRepeats:  minRepeats,
				patWindow:   patWindow,
				trials:      trials,
				seed:        seed,
				strategy:    strategy,
				workers:     workers,
				observed:    observed,
				analyticP:   analyticP,
				scannerCmd:  scannerCmd,
				scannerArgs: cfg.Scanner.Args,
				levelsSpec:  levelsSpec,
				xlsxPath:    xlsxPath,
			})
		},
	}

	cmd.Flags().StringVar(&fastaPath, "fasta", "", "Reference FASTA file (required)")
	cmd.Flags().StringVar(&window, "window", cfg.Run.Window, "Observed window as name:start-end, 1-based inclusive")
	cmd.Flags().StringVar(&pattern, "pattern", cfg.Run.Pattern, "Motif pattern, passed to the scanner unmodified")
	cmd.Flags().IntVar(&minRepeats, "min-repeats", cfg.Run.MinRepeat, "Minimum repeat count handed to the scanner")
	cmd.Flags().IntVar(&patWindow, "pattern-window", cfg.Run.PatWindow, "Scanner window size parameter")
	cmd.Flags().IntVar(&trials, "trials", cfg.Run.Trials, "Number of null trials")
	cmd.Flags().Int64Var(&seed, "seed", cfg.Run.Seed, "Random seed for deterministic runs")
	cmd.Flags().StringVar(&strategy, "strategy", cfg.Run.Strategy, "Null model: resample (with replacement) or permute (exact composition)")
	cmd.Flags().IntVar(&workers, "workers", cfg.Run.Workers, "Concurrent trial chunks")
	cmd.Flags().IntVar(&observed, "observed", -1, "Observed match count; negative scans the window itself")
	cmd.Flags().Float64Var(&analyticP, "analytic-p", cfg.Run.AnalyticP, "Externally computed analytic p-value; negative if none")
	cmd.Flags().StringVar(&scannerCmd, "scanner-cmd", cfg.Scanner.Command, "External scanner command; empty uses the built-in regexp engine")
	cmd.Flags().StringVar(&levelsSpec, "levels", "", "Comma-separated quantile probability levels (default 0.95..1.0 step 0.001)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", cfg.Report.ExcelFile, "Also export the report as an xlsx workbook")
	_ = cmd.MarkFlagRequired("fasta")

	return cmd
}

type nullOptions struct {
	fastaPath   string
	window      string
	pattern     string
	minRepeats  int
	patWindow   int
	trials      int
	seed        int64
	strategy    string
	workers     int
	observed    int
	analyticP   float64
	scannerCmd  string
	scannerArgs []string
	levelsSpec  string
	xlsxPath    string
}

func runNull(ctx context.Context, opts nullOptions) error {
	logger := internal.NewDefaultLogger()

	iv, err := seq.ParseInterval(opts.window)
	if err != nil {
		return err
	}
	strat, err := montecarlo.ParseStrategy(opts.strategy)
	if err != nil {
		return err
	}
	levels, err := parseLevels(opts.levelsSpec)
	if err != nil {
		return err
	}

	source, err := fasta.Open(opts.fastaPath)
	if err != nil {
		return err
	}

	var engine ports.MotifScanner
	if opts.scannerCmd != "" {
		engine = scanner.NewExternalTool(opts.scannerCmd, opts.scannerArgs...)
	} else {
		engine = scanner.NewRegex()
	}

	service := app.NewSignificanceService(source, engine, rng.New(), logger)
	report, err := service.Run(ctx, app.RunRequest{
		Window:        iv,
		Pattern:       newPattern(opts),
		Trials:        opts.trials,
		Seed:          opts.seed,
		Strategy:      strat,
		Workers:       opts.workers,
		Levels:        levels,
		ObservedCount: opts.observed,
		AnalyticP:     opts.analyticP,
	})
	if err != nil {
		return err
	}

	printReport(report)

	if opts.xlsxPath != "" {
		writer := excel.NewReportWriter(opts.xlsxPath)
		if err := writer.Write(ctx, report); err != nil {
			return err
		}
		logger.Info("report exported to %s", opts.xlsxPath)
	}
	return nil
}

func newPattern(opts nullOptions) motif.Pattern {
	return motif.Pattern{
		Expr:       opts.pattern,
		MinRepeats: opts.minRepeats,
		Window:     opts.patWindow,
	}
}

// printReport writes the run summary as comment lines and the quantile
// table as TSV, the shape the manual cross-check reads.
func printReport(report *run.Report) {
	fmt.Printf("# run %s window %s pattern %q strategy %s trials %d seed %d\n",
		report.Manifest.RunID, report.Manifest.Window, report.Manifest.Pattern.Expr,
		report.Manifest.Strategy, report.Manifest.Trials, report.Manifest.Seed)
	fmt.Printf("# observed %d empirical_p %.6g poisson_p %.6g", report.Observed.Count, report.EmpiricalP, report.PoissonP)
	if report.Observed.HasAnalyticP() {
		fmt.Printf(" analytic_p %.6g", report.Observed.AnalyticP)
	}
	fmt.Println()
	fmt.Printf("# null mean %.4g sd %.4g median %.4g max %.4g zero_trials %d\n",
		report.Null.Mean, report.Null.StdDev, report.Null.Median, report.Null.Max, report.Null.ZeroTrials)
	fmt.Println("probability_level\tp_value\texpected_count")
	for _, row := range report.Table {
		fmt.Printf("%.4g\t%.4g\t%.6g\n", row.Level, row.PValue, row.ExpectedCount)
	}
}

func parseLevels(spec string) ([]float64, error) {
	if spec == "" {
		return nil, nil
	}
	parts := strings.Split(spec, ",")
	levels := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("bad probability level %q: %w", part, err)
		}
		levels = append(levels, v)
	}
	return levels, nil
}

func newScanCmd(cfg *config.Config) *cobra.Command {
	var (
		fastaPath  string
		window     string
		pattern    string
		minRepeats int
		patWindow  int
		scannerCmd string
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Count motif matches in the observed window, without a null distribution",
		RunE: func(cmd *cobra.Command, args []string) error {
			iv, err := seq.ParseInterval(window)
			if err != nil {
				return err
			}
			source, err := fasta.Open(fastaPath)
			if err != nil {
				return err
			}
			observed, err := source.Fetch(cmd.Context(), iv)
			if err != nil {
				return err
			}

			var engine ports.MotifScanner
			if scannerCmd != "" {
				engine = scanner.NewExternalTool(scannerCmd, cfg.Scanner.Args...)
			} else {
				engine = scanner.NewRegex()
			}
			counts, err := engine.CountMatches(cmd.Context(), []seq.Sequence{observed}, motif.Pattern{
				Expr:       pattern,
				MinRepeats: minRepeats,
				Window:     patWindow,
			})
			if err != nil {
				return err
			}

			fmt.Printf("%s\t%d\n", iv, counts[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&fastaPath, "fasta", "", "Reference FASTA file (required)")
	cmd.Flags().StringVar(&window, "window", cfg.Run.Window, "Window as name:start-end, 1-based inclusive")
	cmd.Flags().StringVar(&pattern, "pattern", cfg.Run.Pattern, "Motif pattern, passed to the scanner unmodified")
	cmd.Flags().IntVar(&minRepeats, "min-repeats", cfg.Run.MinRepeat, "Minimum repeat count handed to the scanner")
	cmd.Flags().IntVar(&patWindow, "pattern-window", cfg.Run.PatWindow, "Scanner window size parameter")
	cmd.Flags().StringVar(&scannerCmd, "scanner-cmd", cfg.Scanner.Command, "External scanner command; empty uses the built-in regexp engine")
	_ = cmd.MarkFlagRequired("fasta")

	return cmd
}

func newAvgProbesCmd(cfg *config.Config) *cobra.Command {
	var dbURL string

	cmd := &cobra.Command{
		Use:   "avg-probes",
		Short: "Average technical-replicate microarray measurements per pig/time/probe",
		Long: `Run the replicate-averaging aggregation against Postgres and stream the
averaged rows as TSV. Upstream data preparation, independent of the
significance pipeline.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbURL == "" {
				return fmt.Errorf("database URL required (flag --db-url or DATABASE_URL)")
			}
			db, err := postgres.Connect(dbURL)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := postgres.NewProbeRepository(db)
			means, err := repo.AverageReplicates(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Println("pig_id\ttime_point\tprobe_id\tmean_intensity\treplicates")
			for _, m := range means {
				fmt.Printf("%s\t%d\t%s\t%.6g\t%d\n", m.PigID, m.TimePoint, m.ProbeID, m.MeanIntensity, m.Replicates)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbURL, "db-url", cfg.Database.URL, "Postgres connection URL")
	return cmd
}
