package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/marshallshelly/toolshop-fixtures/cmd/toolshop/output"
	"github.com/marshallshelly/toolshop-fixtures/cmd/toolshop/tui"
	"github.com/marshallshelly/toolshop-fixtures/pkg/config"
	"github.com/marshallshelly/toolshop-fixtures/pkg/fixture"
	"github.com/marshallshelly/toolshop-fixtures/pkg/pipeline"
	"github.com/marshallshelly/toolshop-fixtures/pkg/publish"
	"github.com/marshallshelly/toolshop-fixtures/pkg/sink"
)

var (
	// Generation flags, shared by generate and seed
	seed         uint64
	anchor       string
	categories   int
	users        int
	products     int
	transactions int

	// Generate flags
	outDir       string
	format       string
	withManifest bool
	interactive  bool
)

// generateCmd writes the catalog files
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate catalog files",
	Long: `Generate categories, users, products and transactions and write one file per table.

Stages run in dependency order. A stage that fails writes nothing and the stages that
depend on it report a missing prerequisite; the others still run.

Examples:
  toolshop generate                                  # 50/50/1000/1000 rows as CSV in .
  toolshop generate --out ./data --format xlsx       # One workbook per table
  toolshop generate --seed 7 --anchor 2025-01-01T00:00:00Z --manifest
  toolshop generate -i                               # Interactive progress view`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	addGenerationFlags(generateCmd)
	generateCmd.Flags().StringVarP(&outDir, "out", "o", ".", "Output directory")
	generateCmd.Flags().StringVarP(&format, "format", "f", string(sink.FormatCSV), "Output format (csv, xlsx)")
	generateCmd.Flags().BoolVar(&withManifest, "manifest", false, "Write manifest.json with row counts and checksums")
	generateCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Run in interactive mode with TUI")
}

func addGenerationFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(&seed, "seed", config.DefaultSeed, "Random seed; the same seed and anchor reproduce the same rows")
	cmd.Flags().StringVar(&anchor, "anchor", "", "Reference time for dates, RFC 3339 (default now)")
	cmd.Flags().IntVar(&categories, "categories", fixture.DefaultCategoryCount, "Number of categories")
	cmd.Flags().IntVar(&users, "users", fixture.DefaultUserCount, "Number of users")
	cmd.Flags().IntVar(&products, "products", fixture.DefaultProductCount, "Number of products")
	cmd.Flags().IntVar(&transactions, "transactions", fixture.DefaultTransactionCount, "Number of transactions")
}

// applyGenerationFlags overrides config values with the flags given on the command line.
func applyGenerationFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("anchor") {
		cfg.Anchor = anchor
	}
	if flags.Changed("categories") {
		cfg.Counts.Categories = categories
	}
	if flags.Changed("users") {
		cfg.Counts.Users = users
	}
	if flags.Changed("products") {
		cfg.Counts.Products = products
	}
	if flags.Changed("transactions") {
		cfg.Counts.Transactions = transactions
	}
}

func newGenerator() (*fixture.Generator, error) {
	var at time.Time
	if cfg.Anchor != "" {
		var err error
		at, err = time.Parse(time.RFC3339, cfg.Anchor)
		if err != nil {
			return nil, fmt.Errorf("invalid anchor %q: %w", cfg.Anchor, err)
		}
	}
	return fixture.NewSeededGenerator(cfg.Seed, at)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runGenerate(cmd *cobra.Command) error {
	applyGenerationFlags(cmd)
	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Output.Dir = outDir
	}
	if flags.Changed("format") {
		cfg.Output.Format = format
	}
	if flags.Changed("manifest") {
		cfg.Output.Manifest = withManifest
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	gen, err := newGenerator()
	if err != nil {
		return err
	}
	s, err := sink.NewFileSink(cfg.Output.Format, cfg.Output.Dir)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	var report *pipeline.Report
	if interactive {
		report, err = tui.RunGenerateUI(ctx, cfg.Output.Dir, cfg.Counts,
			func(ctx context.Context, observe func(pipeline.Event)) (*pipeline.Report, error) {
				// the alt screen owns the terminal; stage outcomes are shown by the TUI
				quiet := slog.New(slog.DiscardHandler)
				return pipeline.New(gen, s, cfg.Counts, pipeline.WithLogger(quiet), pipeline.WithObserver(observe)).Run(ctx)
			})
		if errors.Is(err, tui.ErrAborted) {
			output.Info("Cancelled, nothing was generated")
			return nil
		}
	} else {
		logger.Info("Generating catalog",
			"seed", cfg.Seed,
			"anchor", gen.Anchor().Format(time.RFC3339),
			"format", cfg.Output.Format,
			"out", cfg.Output.Dir,
		)
		report, err = pipeline.New(gen, s, cfg.Counts, pipeline.WithLogger(logger.Logger)).Run(ctx)
	}
	if err != nil {
		return err
	}

	if cfg.Output.Manifest {
		m, err := publish.NewManifest(cfg.Seed, gen.Anchor(), cfg.Output.Format, cfg.Counts, report)
		if err != nil {
			return fmt.Errorf("failed to build manifest: %w", err)
		}
		if err := m.Write(cfg.Output.Dir); err != nil {
			return err
		}
		logger.Info("Manifest written", "run_id", m.RunID, "files", len(m.Files))
	}

	return printReport(report)
}

// printReport shows one line per stage and fails when any stage produced no output.
func printReport(report *pipeline.Report) error {
	failed := report.Failed()

	if jsonOutput {
		type stage struct {
			pipeline.StageResult
			Error string `json:"error,omitempty"`
		}
		out := make([]stage, len(report.Stages))
		for i, s := range report.Stages {
			out[i] = stage{StageResult: s}
			if s.Err != nil {
				out[i].Error = s.Err.Error()
			}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	} else {
		output.Section("Generated Tables")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "TABLE\tSTATUS\tROWS\tDESTINATION")
		_, _ = fmt.Fprintln(w, "-----\t------\t----\t-----------")
		for _, s := range report.Stages {
			status, dest := "ok", s.Destination
			if !s.OK() {
				status, dest = "failed", s.Err.Error()
			}
			_, _ = fmt.Fprintf(w, "%s\t%s %s\t%d\t%s\n", s.Stage, output.StatusIcon(status), status, s.Rows, dest)
		}
		_ = w.Flush()
		fmt.Println()
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d stage(s) failed", len(failed), len(report.Stages))
	}
	if !jsonOutput {
		output.Success("Generated %d table(s)", len(report.Stages))
	}
	return nil
}
