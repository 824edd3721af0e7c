package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marshallshelly/toolshop-fixtures/cmd/toolshop/output"
	"github.com/marshallshelly/toolshop-fixtures/pkg/pipeline"
	"github.com/marshallshelly/toolshop-fixtures/pkg/sink"
)

var (
	// Seed flags
	dbURL    string
	truncate bool
)

// seedCmd loads the catalog straight into Postgres
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed a Postgres database with the catalog",
	Long: `Generate the catalog and bulk load it into Postgres with COPY.

The categories, users, products and transactions tables are created if missing.
Rows match what generate writes for the same seed and anchor.

Examples:
  toolshop seed --db postgres://localhost/toolshop              # Load into existing tables
  toolshop seed --db postgres://localhost/toolshop --truncate   # Replace previous fixtures
  TOOLSHOP_DB_URL=postgres://localhost/toolshop toolshop seed`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	addGenerationFlags(seedCmd)
	seedCmd.Flags().StringVar(&dbURL, "db", "", "Database connection URL")
	seedCmd.Flags().BoolVar(&truncate, "truncate", false, "Empty the catalog tables before loading")
}

func runSeed(cmd *cobra.Command) error {
	applyGenerationFlags(cmd)
	if cmd.Flags().Changed("db") {
		cfg.Database.URL = dbURL
	}
	if cmd.Flags().Changed("truncate") {
		cfg.Database.Truncate = truncate
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("--db flag or TOOLSHOP_DB_URL is required")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	gen, err := newGenerator()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	pool, err := sink.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	pg := sink.NewPostgres(pool)
	if err := pg.EnsureSchema(ctx); err != nil {
		return err
	}
	if cfg.Database.Truncate {
		if err := pg.Truncate(ctx); err != nil {
			return err
		}
		output.Warning("Catalog tables truncated")
	}

	logger.Info("Seeding database", "seed", cfg.Seed, "counts", cfg.Counts)
	report, err := pipeline.New(gen, pg, cfg.Counts, pipeline.WithLogger(logger.Logger)).Run(ctx)
	if err != nil {
		return err
	}
	return printReport(report)
}
