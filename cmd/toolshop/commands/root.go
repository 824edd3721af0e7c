package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marshallshelly/toolshop-fixtures/cmd/toolshop/output"
	"github.com/marshallshelly/toolshop-fixtures/pkg/config"
	"github.com/marshallshelly/toolshop-fixtures/pkg/logging"
)

var (
	// Global flags
	configFile string
	envFile    string
	verbose    bool
	jsonOutput bool
	logFormat  string
	logFile    string

	cfg    *config.Config
	logger *logging.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "toolshop",
	Short: "Toolshop fixtures - deterministic demo data for the Toolshop catalog",
	Long: `Toolshop generates a self-consistent e-commerce catalog for demos and tests:
categories, users, products and transactions that reference each other.

Features:
  - Reproducible output for a fixed seed and anchor time
  - CSV and XLSX writers, plus direct Postgres seeding
  - Read-back verification of every cross-file reference
  - Run manifests with checksums, publishable to S3-compatible storage
  - Interactive TUI and non-interactive CLI modes`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logger != nil {
			return logger.Close()
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		output.Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Env file with TOOLSHOP_* variables (default ./.env if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to this file, rotated")
}

// loadConfig layers defaults, the config file, the environment and global flags.
func loadConfig(cmd *cobra.Command) error {
	cfg = config.New()

	if configFile != "" {
		if err := cfg.LoadFile(configFile); err != nil {
			return err
		}
	}

	var envFiles []string
	if envFile != "" {
		envFiles = append(envFiles, envFile)
	}
	if err := cfg.LoadEnv(envFiles...); err != nil {
		return err
	}

	flags := cmd.Flags()
	if verbose {
		cfg.Log.Level = "debug"
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}

	var err error
	logger, err = logging.Setup(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	logger.Debug("Configuration loaded", "config", cfg)
	return nil
}
