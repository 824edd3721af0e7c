package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/marshallshelly/toolshop-fixtures/cmd/toolshop/output"
	"github.com/marshallshelly/toolshop-fixtures/pkg/pipeline"
	"github.com/marshallshelly/toolshop-fixtures/pkg/publish"
	"github.com/marshallshelly/toolshop-fixtures/pkg/verify"
)

var (
	// Verify flags
	verifyDir     string
	maxViolations int
)

// verifyCmd checks a generated CSV catalog
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check a generated CSV catalog",
	Long: `Read a generated CSV catalog back and check every cross-file reference:
contiguous ids, category parents, product categories, transaction users, purchased items
and totals. When a manifest is present, file checksums are checked too.

Examples:
  toolshop verify --dir ./data           # Report violations
  toolshop verify --dir ./data --json    # Machine-readable result`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerify(cmd)
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVarP(&verifyDir, "dir", "d", "", "Catalog directory (default output.dir from config)")
	verifyCmd.Flags().IntVar(&maxViolations, "max", 20, "Maximum violations to print (0 for all)")
}

func runVerify(cmd *cobra.Command) error {
	dir := cfg.Output.Dir
	if cmd.Flags().Changed("dir") {
		dir = verifyDir
	}

	result, err := verify.Dir(dir)
	if err != nil {
		return err
	}

	checksumErr := checkManifest(dir)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		output.Section("Catalog Verification")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "TABLE\tROWS")
		_, _ = fmt.Fprintln(w, "-----\t----")
		for _, stage := range pipeline.Stages {
			_, _ = fmt.Fprintf(w, "%s\t%d\n", stage, result.Rows[stage])
		}
		_ = w.Flush()
		fmt.Println()

		for i, v := range result.Violations {
			if maxViolations > 0 && i == maxViolations {
				output.Muted("  ... %d more", len(result.Violations)-maxViolations)
				break
			}
			output.Error("%s", v)
		}
	}

	if checksumErr != nil {
		return checksumErr
	}
	if !result.OK() {
		return fmt.Errorf("%d violation(s) found", len(result.Violations))
	}
	if !jsonOutput {
		output.Success("Catalog is consistent")
	}
	return nil
}

// checkManifest verifies checksums when dir holds a manifest.
func checkManifest(dir string) error {
	m, err := publish.ReadManifest(dir)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("No manifest, skipping checksums", "dir", dir)
		return nil
	}
	if err != nil {
		return err
	}
	if err := m.Check(dir); err != nil {
		return fmt.Errorf("manifest %s: %w", m.RunID, err)
	}
	logger.Info("Checksums match", "run_id", m.RunID, "files", len(m.Files))
	return nil
}
