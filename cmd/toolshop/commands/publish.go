package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marshallshelly/toolshop-fixtures/cmd/toolshop/output"
	"github.com/marshallshelly/toolshop-fixtures/pkg/publish"
)

var (
	// Publish flags
	publishDir string
	endpoint   string
	bucket     string
	prefix     string
)

// publishCmd uploads a run to object storage
var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload a generated run to S3-compatible storage",
	Long: `Upload every file listed in manifest.json, then the manifest, to
{bucket}/{prefix}/{run id}/. The bucket is created if it does not exist.
Run generate with --manifest first.

Credentials come from TOOLSHOP_S3_ACCESS_KEY and TOOLSHOP_S3_SECRET_KEY.

Examples:
  toolshop publish --dir ./data --endpoint localhost:9000 --bucket fixtures
  toolshop publish --dir ./data --prefix nightly`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPublish(cmd)
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().StringVarP(&publishDir, "dir", "d", "", "Run directory (default output.dir from config)")
	publishCmd.Flags().StringVar(&endpoint, "endpoint", "", "S3 endpoint, host:port")
	publishCmd.Flags().StringVar(&bucket, "bucket", "", "Bucket name")
	publishCmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix")
}

func runPublish(cmd *cobra.Command) error {
	flags := cmd.Flags()
	dir := cfg.Output.Dir
	if flags.Changed("dir") {
		dir = publishDir
	}
	if flags.Changed("endpoint") {
		cfg.Storage.Endpoint = endpoint
	}
	if flags.Changed("bucket") {
		cfg.Storage.Bucket = bucket
	}
	if flags.Changed("prefix") {
		cfg.Storage.Prefix = prefix
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	m, err := publish.ReadManifest(dir)
	if err != nil {
		return fmt.Errorf("%w (run generate with --manifest first)", err)
	}

	ctx, stop := signalContext()
	defer stop()

	uploader, err := publish.NewUploader(ctx, cfg.Storage, logger.Logger)
	if err != nil {
		return err
	}

	uploaded, err := uploader.Upload(ctx, dir, m)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(uploaded)
	}

	output.Section("Published Run " + m.RunID)
	for _, u := range uploaded {
		output.Muted("  s3://%s/%s (%d bytes)", cfg.Storage.Bucket, u.Key, u.Size)
	}
	fmt.Println()
	output.Success("Uploaded %d object(s)", len(uploaded))
	return nil
}
