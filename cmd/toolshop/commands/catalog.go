package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marshallshelly/toolshop-fixtures/cmd/toolshop/output"
	"github.com/marshallshelly/toolshop-fixtures/pkg/fixture"
	"github.com/marshallshelly/toolshop-fixtures/pkg/reference"
)

// catalogCmd prints the static vocabulary
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the category taxonomy and value lists",
	Long: `Show the category taxonomy and the fixed value lists products and
transactions draw from.

Examples:
  toolshop catalog          # Human-readable listing
  toolshop catalog --json   # JSON output`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCatalog()
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog() error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"taxonomy":            reference.Taxonomy,
			"co2Ratings":          reference.CO2Ratings,
			"transactionStatuses": reference.TransactionStatuses,
			"paymentMethods":      reference.PaymentMethods,
		})
	}

	output.Section("Category Taxonomy")
	for _, g := range reference.Taxonomy {
		output.Primary("%s (%s)", g.Name, fixture.Slugify(g.Name))
		for _, child := range g.Children {
			fmt.Printf("  %s %s\n", output.StatusIcon(""), child)
		}
		fmt.Println()
	}
	output.Info("%d groups, %d child categories; counts above %d add %q fillers under %s",
		len(reference.Taxonomy), reference.ChildCount(),
		len(reference.Taxonomy)+reference.ChildCount(), "Specialty Tool N", reference.FallbackGroup)

	output.Section("Value Lists")
	output.Primary("CO2 ratings")
	output.Muted("  %s", strings.Join(reference.CO2Ratings, ", "))
	output.Primary("Transaction statuses")
	output.Muted("  %s", strings.Join(reference.TransactionStatuses, ", "))
	output.Primary("Payment methods")
	output.Muted("  %s", strings.Join(reference.PaymentMethods, ", "))
	return nil
}
