// Package categorize handles transaction categorization commands
package categorize

import (
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/stmt-categorizer/cmd/root"
)

var (
	// Description is the transaction text to categorize.
	Description string
	// MerchantCode is the optional merchant category code.
	MerchantCode string
	// Explain prints the outcome of every stage.
	Explain bool
	// List prints the known categories and exits.
	List bool
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize a single transaction",
	Long: `Categorize a single transaction from its description and optional merchant
category code, using the same chain as statement imports.

Example:
  stmt-categorizer categorize --description "CARREFOUR CITY" --mcc 5411`,
	RunE: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&Description, "description", "d", "", "Transaction description")
	Cmd.Flags().StringVarP(&MerchantCode, "mcc", "m", "", "Merchant category code (optional)")
	Cmd.Flags().BoolVarP(&Explain, "explain", "e", false, "Show the result of every categorization stage")
	Cmd.Flags().BoolVarP(&List, "list", "l", false, "List the known categories")
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	cat := c.GetCategorizer()
	out := cmd.OutOrStdout()

	if List {
		for _, name := range cat.Categories() {
			_, _ = fmt.Fprintln(out, name)
		}
		return nil
	}

	if Description == "" && MerchantCode == "" {
		return fmt.Errorf("a description or a merchant code is required")
	}

	if Explain {
		results, err := cat.Explain(cmd.Context(), Description, MerchantCode)
		if err != nil {
			return err
		}
		for _, r := range results.Results {
			switch {
			case r.Error != nil:
				_, _ = fmt.Fprintf(out, "%-13s error: %v\n", r.Strategy, r.Error)
			case r.Found:
				_, _ = fmt.Fprintf(out, "%-13s %s\n", r.Strategy, r.Category.Name)
			default:
				_, _ = fmt.Fprintf(out, "%-13s -\n", r.Strategy)
			}
		}
	}

	category, err := cat.AssignCategory(cmd.Context(), Description, MerchantCode)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Category: %s\n", category)
	return nil
}
