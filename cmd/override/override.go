// Package override records user corrections.
package override

import (
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/stmt-categorizer/cmd/root"
	"fjacquet/stmt-categorizer/internal/logging"
)

var (
	// Description is the transaction text being corrected.
	Description string
	// Category is the category to assign from now on.
	Category string
)

// Cmd represents the override command
var Cmd = &cobra.Command{
	Use:   "override",
	Short: "Record a category correction for a description",
	Long: `Record that a description always belongs to a category. The correction
takes precedence over every other rule in later imports. Descriptions are
matched case-insensitively.

Example:
  stmt-categorizer override --description "ACME LTD 0042" --category Shopping`,
	RunE: overrideFunc,
}

func init() {
	Cmd.Flags().StringVarP(&Description, "description", "d", "", "Transaction description")
	Cmd.Flags().StringVarP(&Category, "category", "c", "", "Category to assign")
	_ = Cmd.MarkFlagRequired("description")
	_ = Cmd.MarkFlagRequired("category")
}

func overrideFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("container not initialized")
	}

	known := false
	for _, name := range c.GetCategorizer().Categories() {
		if name == Category {
			known = true
			break
		}
	}
	if !known {
		c.GetLogger().Warn("Category is not part of the rule vocabulary",
			logging.Field{Key: logging.FieldCategory, Value: Category})
	}

	if err := c.GetOverrideStore().Record(cmd.Context(), Description, Category); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Recorded: %q -> %s\n", Description, Category)
	return nil
}
