// Package convert imports one statement file and writes it as categorized CSV.
package convert

import (
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/stmt-categorizer/cmd/root"
	"fjacquet/stmt-categorizer/internal/logging"
)

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a statement file to categorized CSV",
	Long: `Convert a CSV, XLSX, XLS or JSON statement to the canonical CSV layout
(Date, Description, Amount, MCC, Category, OriginalCategory).
Without -o the result is written to standard output.

Example:
  stmt-categorizer convert -i statement.xlsx -o statement.csv`,
	RunE: convertFunc,
}

func convertFunc(cmd *cobra.Command, args []string) error {
	input := root.SharedFlags.Input
	output := root.SharedFlags.Output
	if input == "" {
		return fmt.Errorf("an input file is required (-i)")
	}

	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("container not initialized")
	}

	result, err := c.GetImporter().ImportFile(cmd.Context(), input)
	if err != nil {
		return err
	}

	if output == "" {
		return c.GetCSVWriter().Write(cmd.OutOrStdout(), result.Transactions)
	}
	if err := c.GetCSVWriter().WriteFile(output, result.Transactions); err != nil {
		return err
	}

	c.GetLogger().Info("Conversion completed",
		logging.Field{Key: logging.FieldImportID, Value: result.ImportID},
		logging.Field{Key: logging.FieldFile, Value: input},
		logging.Field{Key: logging.FieldOutputFile, Value: output},
		logging.Field{Key: logging.FieldCount, Value: len(result.Transactions)})
	return nil
}
