package integration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fjacquet/stmt-categorizer/internal/config"
	"fjacquet/stmt-categorizer/internal/container"
	"fjacquet/stmt-categorizer/internal/logging"
	"fjacquet/stmt-categorizer/internal/models"
)

var statementRows = [][]string{
	{"Post Date", "Transaction Amount", "Transaction Details", "Merchant Category Code"},
	{"2024-03-01", "45.00", "Spinneys Marina", ""},
	{"2024-03-02", "(19.99)", "Netflix.com", ""},
	{"2024-03-03", "120.00", "Zzqx Holdings", "5812"},
	{"2024-03-04", "8.00", "Qwqwqw", ""},
}

func newContainer(t *testing.T, backend string) *container.Container {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Overrides.Backend = backend
	cfg.Overrides.Path = filepath.Join(dir, "overrides.store")
	cfg.Model.Directory = filepath.Join(dir, "models")
	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func csvStatement() []byte {
	var buf bytes.Buffer
	buf.WriteString("Exported from online banking\n\n")
	for _, row := range statementRows {
		for i, cell := range row {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(cell)
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func xlsxStatement(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)
	for i, row := range statementRows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &cells))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func jsonStatement() []byte {
	return []byte(`[
  {"Post Date": "2024-03-01", "Transaction Amount": "45.00", "Transaction Details": "Spinneys Marina", "Merchant Category Code": ""},
  {"Post Date": "2024-03-02", "Transaction Amount": "(19.99)", "Transaction Details": "Netflix.com", "Merchant Category Code": ""},
  {"Post Date": "2024-03-03", "Transaction Amount": "120.00", "Transaction Details": "Zzqx Holdings", "Merchant Category Code": "5812"},
  {"Post Date": "2024-03-04", "Transaction Amount": "8.00", "Transaction Details": "Qwqwqw", "Merchant Category Code": ""}
]`)
}

// TestCrossFormatConsistency imports the same statement from every supported
// container and expects identical transactions.
func TestCrossFormatConsistency(t *testing.T) {
	c := newContainer(t, config.OverrideBackendFile)
	ctx := context.Background()

	inputs := map[string][]byte{
		"statement.csv":  csvStatement(),
		"statement.xlsx": xlsxStatement(t),
		"statement.json": jsonStatement(),
	}

	var reference []models.Transaction
	for _, name := range []string{"statement.csv", "statement.xlsx", "statement.json"} {
		result, err := c.GetImporter().Import(ctx, inputs[name], name)
		require.NoError(t, err, name)
		require.Len(t, result.Transactions, 4, name)

		if reference == nil {
			reference = result.Transactions
			continue
		}
		for i, tx := range result.Transactions {
			assert.True(t, reference[i].Date.Equal(tx.Date), "%s row %d date", name, i+1)
			assert.True(t, reference[i].Amount.Equal(tx.Amount), "%s row %d amount", name, i+1)
			assert.Equal(t, reference[i].Description, tx.Description, "%s row %d", name, i+1)
			assert.Equal(t, reference[i].Category, tx.Category, "%s row %d", name, i+1)
		}
	}

	categories := make([]string, len(reference))
	for i, tx := range reference {
		categories[i] = tx.Category
	}
	assert.Equal(t, []string{
		models.CategoryGroceries,
		models.CategoryEntertainment,
		models.CategoryDining,
		models.CategoryOther,
	}, categories)
	assert.Equal(t, "19.99", reference[1].Amount.String())
}

// TestCorrectionLearning records a correction between two imports and checks
// that only later imports see it, for every override backend.
func TestCorrectionLearning(t *testing.T) {
	for _, backend := range []string{config.OverrideBackendFile, config.OverrideBackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			c := newContainer(t, backend)
			ctx := context.Background()

			first, err := c.GetImporter().Import(ctx, csvStatement(), "march.csv")
			require.NoError(t, err)
			last := first.Transactions[3]
			assert.Equal(t, models.CategoryOther, last.Category)

			last.Recategorize(models.CategoryPersonalCare)
			require.NoError(t, c.GetOverrideStore().Record(ctx, last.Description, last.Category))
			assert.True(t, last.Corrected())

			second, err := c.GetImporter().Import(ctx, csvStatement(), "march.csv")
			require.NoError(t, err)
			assert.Equal(t, models.CategoryPersonalCare, second.Transactions[3].Category)
			assert.Equal(t, models.CategoryPersonalCare, second.Transactions[3].OriginalCategory)
			assert.Equal(t, models.CategoryOther, first.Transactions[3].Category)
		})
	}
}

// TestBatchProcessingWithMixedFileTypes runs the worker pool over several
// formats plus one broken file.
func TestBatchProcessingWithMixedFileTypes(t *testing.T) {
	c := newContainer(t, config.OverrideBackendFile)
	dir := t.TempDir()

	files := map[string][]byte{
		"a.csv":  csvStatement(),
		"b.xlsx": xlsxStatement(t),
		"c.json": jsonStatement(),
		"d.csv":  []byte("Date,Amount\n2024-01-01,1\n"),
	}
	var paths []string
	for _, name := range []string{"a.csv", "b.xlsx", "c.json", "d.csv"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, files[name], 0o600))
		paths = append(paths, path)
	}

	results := c.GetBatchRunner().Run(context.Background(), paths, nil)
	require.Len(t, results, 4)
	for i, res := range results[:3] {
		require.NoError(t, res.Err, paths[i])
		assert.Len(t, res.Result.Transactions, 4)
		assert.Equal(t, "2024-03-01_2024-03-04", res.DateRange.String())
	}
	assert.ErrorContains(t, results[3].Err, "Description")

	var out bytes.Buffer
	require.NoError(t, c.GetCSVWriter().Write(&out, results[0].Result.Transactions))
	assert.Contains(t, out.String(), "2024-03-03,Zzqx Holdings,120.00,5812,Dining,Dining")
}
