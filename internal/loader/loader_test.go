package loader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fjacquet/stmt-categorizer/internal/logging"
	"fjacquet/stmt-categorizer/internal/models"
	"fjacquet/stmt-categorizer/internal/normalizer"
	"fjacquet/stmt-categorizer/internal/parsererror"
	"fjacquet/stmt-categorizer/internal/rules"
)

const preambleCSV = `Account Statement,,
Period: January 2024,,
Transaction Date,Debit Amount,Narrative
2024-01-05,"1,234.56",CARREFOUR CITY CENTRE
01/06/2024,(200.00),ATM FEE
`

func newTestLoader() *Loader {
	return New(rules.DefaultSynonyms(), Options{HeaderScanRows: 10, Threshold: 60}, logging.NewMockLogger())
}

func TestHeaderLocator_Locate(t *testing.T) {
	locator := NewHeaderLocator(rules.DefaultSynonyms(), 10)

	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"header after preamble", preambleCSV, 2},
		{"header on first line", "Date,Amount,Description\n2024-01-01,1,x\n", 0},
		{"details instead of description", "x\nDATE , AMOUNT , DETAILS\n", 1},
		{"no header anywhere", "a,b,c\n1,2,3\n", 0},
		{"empty input", "", 0},
		{"byte order mark", "\ufeffDate,Amount,Memo\n", 0},
		{"bare quote in preamble", "Bank \"Ltd\nDate,Amount,Remarks\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, locator.Locate([]byte(tt.content)))
		})
	}
}

func TestHeaderLocator_WindowLimit(t *testing.T) {
	content := "p\np\np\nDate,Amount,Description\n"
	assert.Equal(t, 0, NewHeaderLocator(rules.DefaultSynonyms(), 3).Locate([]byte(content)))
	assert.Equal(t, 3, NewHeaderLocator(rules.DefaultSynonyms(), 4).Locate([]byte(content)))
}

func TestFieldReconciler_Reconcile(t *testing.T) {
	r := NewFieldReconciler(rules.DefaultSynonyms(), 60)

	t.Run("synonyms", func(t *testing.T) {
		m := r.Reconcile([]string{"Transaction Date", "Debit Amount", "Narrative", "MCC"})
		for field, want := range map[string]int{
			models.FieldDate: 0, models.FieldAmount: 1, models.FieldDescription: 2, models.FieldMerchantCode: 3,
		} {
			idx, ok := m.Column(field)
			require.True(t, ok, field)
			assert.Equal(t, want, idx, field)
		}
		assert.Empty(t, m.Missing(models.RequiredFields))
		assert.InDelta(t, 100, m.Score(models.FieldDate), 0.01)
	})

	t.Run("punctuation and word order", func(t *testing.T) {
		m := r.Reconcile([]string{"amount_debit", "posted-date", "Transaction Remarks"})
		idx, _ := m.Column(models.FieldAmount)
		assert.Equal(t, 0, idx)
		idx, _ = m.Column(models.FieldDate)
		assert.Equal(t, 1, idx)
		idx, _ = m.Column(models.FieldDescription)
		assert.Equal(t, 2, idx)
	})

	t.Run("description falls back to first unclaimed column", func(t *testing.T) {
		m := r.Reconcile([]string{"Date", "Merchant Name", "Amount"})
		idx, ok := m.Column(models.FieldDescription)
		require.True(t, ok)
		assert.Equal(t, 1, idx)
		assert.Equal(t, 0.0, m.Score(models.FieldDescription))
	})

	t.Run("a header is claimed once", func(t *testing.T) {
		m := r.Reconcile([]string{"Date", "Amount"})
		assert.Equal(t, []string{models.FieldDescription}, m.Missing(models.RequiredFields))
	})
}

func TestLoader_CSVWithPreamble(t *testing.T) {
	table, err := newTestLoader().Load([]byte(preambleCSV), "bank.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{models.FieldDate, models.FieldAmount, models.FieldDescription}, table.Headers)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "1,234.56", table.Value(0, models.FieldAmount))
	assert.Equal(t, "ATM FEE", table.Value(1, models.FieldDescription))
	assert.Equal(t, "(200.00)", table.Value(1, models.FieldAmount))
}

func TestLoader_CSVEdgeRows(t *testing.T) {
	content := " Date , Amount ,Description,\n2024-01-01,5,short\n,,,\n\n2024-01-02,6\n"
	table, err := newTestLoader().Load([]byte(content), "edge.CSV")
	require.NoError(t, err)

	require.Equal(t, 2, table.Len())
	assert.Equal(t, "", table.Value(1, models.FieldDescription))
	assert.Len(t, table.Rows[1], len(table.Headers))
}

func TestLoader_ExtraCells(t *testing.T) {
	content := "Date,Amount,Description\n2024-01-01,5,a,unexpected\n"
	_, err := newTestLoader().Load([]byte(content), "x.csv")
	assert.ErrorIs(t, err, parsererror.ErrInvalidFormat)
}

func TestLoader_UnmappedColumnWithCanonicalName(t *testing.T) {
	content := "Date,Debit Amount,Amount,Details\n2024-01-01,10,999,Taxi\n"
	table, err := newTestLoader().Load([]byte(content), "x.csv")
	require.NoError(t, err)

	assert.Equal(t, "10", table.Value(0, models.FieldAmount))
	assert.Equal(t, "999", table.Value(0, "Amount (unmapped)"))
}

func TestLoader_MissingDescription(t *testing.T) {
	_, err := newTestLoader().Load([]byte("Date,Amount\n2024-01-05,10\n"), "thin.csv")

	var missing *parsererror.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{models.FieldDescription}, missing.Fields)
	assert.Equal(t, "thin.csv", missing.FilePath)
	assert.Contains(t, err.Error(), "Description")
	assert.Contains(t, err.Error(), "thin.csv")
}

func TestLoader_UnsupportedFormat(t *testing.T) {
	for _, name := range []string{"statement.pdf", "statement", "statement.txt"} {
		_, err := newTestLoader().Load([]byte("Date,Amount,Description\n"), name)
		assert.ErrorIs(t, err, parsererror.ErrUnsupportedFormat, name)
	}
	assert.True(t, SupportedExtension("a.XLSX"))
	assert.False(t, SupportedExtension("a.ods"))
}

func TestLoader_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Value Date", "Transaction Amount", "Remarks", "Merchant Category Code"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"2024-02-01", "-15.75", "Careem ride", "4121"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	table, err := newTestLoader().Load(buf.Bytes(), "card.xlsx")
	require.NoError(t, err)

	assert.Equal(t, []string{models.FieldDate, models.FieldAmount, models.FieldDescription, models.FieldMerchantCode}, table.Headers)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "Careem ride", table.Value(0, models.FieldDescription))
	assert.Equal(t, "4121", table.Value(0, models.FieldMerchantCode))
}

func TestLoader_XLSXBuiltInDateFormats(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Date", "Amount", "Description"}))

	day := time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC)
	formats := []int{14, 15, 22}
	for i, numFmt := range formats {
		row := i + 2
		cell, err := excelize.CoordinatesToCellName(1, row)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &[]interface{}{day, 10, "Spinneys"}))
		style, err := f.NewStyle(&excelize.Style{NumFmt: numFmt})
		require.NoError(t, err)
		require.NoError(t, f.SetCellStyle(sheet, cell, cell, style))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	table, err := newTestLoader().Load(buf.Bytes(), "dates.xlsx")
	require.NoError(t, err)
	txs, err := normalizer.New(normalizer.Options{}, logging.NewMockLogger()).Normalize(table, "dates.xlsx")
	require.NoError(t, err)

	require.Len(t, txs, len(formats))
	for i, tx := range txs {
		assert.Equal(t, day, tx.Date, "numFmt %d rendered as %q", formats[i], table.Value(i, models.FieldDate))
	}
}

func TestLoader_XLS(t *testing.T) {
	content, err := os.ReadFile(filepath.Join("testdata", "statement.xls"))
	require.NoError(t, err)

	table, err := newTestLoader().Load(content, "statement.xls")
	require.NoError(t, err)

	assert.Equal(t, []string{models.FieldDate, models.FieldAmount, models.FieldDescription, models.FieldMerchantCode}, table.Headers)
	require.Equal(t, 3, table.Len())
	assert.Equal(t, "2024-03-06", table.Value(0, models.FieldDate))
	assert.Equal(t, "2024-03-07 12:00:00", table.Value(1, models.FieldDate))
	assert.Equal(t, "2024-03-08", table.Value(2, models.FieldDate))
	assert.Equal(t, "-42.5", table.Value(0, models.FieldAmount))
	assert.Equal(t, "5411", table.Value(0, models.FieldMerchantCode))
	assert.Equal(t, "", table.Value(1, models.FieldMerchantCode))

	txs, err := normalizer.New(normalizer.Options{}, logging.NewMockLogger()).Normalize(table, "statement.xls")
	require.NoError(t, err)
	require.Len(t, txs, 3)

	want := []struct {
		date   time.Time
		amount string
		desc   string
	}{
		{time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC), "-42.5", "Spinneys Marina"},
		{time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC), "1200", "Salary March"},
		{time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC), "-9.99", "Netflix.com"},
	}
	for i, w := range want {
		assert.Equal(t, w.date, txs[i].Date)
		assert.True(t, decimal.RequireFromString(w.amount).Equal(txs[i].Amount), "row %d amount %s", i, txs[i].Amount)
		assert.Equal(t, w.desc, txs[i].Description)
	}
	assert.Equal(t, "5411", txs[0].MerchantCategoryCode)
}

func TestIsDateFormat(t *testing.T) {
	tests := []struct {
		name string
		id   int
		code string
		want bool
	}{
		{"built-in short date", 14, "", true},
		{"built-in date time", 22, "", true},
		{"built-in general", 0, "", false},
		{"built-in thousands", 4, "", false},
		{"custom day first", 164, "dd/mm/yyyy", true},
		{"custom month name", 165, "mmm-yy", true},
		{"custom currency", 166, `"AED" #,##0.00;[Red]-#,##0.00`, false},
		{"quoted letters ignored", 167, `0.00" days"`, false},
		{"locale prefix", 168, "[$-409]d-mmm-yyyy", true},
		{"general code", 169, "General", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isDateFormat(tt.id, tt.code))
		})
	}
}

func TestExcelSerialText(t *testing.T) {
	text, ok := excelSerialText(45357)
	require.True(t, ok)
	assert.Equal(t, "2024-03-06", text)

	text, ok = excelSerialText(45358.5)
	require.True(t, ok)
	assert.Equal(t, "2024-03-07 12:00:00", text)

	_, ok = excelSerialText(-1)
	assert.False(t, ok)
}

func TestLoader_InvalidWorkbooks(t *testing.T) {
	_, err := newTestLoader().Load([]byte("definitely not a zip"), "broken.xlsx")
	assert.ErrorIs(t, err, parsererror.ErrInvalidFormat)

	_, err = newTestLoader().Load([]byte("definitely not a compound file"), "broken.xls")
	assert.ErrorIs(t, err, parsererror.ErrInvalidFormat)
}

func TestLoader_JSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "records",
			content: `[{"Post Date": "2024-03-01", "Amount": -12.5, "Memo": "Netflix", "MCC": null}, {"Post Date": "2024-03-02", "Amount": 3, "Memo": "Refund"}]`,
		},
		{
			name:    "columns as arrays",
			content: `{"Post Date": ["2024-03-01", "2024-03-02"], "Amount": [-12.5, 3], "Memo": ["Netflix", "Refund"]}`,
		},
		{
			name:    "columns keyed by row",
			content: `{"Post Date": {"0": "2024-03-01", "1": "2024-03-02"}, "Amount": {"0": -12.5, "1": 3}, "Memo": {"1": "Refund", "0": "Netflix"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := newTestLoader().Load([]byte(tt.content), "export.json")
			require.NoError(t, err)
			require.Equal(t, 2, table.Len())
			assert.Equal(t, models.FieldDate, table.Headers[0])
			assert.Equal(t, "-12.5", table.Value(0, models.FieldAmount))
			assert.Equal(t, "Netflix", table.Value(0, models.FieldDescription))
			assert.Equal(t, "Refund", table.Value(1, models.FieldDescription))
		})
	}
}

func TestLoader_InvalidJSON(t *testing.T) {
	for name, content := range map[string]string{
		"truncated":    `[{"Date": "2024-01-01"`,
		"nested value": `[{"Date": "2024-01-01", "Amount": {"v": 1}, "Memo": "x"}]`,
		"scalar root":  `42`,
		"empty list":   `[]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := newTestLoader().Load([]byte(content), "bad.json")
			assert.ErrorIs(t, err, parsererror.ErrInvalidFormat)
		})
	}
}
