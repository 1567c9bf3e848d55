package normalizer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/stmt-categorizer/internal/logging"
	"fjacquet/stmt-categorizer/internal/models"
	"fjacquet/stmt-categorizer/internal/parsererror"
)

func canonicalTable(rows ...[]string) *models.RawTable {
	return &models.RawTable{
		Headers: []string{models.FieldDate, models.FieldAmount, models.FieldDescription, models.FieldMerchantCode},
		Rows:    rows,
	}
}

func TestParseAmount(t *testing.T) {
	strip := New(Options{}, logging.NewMockLogger())
	negate := New(Options{NegateParenthesized: true}, logging.NewMockLogger())

	tests := []struct {
		raw        string
		stripped   string
		negated    string
		shouldFail bool
	}{
		{raw: "1,234.56", stripped: "1234.56", negated: "1234.56"},
		{raw: "(200.00)", stripped: "200", negated: "-200"},
		{raw: "-45.10", stripped: "-45.1", negated: "-45.1"},
		{raw: " +12.5 ", stripped: "12.5", negated: "12.5"},
		{raw: "(1,000)", stripped: "1000", negated: "-1000"},
		{raw: "AED 12", shouldFail: true},
		{raw: "", shouldFail: true},
		{raw: "()", shouldFail: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := strip.ParseAmount(tt.raw)
			if tt.shouldFail {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.stripped).Equal(got), "strip-only: got %s", got)

			got, err = negate.ParseAmount(tt.raw)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.negated).Equal(got), "negate: got %s", got)
		})
	}
}

func TestNormalize(t *testing.T) {
	n := New(Options{}, nil)
	table := canonicalTable(
		[]string{"2024-01-05", "1,234.56", "  Carrefour City ", "5411"},
		[]string{"01/06/2024", "(200.00)", "ATM fee", ""},
		[]string{"07-Jan-2024 ", "-3", "Careem", " 4121 "},
	)

	txs, err := n.Normalize(table, "bank.csv")
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), txs[0].Date)
	assert.Equal(t, "Carrefour City", txs[0].Description)
	assert.Equal(t, "5411", txs[0].MerchantCategoryCode)
	assert.True(t, decimal.RequireFromString("1234.56").Equal(txs[0].Amount))

	assert.Equal(t, time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), txs[1].Date)
	assert.True(t, decimal.NewFromInt(200).Equal(txs[1].Amount))

	assert.Equal(t, time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC), txs[2].Date)
	assert.Equal(t, "4121", txs[2].MerchantCategoryCode)
	assert.Empty(t, txs[2].Category)
}

func TestNormalize_WithoutMerchantCodeColumn(t *testing.T) {
	table := &models.RawTable{
		Headers: []string{models.FieldDescription, models.FieldDate, models.FieldAmount},
		Rows:    [][]string{{"Noon", "2024-02-01", "99"}},
	}
	txs, err := New(Options{}, nil).Normalize(table, "x.json")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "", txs[0].MerchantCategoryCode)
}

func TestNormalize_FailFast(t *testing.T) {
	tests := []struct {
		name  string
		row   []string
		field string
	}{
		{"bad date", []string{"someday", "1.00", "x", ""}, models.FieldDate},
		{"bad amount", []string{"2024-01-01", "1.0.0", "x", ""}, models.FieldAmount},
		{"empty amount", []string{"2024-01-01", " ", "x", ""}, models.FieldAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := canonicalTable([]string{"2024-01-01", "1", "ok", ""}, tt.row)
			txs, err := New(Options{}, nil).Normalize(table, "bank.csv")
			assert.Nil(t, txs)

			var parseErr *parsererror.ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.field, parseErr.Field)
			assert.Equal(t, 2, parseErr.Row)
			assert.Equal(t, "bank.csv", parseErr.FilePath)
		})
	}
}

func TestNormalize_MissingColumn(t *testing.T) {
	table := &models.RawTable{Headers: []string{models.FieldDate, models.FieldAmount}}
	_, err := New(Options{}, nil).Normalize(table, "a.csv")
	assert.ErrorIs(t, err, parsererror.ErrMissingField)
}
