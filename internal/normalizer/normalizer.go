// Package normalizer converts a loaded statement table into canonical
// transactions. Any cell that cannot be converted fails the whole import.
package normalizer

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"fjacquet/stmt-categorizer/internal/dateutils"
	"fjacquet/stmt-categorizer/internal/logging"
	"fjacquet/stmt-categorizer/internal/models"
	"fjacquet/stmt-categorizer/internal/parsererror"
)

// ErrEmptyAmount is the cause reported for a blank amount cell.
var ErrEmptyAmount = errors.New("empty amount")

// Options control sign handling.
type Options struct {
	// NegateParenthesized makes "(200.00)" parse as -200.00. By default the
	// parentheses are stripped and the value keeps a positive sign.
	NegateParenthesized bool
}

// Normalizer converts raw tables to transactions.
type Normalizer struct {
	opts   Options
	logger logging.Logger
}

// New creates a Normalizer.
func New(opts Options, logger logging.Logger) *Normalizer {
	return &Normalizer{opts: opts, logger: logging.OrDefault(logger)}
}

// Normalize converts every row of table. filename is only used in errors.
// Transactions are returned uncategorized.
func (n *Normalizer) Normalize(table *models.RawTable, filename string) ([]models.Transaction, error) {
	for _, field := range models.RequiredFields {
		if !table.HasColumn(field) {
			return nil, &parsererror.MissingFieldError{FilePath: filename, Fields: []string{field}}
		}
	}

	dateCol := table.Column(models.FieldDate)
	amountCol := table.Column(models.FieldAmount)
	descCol := table.Column(models.FieldDescription)
	mccCol := table.Column(models.FieldMerchantCode)

	transactions := make([]models.Transaction, 0, table.Len())
	for i, row := range table.Rows {
		rowNum := i + 1

		date, err := dateutils.ParseCalendarDate(row[dateCol])
		if err != nil {
			return nil, &parsererror.ParseError{
				FilePath: filename, Row: rowNum, Field: models.FieldDate, Value: row[dateCol], Err: err,
			}
		}

		amount, err := n.ParseAmount(row[amountCol])
		if err != nil {
			return nil, &parsererror.ParseError{
				FilePath: filename, Row: rowNum, Field: models.FieldAmount, Value: row[amountCol], Err: err,
			}
		}

		tx := models.Transaction{
			Date:        date,
			Description: strings.TrimSpace(row[descCol]),
			Amount:      amount,
		}
		if mccCol >= 0 {
			tx.MerchantCategoryCode = strings.TrimSpace(row[mccCol])
		}
		transactions = append(transactions, tx)
	}

	n.logger.Debug("Normalized rows",
		logging.Field{Key: logging.FieldFile, Value: filename},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)})
	return transactions, nil
}

// ParseAmount strips thousands separators and accounting parentheses and
// parses what is left as a decimal.
func (n *Normalizer) ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", "")

	parenthesized := strings.ContainsAny(s, "()")
	s = strings.NewReplacer("(", "", ")", "").Replace(s)
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")

	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if parenthesized && n.opts.NegateParenthesized && amount.IsPositive() {
		amount = amount.Neg()
	}
	return amount, nil
}
