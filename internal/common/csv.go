// Package common provides the canonical CSV export shared by every command.
package common

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"fjacquet/stmt-categorizer/internal/dateutils"
	"fjacquet/stmt-categorizer/internal/fileutils"
	"fjacquet/stmt-categorizer/internal/logging"
	"fjacquet/stmt-categorizer/internal/models"
)

// DefaultDelimiter is the field separator of exported files.
const DefaultDelimiter = ','

// TransactionRow is the exported form of a transaction.
type TransactionRow struct {
	Date                 string `csv:"Date"`
	Description          string `csv:"Description"`
	Amount               string `csv:"Amount"`
	MerchantCategoryCode string `csv:"MCC"`
	Category             string `csv:"Category"`
	OriginalCategory     string `csv:"OriginalCategory"`
}

// NewTransactionRow formats tx for export: ISO date, two decimal places.
func NewTransactionRow(tx models.Transaction) TransactionRow {
	return TransactionRow{
		Date:                 dateutils.ToISODate(tx.Date),
		Description:          tx.Description,
		Amount:               tx.Amount.StringFixed(2),
		MerchantCategoryCode: tx.MerchantCategoryCode,
		Category:             tx.Category,
		OriginalCategory:     tx.OriginalCategory,
	}
}

// CSVWriter writes transactions in the canonical layout.
type CSVWriter struct {
	delimiter rune
	logger    logging.Logger
}

// NewCSVWriter creates a CSVWriter. A zero delimiter selects DefaultDelimiter.
func NewCSVWriter(delimiter rune, logger logging.Logger) *CSVWriter {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	return &CSVWriter{delimiter: delimiter, logger: logging.OrDefault(logger)}
}

// Write marshals transactions to out, header first.
func (w *CSVWriter) Write(out io.Writer, transactions []models.Transaction) error {
	if transactions == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}

	rows := make([]TransactionRow, 0, len(transactions))
	for _, tx := range transactions {
		rows = append(rows, NewTransactionRow(tx))
	}

	csvWriter := csv.NewWriter(out)
	csvWriter.Comma = w.delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteFile writes transactions to csvFile, creating parent directories.
func (w *CSVWriter) WriteFile(csvFile string, transactions []models.Transaction) error {
	file, err := fileutils.CreateFile(csvFile)
	if err != nil {
		return err
	}
	defer func() {
		if err := file.Close(); err != nil {
			w.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := w.Write(file, transactions); err != nil {
		w.logger.WithError(err).Error("Failed to marshal transactions to CSV")
		return err
	}

	w.logger.Info("Wrote transactions to CSV file",
		logging.Field{Key: logging.FieldOutputFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)})
	return nil
}
