// Package loader reads statement exports into a RawTable with canonical
// column names. It locates the header row of CSV files, reconciles the
// source headers against the synonym registry and rejects files missing a
// required column.
package loader

import (
	"path/filepath"
	"strings"

	"fjacquet/stmt-categorizer/internal/logging"
	"fjacquet/stmt-categorizer/internal/models"
	"fjacquet/stmt-categorizer/internal/parsererror"
	"fjacquet/stmt-categorizer/internal/rules"
)

// Format identifies a supported container.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatJSON Format = "json"
)

// DetectFormat maps the filename extension to a Format.
func DetectFormat(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", &parsererror.UnsupportedFormatError{FilePath: filename, Extension: ext}
	}
}

// SupportedExtension reports whether filename has a loadable extension.
func SupportedExtension(filename string) bool {
	_, err := DetectFormat(filename)
	return err == nil
}

// Options tune header detection and reconciliation.
type Options struct {
	HeaderScanRows int
	Threshold      float64
}

// Loader turns file bytes into a canonical RawTable.
type Loader struct {
	locator    *HeaderLocator
	reconciler *FieldReconciler
	logger     logging.Logger
}

// New creates a Loader. A nil registry uses the built-in synonyms.
func New(registry *rules.SynonymRegistry, opts Options, logger logging.Logger) *Loader {
	if registry == nil {
		registry = rules.DefaultSynonyms()
	}
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	return &Loader{
		locator:    NewHeaderLocator(registry, opts.HeaderScanRows),
		reconciler: NewFieldReconciler(registry, opts.Threshold),
		logger:     logging.OrDefault(logger),
	}
}

// Load reads content according to the extension of filename and renames the
// reconciled columns to Date, Amount, Description and MCC.
func (l *Loader) Load(content []byte, filename string) (*models.RawTable, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}
	logger := l.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: filename},
		logging.Field{Key: logging.FieldFormat, Value: string(format)},
	)

	var table *models.RawTable
	switch format {
	case FormatCSV:
		skip := l.locator.Locate(content)
		if skip > 0 {
			logger.Debug("Header row located", logging.Field{Key: logging.FieldHeaderOffset, Value: skip})
		}
		table, err = readCSV(content, skip, filename)
	case FormatXLSX:
		table, err = readXLSX(content, filename)
	case FormatXLS:
		table, err = readXLS(content, filename)
	case FormatJSON:
		table, err = readJSON(content, filename)
	}
	if err != nil {
		return nil, err
	}

	mapping := l.reconciler.Reconcile(table.Headers)
	if missing := mapping.Missing(models.RequiredFields); len(missing) > 0 {
		logger.Warn("Required columns not found",
			logging.Field{Key: logging.FieldReason, Value: strings.Join(missing, ", ")},
			logging.Field{Key: logging.FieldColumn, Value: table.Headers})
		return nil, &parsererror.MissingFieldError{FilePath: filename, Fields: missing}
	}

	applyMapping(table, mapping)
	logger.Debug("Loaded statement", logging.Field{Key: logging.FieldCount, Value: table.Len()})
	return table, nil
}

// applyMapping renames claimed columns to their canonical names. Unclaimed
// columns that already carry a canonical name are renamed out of the way so
// lookups by name always find the claimed column.
func applyMapping(table *models.RawTable, mapping Mapping) {
	canonical := []string{models.FieldDate, models.FieldAmount, models.FieldDescription, models.FieldMerchantCode}
	claimedBy := make(map[int]string, len(canonical))
	for _, field := range canonical {
		if idx, ok := mapping.Column(field); ok {
			claimedBy[idx] = field
		}
	}

	taken := make(map[string]bool, len(claimedBy))
	for _, field := range claimedBy {
		taken[field] = true
	}
	for i, h := range table.Headers {
		if field, ok := claimedBy[i]; ok {
			table.Headers[i] = field
		} else if taken[h] {
			table.Headers[i] = h + " (unmapped)"
		}
	}
}
