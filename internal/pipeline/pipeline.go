// Package pipeline runs one statement import end to end: load the raw table,
// normalize it into transactions and categorize every transaction.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"fjacquet/stmt-categorizer/internal/categorizer"
	"fjacquet/stmt-categorizer/internal/loader"
	"fjacquet/stmt-categorizer/internal/logging"
	"fjacquet/stmt-categorizer/internal/models"
	"fjacquet/stmt-categorizer/internal/normalizer"
	"fjacquet/stmt-categorizer/internal/parsererror"
)

// Import stages, as reported in failure logs.
const (
	stageLoad       = "load"
	stageNormalize  = "normalize"
	stageCategorize = "categorize"
)

// OverrideSnapshotter provides the frozen override view used by one import.
type OverrideSnapshotter interface {
	Snapshot() models.Overrides
}

// Result is the outcome of a successful import.
type Result struct {
	ImportID     string
	Filename     string
	Transactions []models.Transaction
}

// Importer ties the loader, normalizer and categorizer together.
type Importer struct {
	loader      *loader.Loader
	normalizer  *normalizer.Normalizer
	categorizer *categorizer.Categorizer
	overrides   OverrideSnapshotter
	logger      logging.Logger
}

// NewImporter creates an Importer. overrides may be nil, in which case no
// override applies.
func NewImporter(
	l *loader.Loader,
	n *normalizer.Normalizer,
	c *categorizer.Categorizer,
	overrides OverrideSnapshotter,
	logger logging.Logger,
) *Importer {
	return &Importer{
		loader:      l,
		normalizer:  n,
		categorizer: c,
		overrides:   overrides,
		logger:      logging.OrDefault(logger),
	}
}

// Import processes the bytes of one statement file. The file extension of
// filename selects the reader. Either every row is imported or an error is
// returned; there is no partial result.
func (i *Importer) Import(ctx context.Context, content []byte, filename string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	importID := uuid.NewString()
	logger := i.logger.WithFields(
		logging.Field{Key: logging.FieldImportID, Value: importID},
		logging.Field{Key: logging.FieldFile, Value: filename},
	)
	logger.Info("Starting import")

	table, err := i.loader.Load(content, filename)
	if err != nil {
		logger.WithError(err).Error("Failed to load statement",
			logging.Field{Key: logging.FieldStage, Value: stageLoad})
		return nil, err
	}

	transactions, err := i.normalizer.Normalize(table, filename)
	if err != nil {
		logger.WithError(err).Error("Failed to normalize statement",
			logging.Field{Key: logging.FieldStage, Value: stageNormalize})
		return nil, err
	}

	snapshot := models.Overrides{}
	if i.overrides != nil {
		snapshot = i.overrides.Snapshot()
	}
	cat := i.categorizer.WithOverrides(snapshot)

	for idx := range transactions {
		tx := &transactions[idx]
		category, err := cat.AssignCategory(ctx, tx.Description, tx.MerchantCategoryCode)
		if err != nil {
			logger.WithError(err).Error("Failed to categorize transaction",
				logging.Field{Key: logging.FieldStage, Value: stageCategorize},
				logging.Field{Key: logging.FieldRow, Value: idx + 1})
			return nil, &parsererror.ParseError{
				FilePath: filename, Row: idx + 1, Field: models.FieldDescription, Value: tx.Description, Err: err,
			}
		}
		if err := tx.SetInitialCategory(category); err != nil {
			return nil, fmt.Errorf("row %d: %w", idx+1, err)
		}
	}

	logger.Info("Import completed",
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})

	return &Result{ImportID: importID, Filename: filename, Transactions: transactions}, nil
}

// ImportFile reads path and imports it under its base name.
func (i *Importer) ImportFile(ctx context.Context, path string) (*Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return i.Import(ctx, content, filepath.Base(path))
}
