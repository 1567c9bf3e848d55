// Package container provides dependency injection for the stmt-categorizer
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"context"
	"fmt"

	"fjacquet/stmt-categorizer/internal/batch"
	"fjacquet/stmt-categorizer/internal/categorizer"
	"fjacquet/stmt-categorizer/internal/classifier"
	"fjacquet/stmt-categorizer/internal/common"
	"fjacquet/stmt-categorizer/internal/config"
	"fjacquet/stmt-categorizer/internal/loader"
	"fjacquet/stmt-categorizer/internal/logging"
	"fjacquet/stmt-categorizer/internal/normalizer"
	"fjacquet/stmt-categorizer/internal/pipeline"
	"fjacquet/stmt-categorizer/internal/rules"
	"fjacquet/stmt-categorizer/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger        logging.Logger
	config        *config.Config
	categoryStore *store.CategoryStore
	overrides     store.OverrideStore
	model         *classifier.Model
	categorizer   *categorizer.Categorizer
	importer      *pipeline.Importer
	runner        *batch.Runner
	csvWriter     *common.CSVWriter
}

// NewContainer creates and wires all application dependencies.
// This is the main entry point for dependency injection in the application.
//
// Parameters:
//   - cfg: Application configuration
//
// Returns:
//   - *Container: Fully wired container with all dependencies
//   - error: Any error encountered during dependency creation
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, cfg.NewLogger())
}

// NewContainerWithLogger is NewContainer with an explicit logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	logger = logging.OrDefault(logger)

	overrides, err := openOverrideStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	categoryStore := store.NewCategoryStore(
		cfg.Categorization.RulesFile,
		cfg.Categorization.MerchantCodesFile,
		logger,
	)
	ruleSet, err := categoryStore.LoadCategories()
	if err != nil {
		_ = overrides.Close()
		return nil, fmt.Errorf("loading category rules: %w", err)
	}
	codes, err := categoryStore.LoadMerchantCodes()
	if err != nil {
		_ = overrides.Close()
		return nil, fmt.Errorf("loading merchant codes: %w", err)
	}

	catCfg := categorizer.Config{
		Rules:         ruleSet,
		MerchantCodes: codes,
		Threshold:     float64(cfg.Import.FuzzyThreshold),
		Fallback:      cfg.Categorization.FallbackCategory,
	}

	classifierPath, vectorizerPath := cfg.ModelPaths()
	model, err := classifier.Load(classifierPath, vectorizerPath, logger)
	if err != nil {
		logger.WithError(err).Warn("Statistical model unusable, continuing without it")
		model = nil
	}
	if model != nil {
		catCfg.Model = model
	}

	cat := categorizer.New(overrides, catCfg, logger)

	l := loader.New(rules.DefaultSynonyms(), loader.Options{
		HeaderScanRows: cfg.Import.HeaderScanRows,
		Threshold:      float64(cfg.Import.FuzzyThreshold),
	}, logger)
	n := normalizer.New(normalizer.Options{NegateParenthesized: cfg.Normalize.NegateParenthesized}, logger)
	importer := pipeline.NewImporter(l, n, cat, overrides, logger)

	var delimiter rune
	if d := []rune(cfg.CSV.Delimiter); len(d) > 0 {
		delimiter = d[0]
	}

	logger.Info("Container initialized successfully",
		logging.Field{Key: "override_backend", Value: cfg.Overrides.Backend},
		logging.Field{Key: "overrides", Value: overrides.Len()},
		logging.Field{Key: "model_loaded", Value: model != nil})

	return &Container{
		logger:        logger,
		config:        cfg,
		categoryStore: categoryStore,
		overrides:     overrides,
		model:         model,
		categorizer:   cat,
		importer:      importer,
		runner:        batch.NewRunner(importer, cfg.Batch.Workers, logger),
		csvWriter:     common.NewCSVWriter(delimiter, logger),
	}, nil
}

func openOverrideStore(cfg *config.Config, logger logging.Logger) (store.OverrideStore, error) {
	path := cfg.OverridesPath()
	switch cfg.Overrides.Backend {
	case config.OverrideBackendSQLite:
		s, err := store.NewSQLiteOverrideStore(context.Background(), path, logger)
		if err != nil {
			return nil, fmt.Errorf("opening override database: %w", err)
		}
		return s, nil
	default:
		s, err := store.NewFileOverrideStore(path, logger)
		if err != nil {
			return nil, fmt.Errorf("opening override file: %w", err)
		}
		return s, nil
	}
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetStore returns the container's category store instance.
func (c *Container) GetStore() *store.CategoryStore {
	return c.categoryStore
}

// GetOverrideStore returns the store user corrections are recorded in.
func (c *Container) GetOverrideStore() store.OverrideStore {
	return c.overrides
}

// GetModel returns the statistical model, or nil when none is loaded.
func (c *Container) GetModel() *classifier.Model {
	return c.model
}

// GetImporter returns the single-file import pipeline.
func (c *Container) GetImporter() *pipeline.Importer {
	return c.importer
}

// GetBatchRunner returns the concurrent multi-file runner.
func (c *Container) GetBatchRunner() *batch.Runner {
	return c.runner
}

// GetCSVWriter returns the canonical CSV exporter.
func (c *Container) GetCSVWriter() *common.CSVWriter {
	return c.csvWriter
}

// Close releases the override store.
func (c *Container) Close() error {
	if err := c.overrides.Close(); err != nil {
		return fmt.Errorf("closing override store: %w", err)
	}
	c.logger.Debug("Container closed")
	return nil
}
