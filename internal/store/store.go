// Package store loads the editable rule tables and persists user overrides.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"fjacquet/stmt-categorizer/internal/logging"
	"fjacquet/stmt-categorizer/internal/models"
)

// CategoryStore loads the category keyword rules and the merchant code map
// from YAML files. Missing files are not an error: callers fall back to the
// built-in tables.
type CategoryStore struct {
	CategoriesFile    string
	MerchantCodesFile string
	logger            logging.Logger
}

// NewCategoryStore creates a new store for the rule files.
func NewCategoryStore(categoriesFile, merchantCodesFile string, logger logging.Logger) *CategoryStore {
	return &CategoryStore{
		CategoriesFile:    categoriesFile,
		MerchantCodesFile: merchantCodesFile,
		logger:            logging.OrDefault(logger),
	}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *CategoryStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".stmt-categorizer", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

func (s *CategoryStore) readConfigFile(filename string) ([]byte, string, error) {
	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, "", fmt.Errorf("error reading %s: %w", filePath, err)
	}
	return data, filePath, nil
}

// LoadCategories loads the ordered keyword rules. It returns nil when no file
// is configured or the file does not exist.
func (s *CategoryStore) LoadCategories() ([]models.CategoryRule, error) {
	if s.CategoriesFile == "" {
		return nil, nil
	}

	data, filePath, err := s.readConfigFile(s.CategoriesFile)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("Categories file not found, using built-in rules",
				logging.Field{Key: logging.FieldFile, Value: s.CategoriesFile})
			return nil, nil
		}
		return nil, err
	}

	// "categories: [...]" is the documented layout
	var categoriesConfig models.CategoriesConfig
	if err := yaml.Unmarshal(data, &categoriesConfig); err == nil && len(categoriesConfig.Categories) > 0 {
		s.logger.Debug("Loaded categories",
			logging.Field{Key: logging.FieldFile, Value: filePath},
			logging.Field{Key: logging.FieldCount, Value: len(categoriesConfig.Categories)})
		return categoriesConfig.Categories, nil
	}

	// a bare list without the top-level key
	var categories []models.CategoryRule
	if err := yaml.Unmarshal(data, &categories); err == nil && len(categories) > 0 {
		return categories, nil
	}

	return parseCategoryMap(data)
}

// parseCategoryMap accepts "Name: [kw, kw]" documents. A mapping has no
// order, so rules are returned sorted by name.
func parseCategoryMap(data []byte) ([]models.CategoryRule, error) {
	var categoryMap map[string][]string
	if err := yaml.Unmarshal(data, &categoryMap); err != nil {
		return nil, fmt.Errorf("error parsing categories file: %w", err)
	}

	names := make([]string, 0, len(categoryMap))
	for name := range categoryMap {
		names = append(names, name)
	}
	sort.Strings(names)

	categories := make([]models.CategoryRule, 0, len(names))
	for _, name := range names {
		categories = append(categories, models.CategoryRule{Name: name, Keywords: categoryMap[name]})
	}
	return categories, nil
}

// LoadMerchantCodes loads the merchant category code map. It returns nil when
// no file is configured or the file does not exist.
func (s *CategoryStore) LoadMerchantCodes() (map[string]string, error) {
	if s.MerchantCodesFile == "" {
		return nil, nil
	}

	data, filePath, err := s.readConfigFile(s.MerchantCodesFile)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("Merchant codes file not found, using built-in codes",
				logging.Field{Key: logging.FieldFile, Value: s.MerchantCodesFile})
			return nil, nil
		}
		return nil, err
	}

	var codesConfig models.MerchantCodesConfig
	if err := yaml.Unmarshal(data, &codesConfig); err != nil {
		return nil, fmt.Errorf("error parsing merchant codes file: %w", err)
	}
	if len(codesConfig.Codes) > 0 {
		s.logger.Debug("Loaded merchant codes",
			logging.Field{Key: logging.FieldFile, Value: filePath},
			logging.Field{Key: logging.FieldCount, Value: len(codesConfig.Codes)})
		return codesConfig.Codes, nil
	}

	var codes map[string]string
	if err := yaml.Unmarshal(data, &codes); err != nil {
		return nil, fmt.Errorf("error parsing merchant codes file: %w", err)
	}
	return codes, nil
}
