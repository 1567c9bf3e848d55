// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. STMT_LOG_LEVEL.
	EnvPrefix = "STMT"

	OverrideBackendFile   = "file"
	OverrideBackendSQLite = "sqlite"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Import struct {
		HeaderScanRows int `mapstructure:"header_scan_rows" yaml:"header_scan_rows"`
		FuzzyThreshold int `mapstructure:"fuzzy_threshold" yaml:"fuzzy_threshold"`
	} `mapstructure:"import" yaml:"import"`

	Normalize struct {
		NegateParenthesized bool `mapstructure:"negate_parenthesized" yaml:"negate_parenthesized"`
	} `mapstructure:"normalize" yaml:"normalize"`

	Categorization struct {
		FallbackCategory  string `mapstructure:"fallback_category" yaml:"fallback_category"`
		RulesFile         string `mapstructure:"rules_file" yaml:"rules_file"`
		MerchantCodesFile string `mapstructure:"merchant_codes_file" yaml:"merchant_codes_file"`
	} `mapstructure:"categorization" yaml:"categorization"`

	Overrides struct {
		Backend string `mapstructure:"backend" yaml:"backend"`
		Path    string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"overrides" yaml:"overrides"`

	Model struct {
		Directory      string `mapstructure:"directory" yaml:"directory"`
		ClassifierFile string `mapstructure:"classifier_file" yaml:"classifier_file"`
		VectorizerFile string `mapstructure:"vectorizer_file" yaml:"vectorizer_file"`
	} `mapstructure:"model" yaml:"model"`

	Batch struct {
		Workers int `mapstructure:"workers" yaml:"workers"`
	} `mapstructure:"batch" yaml:"batch"`
}

// Load initializes Viper configuration with hierarchical loading: defaults,
// then the config file, then STMT_* environment variables. An explicit
// configFile must exist; the default search locations are optional.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.stmt-categorizer")
		v.AddConfigPath(".stmt-categorizer")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the built-in defaults without consulting files or env.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// Defaults always decode; a failure here is a programming error.
	if err := v.Unmarshal(&config); err != nil {
		panic(fmt.Sprintf("config defaults do not decode: %v", err))
	}
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("import.header_scan_rows", 10)
	v.SetDefault("import.fuzzy_threshold", 60)

	v.SetDefault("normalize.negate_parenthesized", false)

	v.SetDefault("categorization.fallback_category", "Other")
	v.SetDefault("categorization.rules_file", "")
	v.SetDefault("categorization.merchant_codes_file", "")

	v.SetDefault("overrides.backend", OverrideBackendFile)
	v.SetDefault("overrides.path", "~/.stmt-categorizer/overrides.json")

	v.SetDefault("model.directory", "~/.stmt-categorizer/models")
	v.SetDefault("model.classifier_file", "model.gob")
	v.SetDefault("model.vectorizer_file", "vectorizer.yaml")

	v.SetDefault("batch.workers", 4)
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Import.HeaderScanRows < 1 || config.Import.HeaderScanRows > 100 {
		return fmt.Errorf("import.header_scan_rows must be between 1 and 100, got: %d", config.Import.HeaderScanRows)
	}

	if config.Import.FuzzyThreshold < 1 || config.Import.FuzzyThreshold > 100 {
		return fmt.Errorf("import.fuzzy_threshold must be between 1 and 100, got: %d", config.Import.FuzzyThreshold)
	}

	if strings.TrimSpace(config.Categorization.FallbackCategory) == "" {
		return fmt.Errorf("categorization.fallback_category must not be empty")
	}

	switch config.Overrides.Backend {
	case OverrideBackendFile, OverrideBackendSQLite:
	default:
		return fmt.Errorf("overrides.backend must be '%s' or '%s', got: %s",
			OverrideBackendFile, OverrideBackendSQLite, config.Overrides.Backend)
	}

	if config.Overrides.Path == "" {
		return fmt.Errorf("overrides.path must not be empty")
	}

	if config.Batch.Workers < 1 || config.Batch.Workers > 64 {
		return fmt.Errorf("batch.workers must be between 1 and 64, got: %d", config.Batch.Workers)
	}

	return nil
}

// OverridesPath returns the override store location with ~ expanded.
func (c *Config) OverridesPath() string {
	return ExpandPath(c.Overrides.Path)
}

// ModelPaths returns the classifier and vectorizer artifact locations.
func (c *Config) ModelPaths() (classifier, vectorizer string) {
	dir := ExpandPath(c.Model.Directory)
	return filepath.Join(dir, c.Model.ClassifierFile), filepath.Join(dir, c.Model.VectorizerFile)
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
