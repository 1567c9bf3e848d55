package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"fjacquet/stmt-categorizer/internal/logging"
)

// LoadEnv loads a .env file from the working directory or its parent, if any.
// Values already present in the environment are not overwritten.
func LoadEnv(logger logging.Logger) {
	logger = logging.OrDefault(logger)

	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			logger.Debug("No .env file found, using environment variables")
			return
		}
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.WithError(err).Warn("Error loading .env file", logging.Field{Key: logging.FieldFile, Value: envFile})
		return
	}
	logger.Debug("Loaded environment variables", logging.Field{Key: logging.FieldFile, Value: envFile})
}

// NewLogger builds the application logger from the log section.
func (c *Config) NewLogger() logging.Logger {
	return logging.NewLogrusAdapter(c.Log.Level, c.Log.Format)
}
