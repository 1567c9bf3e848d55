package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"fjacquet/stmt-categorizer/internal/logging"
	"fjacquet/stmt-categorizer/internal/models"
)

// FileOverrideStore persists overrides to a single JSON or YAML file which is
// rewritten on every correction. The format follows the file extension;
// anything other than .yaml/.yml is written as JSON.
type FileOverrideStore struct {
	*overrideSet
	path   string
	logger logging.Logger
}

// NewFileOverrideStore loads path if it exists. A missing file starts an
// empty store; it is created on the first Record.
func NewFileOverrideStore(path string, logger logging.Logger) (*FileOverrideStore, error) {
	logger = logging.OrDefault(logger)

	initial, err := readOverridesFile(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded overrides",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(initial)})

	return &FileOverrideStore{
		overrideSet: newOverrideSet(initial),
		path:        path,
		logger:      logger,
	}, nil
}

func readOverridesFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("error reading overrides file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]string{}, nil
	}

	// JSON objects are valid YAML flow mappings, so one decoder reads both.
	var entries map[string]string
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("error parsing overrides file %s: %w", path, err)
	}
	if entries == nil {
		entries = map[string]string{}
	}
	return entries, nil
}

// Path returns the backing file.
func (f *FileOverrideStore) Path() string {
	return f.path
}

// Record stores the correction and rewrites the file.
func (f *FileOverrideStore) Record(ctx context.Context, description, category string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.apply(description, category, func(key string, all models.Overrides) error {
		if err := f.write(all); err != nil {
			return err
		}
		f.logger.Info("Recorded override",
			logging.Field{Key: logging.FieldDescription, Value: key},
			logging.Field{Key: logging.FieldCategory, Value: all[key]})
		return nil
	})
}

func (f *FileOverrideStore) write(all models.Overrides) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(f.path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(map[string]string(all))
	default:
		data, err = json.MarshalIndent(all, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("error marshaling overrides: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".overrides-*")
	if err != nil {
		return fmt.Errorf("error writing overrides: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing overrides: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error writing overrides: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("error replacing overrides file: %w", err)
	}
	return nil
}

func (f *FileOverrideStore) Close() error { return nil }
