package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"fjacquet/stmt-categorizer/internal/logging"
	"fjacquet/stmt-categorizer/internal/models"
)

const overridesSchema = `
CREATE TABLE IF NOT EXISTS overrides (
	description TEXT PRIMARY KEY,
	category    TEXT NOT NULL,
	updated_at  TIMESTAMP NOT NULL
)`

// SQLiteOverrideStore persists overrides in a SQLite table. All rows are read
// into memory on open; Record upserts one row.
type SQLiteOverrideStore struct {
	*overrideSet
	db     *sql.DB
	logger logging.Logger
}

// NewSQLiteOverrideStore opens (and creates if needed) the database at dbPath.
func NewSQLiteOverrideStore(ctx context.Context, dbPath string, logger logging.Logger) (*SQLiteOverrideStore, error) {
	logger = logging.OrDefault(logger)

	if err := os.MkdirAll(filepath.Dir(dbPath), models.PermissionDirectory); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, overridesSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create overrides table: %w", err)
	}

	initial, err := loadOverrideRows(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	logger.Debug("Loaded overrides",
		logging.Field{Key: logging.FieldFile, Value: dbPath},
		logging.Field{Key: logging.FieldCount, Value: len(initial)})

	return &SQLiteOverrideStore{
		overrideSet: newOverrideSet(initial),
		db:          db,
		logger:      logger,
	}, nil
}

func loadOverrideRows(ctx context.Context, db *sql.DB) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT description, category FROM overrides`)
	if err != nil {
		return nil, fmt.Errorf("failed to query overrides: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]string)
	for rows.Next() {
		var desc, category string
		if err := rows.Scan(&desc, &category); err != nil {
			return nil, fmt.Errorf("failed to scan override: %w", err)
		}
		entries[desc] = category
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read overrides: %w", err)
	}
	return entries, nil
}

// Record upserts the correction.
func (s *SQLiteOverrideStore) Record(ctx context.Context, description, category string) error {
	return s.apply(description, category, func(key string, all models.Overrides) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO overrides (description, category, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(description) DO UPDATE SET category = excluded.category, updated_at = excluded.updated_at`,
			key, all[key], time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to save override: %w", err)
		}
		s.logger.Info("Recorded override",
			logging.Field{Key: logging.FieldDescription, Value: key},
			logging.Field{Key: logging.FieldCategory, Value: all[key]})
		return nil
	})
}

// Close closes the database connection.
func (s *SQLiteOverrideStore) Close() error {
	return s.db.Close()
}
