package store

import (
	"context"
	"errors"
	"strings"
	"sync"

	"fjacquet/stmt-categorizer/internal/models"
)

// ErrEmptyOverride is returned when a correction has no description or no
// category.
var ErrEmptyOverride = errors.New("override needs a description and a category")

// OverrideStore holds user corrections keyed by folded description.
// Implementations are safe for concurrent use.
type OverrideStore interface {
	// Lookup returns the current override for description.
	Lookup(description string) (string, bool)
	// Snapshot returns a copy of all overrides, frozen at call time.
	Snapshot() models.Overrides
	// Record adds or replaces an override and persists it.
	Record(ctx context.Context, description, category string) error
	// Len returns the number of overrides.
	Len() int
	Close() error
}

// overrideSet is the in-memory index shared by every backend.
type overrideSet struct {
	mu      sync.RWMutex
	entries models.Overrides
}

func newOverrideSet(initial map[string]string) *overrideSet {
	entries := make(models.Overrides, len(initial))
	for desc, category := range initial {
		if key := models.FoldDescription(desc); key != "" {
			entries[key] = category
		}
	}
	return &overrideSet{entries: entries}
}

func (s *overrideSet) Lookup(description string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries.Lookup(description)
}

func (s *overrideSet) Snapshot() models.Overrides {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(models.Overrides, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

func (s *overrideSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// apply sets key under the write lock and calls persist while still holding
// it, restoring the previous value when persist fails.
func (s *overrideSet) apply(description, category string, persist func(key string, all models.Overrides) error) error {
	key := models.FoldDescription(description)
	category = strings.TrimSpace(category)
	if key == "" || category == "" {
		return ErrEmptyOverride
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.entries[key]
	s.entries[key] = category
	if persist == nil {
		return nil
	}
	if err := persist(key, s.entries); err != nil {
		if existed {
			s.entries[key] = previous
		} else {
			delete(s.entries, key)
		}
		return err
	}
	return nil
}

// MemoryOverrideStore keeps overrides in memory only.
type MemoryOverrideStore struct {
	*overrideSet
}

// NewMemoryOverrideStore returns a store seeded with initial.
func NewMemoryOverrideStore(initial map[string]string) *MemoryOverrideStore {
	return &MemoryOverrideStore{overrideSet: newOverrideSet(initial)}
}

func (m *MemoryOverrideStore) Record(ctx context.Context, description, category string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.apply(description, category, nil)
}

func (m *MemoryOverrideStore) Close() error { return nil }
