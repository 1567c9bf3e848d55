package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/stmt-categorizer/internal/logging"
)

func TestMemoryOverrideStore(t *testing.T) {
	s := NewMemoryOverrideStore(map[string]string{"  STARBUCKS #12 ": "Dining"})
	ctx := context.Background()

	category, ok := s.Lookup("starbucks #12")
	require.True(t, ok)
	assert.Equal(t, "Dining", category)

	require.NoError(t, s.Record(ctx, "Uber Eats", "Dining"))
	assert.Equal(t, 2, s.Len())

	assert.ErrorIs(t, s.Record(ctx, "   ", "Dining"), ErrEmptyOverride)
	assert.ErrorIs(t, s.Record(ctx, "Uber", ""), ErrEmptyOverride)
	require.NoError(t, s.Close())
}

func TestOverrideSnapshotIsFrozen(t *testing.T) {
	s := NewMemoryOverrideStore(nil)
	ctx := context.Background()
	require.NoError(t, s.Record(ctx, "Careem", "Transport"))

	snapshot := s.Snapshot()
	require.NoError(t, s.Record(ctx, "Careem", "Travel"))
	require.NoError(t, s.Record(ctx, "Noon", "Shopping"))

	assert.Equal(t, "Transport", snapshot["careem"])
	assert.NotContains(t, snapshot, "noon")

	current, _ := s.Lookup("CAREEM")
	assert.Equal(t, "Travel", current)
}

func TestMemoryOverrideStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewMemoryOverrideStore(nil).Record(ctx, "a", "b"), context.Canceled)
}

func TestFileOverrideStore_JSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "overrides.json")
	ctx := context.Background()

	s, err := NewFileOverrideStore(path, logging.NewMockLogger())
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())

	require.NoError(t, s.Record(ctx, "Starbucks #12", "Dining"))
	require.NoError(t, s.Record(ctx, "STARBUCKS #12", "Coffee"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk map[string]string
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, map[string]string{"starbucks #12": "Coffee"}, onDisk)
	assert.Contains(t, string(data), "\n  \"starbucks #12\"")

	reopened, err := NewFileOverrideStore(path, nil)
	require.NoError(t, err)
	category, ok := reopened.Lookup("starbucks #12")
	require.True(t, ok)
	assert.Equal(t, "Coffee", category)
}

func TestFileOverrideStore_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	require.NoError(t, os.WriteFile(path, []byte("netflix family: Subscriptions\n"), 0600))

	s, err := NewFileOverrideStore(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), "Gym Nation", "Subscriptions"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "gym nation: Subscriptions")
	assert.Contains(t, string(data), "netflix family: Subscriptions")
}

func TestFileOverrideStore_EmptyAndInvalidFiles(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("  \n"), 0600))
	s, err := NewFileOverrideStore(empty, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`["not", "a", "map"]`), 0600))
	_, err = NewFileOverrideStore(invalid, nil)
	assert.Error(t, err)
}

func TestFileOverrideStore_WriteFailureRollsBack(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s, err := NewFileOverrideStore(filepath.Join(dir, "overrides.json"), nil)
	require.NoError(t, err)

	// the parent directory is now a regular file, so persisting fails
	require.NoError(t, os.WriteFile(dir, []byte("x"), 0600))

	require.Error(t, s.Record(context.Background(), "Careem", "Transport"))
	_, ok := s.Lookup("careem")
	assert.False(t, ok)
}

func TestFileOverrideStore_ConcurrentRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.json")
	s, err := NewFileOverrideStore(path, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			assert.NoError(t, s.Record(context.Background(), "merchant "+string(rune('a'+n)), "Shopping"))
			_ = s.Snapshot()
		}(i)
	}
	wg.Wait()

	reopened, err := NewFileOverrideStore(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 10, reopened.Len())
}

func TestSQLiteOverrideStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db", "overrides.db")

	s, err := NewSQLiteOverrideStore(ctx, path, logging.NewMockLogger())
	require.NoError(t, err)
	require.NoError(t, s.Record(ctx, "Spinneys Marina", "Groceries"))
	require.NoError(t, s.Record(ctx, "SPINNEYS MARINA", "Dining"))
	require.NoError(t, s.Record(ctx, "Etisalat", "Utilities"))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteOverrideStore(ctx, path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, 2, reopened.Len())
	category, ok := reopened.Lookup("spinneys marina")
	require.True(t, ok)
	assert.Equal(t, "Dining", category)
}

func TestOverrideStoreImplementations(t *testing.T) {
	var _ OverrideStore = (*MemoryOverrideStore)(nil)
	var _ OverrideStore = (*FileOverrideStore)(nil)
	var _ OverrideStore = (*SQLiteOverrideStore)(nil)
}
