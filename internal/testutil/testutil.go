// Package testutil builds fully wired containers rooted in a temporary
// directory for command tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"fjacquet/stmt-categorizer/internal/config"
	"fjacquet/stmt-categorizer/internal/container"
	"fjacquet/stmt-categorizer/internal/logging"
)

// NewContainer returns a container using default settings, with overrides and
// model artifacts under t.TempDir(). It is closed when the test ends.
func NewContainer(t *testing.T) *container.Container {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Overrides.Path = filepath.Join(dir, "overrides.json")
	cfg.Model.Directory = filepath.Join(dir, "models")

	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}
