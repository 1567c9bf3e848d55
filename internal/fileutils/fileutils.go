// Package fileutils provides common file operations used throughout the application.
package fileutils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fjacquet/stmt-categorizer/internal/models"
)

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(dirPath string) error {
	if DirectoryExists(dirPath) {
		return nil
	}
	if err := os.MkdirAll(dirPath, models.PermissionDirectory); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// CreateFile creates or truncates a file for writing, creating parent
// directories as needed.
func CreateFile(filePath string) (*os.File, error) {
	if err := EnsureDirectoryExists(filepath.Dir(filePath)); err != nil {
		return nil, err
	}
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return file, nil
}

// ListFiles returns the regular files directly under dirPath accepted by
// keep, sorted by name. Hidden files are skipped.
func ListFiles(dirPath string, keep func(name string) bool) ([]string, error) {
	if !DirectoryExists(dirPath) {
		return nil, fmt.Errorf("directory does not exist: %s", dirPath)
	}
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if keep == nil || keep(name) {
			files = append(files, filepath.Join(dirPath, name))
		}
	}
	sort.Strings(files)
	return files, nil
}

// OutputPath maps an input file to outDir, replacing its extension with ext.
func OutputPath(inputPath, outDir, ext string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, stem+ext)
}

// OutputPaths maps every input to a distinct file in outDir, in input order.
// Inputs that would share a name under OutputPath keep their own extension
// (jan.csv and jan.json become jan.csv.csv and jan.json.csv). Names are
// compared case-insensitively; any remaining clash gets a numeric suffix.
func OutputPaths(inputPaths []string, outDir, ext string) []string {
	key := func(p string) string { return strings.ToLower(filepath.Base(p)) }

	stems := make(map[string]int, len(inputPaths))
	for _, in := range inputPaths {
		stems[key(OutputPath(in, "", ext))]++
	}

	targets := make([]string, len(inputPaths))
	taken := make(map[string]bool, len(inputPaths))
	for i, in := range inputPaths {
		name := filepath.Base(OutputPath(in, "", ext))
		if stems[strings.ToLower(name)] > 1 {
			name = filepath.Base(in) + ext
		}
		candidate := name
		for n := 2; taken[strings.ToLower(candidate)]; n++ {
			candidate = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), n, ext)
		}
		taken[strings.ToLower(candidate)] = true
		targets[i] = filepath.Join(outDir, candidate)
	}
	return targets
}
