// Package parsererror defines the typed failures an import can end with.
// Every error carries the source filename so a host can report it as-is.
package parsererror

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched through errors.Is on the typed errors below.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrMissingField      = errors.New("missing required field")
	ErrRowParse          = errors.New("row parse failure")
	ErrInvalidFormat     = errors.New("invalid format")
)

// UnsupportedFormatError is returned when the file extension is not one the
// loader can read.
type UnsupportedFormatError struct {
	FilePath  string
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	ext := e.Extension
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Sprintf("unsupported file format %s for '%s'", ext, e.FilePath)
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// MissingFieldError names the canonical fields that could not be mapped onto
// any source column.
type MissingFieldError struct {
	FilePath string
	Fields   []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required columns [%s] in '%s'",
		strings.Join(e.Fields, ", "), e.FilePath)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// ParseError represents a single cell that could not be converted. Row is the
// 1-based data row (header excluded).
type ParseError struct {
	FilePath string
	Row      int
	Field    string
	Value    string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: row %d: failed to parse %s='%s': %v",
		e.FilePath, e.Row, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrRowParse
}

// InvalidFormatError represents a file whose container could not be read in
// the format its extension claims.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
	Err            error
}

func (e *InvalidFormatError) Error() string {
	msg := fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}

func (e *InvalidFormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}
