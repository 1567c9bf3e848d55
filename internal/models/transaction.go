// Package models provides the data structures used throughout the application.
package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// ErrCategoryAlreadyAssigned is returned when the initial category of a
// transaction is set twice.
var ErrCategoryAlreadyAssigned = errors.New("initial category already assigned")

// Transaction is the canonical, normalized form of one statement line.
type Transaction struct {
	Date                 time.Time
	Description          string
	Amount               decimal.Decimal
	MerchantCategoryCode string
	Category             string
	OriginalCategory     string
}

// SetInitialCategory records the category assigned at import time. It sets
// both Category and OriginalCategory and may only be called once.
func (t *Transaction) SetInitialCategory(category string) error {
	if t.OriginalCategory != "" {
		return ErrCategoryAlreadyAssigned
	}
	t.Category = category
	t.OriginalCategory = category
	return nil
}

// Recategorize applies a user correction. OriginalCategory is left intact.
func (t *Transaction) Recategorize(category string) {
	t.Category = category
}

// Corrected reports whether the category differs from the import-time one.
func (t Transaction) Corrected() bool {
	return t.OriginalCategory != "" && t.Category != t.OriginalCategory
}

// FoldDescription returns the categorization key for a description: trimmed
// and case-folded. Override keys and keyword matching both use it.
func FoldDescription(description string) string {
	return strings.TrimSpace(cases.Fold().String(description))
}
