// Package rules holds the built-in lookup tables: the column synonym
// registry, the ordered category keyword rules and the merchant category
// code map.
package rules

import (
	"fjacquet/stmt-categorizer/internal/models"
)

// FieldSynonym lists the source header names known to mean a canonical field.
type FieldSynonym struct {
	Field    string
	Synonyms []string
}

// SynonymRegistry is the ordered set of canonical fields and their synonyms.
// Field order is the order in which the reconciler claims columns.
type SynonymRegistry struct {
	entries []FieldSynonym
}

// DefaultSynonyms returns the built-in registry.
func DefaultSynonyms() *SynonymRegistry {
	return NewSynonymRegistry([]FieldSynonym{
		{Field: models.FieldDate, Synonyms: []string{
			"date", "transaction date", "post date", "value date", "date posted",
		}},
		{Field: models.FieldAmount, Synonyms: []string{
			"amount", "debit amount", "credit amount", "transaction amount", "value",
		}},
		{Field: models.FieldDescription, Synonyms: []string{
			"description", "details", "transaction details", "narrative", "remark",
			"memo", "narration", "remarks", "transaction remark",
		}},
		{Field: models.FieldMerchantCode, Synonyms: []string{
			"mcc", "merchant category code",
		}},
	})
}

// NewSynonymRegistry builds a registry; synonyms are stored folded.
func NewSynonymRegistry(entries []FieldSynonym) *SynonymRegistry {
	r := &SynonymRegistry{entries: make([]FieldSynonym, 0, len(entries))}
	for _, e := range entries {
		folded := make([]string, 0, len(e.Synonyms))
		for _, s := range e.Synonyms {
			folded = append(folded, models.FoldDescription(s))
		}
		r.entries = append(r.entries, FieldSynonym{Field: e.Field, Synonyms: folded})
	}
	return r
}

// Entries returns the registry in field order.
func (r *SynonymRegistry) Entries() []FieldSynonym {
	out := make([]FieldSynonym, len(r.entries))
	copy(out, r.entries)
	return out
}

// Synonyms returns the synonyms of field, or nil.
func (r *SynonymRegistry) Synonyms(field string) []string {
	for _, e := range r.entries {
		if e.Field == field {
			return e.Synonyms
		}
	}
	return nil
}

// Recognizes reports whether header, trimmed and folded, is literally one of
// the synonyms of field.
func (r *SynonymRegistry) Recognizes(field, header string) bool {
	h := models.FoldDescription(header)
	for _, s := range r.Synonyms(field) {
		if s == h {
			return true
		}
	}
	return false
}
