package loader

import (
	"fjacquet/stmt-categorizer/internal/fuzzy"
	"fjacquet/stmt-categorizer/internal/models"
	"fjacquet/stmt-categorizer/internal/rules"
)

// DefaultThreshold is the minimum similarity for a header to be accepted.
const DefaultThreshold = 60

// Mapping assigns canonical fields to source column indexes.
type Mapping struct {
	columns map[string]int
	scores  map[string]float64
}

// Column returns the source column claimed by field.
func (m Mapping) Column(field string) (int, bool) {
	idx, ok := m.columns[field]
	return idx, ok
}

// Score returns the similarity that claimed field. Fallback claims score 0.
func (m Mapping) Score(field string) float64 {
	return m.scores[field]
}

// Missing returns the fields of required that have no column, in order.
func (m Mapping) Missing(required []string) []string {
	var missing []string
	for _, f := range required {
		if _, ok := m.columns[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

func (m Mapping) claimed(idx int) bool {
	for _, c := range m.columns {
		if c == idx {
			return true
		}
	}
	return false
}

// FieldReconciler maps arbitrary source headers onto canonical fields by
// fuzzy similarity against the synonym registry.
type FieldReconciler struct {
	registry  *rules.SynonymRegistry
	scorer    fuzzy.Scorer
	threshold float64
}

// NewFieldReconciler creates a reconciler using token-sort similarity.
func NewFieldReconciler(registry *rules.SynonymRegistry, threshold float64) *FieldReconciler {
	return &FieldReconciler{
		registry:  registry,
		scorer:    fuzzy.TokenSortScorer,
		threshold: threshold,
	}
}

// Reconcile claims at most one header per canonical field, in registry
// order. A header already claimed is not offered to later fields. When no
// header reaches the threshold for the description, the first unclaimed
// column becomes the description.
func (r *FieldReconciler) Reconcile(headers []string) Mapping {
	m := Mapping{columns: make(map[string]int), scores: make(map[string]float64)}

	processed := make([]string, len(headers))
	for i, h := range headers {
		processed[i] = fuzzy.Process(h)
	}

	for _, entry := range r.registry.Entries() {
		synonyms := make([]string, len(entry.Synonyms))
		for i, synonym := range entry.Synonyms {
			synonyms[i] = fuzzy.Process(synonym)
		}

		bestIdx, bestScore := -1, -1.0
		for i := range headers {
			if m.claimed(i) {
				continue
			}
			if _, s := fuzzy.Best(r.scorer, processed[i], synonyms); s > bestScore {
				bestIdx, bestScore = i, s
			}
		}
		if bestIdx >= 0 && bestScore >= r.threshold {
			m.columns[entry.Field] = bestIdx
			m.scores[entry.Field] = bestScore
		}
	}

	if _, ok := m.columns[models.FieldDescription]; !ok {
		for i := range headers {
			if !m.claimed(i) {
				m.columns[models.FieldDescription] = i
				m.scores[models.FieldDescription] = 0
				break
			}
		}
	}
	return m
}
