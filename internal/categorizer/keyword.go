package categorizer

import (
	"context"

	"fjacquet/stmt-categorizer/internal/fuzzy"
	"fjacquet/stmt-categorizer/internal/logging"
	"fjacquet/stmt-categorizer/internal/models"
	"fjacquet/stmt-categorizer/internal/rules"
)

// KeywordStrategy scores the description against every keyword of every
// rule with partial-ratio similarity. The highest score wins; on a tie the
// rule evaluated first keeps it.
type KeywordStrategy struct {
	rules     []models.CategoryRule
	scorer    fuzzy.Scorer
	threshold float64
	logger    logging.Logger
}

// NewKeywordStrategy creates a KeywordStrategy over the given ordered rules.
func NewKeywordStrategy(categoryRules []models.CategoryRule, threshold float64, logger logging.Logger) *KeywordStrategy {
	return &KeywordStrategy{
		rules:     rules.NormalizeRules(categoryRules),
		scorer:    fuzzy.PartialRatioScorer,
		threshold: threshold,
		logger:    logging.OrDefault(logger),
	}
}

func (s *KeywordStrategy) Name() string {
	return "Keyword"
}

func (s *KeywordStrategy) Categorize(ctx context.Context, tx Transaction) (models.Category, bool, error) {
	desc := models.FoldDescription(tx.Description)
	if desc == "" {
		return models.Category{}, false, nil
	}

	bestScore := 0.0
	bestCategory := ""
	bestKeyword := ""
	for _, rule := range s.rules {
		for _, kw := range rule.Keywords {
			if score := s.scorer.Similarity(desc, kw); score > bestScore {
				bestScore, bestCategory, bestKeyword = score, rule.Name, kw
			}
		}
	}

	if bestCategory == "" || bestScore < s.threshold {
		return models.Category{}, false, nil
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
		logging.Field{Key: logging.FieldDescription, Value: desc},
		logging.Field{Key: logging.FieldCategory, Value: bestCategory},
		logging.Field{Key: logging.FieldScore, Value: bestScore},
		logging.Field{Key: "keyword", Value: bestKeyword},
	).Debug("Keyword matched")
	return models.Category{Name: bestCategory, Score: bestScore}, true, nil
}
