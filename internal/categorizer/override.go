package categorizer

import (
	"context"

	"fjacquet/stmt-categorizer/internal/logging"
	"fjacquet/stmt-categorizer/internal/models"
)

// OverrideStrategy returns the category a user explicitly assigned to a
// description. It always runs first.
type OverrideStrategy struct {
	source OverrideSource
	logger logging.Logger
}

// NewOverrideStrategy creates an OverrideStrategy reading from source.
func NewOverrideStrategy(source OverrideSource, logger logging.Logger) *OverrideStrategy {
	return &OverrideStrategy{source: source, logger: logging.OrDefault(logger)}
}

func (s *OverrideStrategy) Name() string {
	return "Override"
}

func (s *OverrideStrategy) Categorize(ctx context.Context, tx Transaction) (models.Category, bool, error) {
	if s.source == nil {
		return models.Category{}, false, nil
	}
	key := models.FoldDescription(tx.Description)
	if key == "" {
		return models.Category{}, false, nil
	}

	category, ok := s.source.Lookup(key)
	if !ok {
		return models.Category{}, false, nil
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
		logging.Field{Key: logging.FieldDescription, Value: key},
		logging.Field{Key: logging.FieldCategory, Value: category},
	).Debug("Override matched")
	return models.Category{Name: category, Score: 100}, true, nil
}
