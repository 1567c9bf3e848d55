package categorizer

import (
	"context"
	"errors"
	"fmt"

	"fjacquet/stmt-categorizer/internal/classifier"
	"fjacquet/stmt-categorizer/internal/logging"
	"fjacquet/stmt-categorizer/internal/models"
)

// ModelStrategy asks the statistical model for a label. Labels outside the
// known vocabulary are discarded.
type ModelStrategy struct {
	model    Predictor
	accepted map[string]bool
	logger   logging.Logger
}

// NewModelStrategy creates a ModelStrategy. vocabulary lists the labels the
// model may return; fallback is accepted as well.
func NewModelStrategy(model Predictor, vocabulary []string, fallback string, logger logging.Logger) *ModelStrategy {
	accepted := make(map[string]bool, len(vocabulary)+1)
	for _, v := range vocabulary {
		accepted[v] = true
	}
	accepted[fallback] = true
	return &ModelStrategy{model: model, accepted: accepted, logger: logging.OrDefault(logger)}
}

func (s *ModelStrategy) Name() string {
	return "Model"
}

func (s *ModelStrategy) Categorize(ctx context.Context, tx Transaction) (models.Category, bool, error) {
	if s.model == nil {
		return models.Category{}, false, nil
	}
	desc := models.FoldDescription(tx.Description)
	if desc == "" {
		return models.Category{}, false, nil
	}

	label, err := s.model.Predict(desc)
	if errors.Is(err, classifier.ErrNoFeatures) {
		s.logger.Debug("Model found no features in description",
			logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
			logging.Field{Key: logging.FieldDescription, Value: desc})
		return models.Category{}, false, nil
	}
	if err != nil {
		return models.Category{}, false, fmt.Errorf("model prediction: %w", err)
	}

	fields := []logging.Field{
		{Key: logging.FieldStrategy, Value: s.Name()},
		{Key: logging.FieldDescription, Value: desc},
		{Key: logging.FieldCategory, Value: label},
	}
	if !s.accepted[label] {
		s.logger.WithFields(fields...).Debug("Model prediction outside vocabulary, discarded")
		return models.Category{}, false, nil
	}
	s.logger.WithFields(fields...).Debug("Model predicted category")
	return models.Category{Name: label}, true, nil
}
