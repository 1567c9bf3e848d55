package categorizer

import (
	"context"
	"strings"

	"fjacquet/stmt-categorizer/internal/logging"
	"fjacquet/stmt-categorizer/internal/models"
)

// MerchantCodeStrategy maps a merchant category code to a category.
type MerchantCodeStrategy struct {
	codes  map[string]string
	logger logging.Logger
}

// NewMerchantCodeStrategy copies codes; keys are trimmed.
func NewMerchantCodeStrategy(codes map[string]string, logger logging.Logger) *MerchantCodeStrategy {
	copied := make(map[string]string, len(codes))
	for code, category := range codes {
		copied[strings.TrimSpace(code)] = category
	}
	return &MerchantCodeStrategy{codes: copied, logger: logging.OrDefault(logger)}
}

func (s *MerchantCodeStrategy) Name() string {
	return "MerchantCode"
}

func (s *MerchantCodeStrategy) Categorize(ctx context.Context, tx Transaction) (models.Category, bool, error) {
	code := strings.TrimSpace(tx.MerchantCategoryCode)
	if code == "" {
		return models.Category{}, false, nil
	}

	category, ok := s.codes[code]
	if !ok {
		return models.Category{}, false, nil
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
		logging.Field{Key: logging.FieldMerchantCode, Value: code},
		logging.Field{Key: logging.FieldCategory, Value: category},
	).Debug("Merchant code matched")
	return models.Category{Name: category, Score: 100}, true, nil
}
