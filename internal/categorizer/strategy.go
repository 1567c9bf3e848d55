package categorizer

import (
	"context"

	"fjacquet/stmt-categorizer/internal/models"
)

// Transaction is the part of a statement line the strategies look at.
type Transaction struct {
	Description          string
	MerchantCategoryCode string
}

// CategorizationStrategy defines one stage of the categorization chain.
type CategorizationStrategy interface {
	// Categorize attempts to categorize a transaction using this strategy.
	// Returns the category, a boolean indicating if categorization was successful,
	// and any error encountered during the process.
	//
	// Parameters:
	//   - ctx: Context for cancellation and request-scoped values
	//   - tx: Transaction to categorize
	//
	// Returns:
	//   - models.Category: The assigned category (only valid if found is true)
	//   - bool: Whether categorization was successful
	//   - error: Any error encountered during categorization
	Categorize(ctx context.Context, tx Transaction) (models.Category, bool, error)

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string
}

// OverrideSource resolves a description to a user-assigned category.
type OverrideSource interface {
	Lookup(description string) (string, bool)
}

// Predictor is a statistical model mapping a description to a label.
type Predictor interface {
	Predict(text string) (string, error)
}
