package categorizer

import (
	"fmt"
	"strings"

	"fjacquet/stmt-categorizer/internal/models"
)

// StrategyResult is the outcome of one stage for one transaction.
type StrategyResult struct {
	Strategy string
	Category models.Category
	Found    bool
	Error    error
}

// StrategyResults lists the stages in evaluation order.
type StrategyResults struct {
	Results []StrategyResult
}

// Winner returns the first successful result.
func (sr StrategyResults) Winner() (StrategyResult, bool) {
	for _, r := range sr.Results {
		if r.Found && r.Error == nil {
			return r, true
		}
	}
	return StrategyResult{}, false
}

// Errors returns all errors encountered during strategy execution.
func (sr StrategyResults) Errors() []error {
	var errs []error
	for _, r := range sr.Results {
		if r.Error != nil {
			errs = append(errs, fmt.Errorf("%s strategy: %w", r.Strategy, r.Error))
		}
	}
	return errs
}

// Summary returns a human-readable summary of all strategy attempts
func (sr StrategyResults) Summary() string {
	var parts []string
	for _, r := range sr.Results {
		status := "no_match"
		switch {
		case r.Error != nil:
			status = "failed"
		case r.Found:
			status = "matched " + r.Category.Name
		}
		parts = append(parts, fmt.Sprintf("%s:%s", r.Strategy, status))
	}
	return strings.Join(parts, ", ")
}
