// Package categorizer assigns a category to a transaction description by
// running an ordered chain of strategies: user overrides, merchant category
// codes, fuzzy keyword rules, and an optional statistical model. The first
// stage that finds a category wins; otherwise the fallback label is used.
package categorizer

import (
	"context"
	"errors"
	"unicode/utf8"

	"fjacquet/stmt-categorizer/internal/logging"
	"fjacquet/stmt-categorizer/internal/models"
	"fjacquet/stmt-categorizer/internal/rules"
)

// DefaultThreshold is the minimum keyword similarity accepted.
const DefaultThreshold = 60

// ErrInvalidDescription is returned for descriptions that are not valid UTF-8.
var ErrInvalidDescription = errors.New("description is not valid UTF-8 text")

// Config holds the static inputs of the chain. Zero values select the
// built-in defaults.
type Config struct {
	Rules         []models.CategoryRule
	MerchantCodes map[string]string
	Threshold     float64
	Fallback      string
	// Model is optional; leave nil when no artifacts are loaded.
	Model Predictor
}

// Categorizer runs the strategy chain.
type Categorizer struct {
	override   *OverrideStrategy
	strategies []CategorizationStrategy
	vocabulary []string
	fallback   string
	logger     logging.Logger
}

// New builds a Categorizer. overrides may be nil.
func New(overrides OverrideSource, cfg Config, logger logging.Logger) *Categorizer {
	logger = logging.OrDefault(logger)

	ruleSet := cfg.Rules
	if len(ruleSet) == 0 {
		ruleSet = rules.DefaultCategoryRules()
	}
	codes := cfg.MerchantCodes
	if codes == nil {
		codes = rules.DefaultMerchantCodes()
	}
	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	fallback := cfg.Fallback
	if fallback == "" {
		fallback = models.CategoryOther
	}

	keyword := NewKeywordStrategy(ruleSet, threshold, logger)
	vocabulary := rules.Vocabulary(keyword.rules)

	strategies := []CategorizationStrategy{
		NewMerchantCodeStrategy(codes, logger),
		keyword,
	}
	if cfg.Model != nil {
		strategies = append(strategies, NewModelStrategy(cfg.Model, vocabulary, fallback, logger))
	}

	return &Categorizer{
		override:   NewOverrideStrategy(overrides, logger),
		strategies: strategies,
		vocabulary: vocabulary,
		fallback:   fallback,
		logger:     logger,
	}
}

// WithOverrides returns a categorizer sharing every stage with c except the
// override stage, which reads source.
func (c *Categorizer) WithOverrides(source OverrideSource) *Categorizer {
	clone := *c
	clone.override = NewOverrideStrategy(source, c.logger)
	return &clone
}

// Categories returns the rule vocabulary followed by the fallback label.
func (c *Categorizer) Categories() []string {
	out := make([]string, 0, len(c.vocabulary)+1)
	out = append(out, c.vocabulary...)
	for _, v := range c.vocabulary {
		if v == c.fallback {
			return out
		}
	}
	return append(out, c.fallback)
}

// Fallback returns the label used when no stage matches.
func (c *Categorizer) Fallback() string {
	return c.fallback
}

func (c *Categorizer) chain() []CategorizationStrategy {
	return append([]CategorizationStrategy{c.override}, c.strategies...)
}

// AssignCategory returns the category for one entry. Failing stages are
// logged and skipped; only an invalid description is an error.
func (c *Categorizer) AssignCategory(ctx context.Context, description, mcc string) (string, error) {
	if !utf8.ValidString(description) {
		return "", ErrInvalidDescription
	}
	tx := Transaction{Description: description, MerchantCategoryCode: mcc}

	for _, strategy := range c.chain() {
		category, found, err := strategy.Categorize(ctx, tx)
		if err != nil {
			c.logger.WithError(err).WithField(logging.FieldStrategy, strategy.Name()).
				Warn("Categorization stage failed, continuing")
			continue
		}
		if found {
			return category.Name, nil
		}
	}

	c.logger.WithFields(
		logging.Field{Key: logging.FieldDescription, Value: description},
		logging.Field{Key: logging.FieldCategory, Value: c.fallback},
	).Debug("No stage matched, using fallback")
	return c.fallback, nil
}

// Explain runs every stage without stopping at the first match.
func (c *Categorizer) Explain(ctx context.Context, description, mcc string) (StrategyResults, error) {
	if !utf8.ValidString(description) {
		return StrategyResults{}, ErrInvalidDescription
	}
	tx := Transaction{Description: description, MerchantCategoryCode: mcc}

	var results StrategyResults
	for _, strategy := range c.chain() {
		category, found, err := strategy.Categorize(ctx, tx)
		results.Results = append(results.Results, StrategyResult{
			Strategy: strategy.Name(),
			Category: category,
			Found:    found,
			Error:    err,
		})
	}
	return results, nil
}
