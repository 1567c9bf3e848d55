package models

// Category is the outcome of one categorization strategy.
type Category struct {
	Name string
	// Score is the similarity that selected the category, 100 for exact lookups.
	Score float64
}

// CategoryRule maps a category to the keywords that identify it.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// CategoriesConfig represents the structure of the categories YAML file.
// The order of the list is the order rules are evaluated in.
type CategoriesConfig struct {
	Categories []CategoryRule `yaml:"categories"`
}

// MerchantCodesConfig represents the structure of the merchant codes YAML file.
type MerchantCodesConfig struct {
	Codes map[string]string `yaml:"merchant_codes"`
}

// Overrides maps a folded description to the category a user assigned to it.
type Overrides map[string]string

// Lookup returns the override for description, folding it first.
func (o Overrides) Lookup(description string) (string, bool) {
	category, ok := o[FoldDescription(description)]
	return category, ok
}
