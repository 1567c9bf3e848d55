package rules

import (
	"strings"

	"fjacquet/stmt-categorizer/internal/models"
)

// DefaultCategoryRules returns the built-in keyword rules in evaluation order.
// The slice is freshly allocated on every call.
func DefaultCategoryRules() []models.CategoryRule {
	return []models.CategoryRule{
		{Name: models.CategoryGroceries, Keywords: []string{"supermarket", "grocery", "almaya", "carrefour", "spinneys"}},
		{Name: models.CategoryTransport, Keywords: []string{"uber", "taxi", "transport", "metro", "bus", "toll", "petrol", "fuel", "careem", "arabia taxi"}},
		{Name: models.CategoryDining, Keywords: []string{"restaurant", "cafe", "coffee", "mcdonald", "burger", "diner", "pizza", "osteria", "trattoria", "nonna"}},
		{Name: models.CategoryEntertainment, Keywords: []string{"netflix", "hulu", "spotify", "cinema", "movie", "concert", "youtube", "premium"}},
		{Name: models.CategoryUtilities, Keywords: []string{"electricity", "water", "gas", "internet", "du", "etisalat", "vodafone"}},
		{Name: models.CategoryHealthcare, Keywords: []string{"clinic", "hospital", "pharmacy", "medic", "lab", "insurance", "dr.", "rx"}},
		{Name: models.CategoryShopping, Keywords: []string{"amazon", "noon", "mall", "zara", "hm", "electronics", "gift", "souq", "homecentre"}},
		{Name: models.CategorySubscriptions, Keywords: []string{"subscription", "membership", "gym", "adobe", "office365"}},
		{Name: models.CategoryTravel, Keywords: []string{"booking.com", "airbnb", "hotel", "emirates", "flydubai", "visa"}},
		{Name: models.CategoryEducation, Keywords: []string{"udemy", "coursera", "tuition", "school", "university", "bookstore"}},
		{Name: models.CategoryPersonalCare, Keywords: []string{"salon", "barber", "spa", "beauty", "haircut", "nails"}},
		{Name: models.CategoryFeesAndCharges, Keywords: []string{"fee", "atm", "service charge", "penalty", "interest"}},
		{Name: models.CategoryGifts, Keywords: []string{"donation", "charity", "zakat", "fundraiser"}},
	}
}

// DefaultMerchantCodes returns the built-in merchant category code map.
func DefaultMerchantCodes() map[string]string {
	return map[string]string{
		"5411": models.CategoryGroceries,
		"5812": models.CategoryDining,
		"5814": models.CategoryDining,
		"5541": models.CategoryTransport,
		"4814": models.CategoryUtilities,
		"5137": models.CategoryShopping,
		"7299": models.CategoryPersonalCare,
	}
}

// NormalizeRules folds every keyword, drops empty ones and drops rules left
// without a name. Order is preserved.
func NormalizeRules(in []models.CategoryRule) []models.CategoryRule {
	out := make([]models.CategoryRule, 0, len(in))
	for _, rule := range in {
		name := strings.TrimSpace(rule.Name)
		if name == "" {
			continue
		}
		keywords := make([]string, 0, len(rule.Keywords))
		for _, kw := range rule.Keywords {
			if kw = models.FoldDescription(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		out = append(out, models.CategoryRule{Name: name, Keywords: keywords})
	}
	return out
}

// Vocabulary returns the category names of rules in order, without duplicates.
func Vocabulary(rules []models.CategoryRule) []string {
	seen := make(map[string]bool, len(rules))
	names := make([]string, 0, len(rules))
	for _, rule := range rules {
		if !seen[rule.Name] {
			seen[rule.Name] = true
			names = append(names, rule.Name)
		}
	}
	return names
}
