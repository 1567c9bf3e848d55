// Package fuzzy implements the string similarity scores used to reconcile
// column headers and to match descriptions against category keywords.
//
// All scores are in [0, 100]. Ratio is the normalized InDel similarity
// (insertions and deletions cost 1, substitutions 2), so two strings score
// 100 when identical and 0 when they share no characters.
package fuzzy

import (
	"sort"
	"strings"
	"unicode"

	"github.com/texttheater/golang-levenshtein/levenshtein"
	"golang.org/x/text/cases"
)

// Scorer computes a similarity score in [0, 100].
type Scorer interface {
	Similarity(a, b string) float64
}

// ScorerFunc adapts a function to the Scorer interface.
type ScorerFunc func(a, b string) float64

// Similarity calls f(a, b).
func (f ScorerFunc) Similarity(a, b string) float64 {
	return f(a, b)
}

// Ready-made scorers.
var (
	PartialRatioScorer Scorer = ScorerFunc(PartialRatio)
	TokenSortScorer    Scorer = ScorerFunc(TokenSortRatio)
)

var indelOptions = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 2,
	Matches: levenshtein.IdenticalRunes,
}

// Ratio returns the normalized InDel similarity of a and b.
func Ratio(a, b string) float64 {
	return ratio([]rune(a), []rune(b))
}

func ratio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	dist := levenshtein.DistanceForStrings(a, b, indelOptions)
	return 100 * float64(total-dist) / float64(total)
}

// PartialRatio returns the best Ratio between the shorter string and any
// window of the longer one with the same length. Windows that run off either
// end of the longer string are included, so a needle overlapping the start
// or end of the haystack still scores.
func PartialRatio(a, b string) float64 {
	needle, hay := []rune(a), []rune(b)
	if len(needle) > len(hay) {
		needle, hay = hay, needle
	}
	if len(needle) == 0 {
		if len(hay) == 0 {
			return 100
		}
		return 0
	}

	n := len(needle)
	best := 0.0
	consider := func(window []rune) bool {
		if r := ratio(needle, window); r > best {
			best = r
		}
		return best == 100
	}

	for i := 0; i+n <= len(hay); i++ {
		if consider(hay[i : i+n]) {
			return 100
		}
	}
	for i := 1; i < n; i++ {
		consider(hay[:i])
	}
	for i := len(hay) - n + 1; i < len(hay); i++ {
		consider(hay[i:])
	}
	return best
}

// TokenSortRatio compares a and b after sorting their whitespace-separated
// tokens, so word order does not matter.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortTokens(a), sortTokens(b))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// Process is the default preprocessing applied before comparing headers:
// case-fold, replace everything but letters and digits with a space, trim.
func Process(s string) string {
	folded := cases.Fold().String(s)
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, folded)
	return strings.TrimSpace(mapped)
}

// Best returns the index of the candidate scoring highest against query and
// its score. Ties keep the earliest candidate. It returns -1 for no candidates.
func Best(scorer Scorer, query string, candidates []string) (int, float64) {
	idx, best := -1, -1.0
	for i, c := range candidates {
		if s := scorer.Similarity(query, c); s > best {
			idx, best = i, s
		}
	}
	if idx < 0 {
		return -1, 0
	}
	return idx, best
}
