package classifier

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

// TokenVectorizer splits text into word tokens, optionally adding word
// n-grams. Its settings are stored next to the classifier so prediction uses
// the same features as training did.
type TokenVectorizer struct {
	Lowercase      bool     `yaml:"lowercase"`
	MinTokenLength int      `yaml:"min_token_length"`
	StopWords      []string `yaml:"stop_words"`
	NGramMax       int      `yaml:"ngram_max"`

	stop map[string]bool
}

// NewTokenVectorizer returns a lowercasing unigram vectorizer.
func NewTokenVectorizer() *TokenVectorizer {
	v := &TokenVectorizer{Lowercase: true, MinTokenLength: 2, NGramMax: 1}
	v.init()
	return v
}

// LoadTokenVectorizer reads vectorizer settings from YAML.
func LoadTokenVectorizer(path string) (*TokenVectorizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading vectorizer %s: %w", path, err)
	}
	v := NewTokenVectorizer()
	if err := yaml.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("parsing vectorizer %s: %w", path, err)
	}
	if v.NGramMax < 1 {
		v.NGramMax = 1
	}
	v.init()
	return v, nil
}

func (v *TokenVectorizer) init() {
	v.stop = make(map[string]bool, len(v.StopWords))
	for _, w := range v.StopWords {
		v.stop[cases.Fold().String(w)] = true
	}
}

// Transform returns the tokens of text followed by its n-grams.
func (v *TokenVectorizer) Transform(text string) []string {
	if v.Lowercase {
		text = cases.Fold().String(text)
	}
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if len([]rune(w)) < v.MinTokenLength || v.stop[cases.Fold().String(w)] {
			continue
		}
		tokens = append(tokens, w)
	}

	features := append([]string(nil), tokens...)
	for n := 2; n <= v.NGramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			features = append(features, strings.Join(tokens[i:i+n], " "))
		}
	}
	return features
}
