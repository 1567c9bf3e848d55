// Package classifier provides the optional statistical fallback used when no
// rule matches a description. A Model is a pre-trained classifier paired with
// the vectorizer that turns text into its features; it is loaded, never
// trained, by this program.
package classifier

import (
	"errors"
	"fmt"
	"os"

	"fjacquet/stmt-categorizer/internal/logging"
)

// ErrNoFeatures is returned when the vectorizer yields nothing to classify.
var ErrNoFeatures = errors.New("no features extracted")

// ErrNoModel is returned when Predict is called on an absent model.
var ErrNoModel = errors.New("statistical model not loaded")

// Vectorizer turns a description into classifier features.
type Vectorizer interface {
	Transform(text string) []string
}

// Classifier predicts a label from features.
type Classifier interface {
	Predict(features []string) (string, error)
}

// Model pairs a Classifier with its Vectorizer.
type Model struct {
	classifier Classifier
	vectorizer Vectorizer
}

// NewModel returns nil unless both parts are present.
func NewModel(c Classifier, v Vectorizer) *Model {
	if c == nil || v == nil {
		return nil
	}
	return &Model{classifier: c, vectorizer: v}
}

// Predict vectorizes text and classifies it.
func (m *Model) Predict(text string) (string, error) {
	if m == nil {
		return "", ErrNoModel
	}
	features := m.vectorizer.Transform(text)
	if len(features) == 0 {
		return "", ErrNoFeatures
	}
	return m.classifier.Predict(features)
}

// Load reads the classifier and vectorizer artifacts. When either file is
// missing the model is absent and Load returns (nil, nil); a file that exists
// but cannot be read is an error.
func Load(classifierPath, vectorizerPath string, logger logging.Logger) (*Model, error) {
	logger = logging.OrDefault(logger)

	for _, p := range []string{classifierPath, vectorizerPath} {
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				logger.Debug("Statistical model not available",
					logging.Field{Key: logging.FieldFile, Value: p})
				return nil, nil
			}
			return nil, fmt.Errorf("checking model artifact %s: %w", p, err)
		}
	}

	clf, err := LoadBayesClassifier(classifierPath)
	if err != nil {
		return nil, err
	}
	vec, err := LoadTokenVectorizer(vectorizerPath)
	if err != nil {
		return nil, err
	}

	logger.Info("Loaded statistical model",
		logging.Field{Key: logging.FieldFile, Value: classifierPath},
		logging.Field{Key: logging.FieldCount, Value: len(clf.Classes())})
	return NewModel(clf, vec), nil
}
