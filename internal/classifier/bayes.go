package classifier

import (
	"fmt"

	"github.com/jbrukh/bayesian"
)

// BayesClassifier adapts a naive Bayes classifier snapshot.
type BayesClassifier struct {
	clf *bayesian.Classifier
}

// NewBayesClassifier wraps an in-memory classifier.
func NewBayesClassifier(clf *bayesian.Classifier) *BayesClassifier {
	return &BayesClassifier{clf: clf}
}

// LoadBayesClassifier reads a classifier written with WriteToFile.
func LoadBayesClassifier(path string) (*BayesClassifier, error) {
	clf, err := bayesian.NewClassifierFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading classifier %s: %w", path, err)
	}
	if len(clf.Classes) == 0 {
		return nil, fmt.Errorf("classifier %s has no classes", path)
	}
	return &BayesClassifier{clf: clf}, nil
}

// Classes returns the labels the classifier can predict.
func (b *BayesClassifier) Classes() []string {
	out := make([]string, len(b.clf.Classes))
	for i, c := range b.clf.Classes {
		out[i] = string(c)
	}
	return out
}

// Predict returns the class with the highest log score.
func (b *BayesClassifier) Predict(features []string) (label string, err error) {
	if len(features) == 0 {
		return "", ErrNoFeatures
	}
	// LogScores panics on a TF-IDF snapshot that was never converted.
	defer func() {
		if r := recover(); r != nil {
			label, err = "", fmt.Errorf("classifier failed: %v", r)
		}
	}()

	_, inx, _ := b.clf.LogScores(features)
	if inx < 0 || inx >= len(b.clf.Classes) {
		return "", fmt.Errorf("classifier returned class index %d", inx)
	}
	return string(b.clf.Classes[inx]), nil
}
