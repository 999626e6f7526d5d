package model

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/gigurra/recurring-features/internal"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"
)

// Artifact file names inside a model directory.
const (
	VectorizerFile = "vectorizer.yaml"
	ClassifierFile = "classifier.yaml"
)

// DefaultThreshold is the probability at or above which a row is predicted recurring.
const DefaultThreshold = 0.5

// Vectorizer maps a feature mapping to a dense vector in a fixed column order.
// Names the vectorizer does not know are ignored; known names that are
// missing from the mapping encode as 0.
type Vectorizer struct {
	FeatureNames []string `yaml:"feature_names"`
}

// NewVectorizer creates a vectorizer over names in the given order.
func NewVectorizer(names []string) *Vectorizer {
	return &Vectorizer{FeatureNames: append([]string(nil), names...)}
}

// Len returns the vector width.
func (v *Vectorizer) Len() int {
	return len(v.FeatureNames)
}

// Transform encodes f in the vectorizer's column order.
func (v *Vectorizer) Transform(f internal.Features) []float64 {
	x := make([]float64, len(v.FeatureNames))
	for i, name := range v.FeatureNames {
		x[i] = f[name]
	}
	return x
}

// Classifier scores a vector with the probability of the positive class.
type Classifier interface {
	PredictProba(x []float64) float64
	Threshold() float64
}

// ClassifierSpec is the persisted form of a classifier.
type ClassifierSpec struct {
	Type         string    `yaml:"type"`
	Intercept    float64   `yaml:"intercept"`
	Coefficients []float64 `yaml:"coefficients"`
	Threshold    float64   `yaml:"threshold,omitempty"`
}

// Logistic is a binary logistic regression.
type Logistic struct {
	Intercept    float64
	Coefficients []float64
	Cutoff       float64
}

// PredictProba returns sigmoid(intercept + coefficients . x).
func (l *Logistic) PredictProba(x []float64) float64 {
	z := l.Intercept + floats.Dot(l.Coefficients, x)
	return 1 / (1 + math.Exp(-z))
}

// Threshold returns the decision cutoff.
func (l *Logistic) Threshold() float64 {
	return l.Cutoff
}

func newClassifier(spec ClassifierSpec, width int) (Classifier, error) {
	switch spec.Type {
	case "logistic", "":
		if len(spec.Coefficients) != width {
			return nil, fmt.Errorf("classifier has %d coefficients, vectorizer has %d features", len(spec.Coefficients), width)
		}
		cutoff := spec.Threshold
		if cutoff <= 0 || cutoff >= 1 {
			cutoff = DefaultThreshold
		}
		return &Logistic{Intercept: spec.Intercept, Coefficients: spec.Coefficients, Cutoff: cutoff}, nil
	default:
		return nil, fmt.Errorf("unsupported classifier type: %s", spec.Type)
	}
}

// Model pairs a vectorizer with the classifier trained on its columns.
type Model struct {
	Vectorizer *Vectorizer
	Classifier Classifier
}

// Predict vectorizes f and returns the predicted label and its probability.
func (m *Model) Predict(f internal.Features) (bool, float64) {
	p := m.Classifier.PredictProba(m.Vectorizer.Transform(f))
	return p >= m.Classifier.Threshold(), p
}

// LoadModelDir reads the vectorizer and classifier artifacts from dir.
func LoadModelDir(dir string) (*Model, error) {
	var vec Vectorizer
	if err := readYAML(filepath.Join(dir, VectorizerFile), &vec); err != nil {
		return nil, fmt.Errorf("loading vectorizer: %w", err)
	}
	if vec.Len() == 0 {
		return nil, fmt.Errorf("loading vectorizer: no feature names")
	}

	var spec ClassifierSpec
	if err := readYAML(filepath.Join(dir, ClassifierFile), &spec); err != nil {
		return nil, fmt.Errorf("loading classifier: %w", err)
	}
	clf, err := newClassifier(spec, vec.Len())
	if err != nil {
		return nil, fmt.Errorf("loading classifier: %w", err)
	}

	return &Model{Vectorizer: &vec, Classifier: clf}, nil
}

// SaveVectorizer writes v as the vectorizer artifact of dir.
func SaveVectorizer(dir string, v *Vectorizer) error {
	return writeYAML(filepath.Join(dir, VectorizerFile), v)
}

// SaveClassifier writes spec as the classifier artifact of dir.
func SaveClassifier(dir string, spec ClassifierSpec) error {
	return writeYAML(filepath.Join(dir, ClassifierFile), spec)
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
