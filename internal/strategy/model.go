// internal/strategy/model.go
package strategy

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Classifier predicts a class index from an aligned feature vector.
type Classifier interface {
	FeatureNames() []string
	Predict(x []float64) (int, error)
}

// ConfidenceClassifier also reports per-class probabilities.
type ConfidenceClassifier interface {
	Classifier
	PredictProba(x []float64) ([]float64, error)
}

// Artifact kinds.
const (
	KindSoftmax         = "softmax"
	KindNearestCentroid = "nearest-centroid"
)

// Artifact is the on-disk model document.
type Artifact struct {
	Kind         string      `json:"kind"`
	Version      string      `json:"version,omitempty"`
	FeatureNames []string    `json:"featureNames"`
	Coefficients [][]float64 `json:"coefficients,omitempty"`
	Intercepts   []float64   `json:"intercepts,omitempty"`
	Centroids    [][]float64 `json:"centroids,omitempty"`
}

const artifactSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["kind", "featureNames"],
  "properties": {
    "kind": {"type": "string", "enum": ["softmax", "nearest-centroid"]},
    "version": {"type": "string"},
    "featureNames": {"type": "array", "minItems": 1, "items": {"type": "string"}},
    "coefficients": {"type": "array", "minItems": 1, "items": {"type": "array", "items": {"type": "number"}}},
    "intercepts": {"type": "array", "items": {"type": "number"}},
    "centroids": {"type": "array", "minItems": 1, "items": {"type": "array", "items": {"type": "number"}}}
  },
  "allOf": [
    {"if": {"properties": {"kind": {"const": "softmax"}}}, "then": {"required": ["coefficients", "intercepts"]}},
    {"if": {"properties": {"kind": {"const": "nearest-centroid"}}}, "then": {"required": ["centroids"]}}
  ]
}`

var artifactSchemaLoader = gojsonschema.NewStringLoader(artifactSchema)

// DecodeArtifact validates data against the artifact schema and builds the classifier.
func DecodeArtifact(data []byte) (Classifier, error) {
	result, err := gojsonschema.Validate(artifactSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("invalid model artifact: %s", strings.Join(msgs, "; "))
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact: %w", err)
	}
	return a.Build()
}

// Build checks dimensions and returns the classifier the artifact describes.
func (a Artifact) Build() (Classifier, error) {
	width := len(a.FeatureNames)
	switch a.Kind {
	case KindSoftmax:
		if len(a.Coefficients) != len(a.Intercepts) {
			return nil, fmt.Errorf("softmax model has %d coefficient rows but %d intercepts", len(a.Coefficients), len(a.Intercepts))
		}
		for i, row := range a.Coefficients {
			if len(row) != width {
				return nil, fmt.Errorf("coefficient row %d has width %d, want %d", i, len(row), width)
			}
		}
		return &softmaxModel{names: a.FeatureNames, coef: a.Coefficients, intercept: a.Intercepts}, nil
	case KindNearestCentroid:
		for i, c := range a.Centroids {
			if len(c) != width {
				return nil, fmt.Errorf("centroid %d has width %d, want %d", i, len(c), width)
			}
		}
		return &centroidModel{names: a.FeatureNames, centroids: a.Centroids}, nil
	default:
		return nil, fmt.Errorf("unsupported model kind %q", a.Kind)
	}
}

func checkWidth(x []float64, want int) error {
	if len(x) != want {
		return fmt.Errorf("feature vector has width %d, model expects %d", len(x), want)
	}
	return nil
}

// ==========================
// Multinomial logistic model
// ==========================

type softmaxModel struct {
	names     []string
	coef      [][]float64
	intercept []float64
}

func (m *softmaxModel) FeatureNames() []string { return m.names }

func (m *softmaxModel) logits(x []float64) ([]float64, error) {
	if err := checkWidth(x, len(m.names)); err != nil {
		return nil, err
	}
	out := make([]float64, len(m.coef))
	for k, row := range m.coef {
		z := m.intercept[k]
		for i, w := range row {
			z += w * x[i]
		}
		out[k] = z
	}
	return out, nil
}

func (m *softmaxModel) Predict(x []float64) (int, error) {
	z, err := m.logits(x)
	if err != nil {
		return 0, err
	}
	best := 0
	for k := range z {
		if z[k] > z[best] {
			best = k
		}
	}
	return best, nil
}

func (m *softmaxModel) PredictProba(x []float64) ([]float64, error) {
	z, err := m.logits(x)
	if err != nil {
		return nil, err
	}
	maxZ := math.Inf(-1)
	for _, v := range z {
		maxZ = math.Max(maxZ, v)
	}
	sum := 0.0
	p := make([]float64, len(z))
	for k, v := range z {
		p[k] = math.Exp(v - maxZ)
		sum += p[k]
	}
	for k := range p {
		p[k] /= sum
	}
	return p, nil
}

// ==========================
// Nearest-centroid model
// ==========================

type centroidModel struct {
	names     []string
	centroids [][]float64
}

func (m *centroidModel) FeatureNames() []string { return m.names }

func (m *centroidModel) Predict(x []float64) (int, error) {
	if err := checkWidth(x, len(m.names)); err != nil {
		return 0, err
	}
	best, bestDist := 0, math.Inf(1)
	for k, c := range m.centroids {
		d := 0.0
		for i := range c {
			diff := x[i] - c[i]
			d += diff * diff
		}
		if d < bestDist {
			best, bestDist = k, d
		}
	}
	return best, nil
}
