// Package strategy wraps an optional pre-trained classifier that maps study
// habits and psychological ratings to one of four coarse strategy labels.
package strategy

import (
	"fmt"

	apperrors "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/errors"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/logger"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/models"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/reference"
)

// Adapter is safe for concurrent use once built; the model is read-only.
type Adapter struct {
	model  Classifier
	proba  ConfidenceClassifier
	source string
	logger logger.Logger
}

// NewAdapter decides the model's capabilities once. A nil model yields an
// adapter that always reports "unavailable".
func NewAdapter(model Classifier, source string, log logger.Logger) *Adapter {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	a := &Adapter{
		model:  model,
		source: source,
		logger: log.WithFields(map[string]interface{}{"component": "strategy"}),
	}
	if cc, ok := model.(ConfidenceClassifier); ok {
		a.proba = cc
	}
	return a
}

// Available reports whether a model is loaded.
func (a *Adapter) Available() bool { return a != nil && a.model != nil }

// HasConfidence reports whether the model exposes class probabilities.
func (a *Adapter) HasConfidence() bool { return a != nil && a.proba != nil }

// Source is the artifact path the model was loaded from.
func (a *Adapter) Source() string {
	if a == nil {
		return ""
	}
	return a.source
}

// Recommend never fails; problems are reported inside the verdict.
func (a *Adapter) Recommend(profile models.StudentProfile) (verdict models.StrategyVerdict) {
	if !a.Available() {
		err := apperrors.NewStrategyModelUnavailableError()
		return models.StrategyVerdict{Status: models.VerdictUnavailable, Error: err.Message}
	}

	defer func() {
		if r := recover(); r != nil {
			verdict = a.failed(fmt.Errorf("model panicked: %v", r))
		}
	}()

	x := Align(BuildFeatures(profile), a.model.FeatureNames())

	code, err := a.model.Predict(x)
	if err != nil {
		return a.failed(err)
	}

	label := reference.StrategyLabel(code)
	verdict = models.StrategyVerdict{Status: models.VerdictOK, Code: code, Label: label}
	if detail, ok := reference.StrategyDetail(label); ok {
		verdict.Detail = &detail
	}

	if a.proba != nil {
		p, err := a.proba.PredictProba(x)
		if err != nil {
			return a.failed(err)
		}
		if code >= 0 && code < len(p) {
			pct := p[code] * 100
			verdict.Confidence = &pct
		}
	}
	return verdict
}

func (a *Adapter) failed(err error) models.StrategyVerdict {
	stdErr := apperrors.NewStrategyPredictionFailedError(err)
	a.logger.Warn("strategy prediction failed", map[string]interface{}{
		"source": a.source,
		"error":  err.Error(),
	})
	return models.StrategyVerdict{Status: models.VerdictFailed, Error: stdErr.Details}
}
