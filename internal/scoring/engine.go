// Package scoring turns a completed student profile into a ScoringResult:
// weighted composite, admission probability, readiness indices and risk.
package scoring

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/errors"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/logger"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/models"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/reference"
)

// StrategyRecommender is the optional classifier consulted after scoring.
// Implementations must not panic and must report failures inside the verdict.
type StrategyRecommender interface {
	Recommend(profile models.StudentProfile) models.StrategyVerdict
}

// Tables is the subset of the reference catalog the engine reads.
type Tables interface {
	WeightsFor(major string) models.WeightVector
	InstitutionBand(name string) models.InstitutionBand
	AlternativesFor(major string) []string
}

type EngineOptions struct {
	Policy   *ProbabilityPolicy
	Strategy StrategyRecommender
	Logger   logger.Logger
}

// Engine is stateless apart from its read-only collaborators and may be shared.
type Engine struct {
	tables   Tables
	policy   ProbabilityPolicy
	strategy StrategyRecommender
	logger   logger.Logger
	validate *validator.Validate
}

func NewEngine(tables Tables, opts EngineOptions) *Engine {
	policy := DefaultPolicy()
	if opts.Policy != nil {
		policy = *opts.Policy
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Engine{
		tables:   tables,
		policy:   policy,
		strategy: opts.Strategy,
		logger:   log.WithFields(map[string]interface{}{"component": "scoring"}),
		validate: newProfileValidator(),
	}
}

// NewDefaultEngine scores against the builtin tables with no classifier.
func NewDefaultEngine() *Engine {
	catalog, err := reference.NewCatalog(reference.SourceBuiltin, reference.Builtin())
	if err != nil {
		panic(err)
	}
	return NewEngine(catalog, EngineOptions{})
}

func (e *Engine) Policy() ProbabilityPolicy { return e.policy }

func newProfileValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate reports every missing subtest code, unknown score key and survey
// rating in one error. Range checks belong to the survey wizard.
func (e *Engine) Validate(profile models.StudentProfile) error {
	var missing []string
	for _, code := range profile.Scores.Missing() {
		missing = append(missing, "scores."+string(code))
	}
	for _, code := range profile.Scores.Unknown() {
		missing = append(missing, "scores."+string(code)+" (unknown subtest)")
	}

	if err := e.validate.Struct(profile); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				missing = append(missing, trimRootNamespace(fe.Namespace()))
			}
		} else {
			return apperrors.NewInternalError(err)
		}
	}

	if len(missing) > 0 {
		return apperrors.NewProfileIncompleteError(missing)
	}
	return nil
}

func trimRootNamespace(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// Compute scores a complete profile. A failing classifier never fails Compute.
func (e *Engine) Compute(profile models.StudentProfile) (*models.ScoringResult, error) {
	if err := e.Validate(profile); err != nil {
		return nil, err
	}

	weights := e.tables.WeightsFor(profile.Major)
	band := e.tables.InstitutionBand(profile.Institution)

	composite, err := WeightedComposite(profile.Scores, weights)
	if err != nil {
		return nil, apperrors.NewProfileIncompleteError([]string{err.Error()})
	}

	probability := e.policy.Classify(composite, band)

	psy := profile.Psychology
	beh := profile.Behavior
	indices := models.ReadinessIndices{
		Psychological: PsychologicalIndex(psy.Focus, psy.Confidence, psy.Anxiety, psy.Distraction),
		Consistency:   ConsistencyIndex(beh.StudyHours, beh.StudyDays, beh.Practice, beh.MockFrequency, beh.Review),
		Stability:     StabilityIndex(psy.Focus, psy.Confidence, psy.Anxiety, psy.Distraction),
	}
	risk := e.policy.RiskForBlended(indices.Stability*0.6 + indices.Consistency*0.4)

	result := &models.ScoringResult{
		Profile:       cloneProfile(profile),
		Weights:       weights,
		Band:          band,
		Composite:     composite,
		Mean:          profile.Scores.Mean(),
		Probability:   probability,
		Gap:           composite - band.Min,
		IsSafe:        probability.Label == models.ProbabilityVerySafe || probability.Label == models.ProbabilitySafe,
		Indices:       indices,
		Risk:          risk,
		Alternatives:  e.tables.AlternativesFor(profile.Major),
		Contributions: Contributions(profile.Scores, weights),
	}

	if e.strategy != nil {
		verdict := e.strategy.Recommend(profile)
		result.Strategy = &verdict
	}

	fields := map[string]interface{}{
		"major":       profile.Major,
		"institution": profile.Institution,
		"composite":   composite,
		"probability": probability.Label,
		"gap":         result.Gap,
		"risk":        risk.Level,
	}
	if result.Strategy != nil {
		fields["strategyStatus"] = result.Strategy.Status
	}
	e.logger.Debug("readiness computed", fields)

	return result, nil
}

func cloneProfile(p models.StudentProfile) models.StudentProfile {
	scores := make(models.SubtestScores, len(p.Scores))
	for k, v := range p.Scores {
		scores[k] = v
	}
	p.Scores = scores
	return p
}
