// internal/scoring/policy.go
package scoring

import (
	"fmt"
	"math"

	"github.com/mitchellh/mapstructure"

	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/models"
)

// ProbabilityPolicy holds the constants of the five-tier admission classifier
// and the risk thresholds. Zero-value fields are not meaningful; start from
// DefaultPolicy and override.
type ProbabilityPolicy struct {
	VerySafeBase  float64 `mapstructure:"very_safe_base" json:"verySafeBase"`
	VerySafeSlope float64 `mapstructure:"very_safe_slope" json:"verySafeSlope"`
	VerySafeCap   float64 `mapstructure:"very_safe_cap" json:"verySafeCap"`

	SafeBase float64 `mapstructure:"safe_base" json:"safeBase"`
	SafeSpan float64 `mapstructure:"safe_span" json:"safeSpan"`

	CompetitiveWindow float64 `mapstructure:"competitive_window" json:"competitiveWindow"`
	CompetitiveBase   float64 `mapstructure:"competitive_base" json:"competitiveBase"`
	CompetitiveSpan   float64 `mapstructure:"competitive_span" json:"competitiveSpan"`

	AtRiskWindow        float64 `mapstructure:"at_risk_window" json:"atRiskWindow"`
	AtRiskPercent       float64 `mapstructure:"at_risk_percent" json:"atRiskPercent"`
	NeedsImprovementPct float64 `mapstructure:"needs_improvement_percent" json:"needsImprovementPercent"`

	SuccessColor string `mapstructure:"success_color" json:"successColor"`
	WarningColor string `mapstructure:"warning_color" json:"warningColor"`
	DangerColor  string `mapstructure:"danger_color" json:"dangerColor"`

	RiskLowThreshold    float64 `mapstructure:"risk_low_threshold" json:"riskLowThreshold"`
	RiskMediumThreshold float64 `mapstructure:"risk_medium_threshold" json:"riskMediumThreshold"`
}

func DefaultPolicy() ProbabilityPolicy {
	return ProbabilityPolicy{
		VerySafeBase:        76,
		VerySafeSlope:       12,
		VerySafeCap:         93,
		SafeBase:            62,
		SafeSpan:            13,
		CompetitiveWindow:   70,
		CompetitiveBase:     32,
		CompetitiveSpan:     25,
		AtRiskWindow:        140,
		AtRiskPercent:       16,
		NeedsImprovementPct: 8,
		SuccessColor:        "#52c97a",
		WarningColor:        "#e09a52",
		DangerColor:         "#e06c75",
		RiskLowThreshold:    75,
		RiskMediumThreshold: 60,
	}
}

// PolicyWithOverrides decodes overrides (keys as in the mapstructure tags)
// over DefaultPolicy and validates the outcome.
func PolicyWithOverrides(overrides map[string]interface{}) (ProbabilityPolicy, error) {
	policy := DefaultPolicy()
	if len(overrides) == 0 {
		return policy, nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &policy,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return policy, err
	}
	if err := decoder.Decode(overrides); err != nil {
		return policy, fmt.Errorf("decode probability overrides: %w", err)
	}
	if err := policy.Validate(); err != nil {
		return policy, err
	}
	return policy, nil
}

// Classify places composite in one of five tiers against band. Every boundary
// is inclusive on the favourable side.
func (p ProbabilityPolicy) Classify(composite float64, band models.InstitutionBand) models.Probability {
	gap := composite - band.Min

	switch {
	case composite >= band.Max:
		pct := p.VerySafeBase
		if band.Max > 0 {
			pct += (composite - band.Max) / band.Max * p.VerySafeSlope
		}
		return p.probability(models.ProbabilityVerySafe, models.SeveritySuccess, math.Min(p.VerySafeCap, pct))
	case composite >= band.Min:
		pct := p.SafeBase + (composite-band.Min)/(band.Max-band.Min)*p.SafeSpan
		return p.probability(models.ProbabilitySafe, models.SeveritySuccess, pct)
	case composite >= band.Min-p.CompetitiveWindow:
		pct := p.CompetitiveBase + (p.CompetitiveWindow+gap)/p.CompetitiveWindow*p.CompetitiveSpan
		return p.probability(models.ProbabilityCompetitive, models.SeverityWarning, pct)
	case composite >= band.Min-p.AtRiskWindow:
		return p.probability(models.ProbabilityAtRisk, models.SeverityDanger, p.AtRiskPercent)
	default:
		return p.probability(models.ProbabilityNeedsImprovement, models.SeverityDanger, p.NeedsImprovementPct)
	}
}

func (p ProbabilityPolicy) probability(label, severity string, pct float64) models.Probability {
	color := p.DangerColor
	switch severity {
	case models.SeveritySuccess:
		color = p.SuccessColor
	case models.SeverityWarning:
		color = p.WarningColor
	}
	return models.Probability{Label: label, Severity: severity, Color: color, Percentage: pct}
}

var riskAdvisories = map[string]string{
	models.RiskLow:    "Likely to perform at or above your ability.",
	models.RiskMedium: "Some potential for fluctuation; keep your routine consistent.",
	models.RiskHigh:   "Risk of performing below your ability; habits and mindset need work.",
}

// RiskForBlended maps a blended stability/consistency value to a risk level.
func (p ProbabilityPolicy) RiskForBlended(blended float64) models.Risk {
	level := models.RiskHigh
	switch {
	case blended >= p.RiskLowThreshold:
		level = models.RiskLow
	case blended >= p.RiskMediumThreshold:
		level = models.RiskMedium
	}
	return models.Risk{Level: level, Advisory: riskAdvisories[level], Blended: blended}
}

// Validate rejects policies whose tiers would overlap or invert.
func (p ProbabilityPolicy) Validate() error {
	switch {
	case p.CompetitiveWindow <= 0:
		return errInvalidPolicy("competitive_window must be positive")
	case p.AtRiskWindow <= p.CompetitiveWindow:
		return errInvalidPolicy("at_risk_window must exceed competitive_window")
	case p.VerySafeCap < p.VerySafeBase:
		return errInvalidPolicy("very_safe_cap must be at least very_safe_base")
	case p.RiskLowThreshold <= p.RiskMediumThreshold:
		return errInvalidPolicy("risk_low_threshold must exceed risk_medium_threshold")
	}
	return nil
}

type errInvalidPolicy string

func (e errInvalidPolicy) Error() string { return "invalid probability policy: " + string(e) }
