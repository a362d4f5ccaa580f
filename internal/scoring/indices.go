// internal/scoring/indices.go
package scoring

import (
	"fmt"
	"strings"

	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/models"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/reference"
)

// WeightedComposite sums score x weight over the seven subtests. Missing codes
// in either map are all reported in one error.
func WeightedComposite(scores models.SubtestScores, weights models.WeightVector) (float64, error) {
	var missing []string
	for _, code := range scores.Missing() {
		missing = append(missing, "score "+string(code))
	}
	for _, code := range weights.Missing() {
		missing = append(missing, "weight "+string(code))
	}
	if len(missing) > 0 {
		return 0, fmt.Errorf("composite needs all subtests, missing: %s", strings.Join(missing, ", "))
	}

	total := 0.0
	for _, code := range models.AllSubtests() {
		total += float64(scores[code]) * weights[code]
	}
	return total, nil
}

// Contributions breaks the composite down per subtest in canonical order.
func Contributions(scores models.SubtestScores, weights models.WeightVector) []models.Contribution {
	out := make([]models.Contribution, 0, len(models.AllSubtests()))
	for _, code := range models.AllSubtests() {
		out = append(out, models.Contribution{
			Subtest: code,
			Name:    reference.SubtestName(code),
			Score:   scores[code],
			Weight:  weights[code],
			Points:  float64(scores[code]) * weights[code],
		})
	}
	return out
}

// ClassifyProbability uses DefaultPolicy.
func ClassifyProbability(composite float64, band models.InstitutionBand) models.Probability {
	return DefaultPolicy().Classify(composite, band)
}

// PsychologicalIndex rewards focus and confidence and penalises anxiety and
// distraction. The raw formula tops out at 125, so the result is clamped.
func PsychologicalIndex(focus, confidence, anxiety, distraction int) float64 {
	raw := (float64(focus)*1.5 + float64(confidence)*1.5 + float64(6-anxiety) + float64(6-distraction)) / 20 * 100
	return clamp(raw, 0, 100)
}

// ConsistencyIndex scores study habits.
func ConsistencyIndex(hours, days, practice, mockFrequency, review int) float64 {
	raw := (float64(hours)*2 + float64(days)*2.2 + float64(practice)*1.8 +
		float64(mockFrequency)*1.5 + float64(review)*1.5) * 2
	return clamp(raw, 0, 100)
}

// StabilityIndex weighs positive against negative psychological signals.
func StabilityIndex(focus, confidence, anxiety, distraction int) float64 {
	pos := (float64(focus)*1.5 + float64(confidence)*1.5) * 10
	neg := (float64(anxiety)*1.2 + float64(distraction)*1.2) * 8
	return clamp(pos-neg+50, 0, 100)
}

// UnderperformanceRisk blends stability (60%) and consistency (40%).
func UnderperformanceRisk(stability, consistency float64) models.Risk {
	return RiskForBlended(stability*0.6 + consistency*0.4)
}

// RiskForBlended uses DefaultPolicy thresholds.
func RiskForBlended(blended float64) models.Risk {
	return DefaultPolicy().RiskForBlended(blended)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
