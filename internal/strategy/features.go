// internal/strategy/features.go
package strategy

import "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/models"

// Canonical feature names, in declared order.
const (
	FeatureStudyHours          = "study_hours"
	FeatureStudyDays           = "study_days"
	FeaturePracticeVolume      = "practice_volume"
	FeatureMockFrequency       = "mock_frequency"
	FeatureReviewFrequency     = "review_frequency"
	FeatureFocus               = "focus"
	FeatureConfidence          = "confidence"
	FeatureAnxietyInverted     = "anxiety_inverted"
	FeatureDistractionInverted = "distraction_inverted"
)

// FeatureSchema is the declared order used when a model does not name its features.
var FeatureSchema = []string{
	FeatureStudyHours,
	FeatureStudyDays,
	FeaturePracticeVolume,
	FeatureMockFrequency,
	FeatureReviewFrequency,
	FeatureFocus,
	FeatureConfidence,
	FeatureAnxietyInverted,
	FeatureDistractionInverted,
}

// column names used by models trained on the survey export
var legacyAliases = map[string]string{
	"Jam_Belajar":      FeatureStudyHours,
	"Hari_Belajar":     FeatureStudyDays,
	"Latihan_Soal":     FeaturePracticeVolume,
	"Frekuensi_Tryout": FeatureMockFrequency,
	"Review_Soal":      FeatureReviewFrequency,
	"Fokus":            FeatureFocus,
	"Percaya_Diri":     FeatureConfidence,
	"Kecemasan_Rev":    FeatureAnxietyInverted,
	"Distraksi_Rev":    FeatureDistractionInverted,
}

// CanonicalName resolves a model column name to a canonical feature, if known.
func CanonicalName(name string) (string, bool) {
	if canonical, ok := legacyAliases[name]; ok {
		return canonical, true
	}
	for _, f := range FeatureSchema {
		if f == name {
			return f, true
		}
	}
	return "", false
}

// BuildFeatures maps a profile onto the canonical features. Anxiety and
// distraction are inverted (6 - rating) so that higher is always better.
func BuildFeatures(p models.StudentProfile) map[string]float64 {
	return map[string]float64{
		FeatureStudyHours:          float64(p.Behavior.StudyHours),
		FeatureStudyDays:           float64(p.Behavior.StudyDays),
		FeaturePracticeVolume:      float64(p.Behavior.Practice),
		FeatureMockFrequency:       float64(p.Behavior.MockFrequency),
		FeatureReviewFrequency:     float64(p.Behavior.Review),
		FeatureFocus:               float64(p.Psychology.Focus),
		FeatureConfidence:          float64(p.Psychology.Confidence),
		FeatureAnxietyInverted:     float64(6 - p.Psychology.Anxiety),
		FeatureDistractionInverted: float64(6 - p.Psychology.Distraction),
	}
}

// Align orders features the way the model expects, filling unknown columns with 0.
func Align(features map[string]float64, modelNames []string) []float64 {
	if len(modelNames) == 0 {
		modelNames = FeatureSchema
	}
	out := make([]float64, len(modelNames))
	for i, name := range modelNames {
		if canonical, ok := CanonicalName(name); ok {
			out[i] = features[canonical]
		}
	}
	return out
}
