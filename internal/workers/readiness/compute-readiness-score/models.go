// internal/workers/readiness/compute-readiness-score/models.go
package computereadinessscore

import "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/models"

type Input struct {
	Profile models.StudentProfile `json:"profile"`
}

type Output struct {
	Result *models.ScoringResult `json:"result"`
}
