// internal/workers/readiness/generate-study-plan/models.go
package generatestudyplan

import "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/models"

type Input struct {
	Result *models.ScoringResult `json:"result"`
	Weeks  *int                  `json:"weeks,omitempty"`
}

type Output struct {
	Plan []models.WeekPlan `json:"plan"`
}
