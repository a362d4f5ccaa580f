// internal/workers/readiness/recommend-strategy/models.go
package recommendstrategy

import "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/models"

type Input struct {
	Profile models.StudentProfile `json:"profile"`
}

type Output struct {
	Verdict models.StrategyVerdict `json:"verdict"`
}
