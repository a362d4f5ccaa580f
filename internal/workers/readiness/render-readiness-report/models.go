// internal/workers/readiness/render-readiness-report/models.go
package renderreadinessreport

import "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/models"

type Input struct {
	Result *models.ScoringResult `json:"result"`
	Weeks  *int                  `json:"weeks,omitempty"`
}

type Output struct {
	ReportHTML string `json:"reportHtml"`
}
