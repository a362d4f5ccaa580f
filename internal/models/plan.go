// internal/models/plan.go
package models

// Study plan phases.
const (
	PhaseFoundation    = "Foundation"
	PhaseIntensive     = "Intensive"
	PhaseConsolidation = "Consolidation"
	PhaseFinal         = "Final"
)

type WeekPlan struct {
	Week        int      `json:"week"`
	Phase       string   `json:"phase"`
	TargetScore float64  `json:"targetScore"`
	DailyStudy  string   `json:"dailyStudy"`
	Focus       string   `json:"focus"`
	Tasks       []string `json:"tasks"`
}
