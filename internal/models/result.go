// internal/models/result.go
package models

// Probability labels, most favourable first.
const (
	ProbabilityVerySafe         = "Very Safe"
	ProbabilitySafe             = "Safe"
	ProbabilityCompetitive      = "Competitive"
	ProbabilityAtRisk           = "At Risk"
	ProbabilityNeedsImprovement = "Needs Improvement"
)

// Severity tags attached to a probability label.
const (
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityDanger  = "danger"
)

// Underperformance risk levels.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

type Probability struct {
	Label      string  `json:"label"`
	Severity   string  `json:"severity"`
	Color      string  `json:"color"`
	Percentage float64 `json:"percentage"`
}

type ReadinessIndices struct {
	Psychological float64 `json:"psychological"`
	Consistency   float64 `json:"consistency"`
	Stability     float64 `json:"stability"`
}

type Risk struct {
	Level    string  `json:"level"`
	Advisory string  `json:"advisory"`
	Blended  float64 `json:"blended"`
}

// Contribution is one row of the weighted breakdown.
type Contribution struct {
	Subtest Subtest `json:"subtest"`
	Name    string  `json:"name"`
	Score   int     `json:"score"`
	Weight  float64 `json:"weight"`
	Points  float64 `json:"points"`
}

// ScoringResult is derived from a StudentProfile and never mutated afterwards.
type ScoringResult struct {
	Profile       StudentProfile   `json:"profile"`
	Weights       WeightVector     `json:"weights"`
	Band          InstitutionBand  `json:"band"`
	Composite     float64          `json:"composite"`
	Mean          float64          `json:"mean"`
	Probability   Probability      `json:"probability"`
	Gap           float64          `json:"gap"`
	IsSafe        bool             `json:"isSafe"`
	Indices       ReadinessIndices `json:"indices"`
	Risk          Risk             `json:"risk"`
	Strategy      *StrategyVerdict `json:"strategy,omitempty"`
	Alternatives  []string         `json:"alternatives"`
	Contributions []Contribution   `json:"contributions"`
}
