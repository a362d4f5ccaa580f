// internal/reference/strategies.go
package reference

import "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/models"

var strategyLabels = []string{
	"Intensive & Structured",
	"Mental Strengthening",
	"Optimise & Review",
	"Maintain & Improve",
}

var strategyDetails = map[string]models.StrategyDetail{
	"Intensive & Structured": {
		Icon:        "red",
		Description: "Study habits and psychological condition both need to improve together.",
		Tips: []string{
			"Set a strict daily study schedule",
			"Start at 2 hours/day and build up gradually",
			"Use Pomodoro blocks of 25+5 minutes",
			"Find a study group",
			"Consult a teacher or mentor",
		},
	},
	"Mental Strengthening": {
		Icon:        "orange",
		Description: "Study habits are good, but psychological condition needs strengthening.",
		Tips: []string{
			"10 minutes of mindfulness before studying",
			"Set small daily targets",
			"Compare yourself less with others",
			"Keep a regular sleep routine",
			"Take mock exams regularly to adapt",
		},
	},
	"Optimise & Review": {
		Icon:        "yellow",
		Description: "Habits and mindset are good; raise the quality of review and evaluation.",
		Tips: []string{
			"Review questions you previously got wrong",
			"Analyse error patterns per subtest",
			"Take at least 2 mock exams per month",
			"Keep summary notes of the material",
			"Focus on time efficiency",
		},
	},
	"Maintain & Improve": {
		Icon:        "green",
		Description: "Study habits and psychological condition are already very good.",
		Tips: []string{
			"Keep your consistency",
			"Raise mock exam targets gradually",
			"Practise exam time management",
			"Help friends study",
			"Look after your physical health",
		},
	},
}

// StrategyLabels returns the four classifier labels indexed by class code.
func StrategyLabels() []string {
	return append([]string(nil), strategyLabels...)
}

// StrategyLabel maps a class index to a label, clamping anything out of range to the last one.
func StrategyLabel(code int) string {
	if code < 0 || code >= len(strategyLabels) {
		return strategyLabels[len(strategyLabels)-1]
	}
	return strategyLabels[code]
}

// StrategyDetail returns the advisory attached to label.
func StrategyDetail(label string) (models.StrategyDetail, bool) {
	d, ok := strategyDetails[label]
	if !ok {
		return models.StrategyDetail{}, false
	}
	d.Tips = append([]string(nil), d.Tips...)
	return d, true
}
