// Package planner derives a week-by-week study plan from a scoring result.
package planner

import (
	"fmt"
	"math"
	"sort"

	apperrors "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/errors"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/models"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/reference"
)

const DefaultWeeks = 8

// Headroom above band.Max that weekly targets never exceed.
const targetHeadroom = 20

var dailyStudy = map[string]string{
	models.PhaseFoundation:    "2–3 hours/day",
	models.PhaseIntensive:     "3–4 hours/day",
	models.PhaseConsolidation: "3–4 hours/day (1 rest day)",
	models.PhaseFinal:         "2 hours/day + rest",
}

// Ranking splits the subtests by raw score, weakest first.
type Ranking struct {
	Weakest []models.Subtest
	Medium  []models.Subtest
	Strong  []models.Subtest
}

// RankSubtests sorts ascending by score; ties keep canonical order.
func RankSubtests(scores models.SubtestScores) Ranking {
	ranked := models.AllSubtests()
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i]] < scores[ranked[j]]
	})
	return Ranking{Weakest: ranked[:3], Medium: ranked[3:5], Strong: ranked[5:]}
}

// PhaseFor partitions weeks 1..total in a 2:3:2:1 ratio.
func PhaseFor(week, total int) string {
	switch {
	case 8*week <= 2*total:
		return models.PhaseFoundation
	case 8*week <= 5*total:
		return models.PhaseIntensive
	case 8*week <= 7*total:
		return models.PhaseConsolidation
	default:
		return models.PhaseFinal
	}
}

func firstIntensiveWeek(total int) int {
	return 2*total/8 + 1
}

// WeeklyIncrement is the score gain targeted per week.
func WeeklyIncrement(composite, gap float64, band models.InstitutionBand, weeks int) float64 {
	switch {
	case gap < 0:
		return math.Abs(gap)/float64(weeks) + 10
	case composite < band.Max:
		return (band.Max-composite)/float64(weeks) + 5
	default:
		return 5
	}
}

// GeneratePlan returns exactly weeks entries with non-decreasing targets.
func GeneratePlan(result *models.ScoringResult, weeks int) ([]models.WeekPlan, error) {
	if weeks < 1 {
		return nil, apperrors.NewInvalidWeekCountError(weeks)
	}
	if result == nil {
		return nil, apperrors.NewProfileIncompleteError([]string{"result"})
	}

	scores := result.Profile.Scores
	if missing := scores.Missing(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, m := range missing {
			names[i] = "scores." + string(m)
		}
		return nil, apperrors.NewProfileIncompleteError(names)
	}

	rank := RankSubtests(scores)
	increment := WeeklyIncrement(result.Composite, result.Gap, result.Band, weeks)
	ceiling := result.Band.Max + targetHeadroom
	rotation := append(append([]models.Subtest{}, rank.Weakest...), rank.Medium...)
	firstIntensive := firstIntensiveWeek(weeks)
	focus := reference.SubtestName(rank.Weakest[0])

	plan := make([]models.WeekPlan, 0, weeks)
	for w := 1; w <= weeks; w++ {
		phase := PhaseFor(w, weeks)

		var tasks []string
		switch phase {
		case models.PhaseFoundation:
			tasks = foundationTasks(rank, scores)
		case models.PhaseIntensive:
			subject := rotation[(w-firstIntensive)%len(rotation)]
			tasks = intensiveTasks(subject, rank.Medium[0])
		case models.PhaseConsolidation:
			tasks = consolidationTasks(rank.Weakest[0])
		default:
			tasks = finalTasks()
		}

		plan = append(plan, models.WeekPlan{
			Week:        w,
			Phase:       phase,
			TargetScore: math.Min(ceiling, result.Composite+increment*float64(w)),
			DailyStudy:  dailyStudy[phase],
			Focus:       focus,
			Tasks:       tasks,
		})
	}
	return plan, nil
}

func foundationTasks(rank Ranking, scores models.SubtestScores) []string {
	w := rank.Weakest
	return []string{
		fmt.Sprintf("Review the fundamentals of %s (%d → target +30)", reference.SubtestName(w[0]), scores[w[0]]),
		fmt.Sprintf("50 timed practice questions on %s", reference.SubtestName(w[1])),
		fmt.Sprintf("Study the question patterns of %s", reference.SubtestName(w[2])),
		"Start an error log of every mistake",
		"Mini mock exam: 30 mixed questions + analysis",
	}
}

func intensiveTasks(subject, medium models.Subtest) []string {
	return []string{
		fmt.Sprintf("100 practice questions on %s under a strict timer", reference.SubtestName(subject)),
		"Review last week's error log",
		fmt.Sprintf("Mini mock exam on %s (50 questions, 45 min)", reference.SubtestName(medium)),
		"Simulate one complete question set (90 min)",
		"Analyse and summarise recurring error patterns",
	}
}

func consolidationTasks(weakest models.Subtest) []string {
	return []string{
		"One complete full-length mock exam + evaluation",
		fmt.Sprintf("Intensive review of %s (main focus subtest)", reference.SubtestName(weakest)),
		"Time-management drills under exam conditions",
		"Review key notes for every subtest",
		"Rest day: light review for 1 hour only",
	}
}

func finalTasks() []string {
	return []string{
		"Final full mock exam + in-depth review",
		"Revisit difficult questions you previously got wrong",
		"Mental preparation: relaxation techniques and enough sleep",
		"Check your exam time-management strategy",
		"Rest and look after your physical and mental condition",
	}
}
