// Package report renders a self-contained, printable HTML readiness report.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"time"

	apperrors "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/errors"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/models"
)

type view struct {
	Result      *models.ScoringResult
	Plan        []models.WeekPlan
	GeneratedAt string
	ShowVerdict bool
	Psychology  []row
	Behavior    []row
}

type row struct {
	Label string
	Value int
}

var funcs = template.FuncMap{
	"score":   func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"whole":   func(v float64) string { return fmt.Sprintf("%.0f", v) },
	"percent": func(v float64) string { return fmt.Sprintf("%.0f%%", v) },
	"weight":  func(v float64) string { return fmt.Sprintf("%.0f%%", v*100) },
	"signed":  func(v float64) string { return fmt.Sprintf("%+.1f", v) },
}

var reportTemplate = template.Must(template.New("report").Funcs(funcs).Parse(reportHTML))

// Render writes the report. The verdict section is skipped unless the
// classifier returned "ok"; plan may be empty.
func Render(w io.Writer, result *models.ScoringResult, plan []models.WeekPlan, generatedAt time.Time) error {
	if result == nil {
		return apperrors.NewReportRenderFailedError(fmt.Errorf("no scoring result"))
	}

	p := result.Profile
	v := view{
		Result:      result,
		Plan:        plan,
		GeneratedAt: generatedAt.Format("02 Jan 2006 15:04 MST"),
		ShowVerdict: result.Strategy.OK(),
		Psychology: []row{
			{"Focus", p.Psychology.Focus},
			{"Confidence", p.Psychology.Confidence},
			{"Anxiety", p.Psychology.Anxiety},
			{"Distraction", p.Psychology.Distraction},
		},
		Behavior: []row{
			{"Study hours", p.Behavior.StudyHours},
			{"Study days", p.Behavior.StudyDays},
			{"Practice volume", p.Behavior.Practice},
			{"Mock exam frequency", p.Behavior.MockFrequency},
			{"Error review", p.Behavior.Review},
		},
	}

	// render fully before writing so a template error never leaves half a page
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, v); err != nil {
		return apperrors.NewReportRenderFailedError(err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return apperrors.NewReportRenderFailedError(err)
	}
	return nil
}

// RenderString is Render into a string, for job variables and API bodies.
func RenderString(result *models.ScoringResult, plan []models.WeekPlan, generatedAt time.Time) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, result, plan, generatedAt); err != nil {
		return "", err
	}
	return buf.String(), nil
}
