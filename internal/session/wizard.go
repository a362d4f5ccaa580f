// Package session drives the multi-step readiness survey. A Wizard is an
// immutable snapshot; every transition returns a new value.
package session

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/errors"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/models"
)

// Step names the state the wizard is waiting in.
type Step string

const (
	StepProfile    Step = "profile"
	StepScores     Step = "scores"
	StepPsychology Step = "psychology"
	StepBehavior   Step = "behavior"
	StepResult     Step = "result"
)

var stepOrder = []Step{StepProfile, StepScores, StepPsychology, StepBehavior, StepResult}

func (s Step) index() int {
	for i, st := range stepOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// ProfileInput is the first survey page.
type ProfileInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Major       string `json:"major" validate:"required"`
	Institution string `json:"institution" validate:"required"`
}

// ScoresInput holds the seven subtest scores.
type ScoresInput struct {
	PU  int `json:"PU" validate:"required,min=200,max=1000"`
	PPU int `json:"PPU" validate:"required,min=200,max=1000"`
	PBM int `json:"PBM" validate:"required,min=200,max=1000"`
	PK  int `json:"PK" validate:"required,min=200,max=1000"`
	LBI int `json:"LBI" validate:"required,min=200,max=1000"`
	LBE int `json:"LBE" validate:"required,min=200,max=1000"`
	PM  int `json:"PM" validate:"required,min=200,max=1000"`
}

func (in ScoresInput) toScores() models.SubtestScores {
	return models.SubtestScores{
		models.SubtestPU:  in.PU,
		models.SubtestPPU: in.PPU,
		models.SubtestPBM: in.PBM,
		models.SubtestPK:  in.PK,
		models.SubtestLBI: in.LBI,
		models.SubtestLBE: in.LBE,
		models.SubtestPM:  in.PM,
	}
}

type PsychologyInput struct {
	Focus       int `json:"focus" validate:"required,min=1,max=5"`
	Confidence  int `json:"confidence" validate:"required,min=1,max=5"`
	Anxiety     int `json:"anxiety" validate:"required,min=1,max=5"`
	Distraction int `json:"distraction" validate:"required,min=1,max=5"`
}

type BehaviorInput struct {
	StudyHours    int `json:"studyHours" validate:"required,min=1,max=5"`
	StudyDays     int `json:"studyDays" validate:"required,min=1,max=5"`
	Practice      int `json:"practice" validate:"required,min=1,max=5"`
	MockFrequency int `json:"mockFrequency" validate:"required,min=1,max=5"`
	Review        int `json:"review" validate:"required,min=1,max=5"`
}

// Wizard is a snapshot of one survey session.
type Wizard struct {
	ID          string               `json:"id"`
	Step        Step                 `json:"step"`
	Name        string               `json:"name,omitempty"`
	Major       string               `json:"major,omitempty"`
	Institution string               `json:"institution,omitempty"`
	Scores      models.SubtestScores `json:"scores,omitempty"`
	Psychology  *models.Psychology   `json:"psychology,omitempty"`
	Behavior    *models.Behavior     `json:"behavior,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// NewWizard starts a session at the profile step.
func NewWizard(id string, now time.Time) Wizard {
	return Wizard{ID: id, Step: StepProfile, CreatedAt: now, UpdatedAt: now}
}

func (w Wizard) clone() Wizard {
	if w.Scores != nil {
		scores := make(models.SubtestScores, len(w.Scores))
		for k, v := range w.Scores {
			scores[k] = v
		}
		w.Scores = scores
	}
	if w.Psychology != nil {
		p := *w.Psychology
		w.Psychology = &p
	}
	if w.Behavior != nil {
		b := *w.Behavior
		w.Behavior = &b
	}
	return w
}

func (w Wizard) expect(step Step) error {
	if w.Step != step {
		return apperrors.NewWizardStepOutOfOrderError(string(w.Step), string(step))
	}
	return nil
}

func (w Wizard) advance(now time.Time) Wizard {
	if i := w.Step.index(); i >= 0 && i < len(stepOrder)-1 {
		w.Step = stepOrder[i+1]
	}
	w.UpdatedAt = now
	return w
}

func (w Wizard) SubmitProfile(in ProfileInput, now time.Time) (Wizard, error) {
	if err := w.expect(StepProfile); err != nil {
		return w, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStep(StepProfile, in); err != nil {
		return w, err
	}
	next := w.clone()
	next.Name, next.Major, next.Institution = in.Name, in.Major, in.Institution
	return next.advance(now), nil
}

func (w Wizard) SubmitScores(in ScoresInput, now time.Time) (Wizard, error) {
	if err := w.expect(StepScores); err != nil {
		return w, err
	}
	if err := validateStep(StepScores, in); err != nil {
		return w, err
	}
	next := w.clone()
	next.Scores = in.toScores()
	return next.advance(now), nil
}

func (w Wizard) SubmitPsychology(in PsychologyInput, now time.Time) (Wizard, error) {
	if err := w.expect(StepPsychology); err != nil {
		return w, err
	}
	if err := validateStep(StepPsychology, in); err != nil {
		return w, err
	}
	next := w.clone()
	next.Psychology = &models.Psychology{
		Focus:       in.Focus,
		Confidence:  in.Confidence,
		Anxiety:     in.Anxiety,
		Distraction: in.Distraction,
	}
	return next.advance(now), nil
}

func (w Wizard) SubmitBehavior(in BehaviorInput, now time.Time) (Wizard, error) {
	if err := w.expect(StepBehavior); err != nil {
		return w, err
	}
	if err := validateStep(StepBehavior, in); err != nil {
		return w, err
	}
	next := w.clone()
	next.Behavior = &models.Behavior{
		StudyHours:    in.StudyHours,
		StudyDays:     in.StudyDays,
		Practice:      in.Practice,
		MockFrequency: in.MockFrequency,
		Review:        in.Review,
	}
	return next.advance(now), nil
}

// Back returns to the previous step keeping entered data. At the first step it is a no-op.
func (w Wizard) Back(now time.Time) Wizard {
	next := w.clone()
	if i := w.Step.index(); i > 0 {
		next.Step = stepOrder[i-1]
		next.UpdatedAt = now
	}
	return next
}

// Complete reports whether every step has been submitted.
func (w Wizard) Complete() bool { return w.Step == StepResult }

// Profile builds the StudentProfile once the wizard reaches the result step.
func (w Wizard) Profile() (models.StudentProfile, error) {
	if err := w.expect(StepResult); err != nil {
		return models.StudentProfile{}, err
	}
	var missing []string
	if len(w.Scores) == 0 {
		missing = append(missing, "scores")
	}
	if w.Psychology == nil {
		missing = append(missing, "psychology")
	}
	if w.Behavior == nil {
		missing = append(missing, "behavior")
	}
	if len(missing) > 0 {
		return models.StudentProfile{}, apperrors.NewProfileIncompleteError(missing)
	}
	c := w.clone()
	return models.StudentProfile{
		Name:        c.Name,
		Major:       c.Major,
		Institution: c.Institution,
		Scores:      c.Scores,
		Psychology:  *c.Psychology,
		Behavior:    *c.Behavior,
	}, nil
}

// ==========================
// Step validation
// ==========================

var (
	validateOnce sync.Once
	stepValidate *validator.Validate
)

func stepValidator() *validator.Validate {
	validateOnce.Do(func() {
		stepValidate = validator.New()
		stepValidate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		})
	})
	return stepValidate
}

func validateStep(step Step, in interface{}) error {
	err := stepValidator().Struct(in)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewInvalidStepInputError(string(step), err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return apperrors.NewInvalidStepInputError(string(step), strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
