package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/errors"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/models"
)

var testNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func TestWizard_HappyPath(t *testing.T) {
	w := NewWizard("id-1", testNow)
	assert.Equal(t, StepProfile, w.Step)

	w, err := w.SubmitProfile(createProfileInput(), testNow)
	require.NoError(t, err)
	assert.Equal(t, StepScores, w.Step)

	w, err = w.SubmitScores(createScoresInput(), testNow)
	require.NoError(t, err)
	assert.Equal(t, StepPsychology, w.Step)

	w, err = w.SubmitPsychology(createPsychologyInput(), testNow)
	require.NoError(t, err)
	assert.Equal(t, StepBehavior, w.Step)

	later := testNow.Add(time.Minute)
	w, err = w.SubmitBehavior(createBehaviorInput(), later)
	require.NoError(t, err)
	assert.True(t, w.Complete())
	assert.Equal(t, later, w.UpdatedAt)

	profile, err := w.Profile()
	require.NoError(t, err)
	assert.Equal(t, "Rina", profile.Name)
	assert.Equal(t, 730, profile.Scores[models.SubtestPM])
	assert.Equal(t, 4, profile.Psychology.Focus)
	assert.Equal(t, 2, profile.Behavior.MockFrequency)
}

func TestWizard_RejectsOutOfOrderSteps(t *testing.T) {
	w := NewWizard("id-1", testNow)

	tests := []struct {
		name   string
		submit func() error
	}{
		{"scores before profile", func() error { _, err := w.SubmitScores(createScoresInput(), testNow); return err }},
		{"psychology before profile", func() error { _, err := w.SubmitPsychology(createPsychologyInput(), testNow); return err }},
		{"behavior before profile", func() error { _, err := w.SubmitBehavior(createBehaviorInput(), testNow); return err }},
		{"profile before result", func() error { _, err := w.Profile(); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.submit()
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeWizardStepOutOfOrder))
		})
	}
	assert.Equal(t, StepProfile, w.Step)
}

func TestWizard_RangeValidation(t *testing.T) {
	w, err := NewWizard("id-1", testNow).SubmitProfile(createProfileInput(), testNow)
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   ScoresInput
		message string
	}{
		{"below range", withScore(createScoresInput(), func(s *ScoresInput) { s.PU = 150 }), "PU must be at least 200"},
		{"above range", withScore(createScoresInput(), func(s *ScoresInput) { s.PM = 1005 }), "PM must be at most 1000"},
		{"missing", withScore(createScoresInput(), func(s *ScoresInput) { s.LBE = 0 }), "LBE is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := w.SubmitScores(tt.input, testNow)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidStepInput))
			assert.Contains(t, err.Error(), tt.message)
			assert.Equal(t, StepScores, next.Step)
		})
	}

	_, err = NewWizard("id-2", testNow).SubmitProfile(ProfileInput{Name: "   ", Major: "Fisika", Institution: "UI"}, testNow)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidStepInput))

	psy := createPsychologyInput()
	psy.Anxiety = 6
	w = advanceTo(t, StepPsychology)
	_, err = w.SubmitPsychology(psy, testNow)
	assert.Contains(t, err.Error(), "anxiety must be at most 5")
}

func TestWizard_BackKeepsDataAndIsImmutable(t *testing.T) {
	done := advanceTo(t, StepResult)

	back := done.Back(testNow)
	assert.Equal(t, StepBehavior, back.Step)
	assert.Equal(t, StepResult, done.Step)
	require.NotNil(t, back.Behavior)

	resubmitted, err := back.SubmitBehavior(BehaviorInput{StudyHours: 5, StudyDays: 5, Practice: 5, MockFrequency: 5, Review: 5}, testNow)
	require.NoError(t, err)
	assert.Equal(t, 5, resubmitted.Behavior.StudyHours)
	assert.Equal(t, 3, done.Behavior.StudyHours)

	first := NewWizard("id-3", testNow)
	assert.Equal(t, StepProfile, first.Back(testNow).Step)
}

func TestWizard_Profile_IncompleteSnapshot(t *testing.T) {
	tests := []struct {
		name     string
		snapshot string
		missing  string
	}{
		{name: "null psychology", snapshot: `{"id":"a","step":"result","scores":{"PU":700},"psychology":null,"behavior":{"studyHours":3}}`, missing: "psychology"},
		{name: "missing behavior", snapshot: `{"id":"a","step":"result","scores":{"PU":700},"psychology":{"focus":4}}`, missing: "behavior"},
		{name: "no scores", snapshot: `{"id":"a","step":"result","psychology":{"focus":4},"behavior":{"studyHours":3}}`, missing: "scores"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w Wizard
			require.NoError(t, json.Unmarshal([]byte(tt.snapshot), &w))

			var profile models.StudentProfile
			var err error
			require.NotPanics(t, func() { profile, err = w.Profile() })
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeProfileIncomplete))
			assert.Contains(t, err.Error(), tt.missing)
			assert.Empty(t, profile.Name)
		})
	}
}

// ==========================
// Helpers
// ==========================

func advanceTo(t *testing.T, step Step) Wizard {
	t.Helper()
	w := NewWizard("11111111-1111-1111-1111-111111111111", testNow)
	var err error
	if w.Step == step {
		return w
	}
	w, err = w.SubmitProfile(createProfileInput(), testNow)
	require.NoError(t, err)
	if w.Step == step {
		return w
	}
	w, err = w.SubmitScores(createScoresInput(), testNow)
	require.NoError(t, err)
	if w.Step == step {
		return w
	}
	w, err = w.SubmitPsychology(createPsychologyInput(), testNow)
	require.NoError(t, err)
	if w.Step == step {
		return w
	}
	w, err = w.SubmitBehavior(createBehaviorInput(), testNow)
	require.NoError(t, err)
	return w
}

func withScore(in ScoresInput, mutate func(*ScoresInput)) ScoresInput {
	mutate(&in)
	return in
}

func createProfileInput() ProfileInput {
	return ProfileInput{
		Name:        "Rina",
		Major:       "Teknik Informatika",
		Institution: "Institut Teknologi Sepuluh Nopember (ITS)",
	}
}

func createScoresInput() ScoresInput {
	return ScoresInput{PU: 700, PPU: 650, PBM: 680, PK: 720, LBI: 690, LBE: 710, PM: 730}
}

func createPsychologyInput() PsychologyInput {
	return PsychologyInput{Focus: 4, Confidence: 3, Anxiety: 3, Distraction: 2}
}

func createBehaviorInput() BehaviorInput {
	return BehaviorInput{StudyHours: 3, StudyDays: 4, Practice: 3, MockFrequency: 2, Review: 3}
}
