// internal/workers/readiness/compute-readiness-score/handler_test.go
package computereadinessscore

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/errors"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/logger"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/validation"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/models"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/scoring"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/pkg/registry"
)

// ==========================
// Test Helper Functions
// ==========================

const testVariables = `{
  "profile": {
    "name": "Rina",
    "major": "Teknik Informatika",
    "institution": "Institut Teknologi Sepuluh Nopember (ITS)",
    "scores": {"PU": 700, "PPU": 650, "PBM": 680, "PK": 720, "LBI": 690, "LBE": 710, "PM": 730},
    "psychology": {"focus": 4, "confidence": 3, "anxiety": 3, "distraction": 2},
    "behavior": {"studyHours": 3, "studyDays": 4, "practice": 3, "mockFrequency": 2, "review": 3}
  }
}`

func createTestHandler(t *testing.T) *Handler {
	t.Helper()
	reg, err := registry.LoadRegistry(filepath.Join("..", "..", "..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)
	v, err := validation.NewJobValidator(reg)
	require.NoError(t, err)

	return NewHandler(LoadConfig(), HandlerOptions{
		Engine:    scoring.NewDefaultEngine(),
		Validator: v,
		Logger:    logger.NewTestLogger(t),
	})
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	h := createTestHandler(t)

	input, err := h.parseInput(testVariables)
	require.NoError(t, err)

	output, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, output.Result)

	assert.InDelta(t, 711.5, output.Result.Composite, 1e-9)
	assert.Equal(t, models.ProbabilityAtRisk, output.Result.Probability.Label)
	assert.Equal(t, 16.0, output.Result.Probability.Percentage)
	assert.Equal(t, 885.0, output.Result.Band.Max)
	assert.Nil(t, output.Result.Strategy)
}

func TestHandler_Execute_IncompleteProfile(t *testing.T) {
	h := createTestHandler(t)

	input := &Input{Profile: models.StudentProfile{
		Major:  "Teknik Informatika",
		Scores: models.SubtestScores{models.SubtestPU: 700},
	}}

	_, err := h.Execute(context.Background(), input)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeProfileIncomplete))
}

func TestHandler_Execute_UnknownSubtestCode(t *testing.T) {
	h := NewHandler(LoadConfig(), HandlerOptions{
		Engine: scoring.NewDefaultEngine(),
		Logger: logger.NewNoOpLogger(),
	})

	input, err := h.parseInput(strings.Replace(testVariables, `"PM": 730}`, `"PM": 730, "XX": 99999}`, 1))
	require.NoError(t, err)

	output, err := h.Execute(context.Background(), input)
	assert.Nil(t, output)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeProfileIncomplete))
	assert.Contains(t, err.Error(), "scores.XX")
}

// ==========================
// Input Validation Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	tests := []struct {
		name      string
		variables string
		wantErr   bool
		contains  string
	}{
		{name: "valid variables", variables: testVariables},
		{name: "missing profile", variables: `{}`, wantErr: true, contains: "profile"},
		{name: "malformed json", variables: `{"profile":`, wantErr: true},
		{
			name:      "rating out of range",
			variables: `{"profile": {"name": "A", "major": "B", "institution": "C", "scores": {"PU": 700, "PPU": 650, "PBM": 680, "PK": 720, "LBI": 690, "LBE": 710, "PM": 730}, "psychology": {"focus": 9, "confidence": 3, "anxiety": 3, "distraction": 2}, "behavior": {"studyHours": 3, "studyDays": 4, "practice": 3, "mockFrequency": 2, "review": 3}}}`,
			wantErr:   true,
			contains:  "profile.psychology.focus",
		},
		{
			name:      "unknown subtest code",
			variables: strings.Replace(testVariables, `"PM": 730}`, `"PM": 730, "XX": 99999}`, 1),
			wantErr:   true,
			contains:  "profile.scores",
		},
	}

	h := createTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := h.parseInput(tt.variables)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "Rina", input.Profile.Name)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeJobInputInvalid))
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestHandler_ParseInput_WithoutValidator(t *testing.T) {
	h := NewHandler(LoadConfig(), HandlerOptions{
		Engine: scoring.NewDefaultEngine(),
		Logger: logger.NewNoOpLogger(),
	})

	input, err := h.parseInput(`{"profile": {"major": "Teknik Informatika"}}`)
	require.NoError(t, err)

	_, err = h.Execute(context.Background(), input)
	assert.True(t, errors.HasCode(err, errors.ErrCodeProfileIncomplete))
}
