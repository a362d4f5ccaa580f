package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/errors"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/models"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/pkg/registry"
)

// ==========================
// Test Helper Functions
// ==========================

const profileJSON = `{
  "name": "Rina",
  "major": "Teknik Informatika",
  "institution": "Institut Teknologi Sepuluh Nopember (ITS)",
  "scores": {"PU": 700, "PPU": 650, "PBM": 680, "PK": 720, "LBI": 690, "LBE": 710, "PM": 730},
  "psychology": {"focus": 4, "confidence": 3, "anxiety": 3, "distraction": 2},
  "behavior": {"studyHours": 3, "studyDays": 4, "practice": 3, "mockFrequency": 2, "review": 3}
}`

const profileYAML = `name: Rina
major: Teknik Informatika
institution: Institut Teknologi Sepuluh Nopember (ITS)
scores: {PU: 700, PPU: 650, PBM: 680, PK: 720, LBI: 690, LBE: 710, PM: 730}
psychology: {focus: 4, confidence: 3, anxiety: 3, distraction: 2}
behavior: {studyHours: 3, studyDays: 4, practice: 3, mockFrequency: 2, review: 3}
`

const testConfig = `reference:
  source: builtin
strategy:
  dirs: []
  candidates: []
logging:
  level: error
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := writeFile(t, "config.yaml", testConfig)
	return execute(t, newRootCmd(), append([]string{"--config", cfg}, args...)...)
}

// ==========================
// score
// ==========================

func TestScore_Text(t *testing.T) {
	profile := writeFile(t, "rina.json", profileJSON)

	out, err := run(t, "score", "--profile", profile)
	require.NoError(t, err)

	assert.Contains(t, out, "711.5")
	assert.Contains(t, out, "At Risk (16%)")
	assert.Contains(t, out, "-98.5")
	assert.Contains(t, out, "Statistika, Matematika, Teknik Elektro")
	assert.Contains(t, out, "SUBTEST")
	assert.Regexp(t, `(?m)^8\s+Final`, out)
}

func TestScore_YAMLWithJSONAndReport(t *testing.T) {
	profile := writeFile(t, "rina.yaml", profileYAML)
	reportPath := filepath.Join(t.TempDir(), "report.html")

	out, err := run(t, "score", "-p", profile, "--weeks", "4", "--report", reportPath, "--json")
	require.NoError(t, err)

	var decoded scoreOutput
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.NotNil(t, decoded.Result)
	assert.InDelta(t, 711.5, decoded.Result.Composite, 1e-9)
	assert.Equal(t, models.ProbabilityAtRisk, decoded.Result.Probability.Label)
	assert.Len(t, decoded.Plan, 4)

	html, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(html), "<!DOCTYPE html>"))
	assert.Contains(t, string(html), "Rina")
}

func TestScore_Errors(t *testing.T) {
	tooFocused := strings.Replace(profileJSON, `"focus": 4`, `"focus": 9`, 1)
	noScores := strings.Replace(profileJSON, `"PM": 730`, `"PM": 0`, 1)

	tests := []struct {
		name     string
		args     func(t *testing.T) []string
		wantCode errors.ErrorCode
		wantText string
	}{
		{
			name:     "profile flag required",
			args:     func(*testing.T) []string { return []string{"score"} },
			wantText: `required flag(s) "profile" not set`,
		},
		{
			name:     "missing file",
			args:     func(*testing.T) []string { return []string{"score", "-p", "does-not-exist.json"} },
			wantText: "failed to read profile",
		},
		{
			name:     "malformed file",
			args:     func(t *testing.T) []string { return []string{"score", "-p", writeFile(t, "bad.json", "{")} },
			wantText: "failed to parse profile",
		},
		{
			name: "rating out of range",
			args: func(t *testing.T) []string {
				return []string{"score", "-p", writeFile(t, "focus.json", tooFocused)}
			},
			wantCode: errors.ErrCodeInvalidStepInput,
		},
		{
			name: "missing score",
			args: func(t *testing.T) []string {
				return []string{"score", "-p", writeFile(t, "scores.json", noScores)}
			},
			wantCode: errors.ErrCodeInvalidStepInput,
		},
		{
			name: "zero weeks",
			args: func(t *testing.T) []string {
				return []string{"score", "-p", writeFile(t, "rina.json", profileJSON), "--weeks", "0"}
			},
			wantCode: errors.ErrCodeInvalidWeekCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args(t)...)
			require.Error(t, err)
			if tt.wantCode != "" {
				assert.True(t, errors.HasCode(err, tt.wantCode), "got %v", err)
			}
			if tt.wantText != "" {
				assert.Contains(t, err.Error(), tt.wantText)
			}
		})
	}
}

// ==========================
// tables
// ==========================

func TestTables(t *testing.T) {
	out, err := run(t, "tables", "majors")
	require.NoError(t, err)
	assert.Contains(t, out, "ALTERNATIVES")
	assert.Contains(t, out, "Teknik Informatika")
	assert.NotContains(t, out, "INSTITUTION")

	out, err = run(t, "tables", "institutions")
	require.NoError(t, err)
	assert.Regexp(t, `Institut Teknologi Sepuluh Nopember \(ITS\)\s+2\s+810\s+885`, out)
	assert.NotContains(t, out, "ALTERNATIVES")

	out, err = run(t, "tables")
	require.NoError(t, err)
	assert.Contains(t, out, "ALTERNATIVES")
	assert.Contains(t, out, "INSTITUTION")

	_, err = run(t, "tables", "subtests")
	assert.Error(t, err)
}

// ==========================
// reference
// ==========================

func TestReference_ValidateAndExport(t *testing.T) {
	out, err := run(t, "reference", "validate", "--path", filepath.Join("..", "..", "configs", "reference.example.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "Reference 2025.1-example is valid: 2 majors, 2 institutions.")

	for _, name := range []string{"builtin.yaml", "builtin.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			_, err := run(t, "reference", "export", "--out", path)
			require.NoError(t, err)

			out, err := run(t, "reference", "validate", "--path", path)
			require.NoError(t, err)
			assert.Contains(t, out, "is valid")
		})
	}

	broken := writeFile(t, "broken.yaml", "version: x\nmajors: []\ninstitutions: []\n")
	_, err = run(t, "reference", "validate", "--path", broken)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeReferenceDataInvalid), "got %v", err)
}

func TestReference_Seed(t *testing.T) {
	path := filepath.Join("..", "..", "configs", "reference.example.yaml")
	doc, err := readDocument(path)
	require.NoError(t, err)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS major_weights`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS major_alternatives`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS institution_bands`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	for _, table := range []string{"major_weights", "major_alternatives", "institution_bands"} {
		mock.ExpectExec(`DELETE FROM ` + table).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	for _, major := range doc.Majors {
		for range models.AllSubtests() {
			mock.ExpectExec(`INSERT INTO major_weights`).WillReturnResult(sqlmock.NewResult(1, 1))
		}
		for range major.Alternatives {
			mock.ExpectExec(`INSERT INTO major_alternatives`).WillReturnResult(sqlmock.NewResult(1, 1))
		}
	}
	for range doc.Institutions {
		mock.ExpectExec(`INSERT INTO institution_bands`).WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()
	mock.ExpectClose()

	var gotURL string
	open := func(url string) (*sql.DB, func() error, error) {
		gotURL = url
		return db, db.Close, nil
	}

	cmd := newReferenceSeedCmd(&rootOptions{}, open)
	out, err := execute(t, cmd, "--path", path, "--db-url", "postgres://seed@localhost/utbk")
	require.NoError(t, err)
	assert.Equal(t, "postgres://seed@localhost/utbk", gotURL)
	assert.Contains(t, out, "Seeded reference 2025.1-example: 2 majors, 2 institutions.")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReference_SeedWithoutDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := run(t, "reference", "seed", "--path", filepath.Join("..", "..", "configs", "reference.example.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database")
}

// ==========================
// registry
// ==========================

func copyRegistry(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)
	return writeFile(t, "activity-registry.json", string(data))
}

func TestRegistry_ValidateAndList(t *testing.T) {
	path := copyRegistry(t)

	out, err := run(t, "registry", "validate", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 4 activities")

	out, err = run(t, "registry", "list", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "readiness.score.compute")
	assert.Contains(t, out, "compute-readiness-score")
}

func TestRegistry_Update(t *testing.T) {
	path := copyRegistry(t)

	out, err := run(t, "registry", "update", "--path", path, "--id", "readiness.plan.generate", "--field", "timeout", "--value", "45s")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated activity readiness.plan.generate")

	reg, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	a, ok := reg.ByTaskType("generate-study-plan")
	require.True(t, ok)
	assert.Equal(t, "45s", a.Timeout)

	tests := []struct {
		name    string
		id      string
		field   string
		value   string
		wantErr string
	}{
		{name: "unknown activity", id: "readiness.nope.run", field: "status", value: "x", wantErr: "not found"},
		{name: "unknown field", id: "readiness.plan.generate", field: "owner", value: "x", wantErr: "unknown field"},
		{name: "bad retries", id: "readiness.plan.generate", field: "retries", value: "many", wantErr: "invalid retries"},
		{name: "bad timeout", id: "readiness.plan.generate", field: "timeout", value: "soon", wantErr: "not a duration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, err := os.ReadFile(path)
			require.NoError(t, err)

			err = updateActivity(path, tt.id, tt.field, tt.value, time.Now())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			after, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, before, after)
		})
	}
}
