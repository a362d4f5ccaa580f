package reference

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/errors"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/models"
)

const validYAML = `
version: "2025.1"
majors:
  - name: Astronomi
    weights: {PU: 0.2, PPU: 0.05, PBM: 0.05, PK: 0.2, LBI: 0.05, LBE: 0.05, PM: 0.4}
    alternatives: [Fisika, Matematika]
institutions:
  - name: Universitas Contoh
    tier: 3
    min: 700
    max: 780
`

const validJSON = `{
  "majors": [{"name": "Astronomi", "weights": {"PU": 0.2, "PPU": 0.05, "PBM": 0.05, "PK": 0.2, "LBI": 0.05, "LBE": 0.05, "PM": 0.4}}],
  "institutions": [{"name": "Universitas Contoh", "tier": 3, "min": 700, "max": 780, "label": "Custom"}]
}`

func TestFileSource(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		content     string
		expectError bool
		validate    func(t *testing.T, c *Catalog)
	}{
		{
			name:    "yaml document",
			file:    "reference.yaml",
			content: validYAML,
			validate: func(t *testing.T, c *Catalog) {
				assert.Equal(t, "2025.1", c.Version())
				assert.Equal(t, .4, c.WeightsFor("Astronomi")[models.SubtestPM])
				assert.Equal(t, []string{"Fisika", "Matematika"}, c.AlternativesFor("Astronomi"))
				assert.Equal(t, "Cluster 3 - Middle", c.InstitutionBand("Universitas Contoh").Label)
				assert.Equal(t, DefaultWeights(), c.WeightsFor("Kedokteran"))
			},
		},
		{
			name:    "json document",
			file:    "reference.json",
			content: validJSON,
			validate: func(t *testing.T, c *Catalog) {
				assert.Equal(t, "Custom", c.InstitutionBand("Universitas Contoh").Label)
				assert.Empty(t, c.AlternativesFor("Astronomi"))
			},
		},
		{
			name:        "schema violation on unknown subtest",
			file:        "bad.json",
			content:     `{"majors":[{"name":"X","weights":{"PU":1,"XX":0}}],"institutions":[{"name":"Y","tier":1,"min":1,"max":2}]}`,
			expectError: true,
		},
		{
			name:        "tier outside schema range",
			file:        "bad.yaml",
			content:     "majors: [{name: X, weights: {PU: .15, PPU: .15, PBM: .15, PK: .15, LBI: .15, LBE: .15, PM: .10}}]\ninstitutions: [{name: Y, tier: 9, min: 1, max: 2}]\n",
			expectError: true,
		},
		{
			name:        "malformed json",
			file:        "broken.json",
			content:     `{"majors": [`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			c, err := Open(context.Background(), FileSource{Path: path})
			if tt.expectError {
				require.Error(t, err)
				assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeReferenceDataInvalid))
				return
			}
			require.NoError(t, err)
			tt.validate(t, c)
		})
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	_, err := Open(context.Background(), FileSource{Path: filepath.Join(t.TempDir(), "nope.json")})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeReferenceDataInvalid))
}

func TestPostgresSource(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	weightRows := sqlmock.NewRows([]string{"major", "subtest", "weight"})
	for code, w := range wv(.20, .05, .05, .20, .05, .10, .35) {
		weightRows.AddRow("Teknik Informatika", string(code), w)
	}
	mock.ExpectQuery(`SELECT major, subtest, weight FROM major_weights`).WillReturnRows(weightRows)
	mock.ExpectQuery(`SELECT major, alternative FROM major_alternatives`).WillReturnRows(
		sqlmock.NewRows([]string{"major", "alternative"}).
			AddRow("Teknik Informatika", "Statistika").
			AddRow("Teknik Informatika", "Matematika"))
	mock.ExpectQuery(`SELECT name, tier, min_score, max_score`).WillReturnRows(
		sqlmock.NewRows([]string{"name", "tier", "min_score", "max_score", "label"}).
			AddRow("Institut Teknologi Sepuluh Nopember (ITS)", 2, 810.0, 885.0, ""))

	src, err := NewSource(SourcePostgres, "", db)
	require.NoError(t, err)

	c, err := Open(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, []string{"Teknik Informatika"}, c.Majors())
	assert.InDelta(t, 1.0, c.WeightsFor("Teknik Informatika").Sum(), WeightTolerance)
	assert.Equal(t, []string{"Statistika", "Matematika"}, c.AlternativesFor("Teknik Informatika"))
	assert.Equal(t, 885.0, c.InstitutionBand("Institut Teknologi Sepuluh Nopember (ITS)").Max)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_IncompleteVectorFailsStartup(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT major, subtest, weight FROM major_weights`).WillReturnRows(
		sqlmock.NewRows([]string{"major", "subtest", "weight"}).AddRow("Half", "PU", 1.0))
	mock.ExpectQuery(`SELECT major, alternative FROM major_alternatives`).WillReturnRows(
		sqlmock.NewRows([]string{"major", "alternative"}))
	mock.ExpectQuery(`SELECT name, tier, min_score, max_score`).WillReturnRows(
		sqlmock.NewRows([]string{"name", "tier", "min_score", "max_score", "label"}))

	_, err = Open(context.Background(), PostgresSource{DB: db})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeReferenceDataInvalid))
}

func TestNewSource(t *testing.T) {
	src, err := NewSource("", "", nil)
	require.NoError(t, err)
	assert.Equal(t, SourceBuiltin, src.Name())

	_, err = NewSource(SourceFile, "", nil)
	assert.Error(t, err)

	_, err = NewSource(SourcePostgres, "", nil)
	assert.Error(t, err)

	_, err = NewSource("mongo", "", nil)
	assert.Error(t, err)
}

func TestFileSource_ShippedExample(t *testing.T) {
	c, err := Open(context.Background(), FileSource{Path: filepath.Join("..", "..", "configs", "reference.example.yaml")})
	require.NoError(t, err)

	builtin := createTestCatalog(t)
	assert.Equal(t, builtin.WeightsFor("Teknik Informatika"), c.WeightsFor("Teknik Informatika"))
	assert.Equal(t, builtin.InstitutionBand("Institut Teknologi Sepuluh Nopember (ITS)"),
		c.InstitutionBand("Institut Teknologi Sepuluh Nopember (ITS)"))
}
