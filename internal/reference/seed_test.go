package reference

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/errors"
)

func createSeedDocument() *Document {
	return &Document{
		Version: "seed-test",
		Majors: []MajorEntry{{
			Name:         "Astronomi",
			Weights:      wv(.2, .05, .05, .2, .05, .05, .4),
			Alternatives: []string{"Fisika"},
		}},
		Institutions: []InstitutionEntry{{Name: "Universitas Contoh", Tier: 3, Min: 700, Max: 780}},
	}
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS major_weights`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS major_alternatives`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS institution_bands`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Migrate(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM major_weights`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM major_alternatives`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM institution_bands`).WillReturnResult(sqlmock.NewResult(0, 0))
	for i := 0; i < 7; i++ {
		mock.ExpectExec(`INSERT INTO major_weights`).WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectExec(`INSERT INTO major_alternatives`).
		WithArgs("Astronomi", "Fisika", 0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO institution_bands`).
		WithArgs("Universitas Contoh", 3, 700.0, 780.0, "", 0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, Seed(context.Background(), db, createSeedDocument()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeed_RollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM major_weights`).WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	err = Seed(context.Background(), db, createSeedDocument())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "major_weights")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeed_RejectsInvalidDocumentBeforeWriting(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	doc := createSeedDocument()
	doc.Majors[0].Weights = wv(.5, .5, .5, 0, 0, 0, 0)

	err = Seed(context.Background(), db, doc)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeReferenceDataInvalid))
	assert.NoError(t, mock.ExpectationsWereMet())
}
