package reference

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/models"
)

// SchemaDDL creates the tables PostgresSource reads.
var SchemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS major_weights (
		major    TEXT NOT NULL,
		subtest  TEXT NOT NULL,
		weight   DOUBLE PRECISION NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (major, subtest)
	)`,
	`CREATE TABLE IF NOT EXISTS major_alternatives (
		major       TEXT NOT NULL,
		alternative TEXT NOT NULL,
		rank        INTEGER NOT NULL,
		PRIMARY KEY (major, rank)
	)`,
	`CREATE TABLE IF NOT EXISTS institution_bands (
		name      TEXT PRIMARY KEY,
		tier      INTEGER NOT NULL,
		min_score DOUBLE PRECISION NOT NULL,
		max_score DOUBLE PRECISION NOT NULL,
		label     TEXT,
		position  INTEGER NOT NULL
	)`,
}

const (
	insertWeight      = `INSERT INTO major_weights (major, subtest, weight, position) VALUES ($1, $2, $3, $4)`
	insertAlternative = `INSERT INTO major_alternatives (major, alternative, rank) VALUES ($1, $2, $3)`
	insertBand        = `INSERT INTO institution_bands (name, tier, min_score, max_score, label, position) VALUES ($1, $2, $3, $4, $5, $6)`
)

// Migrate creates the reference tables if they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range SchemaDDL {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate reference schema: %w", err)
		}
	}
	return nil
}

// Seed replaces the table contents with doc in one transaction. doc is
// validated first so a bad document never reaches the database.
func Seed(ctx context.Context, db *sql.DB, doc *Document) error {
	if _, err := NewCatalog("seed", doc); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"major_weights", "major_alternatives", "institution_bands"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for pos, major := range doc.Majors {
		for _, code := range models.AllSubtests() {
			if _, err := tx.ExecContext(ctx, insertWeight, major.Name, string(code), major.Weights[code], pos); err != nil {
				return fmt.Errorf("failed to insert weights for %s: %w", major.Name, err)
			}
		}
		for rank, alt := range major.Alternatives {
			if _, err := tx.ExecContext(ctx, insertAlternative, major.Name, alt, rank); err != nil {
				return fmt.Errorf("failed to insert alternative for %s: %w", major.Name, err)
			}
		}
	}

	for pos, inst := range doc.Institutions {
		if _, err := tx.ExecContext(ctx, insertBand, inst.Name, inst.Tier, inst.Min, inst.Max, inst.Label, pos); err != nil {
			return fmt.Errorf("failed to insert band for %s: %w", inst.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	return nil
}
