// internal/reference/source.go
package reference

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/errors"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/models"
)

// Source kinds accepted by Open.
const (
	SourceBuiltin  = "builtin"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Source produces a reference document.
type Source interface {
	Name() string
	Load(ctx context.Context) (*Document, error)
}

// Open loads and validates a catalog from the configured source.
func Open(ctx context.Context, src Source) (*Catalog, error) {
	doc, err := src.Load(ctx)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeReferenceDataInvalid) {
			return nil, err
		}
		return nil, apperrors.NewReferenceDataInvalidError(src.Name(), err.Error())
	}
	return NewCatalog(src.Name(), doc)
}

// NewSource picks a source by kind. db is only consulted for postgres.
func NewSource(kind, path string, db *sql.DB) (Source, error) {
	switch strings.ToLower(kind) {
	case "", SourceBuiltin:
		return BuiltinSource{}, nil
	case SourceFile:
		if path == "" {
			return nil, fmt.Errorf("reference source %q requires a path", kind)
		}
		return FileSource{Path: path}, nil
	case SourcePostgres:
		if db == nil {
			return nil, fmt.Errorf("reference source %q requires a database connection", kind)
		}
		return PostgresSource{DB: db}, nil
	default:
		return nil, fmt.Errorf("unknown reference source %q", kind)
	}
}

// ==========================
// Builtin
// ==========================

type BuiltinSource struct{}

func (BuiltinSource) Name() string { return SourceBuiltin }

func (BuiltinSource) Load(context.Context) (*Document, error) {
	return Builtin(), nil
}

// ==========================
// File (JSON or YAML)
// ==========================

type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return SourceFile + ":" + s.Path }

func (s FileSource) Load(context.Context) (*Document, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference file: %w", err)
	}
	return DecodeDocument(s.Path, data)
}

// DecodeDocument parses JSON or YAML (chosen by extension), validates it against
// DocumentSchema and returns the typed document.
func DecodeDocument(name string, data []byte) (*Document, error) {
	var raw interface{}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	}

	if err := validateRaw(raw); err != nil {
		return nil, apperrors.NewReferenceDataInvalidError(name, err.Error())
	}

	// schema-checked tree is plain JSON-compatible data
	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize reference document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(normalized, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode reference document: %w", err)
	}
	return &doc, nil
}

// ==========================
// Postgres
// ==========================

const (
	queryMajorWeights = `SELECT major, subtest, weight FROM major_weights ORDER BY position, major, subtest`
	queryBands        = `SELECT name, tier, min_score, max_score, COALESCE(label, '') FROM institution_bands ORDER BY position, name`
	queryAlternatives = `SELECT major, alternative FROM major_alternatives ORDER BY major, rank`
)

// PostgresSource reads the three reference tables. Majors and institutions keep
// the order of their position column.
type PostgresSource struct {
	DB *sql.DB
}

func (s PostgresSource) Name() string { return SourcePostgres }

func (s PostgresSource) Load(ctx context.Context) (*Document, error) {
	doc := &Document{Version: SourcePostgres}

	weights, order, err := s.loadWeights(ctx)
	if err != nil {
		return nil, err
	}
	alternatives, err := s.loadAlternatives(ctx)
	if err != nil {
		return nil, err
	}
	for _, major := range order {
		doc.Majors = append(doc.Majors, MajorEntry{
			Name:         major,
			Weights:      weights[major],
			Alternatives: alternatives[major],
		})
	}

	bands, err := s.loadBands(ctx)
	if err != nil {
		return nil, err
	}
	doc.Institutions = bands
	return doc, nil
}

func (s PostgresSource) loadWeights(ctx context.Context) (map[string]models.WeightVector, []string, error) {
	rows, err := s.DB.QueryContext(ctx, queryMajorWeights)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query major_weights: %w", err)
	}
	defer rows.Close()

	weights := make(map[string]models.WeightVector)
	var order []string
	for rows.Next() {
		var major, subtest string
		var weight float64
		if err := rows.Scan(&major, &subtest, &weight); err != nil {
			return nil, nil, fmt.Errorf("failed to scan major_weights: %w", err)
		}
		w, ok := weights[major]
		if !ok {
			w = make(models.WeightVector, 7)
			weights[major] = w
			order = append(order, major)
		}
		w[models.Subtest(strings.ToUpper(subtest))] = weight
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate major_weights: %w", err)
	}
	return weights, order, nil
}

func (s PostgresSource) loadAlternatives(ctx context.Context) (map[string][]string, error) {
	rows, err := s.DB.QueryContext(ctx, queryAlternatives)
	if err != nil {
		return nil, fmt.Errorf("failed to query major_alternatives: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var major, alt string
		if err := rows.Scan(&major, &alt); err != nil {
			return nil, fmt.Errorf("failed to scan major_alternatives: %w", err)
		}
		out[major] = append(out[major], alt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate major_alternatives: %w", err)
	}
	return out, nil
}

func (s PostgresSource) loadBands(ctx context.Context) ([]InstitutionEntry, error) {
	rows, err := s.DB.QueryContext(ctx, queryBands)
	if err != nil {
		return nil, fmt.Errorf("failed to query institution_bands: %w", err)
	}
	defer rows.Close()

	var out []InstitutionEntry
	for rows.Next() {
		var e InstitutionEntry
		if err := rows.Scan(&e.Name, &e.Tier, &e.Min, &e.Max, &e.Label); err != nil {
			return nil, fmt.Errorf("failed to scan institution_bands: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate institution_bands: %w", err)
	}
	return out, nil
}
