// Package reference holds the immutable lookup tables the scoring engine reads:
// per-major weight vectors, institution bands and alternative majors.
package reference

import (
	"fmt"
	"math"
	"strings"

	apperrors "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/errors"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/models"
)

// WeightTolerance bounds how far a weight vector may drift from 1.0.
const WeightTolerance = 1e-6

// Document is the serialized form of a catalog, shared by every source.
type Document struct {
	Version        string              `json:"version" yaml:"version"`
	DefaultWeights models.WeightVector `json:"defaultWeights,omitempty" yaml:"defaultWeights,omitempty"`
	Majors         []MajorEntry        `json:"majors" yaml:"majors"`
	Institutions   []InstitutionEntry  `json:"institutions" yaml:"institutions"`
}

type MajorEntry struct {
	Name         string              `json:"name" yaml:"name"`
	Weights      models.WeightVector `json:"weights" yaml:"weights"`
	Alternatives []string            `json:"alternatives,omitempty" yaml:"alternatives,omitempty"`
}

type InstitutionEntry struct {
	Name  string  `json:"name" yaml:"name"`
	Tier  int     `json:"tier" yaml:"tier"`
	Min   float64 `json:"min" yaml:"min"`
	Max   float64 `json:"max" yaml:"max"`
	Label string  `json:"label,omitempty" yaml:"label,omitempty"`
}

// Catalog is safe for concurrent reads; it is never mutated after NewCatalog.
type Catalog struct {
	version        string
	defaultWeights models.WeightVector
	weights        map[string]models.WeightVector
	bands          map[string]models.InstitutionBand
	alternatives   map[string][]string
	majors         []string
	institutions   []string
}

// NewCatalog validates doc and freezes it into a Catalog.
func NewCatalog(source string, doc *Document) (*Catalog, error) {
	if doc == nil {
		return nil, apperrors.NewReferenceDataInvalidError(source, "document is empty")
	}

	var problems []string

	defaults := doc.DefaultWeights
	if len(defaults) == 0 {
		defaults = DefaultWeights()
	}
	if err := ValidateWeights(defaults); err != nil {
		problems = append(problems, "defaultWeights: "+err.Error())
	}

	c := &Catalog{
		version:        doc.Version,
		defaultWeights: defaults.Clone(),
		weights:        make(map[string]models.WeightVector, len(doc.Majors)),
		bands:          make(map[string]models.InstitutionBand, len(doc.Institutions)),
		alternatives:   make(map[string][]string, len(doc.Majors)),
	}

	for _, m := range doc.Majors {
		if strings.TrimSpace(m.Name) == "" {
			problems = append(problems, "major with empty name")
			continue
		}
		if _, dup := c.weights[m.Name]; dup {
			problems = append(problems, fmt.Sprintf("major %q listed twice", m.Name))
			continue
		}
		if err := ValidateWeights(m.Weights); err != nil {
			problems = append(problems, fmt.Sprintf("major %q: %s", m.Name, err))
			continue
		}
		c.weights[m.Name] = m.Weights.Clone()
		c.alternatives[m.Name] = append([]string(nil), m.Alternatives...)
		c.majors = append(c.majors, m.Name)
	}

	for _, inst := range doc.Institutions {
		if strings.TrimSpace(inst.Name) == "" {
			problems = append(problems, "institution with empty name")
			continue
		}
		if _, dup := c.bands[inst.Name]; dup {
			problems = append(problems, fmt.Sprintf("institution %q listed twice", inst.Name))
			continue
		}
		b := models.InstitutionBand{Tier: inst.Tier, Min: inst.Min, Max: inst.Max, Label: inst.Label}
		if b.Label == "" {
			b.Label = TierLabel(b.Tier)
		}
		if err := ValidateBand(b); err != nil {
			problems = append(problems, fmt.Sprintf("institution %q: %s", inst.Name, err))
			continue
		}
		c.bands[inst.Name] = b
		c.institutions = append(c.institutions, inst.Name)
	}

	if len(problems) > 0 {
		return nil, apperrors.NewReferenceDataInvalidError(source, strings.Join(problems, "; "))
	}
	return c, nil
}

// ValidateWeights checks that w covers all seven subtests with fractions summing to 1.
func ValidateWeights(w models.WeightVector) error {
	if missing := w.Missing(); len(missing) > 0 {
		return fmt.Errorf("missing weights for %v", missing)
	}
	for code, v := range w {
		if !code.IsValid() {
			return fmt.Errorf("unknown subtest %q", code)
		}
		if v < 0 || v > 1 {
			return fmt.Errorf("weight for %s out of [0,1]: %v", code, v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1) > WeightTolerance {
		return fmt.Errorf("weights sum to %.6f, want 1", sum)
	}
	return nil
}

// ValidateBand checks tier range and band ordering.
func ValidateBand(b models.InstitutionBand) error {
	if b.Tier < 1 || b.Tier > 4 {
		return fmt.Errorf("tier %d out of 1-4", b.Tier)
	}
	if b.Min >= b.Max {
		return fmt.Errorf("min %.0f must be below max %.0f", b.Min, b.Max)
	}
	return nil
}

func (c *Catalog) Version() string { return c.version }

// WeightsFor returns the major's weight vector or the default vector. It never fails.
func (c *Catalog) WeightsFor(major string) models.WeightVector {
	if w, ok := c.weights[major]; ok {
		return w.Clone()
	}
	return c.defaultWeights.Clone()
}

// HasMajor reports whether major has its own weight vector.
func (c *Catalog) HasMajor(major string) bool {
	_, ok := c.weights[major]
	return ok
}

// InstitutionBand returns the institution's band or the documented default band.
func (c *Catalog) InstitutionBand(name string) models.InstitutionBand {
	if b, ok := c.bands[name]; ok {
		return b
	}
	return DefaultBand()
}

// HasInstitution reports whether name has its own band.
func (c *Catalog) HasInstitution(name string) bool {
	_, ok := c.bands[name]
	return ok
}

// AlternativesFor returns the ranked alternatives for major, or an empty slice.
func (c *Catalog) AlternativesFor(major string) []string {
	alts := c.alternatives[major]
	out := make([]string, len(alts))
	copy(out, alts)
	return out
}

// Majors lists majors in catalog order.
func (c *Catalog) Majors() []string {
	return append([]string(nil), c.majors...)
}

// Institutions lists institutions in catalog order.
func (c *Catalog) Institutions() []string {
	return append([]string(nil), c.institutions...)
}

// InstitutionsInTier lists the institutions of one tier in catalog order.
func (c *Catalog) InstitutionsInTier(tier int) []string {
	var out []string
	for _, name := range c.institutions {
		if c.bands[name].Tier == tier {
			out = append(out, name)
		}
	}
	return out
}
