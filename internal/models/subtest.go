// internal/models/subtest.go
package models

import "sort"

// Subtest is one of the seven fixed exam sections.
type Subtest string

const (
	SubtestPU  Subtest = "PU"
	SubtestPPU Subtest = "PPU"
	SubtestPBM Subtest = "PBM"
	SubtestPK  Subtest = "PK"
	SubtestLBI Subtest = "LBI"
	SubtestLBE Subtest = "LBE"
	SubtestPM  Subtest = "PM"
)

// Score bounds for a single subtest.
const (
	MinSubtestScore = 200
	MaxSubtestScore = 1000
)

var canonicalSubtests = []Subtest{
	SubtestPU, SubtestPPU, SubtestPBM, SubtestPK, SubtestLBI, SubtestLBE, SubtestPM,
}

// AllSubtests returns the subtest codes in canonical order.
func AllSubtests() []Subtest {
	out := make([]Subtest, len(canonicalSubtests))
	copy(out, canonicalSubtests)
	return out
}

// IsValid reports whether s is one of the seven known codes.
func (s Subtest) IsValid() bool {
	for _, c := range canonicalSubtests {
		if c == s {
			return true
		}
	}
	return false
}

// SubtestScores maps each subtest to its raw score.
type SubtestScores map[Subtest]int

// Missing returns the codes absent from the map, in canonical order.
func (s SubtestScores) Missing() []Subtest {
	var missing []Subtest
	for _, c := range canonicalSubtests {
		if _, ok := s[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// Unknown returns the keys that are not subtest codes, sorted.
func (s SubtestScores) Unknown() []Subtest {
	var unknown []Subtest
	for c := range s {
		if !c.IsValid() {
			unknown = append(unknown, c)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	return unknown
}

// Mean is the unweighted average of the subtest codes present. Keys outside
// the seven codes are ignored.
func (s SubtestScores) Mean() float64 {
	total, n := 0, 0
	for _, c := range canonicalSubtests {
		if v, ok := s[c]; ok {
			total += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(total) / float64(n)
}

// WeightVector maps each subtest to its fraction of the composite.
type WeightVector map[Subtest]float64

// Missing returns the codes absent from the vector, in canonical order.
func (w WeightVector) Missing() []Subtest {
	var missing []Subtest
	for _, c := range canonicalSubtests {
		if _, ok := w[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// Sum adds up all fractions.
func (w WeightVector) Sum() float64 {
	total := 0.0
	for _, c := range canonicalSubtests {
		total += w[c]
	}
	return total
}

// Clone returns an independent copy.
func (w WeightVector) Clone() WeightVector {
	out := make(WeightVector, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// InstitutionBand is the admission band of a target institution.
type InstitutionBand struct {
	Tier  int     `json:"tier"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Label string  `json:"label"`
}
