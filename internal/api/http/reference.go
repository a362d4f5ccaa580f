// internal/api/http/reference.go
package http

import (
	nethttp "net/http"
)

// InstitutionView is one row of GET /api/v1/reference/institutions.
type InstitutionView struct {
	Name  string  `json:"name"`
	Tier  int     `json:"tier"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Label string  `json:"label"`
}

func (s *Server) majors(w nethttp.ResponseWriter, _ *nethttp.Request) {
	respondJSON(w, nethttp.StatusOK, map[string]interface{}{
		"version": s.catalog.Version(),
		"majors":  s.catalog.Majors(),
	})
}

func (s *Server) institutions(w nethttp.ResponseWriter, _ *nethttp.Request) {
	names := s.catalog.Institutions()
	out := make([]InstitutionView, 0, len(names))
	for _, name := range names {
		b := s.catalog.InstitutionBand(name)
		out = append(out, InstitutionView{Name: name, Tier: b.Tier, Min: b.Min, Max: b.Max, Label: b.Label})
	}
	respondJSON(w, nethttp.StatusOK, map[string]interface{}{
		"version":      s.catalog.Version(),
		"institutions": out,
	})
}
