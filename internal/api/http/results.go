// internal/api/http/results.go
package http

import (
	"context"
	nethttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/errors"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/metrics"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/observability"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/models"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/planner"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/report"
)

// PlanResponse is the body of GET .../plan.
type PlanResponse struct {
	Weeks int               `json:"weeks"`
	Plan  []models.WeekPlan `json:"plan"`
}

// score loads a completed session and computes its result. Results are never
// cached; the same snapshot always yields the same result.
func (s *Server) score(ctx context.Context, id string) (*models.ScoringResult, error) {
	wz, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	profile, err := wz.Profile()
	if err != nil {
		return nil, err
	}

	_, span := s.obs.StartSpan(ctx, "readiness.compute",
		attribute.String("major", profile.Major),
		attribute.String("institution", profile.Institution),
	)
	result, err := s.engine.Compute(profile)
	observability.EndSpan(span, err)
	if err != nil {
		return nil, err
	}
	metrics.ObserveScore(result.Probability.Label, result.Composite)
	if result.Strategy != nil {
		metrics.StrategyVerdicts.WithLabelValues(result.Strategy.Status).Inc()
	}
	return result, nil
}

func (s *Server) planFor(ctx context.Context, result *models.ScoringResult, weeks int) ([]models.WeekPlan, error) {
	_, span := s.obs.StartSpan(ctx, "readiness.plan", attribute.Int("weeks", weeks))
	plan, err := planner.GeneratePlan(result, weeks)
	observability.EndSpan(span, err)
	if err != nil {
		return nil, err
	}
	metrics.PlansGenerated.Inc()
	return plan, nil
}

// maxWeeks matches the bound the job-input schemas put on weeks.
const maxWeeks = 52

// weeksParam reads ?weeks=N, defaulting to the standard plan length.
func weeksParam(r *nethttp.Request) (int, error) {
	raw := r.URL.Query().Get("weeks")
	if raw == "" {
		return planner.DefaultWeeks, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxWeeks {
		return 0, apperrors.NewInvalidWeekCountError(n).WithMetadata("raw", raw)
	}
	return n, nil
}

func (s *Server) result(w nethttp.ResponseWriter, r *nethttp.Request) {
	result, err := s.score(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, nethttp.StatusOK, result)
}

func (s *Server) plan(w nethttp.ResponseWriter, r *nethttp.Request) {
	weeks, err := weeksParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	result, err := s.score(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	plan, err := s.planFor(r.Context(), result, weeks)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, nethttp.StatusOK, PlanResponse{Weeks: weeks, Plan: plan})
}

// report serves the printable HTML export.
func (s *Server) report(w nethttp.ResponseWriter, r *nethttp.Request) {
	weeks, err := weeksParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	result, err := s.score(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	plan, err := s.planFor(r.Context(), result, weeks)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	_, span := s.obs.StartSpan(r.Context(), "readiness.report")
	html, err := report.RenderString(result, plan, s.now())
	observability.EndSpan(span, err)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	metrics.ReportsRendered.Inc()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(nethttp.StatusOK)
	_, _ = w.Write([]byte(html))
}
