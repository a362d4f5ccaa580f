// internal/api/http/sessions.go
package http

import (
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/errors"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/session"
)

// maxBodyBytes bounds every step payload.
const maxBodyBytes = 64 << 10

func (s *Server) createSession(w nethttp.ResponseWriter, r *nethttp.Request) {
	wz, err := s.store.Create(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.logger.Info("session created", map[string]interface{}{"sessionId": wz.ID})
	respondJSON(w, nethttp.StatusCreated, wz)
}

func (s *Server) getSession(w nethttp.ResponseWriter, r *nethttp.Request) {
	wz, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, nethttp.StatusOK, wz)
}

func (s *Server) submitProfile(w nethttp.ResponseWriter, r *nethttp.Request) {
	var in session.ProfileInput
	s.submit(w, r, session.StepProfile, &in, func(wz session.Wizard, now time.Time) (session.Wizard, error) {
		return wz.SubmitProfile(in, now)
	})
}

func (s *Server) submitScores(w nethttp.ResponseWriter, r *nethttp.Request) {
	var in session.ScoresInput
	s.submit(w, r, session.StepScores, &in, func(wz session.Wizard, now time.Time) (session.Wizard, error) {
		return wz.SubmitScores(in, now)
	})
}

func (s *Server) submitPsychology(w nethttp.ResponseWriter, r *nethttp.Request) {
	var in session.PsychologyInput
	s.submit(w, r, session.StepPsychology, &in, func(wz session.Wizard, now time.Time) (session.Wizard, error) {
		return wz.SubmitPsychology(in, now)
	})
}

func (s *Server) submitBehavior(w nethttp.ResponseWriter, r *nethttp.Request) {
	var in session.BehaviorInput
	s.submit(w, r, session.StepBehavior, &in, func(wz session.Wizard, now time.Time) (session.Wizard, error) {
		return wz.SubmitBehavior(in, now)
	})
}

// submit decodes the step payload into in, then applies transition to the
// stored snapshot through Store.Update.
func (s *Server) submit(w nethttp.ResponseWriter, r *nethttp.Request, step session.Step, in interface{},
	transition func(session.Wizard, time.Time) (session.Wizard, error)) {
	dec := json.NewDecoder(nethttp.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(in); err != nil {
		s.respondError(w, r, apperrors.NewInvalidStepInputError(string(step), fmt.Sprintf("bad json: %v", err)))
		return
	}

	id := chi.URLParam(r, "id")
	wz, err := s.store.Update(r.Context(), id, transition)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.logger.Debug("session advanced", map[string]interface{}{
		"sessionId": id,
		"submitted": string(step),
		"step":      string(wz.Step),
	})
	respondJSON(w, nethttp.StatusOK, wz)
}

func (s *Server) back(w nethttp.ResponseWriter, r *nethttp.Request) {
	wz, err := s.store.Update(r.Context(), chi.URLParam(r, "id"), func(wz session.Wizard, now time.Time) (session.Wizard, error) {
		return wz.Back(now), nil
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, nethttp.StatusOK, wz)
}
