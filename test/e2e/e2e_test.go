// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apihttp "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/api/http"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/app"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/camunda"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/config"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/logger"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/observability"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/validation"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/models"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/session"
	computereadinessscore "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/workers/readiness/compute-readiness-score"
	generatestudyplan "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/workers/readiness/generate-study-plan"
	recommendstrategy "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/workers/readiness/recommend-strategy"
	renderreadinessreport "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/workers/readiness/render-readiness-report"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/pkg/registry"
)

var generatedAt = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

const configBody = `reference:
  source: file
  path: %s
strategy:
  dirs: []
  candidates: []
`

// ==========================
// Test Helper Functions
// ==========================

type stack struct {
	rt     *app.Runtime
	server *httptest.Server
	obs    *observability.Observability
	val    *validation.JobValidator
}

func repoPath(parts ...string) string {
	return filepath.Join(append([]string{"..", ".."}, parts...)...)
}

func createStack(t *testing.T) *stack {
	t.Helper()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	refPath, err := filepath.Abs(repoPath("configs", "reference.example.yaml"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfgPath, []byte(strings.Replace(configBody, "%s", refPath, 1)), 0o644))

	cfg, err := config.LoadFromFile(cfgPath)
	require.NoError(t, err)

	log := logger.NewTestLogger(t)
	rt, err := app.Build(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(rt.Close)

	reg := promclient.NewRegistry()
	obs := observability.New("readiness-e2e", observability.Options{Registerer: reg})
	t.Cleanup(obs.Shutdown)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	srv := apihttp.NewServer(apihttp.Dependencies{
		Store:         session.NewStore(client, cfg.Session.TTLDuration()),
		Engine:        rt.Engine,
		Catalog:       rt.Catalog,
		Observability: obs,
		Logger:        log,
		Gatherer:      promclient.Gatherers{reg, promclient.DefaultGatherer},
		Now:           func() time.Time { return generatedAt },
	})
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	acts, err := registry.LoadRegistry(repoPath("configs", "activity-registry.json"))
	require.NoError(t, err)
	val, err := validation.NewJobValidator(acts)
	require.NoError(t, err)

	return &stack{rt: rt, server: ts, obs: obs, val: val}
}

func (s *stack) call(t *testing.T, method, path string, body interface{}) (int, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func profile() models.StudentProfile {
	return models.StudentProfile{
		Name:        "Rina",
		Major:       "Teknik Informatika",
		Institution: "Institut Teknologi Sepuluh Nopember (ITS)",
		Scores: models.SubtestScores{
			models.SubtestPU: 700, models.SubtestPPU: 650, models.SubtestPBM: 680, models.SubtestPK: 720,
			models.SubtestLBI: 690, models.SubtestLBE: 710, models.SubtestPM: 730,
		},
		Psychology: models.Psychology{Focus: 4, Confidence: 3, Anxiety: 3, Distraction: 2},
		Behavior:   models.Behavior{StudyHours: 3, StudyDays: 4, Practice: 3, MockFrequency: 2, Review: 3},
	}
}

// walkWizard submits every survey page and returns the session id.
func (s *stack) walkWizard(t *testing.T, p models.StudentProfile) string {
	t.Helper()
	status, body := s.call(t, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, status, string(body))
	var w session.Wizard
	require.NoError(t, json.Unmarshal(body, &w))
	base := "/api/v1/sessions/" + w.ID

	steps := []struct {
		path string
		body interface{}
	}{
		{"/profile", session.ProfileInput{Name: p.Name, Major: p.Major, Institution: p.Institution}},
		{"/scores", p.Scores},
		{"/psychology", p.Psychology},
		{"/behavior", p.Behavior},
	}
	for _, st := range steps {
		status, body := s.call(t, http.MethodPut, base+st.path, st.body)
		require.Equal(t, http.StatusOK, status, "%s: %s", st.path, body)
	}
	return w.ID
}

// ==========================
// Pipeline Tests
// ==========================

// TestFullE2E drives a session through the HTTP API, then runs the same
// profile through the four job handlers and checks both paths agree.
func TestFullE2E(t *testing.T) {
	s := createStack(t)
	ctx := context.Background()
	p := profile()

	id := s.walkWizard(t, p)
	base := "/api/v1/sessions/" + id

	status, body := s.call(t, http.MethodGet, base+"/result", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var apiResult models.ScoringResult
	require.NoError(t, json.Unmarshal(body, &apiResult))
	assert.InDelta(t, 711.5, apiResult.Composite, 1e-9)
	assert.Equal(t, 885.0, apiResult.Band.Max)
	assert.Equal(t, []string{"Statistika", "Matematika", "Teknik Elektro"}, apiResult.Alternatives)

	status, body = s.call(t, http.MethodGet, base+"/plan?weeks=6", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var apiPlan apihttp.PlanResponse
	require.NoError(t, json.Unmarshal(body, &apiPlan))
	require.Len(t, apiPlan.Plan, 6)

	status, body = s.call(t, http.MethodGet, base+"/report?weeks=6", nil)
	require.Equal(t, http.StatusOK, status)
	apiReport := string(body)

	compute := computereadinessscore.NewHandler(computereadinessscore.LoadConfig(), computereadinessscore.HandlerOptions{
		Engine: s.rt.Engine, Validator: s.val, Observability: s.obs, Logger: logger.NewNoOpLogger(),
	})
	scored, err := compute.Execute(ctx, &computereadinessscore.Input{Profile: p})
	require.NoError(t, err)
	assert.InDelta(t, apiResult.Composite, scored.Result.Composite, 1e-9)
	assert.Equal(t, apiResult.Probability, scored.Result.Probability)
	assert.Equal(t, apiResult.Risk, scored.Result.Risk)

	weeks := 6
	planner := generatestudyplan.NewHandler(generatestudyplan.LoadConfig(), generatestudyplan.HandlerOptions{
		Validator: s.val, Observability: s.obs, Logger: logger.NewNoOpLogger(),
	})
	planned, err := planner.Execute(ctx, &generatestudyplan.Input{Result: scored.Result, Weeks: &weeks})
	require.NoError(t, err)
	assert.Equal(t, apiPlan.Plan, planned.Plan)

	recommender := recommendstrategy.NewHandler(recommendstrategy.LoadConfig(), recommendstrategy.HandlerOptions{
		Recommender: s.rt.Strategy, Validator: s.val, Observability: s.obs, Logger: logger.NewNoOpLogger(),
	})
	verdict, err := recommender.Execute(ctx, &recommendstrategy.Input{Profile: p})
	require.NoError(t, err)
	assert.Equal(t, models.VerdictUnavailable, verdict.Verdict.Status)

	renderer := renderreadinessreport.NewHandler(renderreadinessreport.LoadConfig(), renderreadinessreport.HandlerOptions{
		Validator: s.val, Observability: s.obs, Logger: logger.NewNoOpLogger(),
		Now: func() time.Time { return generatedAt },
	})
	rendered, err := renderer.Execute(ctx, &renderreadinessreport.Input{Result: scored.Result, Weeks: &weeks})
	require.NoError(t, err)
	assert.Equal(t, apiReport, rendered.ReportHTML)
}

func TestReferenceAndProbes(t *testing.T) {
	s := createStack(t)

	status, body := s.call(t, http.MethodGet, "/ready", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "2025.1-example")

	status, body = s.call(t, http.MethodGet, "/api/v1/reference/majors", nil)
	require.Equal(t, http.StatusOK, status)
	var majors struct {
		Version string   `json:"version"`
		Majors  []string `json:"majors"`
	}
	require.NoError(t, json.Unmarshal(body, &majors))
	assert.Equal(t, "2025.1-example", majors.Version)
	assert.Equal(t, []string{"Teknik Informatika", "Kedokteran"}, majors.Majors)

	s.walkWizard(t, profile())
	status, body = s.call(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "http_requests_total")
}

// TestZeebeConnectivity runs only against a live gateway, e.g.
// ZEEBE_ADDRESS=localhost:26500 go test ./test/e2e/...
func TestZeebeConnectivity(t *testing.T) {
	addr := os.Getenv("ZEEBE_ADDRESS")
	if addr == "" {
		t.Skip("ZEEBE_ADDRESS not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := camunda.Connect(ctx, &camunda.ClientConfig{
		GatewayAddress:         addr,
		UsePlaintextConnection: true,
		ConnectionTimeout:      10 * time.Second,
	}, logger.NewTestLogger(t))
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.HealthCheck(ctx))
}

// ==========================
// Benchmarks
// ==========================

func BenchmarkHandler_ComputeReadinessScore(b *testing.B) {
	rt, err := app.Build(context.Background(), &config.Config{Reference: config.ReferenceConfig{Source: "builtin"}}, logger.NewNoOpLogger())
	require.NoError(b, err)
	h := computereadinessscore.NewHandler(computereadinessscore.LoadConfig(), computereadinessscore.HandlerOptions{
		Engine: rt.Engine, Logger: logger.NewNoOpLogger(),
	})
	in := &computereadinessscore.Input{Profile: profile()}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := h.Execute(context.Background(), in); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkHandler_RenderReadinessReport(b *testing.B) {
	rt, err := app.Build(context.Background(), &config.Config{Reference: config.ReferenceConfig{Source: "builtin"}}, logger.NewNoOpLogger())
	require.NoError(b, err)
	result, err := rt.Engine.Compute(profile())
	require.NoError(b, err)
	h := renderreadinessreport.NewHandler(renderreadinessreport.LoadConfig(), renderreadinessreport.HandlerOptions{
		Logger: logger.NewNoOpLogger(),
		Now:    func() time.Time { return generatedAt },
	})
	in := &renderreadinessreport.Input{Result: result}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := h.Execute(context.Background(), in); err != nil {
			b.Fatal(err)
		}
	}
}
