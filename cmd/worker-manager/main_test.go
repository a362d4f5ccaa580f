// cmd/worker-manager/main_test.go
package main

import (
	"context"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/app"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/config"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/logger"

	crs "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/workers/readiness/compute-readiness-score"
	gsp "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/workers/readiness/generate-study-plan"
	rs "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/workers/readiness/recommend-strategy"
	rrr "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/workers/readiness/render-readiness-report"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Camunda: config.CamundaConfig{
			RegistryPath: filepath.Join("..", "..", "configs", "activity-registry.json"),
		},
		Reference: config.ReferenceConfig{Source: "builtin"},
		Strategy:  config.StrategyConfig{Dirs: []string{t.TempDir()}},
		Workers: map[string]config.WorkerConfig{
			crs.TaskType: {Enabled: true, Timeout: 2500},
		},
	}
}

func TestHandlers_AllReadinessTaskTypes(t *testing.T) {
	cfg := testConfig(t)
	log := logger.NewTestLogger(t)
	rt, err := app.Build(context.Background(), cfg, log)
	require.NoError(t, err)

	hs, err := handlers(cfg, rt, nil, log)
	require.NoError(t, err)

	for _, taskType := range []string{crs.TaskType, gsp.TaskType, rs.TaskType, rrr.TaskType} {
		assert.Contains(t, hs, taskType)
	}
	assert.Len(t, hs, 4)
}

func TestEnabledTaskTypes(t *testing.T) {
	cfg := testConfig(t)
	cfg.Workers[rs.TaskType] = config.WorkerConfig{Enabled: false}
	log := logger.NewTestLogger(t)
	rt, err := app.Build(context.Background(), cfg, log)
	require.NoError(t, err)

	hs, err := handlers(cfg, rt, nil, log)
	require.NoError(t, err)
	assert.Equal(t, []string{crs.TaskType, gsp.TaskType, rrr.TaskType}, enabledTaskTypes(cfg, hs, log))

	delete(hs, gsp.TaskType)
	assert.Equal(t, []string{crs.TaskType, rrr.TaskType}, enabledTaskTypes(cfg, hs, log))
}

func TestHandlers_MissingRegistry(t *testing.T) {
	cfg := testConfig(t)
	cfg.Camunda.RegistryPath = filepath.Join(t.TempDir(), "absent.json")
	log := logger.NewTestLogger(t)
	rt, err := app.Build(context.Background(), cfg, log)
	require.NoError(t, err)

	_, err = handlers(cfg, rt, nil, log)
	assert.Error(t, err)
}

func TestTimeoutFor(t *testing.T) {
	cfg := testConfig(t)
	assert.Equal(t, 2500*time.Millisecond, timeoutFor(cfg, crs.TaskType, time.Second))
	// unknown workers fall back to the config-wide default
	assert.Equal(t, 30*time.Second, timeoutFor(cfg, "unknown", time.Second))
}

func TestRetryWithBackoff(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), func() error {
		calls++
		if calls < 3 {
			return assert.AnError
		}
		return nil
	}, 5, time.Millisecond, zaptest.NewLogger(t), "flaky op")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	err = retryWithBackoff(context.Background(), func() error { return assert.AnError }, 2, time.Millisecond, zaptest.NewLogger(t), "broken op")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken op failed after 2 attempts")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = retryWithBackoff(ctx, func() error { return assert.AnError }, 5, time.Hour, zaptest.NewLogger(t), "cancelled op")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	srv := &http.Server{Addr: addr, Handler: http.NotFoundHandler(), ReadHeaderTimeout: time.Second}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv, time.Second, zaptest.NewLogger(t)) }()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
