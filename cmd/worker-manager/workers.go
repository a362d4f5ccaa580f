// cmd/worker-manager/workers.go
package main

import (
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/app"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/camunda"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/config"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/logger"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/observability"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/validation"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/pkg/registry"

	crs "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/workers/readiness/compute-readiness-score"
	gsp "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/workers/readiness/generate-study-plan"
	rs "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/workers/readiness/recommend-strategy"
	rrr "github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/workers/readiness/render-readiness-report"
)

// handlers builds one handler per readiness task type. Only task types
// declared in the activity registry are returned.
func handlers(cfg *config.Config, rt *app.Runtime, obs *observability.Observability, log logger.Logger) (map[string]camunda.HandlerFunc, error) {
	reg, err := registry.LoadRegistry(cfg.Camunda.RegistryPath)
	if err != nil {
		return nil, err
	}
	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("activity registry: %w", err)
	}
	validator, err := validation.NewJobValidator(reg)
	if err != nil {
		return nil, err
	}

	out := map[string]camunda.HandlerFunc{}

	if _, ok := reg.ByTaskType(crs.TaskType); ok {
		c := crs.LoadConfig()
		c.Timeout = timeoutFor(cfg, crs.TaskType, c.Timeout)
		out[crs.TaskType] = crs.NewHandler(c, crs.HandlerOptions{
			Engine:        rt.Engine,
			Validator:     validator,
			Observability: obs,
			Logger:        log,
		}).Handle
	}

	if _, ok := reg.ByTaskType(gsp.TaskType); ok {
		c := gsp.LoadConfig()
		c.Timeout = timeoutFor(cfg, gsp.TaskType, c.Timeout)
		out[gsp.TaskType] = gsp.NewHandler(c, gsp.HandlerOptions{
			Validator:     validator,
			Observability: obs,
			Logger:        log,
		}).Handle
	}

	if _, ok := reg.ByTaskType(rs.TaskType); ok {
		c := rs.LoadConfig()
		c.Timeout = timeoutFor(cfg, rs.TaskType, c.Timeout)
		out[rs.TaskType] = rs.NewHandler(c, rs.HandlerOptions{
			Recommender:   rt.Strategy,
			Validator:     validator,
			Observability: obs,
			Logger:        log,
		}).Handle
	}

	if _, ok := reg.ByTaskType(rrr.TaskType); ok {
		c := rrr.LoadConfig()
		c.Timeout = timeoutFor(cfg, rrr.TaskType, c.Timeout)
		out[rrr.TaskType] = rrr.NewHandler(c, rrr.HandlerOptions{
			Validator:     validator,
			Observability: obs,
			Logger:        log,
		}).Handle
	}

	return out, nil
}

// registerWorkers opens a job worker for every enabled handler.
func registerWorkers(client zbc.Client, cfg *config.Config, rt *app.Runtime, obs *observability.Observability, log logger.Logger) ([]*camunda.CamundaWorker, error) {
	hs, err := handlers(cfg, rt, obs, log)
	if err != nil {
		return nil, err
	}

	var workers []*camunda.CamundaWorker
	for _, taskType := range enabledTaskTypes(cfg, hs, log) {
		if w := camunda.StartWorker(client, taskType, config.GetWorkerConfig(cfg, taskType), hs[taskType], log); w != nil {
			workers = append(workers, w)
		}
	}
	return workers, nil
}

// enabledTaskTypes lists, in a fixed order, the readiness task types that
// have a handler and are not switched off under workers.<taskType>.enabled.
func enabledTaskTypes(cfg *config.Config, hs map[string]camunda.HandlerFunc, log logger.Logger) []string {
	var out []string
	for _, taskType := range []string{crs.TaskType, gsp.TaskType, rs.TaskType, rrr.TaskType} {
		if _, ok := hs[taskType]; !ok {
			log.Warn("task type missing from activity registry", map[string]interface{}{"taskType": taskType})
			continue
		}
		if !config.IsWorkerEnabled(cfg, taskType) {
			log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
			continue
		}
		out = append(out, taskType)
	}
	return out
}

// timeoutFor prefers the per-worker timeout from config over the handler default.
func timeoutFor(cfg *config.Config, taskType string, fallback time.Duration) time.Duration {
	if wc := config.GetWorkerConfig(cfg, taskType); wc.Timeout > 0 {
		return config.GetDuration(wc.Timeout)
	}
	return fallback
}
