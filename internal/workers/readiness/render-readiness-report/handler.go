// internal/workers/readiness/render-readiness-report/handler.go
package renderreadinessreport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"

	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/errors"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/logger"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/metrics"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/observability"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/validation"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/planner"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/report"
)

const (
	TaskType = "render-readiness-report"
)

type HandlerOptions struct {
	Validator     *validation.JobValidator
	Observability *observability.Observability
	Logger        logger.Logger
	// Now stamps the report; defaults to time.Now.
	Now func() time.Time
}

type Handler struct {
	config       *Config
	validator    *validation.JobValidator
	obs          *observability.Observability
	now          func() time.Time
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, opts HandlerOptions) *Handler {
	log := opts.Logger.WithFields(map[string]interface{}{"taskType": TaskType})
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{
		config:       config,
		validator:    opts.Validator,
		obs:          opts.Observability,
		now:          now,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job.Variables)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) parseInput(variables string) (*Input, error) {
	if res := h.validator.ValidateJSON(TaskType, variables); !res.Valid {
		return nil, errors.NewJobInputInvalidError(res.Summary())
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewJobInputInvalidError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

// Execute plans the weeks ahead and renders the result and plan as one HTML page.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Result == nil {
		return nil, errors.NewJobInputInvalidError("result is required")
	}
	weeks := h.config.DefaultWeeks
	if input.Weeks != nil {
		weeks = *input.Weeks
	}

	ctx, span := h.obs.StartSpan(ctx, "readiness.report", attribute.Int("weeks", weeks))
	html, err := h.render(ctx, input, weeks)
	observability.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	metrics.ReportsRendered.Inc()
	h.logger.Info("readiness report rendered", map[string]interface{}{
		"major": input.Result.Profile.Major,
		"bytes": len(html),
	})
	return &Output{ReportHTML: html}, nil
}

func (h *Handler) render(ctx context.Context, input *Input, weeks int) (string, error) {
	plan, err := planner.GeneratePlan(input.Result, weeks)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", errors.NewReportRenderFailedError(err)
	}
	return report.RenderString(input.Result, plan, h.now())
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		h.failJob(ctx, client, job, errors.NewInternalError(err))
		return
	}

	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := errors.AsStandardError(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.errorHandler.HandleJobError(ctx, client, job, stdErr)
}
