// internal/workers/readiness/generate-study-plan/handler.go
package generatestudyplan

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"

	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/errors"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/logger"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/metrics"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/observability"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/validation"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/planner"
)

const (
	TaskType = "generate-study-plan"
)

type HandlerOptions struct {
	Validator     *validation.JobValidator
	Observability *observability.Observability
	Logger        logger.Logger
}

type Handler struct {
	config       *Config
	validator    *validation.JobValidator
	obs          *observability.Observability
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, opts HandlerOptions) *Handler {
	log := opts.Logger.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		validator:    opts.Validator,
		obs:          opts.Observability,
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

func (h *Handler) weeks(input *Input) int {
	if input.Weeks != nil {
		return *input.Weeks
	}
	return h.config.DefaultWeeks
}

// Execute builds the weekly plan for a scoring result.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Result == nil {
		return nil, errors.NewJobInputInvalidError("result is required")
	}
	weeks := h.weeks(input)

	_, span := h.obs.StartSpan(ctx, "readiness.plan", attribute.Int("weeks", weeks))
	plan, err := planner.GeneratePlan(input.Result, weeks)
	observability.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	metrics.PlansGenerated.Inc()
	h.logger.Info("study plan generated", map[string]interface{}{
		"weeks":       weeks,
		"finalTarget": plan[len(plan)-1].TargetScore,
	})
	return &Output{Plan: plan}, nil
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
