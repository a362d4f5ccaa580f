// internal/workers/readiness/recommend-strategy/handler.go
package recommendstrategy

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/errors"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/logger"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/metrics"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/observability"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/validation"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/scoring"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/strategy"
)

const (
	TaskType = "recommend-strategy"
)

type HandlerOptions struct {
	Recommender   scoring.StrategyRecommender
	Validator     *validation.JobValidator
	Observability *observability.Observability
	Logger        logger.Logger
}

// Handler completes the job with whatever verdict the classifier gives.
// "unavailable" and "failed" verdicts are results, not job failures.
type Handler struct {
	config       *Config
	recommender  scoring.StrategyRecommender
	validator    *validation.JobValidator
	obs          *observability.Observability
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, opts HandlerOptions) *Handler {
	log := opts.Logger.WithFields(map[string]interface{}{"taskType": TaskType})
	recommender := opts.Recommender
	if recommender == nil {
		recommender = strategy.NewAdapter(nil, "", log)
	}
	return &Handler{
		config:       config,
		recommender:  recommender,
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

// Execute asks the classifier for a strategy label.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	_, span := h.obs.StartSpan(ctx, "readiness.strategy")
	verdict := h.recommender.Recommend(input.Profile)
	span.End()

	metrics.StrategyVerdicts.WithLabelValues(verdict.Status).Inc()
	fields := map[string]interface{}{
		"status": verdict.Status,
		"label":  verdict.Label,
	}
	if verdict.Error != "" {
		fields["error"] = verdict.Error
	}
	h.logger.Info("strategy recommended", fields)

	return &Output{Verdict: verdict}, nil
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
