// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	ScoresComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readiness_scores_computed_total",
			Help: "Scoring results by probability label",
		},
		[]string{"label"},
	)

	CompositeScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "readiness_composite_score",
			Help:    "Distribution of weighted composite scores",
			Buckets: prometheus.LinearBuckets(200, 50, 17),
		},
	)

	PlansGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "readiness_plans_generated_total",
			Help: "Study plans generated",
		},
	)

	StrategyVerdicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readiness_strategy_verdicts_total",
			Help: "Strategy recommendations by verdict status",
		},
		[]string{"status"},
	)

	ReportsRendered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "readiness_reports_rendered_total",
			Help: "HTML reports rendered",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route pattern, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP request latency by route pattern",
		},
		[]string{"route", "method"},
	)
)

// ObserveScore records one scoring outcome.
func ObserveScore(label string, composite float64) {
	ScoresComputed.WithLabelValues(label).Inc()
	CompositeScore.Observe(composite)
}
