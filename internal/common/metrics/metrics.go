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

	// outcome: pending, done, error, transient_error
	StatusPolls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pitch_status_polls_total",
			Help: "Status requests issued against the pitch service",
		},
		[]string{"outcome"},
	)

	TrackingResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pitch_tracking_results_total",
			Help: "Tracked pitch jobs by terminal result",
		},
		[]string{"result"},
	)

	TrackingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pitch_tracking_duration_seconds",
			Help:    "Time from first poll to terminal state",
			Buckets: []float64{1, 5, 15, 30, 45, 60, 90},
		},
	)

	// kind: budget, profit; source: authoritative, synthesized
	Synthesis = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pitch_synthesis_total",
			Help: "Budget and profit sections by source",
		},
		[]string{"kind", "source"},
	)

	Classifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pitch_classifications_total",
			Help: "Reconciled pitches by business category",
		},
		[]string{"category"},
	)
)

// RecordReconciliation counts one reconciled pitch.
func RecordReconciliation(category, budgetSource, profitSource string) {
	Classifications.WithLabelValues(category).Inc()
	Synthesis.WithLabelValues("budget", budgetSource).Inc()
	Synthesis.WithLabelValues("profit", profitSource).Inc()
}
