// internal/workers/pitch/generate-pitch/handler.go
package generatepitch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"

	"pitch-workers/internal/common/database"
	apperrors "pitch-workers/internal/common/errors"
	"pitch-workers/internal/common/logger"
	"pitch-workers/internal/common/metrics"
	"pitch-workers/internal/common/observability"
	"pitch-workers/internal/models"
	"pitch-workers/internal/synthesis"
	"pitch-workers/internal/tracker"
)

const (
	TaskType = "generate-pitch"
)

// JobRegistry remembers which pitch job belongs to a workflow instance.
type JobRegistry interface {
	Remember(ctx context.Context, workflowInstanceKey int64, job *models.Job) (*database.JobEntry, error)
	Lookup(ctx context.Context, workflowInstanceKey int64) (*database.JobEntry, bool, error)
	Forget(ctx context.Context, workflowInstanceKey int64) error
}

type URLResolver interface {
	ResolveURL(ref string) (string, error)
}

type Handler struct {
	config   *Config
	tracker  *tracker.Tracker
	registry JobRegistry
	resolver URLResolver
	obs      *observability.Observability
	errors   *apperrors.ErrorHandler
	logger   logger.Logger
}

// NewHandler wires the worker. registry, resolver and obs may be nil.
func NewHandler(config *Config, t *tracker.Tracker, registry JobRegistry, resolver URLResolver, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		tracker:  t,
		registry: registry,
		resolver: resolver,
		obs:      obs,
		errors:   apperrors.NewErrorHandler(log),
		logger:   log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	ctx, span := h.obs.StartSpan(ctx, TaskType,
		attribute.Int64("jobKey", job.Key),
		attribute.Int64("workflowKey", job.ProcessInstanceKey),
	)

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		err = apperrors.NewInvalidIdeaError(fmt.Sprintf("parse input: %v", err))
		observability.EndSpan(span, err)
		h.failJob(ctx, client, job, err, start)
		return
	}

	output, err := h.Execute(ctx, job.ProcessInstanceKey, &input)
	observability.EndSpan(span, err)
	if err != nil {
		h.failJob(ctx, client, job, err, start)
		return
	}

	h.completeJob(ctx, client, job, output, start)
}

// Execute submits the idea, or resumes the job already submitted for this
// workflow instance, tracks it to a terminal state and reconciles the result.
func (h *Handler) Execute(ctx context.Context, workflowKey int64, input *Input) (*Output, error) {
	idea := input.toIdea(h.config.UseMockLLM)

	job, resumed, err := h.jobFor(ctx, workflowKey, idea)
	if err != nil {
		return nil, err
	}

	log := h.logger.WithFields(map[string]interface{}{"pitchJobId": job.ID})
	outcome := h.tracker.Track(ctx, job, func(u tracker.Update) {
		if u.State == tracker.StatePolling {
			log.Debug("pitch job pending", map[string]interface{}{
				"attempt": u.Attempt,
				"status":  u.Status,
			})
		}
	})

	if outcome.Cancelled {
		// The registry entry stays so the retry picks up the same job.
		return nil, apperrors.NewTrackingTimeoutError(job.ID, outcome.Attempts).
			WithMetadata("workerTimeout", h.config.Timeout.String())
	}

	if !outcome.Completed() {
		if errors.Is(outcome.Err, apperrors.ErrProcessingError) {
			h.forget(ctx, workflowKey)
		}
		return nil, outcome.Err
	}
	h.forget(ctx, workflowKey)

	report := synthesis.Reconcile(idea.Idea, outcome.Document)
	metrics.RecordReconciliation(string(report.Category), string(report.BudgetSource), string(report.ProfitSource))

	output := &Output{
		JobID:         job.ID,
		SessionID:     outcome.SessionID,
		Attempts:      outcome.Attempts,
		Resumed:       resumed,
		DocumentReady: outcome.Document != nil,
		Pitch:         outcome.Document,
		Report:        report,
	}
	if outcome.Err != nil {
		output.DocumentError = outcome.Err.Error()
	}
	if outcome.DownloadRef != "" {
		output.DownloadURL = outcome.DownloadRef
		if h.resolver != nil {
			if abs, err := h.resolver.ResolveURL(outcome.DownloadRef); err == nil {
				output.DownloadURL = abs
			}
		}
	}
	return output, nil
}

// jobFor returns the job remembered for the workflow instance, submitting a
// new one when there is none. Registry failures only cost the resume.
func (h *Handler) jobFor(ctx context.Context, workflowKey int64, idea models.Idea) (*models.Job, bool, error) {
	if h.registry != nil {
		entry, found, err := h.registry.Lookup(ctx, workflowKey)
		if err != nil {
			h.logger.Warn("job registry lookup failed", map[string]interface{}{"error": err.Error()})
		} else if found {
			h.logger.Info("resuming pitch job", map[string]interface{}{
				"pitchJobId":  entry.JobID,
				"submittedAt": entry.SubmittedAt,
			})
			return &models.Job{ID: entry.JobID, Status: entry.Status}, true, nil
		}
	}

	job, err := h.tracker.Submit(ctx, idea)
	if err != nil {
		return nil, false, err
	}

	if h.registry != nil {
		entry, err := h.registry.Remember(ctx, workflowKey, job)
		if err != nil {
			h.logger.Warn("job registry write failed", map[string]interface{}{"error": err.Error()})
		} else if entry.JobID != job.ID {
			// Another activation registered first; follow its job.
			return &models.Job{ID: entry.JobID, Status: entry.Status}, true, nil
		}
	}
	return job, false, nil
}

func (h *Handler) forget(ctx context.Context, workflowKey int64) {
	if h.registry == nil {
		return
	}
	if err := h.registry.Forget(context.WithoutCancel(ctx), workflowKey); err != nil {
		h.logger.Warn("job registry cleanup failed", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output, start time.Time) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err := cmd.Send(context.WithoutCancel(ctx)); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "completed")
	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":     job.Key,
		"pitchJobId": output.JobID,
		"category":   output.Report.Category,
		"durationMs": time.Since(start).Milliseconds(),
	})
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	stdErr := apperrors.AsStandardError(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")

	h.errors.HandleJobError(context.WithoutCancel(ctx), client, job, stdErr)
}
