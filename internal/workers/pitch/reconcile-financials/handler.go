// internal/workers/pitch/reconcile-financials/handler.go
package reconcilefinancials

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "pitch-workers/internal/common/errors"
	"pitch-workers/internal/common/logger"
	"pitch-workers/internal/common/metrics"
	"pitch-workers/internal/common/observability"
	"pitch-workers/internal/common/validation"
	"pitch-workers/internal/models"
	"pitch-workers/internal/synthesis"
)

const (
	TaskType = "reconcile-financials"
)

type Handler struct {
	config *Config
	obs    *observability.Observability
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		obs:    obs,
		errors: apperrors.NewErrorHandler(log),
		logger: log,
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
	ctx, span := h.obs.StartSpan(ctx, TaskType)

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		err = apperrors.NewInvalidPitchDocumentError(fmt.Errorf("parse input: %w", err))
		observability.EndSpan(span, err)
		h.failJob(ctx, client, job, err, start)
		return
	}

	output, err := h.Execute(ctx, &input)
	observability.EndSpan(span, err)
	if err != nil {
		h.failJob(ctx, client, job, err, start)
		return
	}

	h.completeJob(ctx, client, job, output, start)
}

// Execute reconciles the supplied document. Synthesis itself never fails; only
// an undecodable document or an input with nothing to classify is rejected.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	doc, err := decodeDocument(input.Pitch)
	if err != nil {
		return nil, err
	}

	idea := strings.TrimSpace(input.Idea)
	if idea == "" && doc == nil {
		return nil, apperrors.NewInvalidIdeaError("idea or pitch is required")
	}

	report := synthesis.Reconcile(idea, doc)
	metrics.RecordReconciliation(string(report.Category), string(report.BudgetSource), string(report.ProfitSource))

	h.logger.Debug("reconciled pitch", map[string]interface{}{
		"category":     report.Category,
		"budgetSource": report.BudgetSource,
		"profitSource": report.ProfitSource,
	})

	return &Output{Report: report, Partial: doc.IsPartial()}, nil
}

func decodeDocument(raw json.RawMessage) (*models.PitchDocument, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	result, err := validation.Validate(validation.PitchDocumentSchema, json.RawMessage(trimmed))
	if err != nil {
		return nil, apperrors.NewInvalidPitchDocumentError(err)
	}
	if !result.Valid {
		return nil, apperrors.NewInvalidPitchDocumentError(
			fmt.Errorf("%s", strings.Join(result.GetErrorMessages(), "; ")))
	}

	var doc models.PitchDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, apperrors.NewInvalidPitchDocumentError(err)
	}
	return &doc, nil
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
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	stdErr := apperrors.AsStandardError(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")

	h.errors.HandleJobError(context.WithoutCancel(ctx), client, job, stdErr)
}
