// Package tracker follows a pitch job on the generation service from submission
// to a terminal state.
package tracker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "pitch-workers/internal/common/errors"
	"pitch-workers/internal/common/logger"
	"pitch-workers/internal/common/metrics"
	"pitch-workers/internal/common/pitchapi"
	"pitch-workers/internal/common/validation"
	"pitch-workers/internal/models"
)

const (
	DefaultPollInterval         = 1500 * time.Millisecond
	DefaultMaxAttempts          = 40
	DefaultMaxConsecutiveErrors = 10
)

type Config struct {
	PollInterval time.Duration
	// MaxAttempts bounds the number of status requests, failed ones included.
	MaxAttempts int
	// MaxConsecutiveErrors failed polls in a row are tolerated; one more ends tracking.
	MaxConsecutiveErrors int
}

func DefaultConfig() Config {
	return Config{
		PollInterval:         DefaultPollInterval,
		MaxAttempts:          DefaultMaxAttempts,
		MaxConsecutiveErrors: DefaultMaxConsecutiveErrors,
	}
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.MaxConsecutiveErrors < 0 {
		c.MaxConsecutiveErrors = DefaultMaxConsecutiveErrors
	}
	return c
}

// API is the part of the pitch service the tracker needs.
type API interface {
	Submit(ctx context.Context, idea models.Idea) (*models.Job, error)
	Status(ctx context.Context, jobID string) (*models.StatusResponse, error)
	Pitch(ctx context.Context, jobID string) (*models.PitchDocument, error)
}

type State string

const (
	StatePolling   State = "polling"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateTimedOut  State = "timed_out"
)

func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateTimedOut
}

// Update is delivered after every poll and once more on the terminal state.
type Update struct {
	SessionID string
	JobID     string
	State     State
	Attempt   int
	Status    models.JobStatus
	// Err is the transient poll error on polling updates, or the terminal error.
	Err     error
	Outcome *Outcome
}

type Outcome struct {
	SessionID   string
	JobID       string
	State       State
	Attempts    int
	Document    *models.PitchDocument
	DownloadRef string
	// Err is set for failed and timed out jobs. For completed jobs it holds the
	// document fetch error, if any.
	Err       error
	Cancelled bool
	Duration  time.Duration
}

// Completed reports whether the job finished, with or without its document.
func (o Outcome) Completed() bool {
	return o.State == StateCompleted && !o.Cancelled
}

type Tracker struct {
	api    API
	config Config
	logger logger.Logger
}

func New(api API, config Config, log logger.Logger) *Tracker {
	return &Tracker{
		api:    api,
		config: config.withDefaults(),
		logger: log.WithFields(map[string]interface{}{"component": "tracker"}),
	}
}

// Submit validates the idea and hands it to the service. A rejected idea never
// reaches the network.
func (t *Tracker) Submit(ctx context.Context, idea models.Idea) (*models.Job, error) {
	idea = idea.WithDefaults()
	if err := validation.ValidateIdea(idea); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	job, err := t.api.Submit(ctx, idea)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var stdErr *apperrors.StandardError
		if !errors.As(err, &stdErr) {
			err = apperrors.NewSubmissionFailedError("", err)
		}
		t.logger.Error("Pitch submission failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	return job, nil
}

// Track polls the job until it reaches a terminal state, the attempt budget is
// spent or ctx is cancelled. onUpdate may be nil. Once ctx is cancelled no
// further request is made and onUpdate is not called again; the returned
// Outcome then has Cancelled set.
func (t *Tracker) Track(ctx context.Context, job *models.Job, onUpdate func(Update)) Outcome {
	s := &session{
		tracker:  t,
		id:       uuid.NewString(),
		jobID:    job.ID,
		onUpdate: onUpdate,
		start:    time.Now(),
	}
	s.logger = t.logger.WithFields(map[string]interface{}{
		"sessionId": s.id,
		"jobId":     job.ID,
	})
	s.logger.Info("Tracking pitch job", map[string]interface{}{"status": job.Status})

	return s.run(ctx)
}

type session struct {
	tracker  *Tracker
	id       string
	jobID    string
	onUpdate func(Update)
	logger   logger.Logger
	start    time.Time

	attempts    int
	consecutive int
	lastStatus  models.JobStatus
}

func (s *session) run(ctx context.Context) Outcome {
	cfg := s.tracker.config
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for s.attempts < cfg.MaxAttempts {
		if s.attempts > 0 {
			if timer == nil {
				timer = time.NewTimer(cfg.PollInterval)
			} else {
				timer.Reset(cfg.PollInterval)
			}
			select {
			case <-ctx.Done():
				return s.cancelled()
			case <-timer.C:
			}
		}
		if ctx.Err() != nil {
			return s.cancelled()
		}

		s.attempts++
		status, err := s.tracker.api.Status(ctx, s.jobID)
		if ctx.Err() != nil {
			return s.cancelled()
		}

		if err != nil {
			s.consecutive++
			metrics.StatusPolls.WithLabelValues("transient_error").Inc()
			pollErr := apperrors.NewPollTransientError(s.jobID, s.attempts, err)
			if s.consecutive > cfg.MaxConsecutiveErrors {
				return s.finish(ctx, Outcome{
					State: StateFailed,
					Err:   apperrors.NewConnectivityFailureError(s.jobID, s.consecutive, err),
				})
			}
			s.logger.Debug("Status poll failed", map[string]interface{}{
				"attempt":     s.attempts,
				"consecutive": s.consecutive,
				"error":       err.Error(),
			})
			s.emit(ctx, Update{State: StatePolling, Err: pollErr})
			continue
		}

		s.consecutive = 0
		if status.Status != s.lastStatus {
			s.logger.Debug("Pitch job status changed", map[string]interface{}{
				"attempt": s.attempts,
				"from":    s.lastStatus,
				"to":      status.Status,
			})
		}
		s.lastStatus = status.Status
		if status.JobID == "" {
			status.JobID = s.jobID
		}

		switch status.Status {
		case models.JobStatusDone:
			metrics.StatusPolls.WithLabelValues("done").Inc()
			return s.complete(ctx, status)
		case models.JobStatusError:
			metrics.StatusPolls.WithLabelValues("error").Inc()
			return s.finish(ctx, Outcome{
				State: StateFailed,
				Err:   apperrors.NewProcessingError(s.jobID, status.Error),
			})
		default:
			metrics.StatusPolls.WithLabelValues("pending").Inc()
			s.emit(ctx, Update{State: StatePolling})
		}
	}

	return s.finish(ctx, Outcome{
		State: StateTimedOut,
		Err:   apperrors.NewTrackingTimeoutError(s.jobID, s.attempts),
	})
}

// complete fetches the document once. A failed fetch still completes the job.
func (s *session) complete(ctx context.Context, status *models.StatusResponse) Outcome {
	outcome := Outcome{
		State:       StateCompleted,
		DownloadRef: pitchapi.DownloadRef(status),
	}

	if ctx.Err() != nil {
		return s.cancelled()
	}
	doc, err := s.tracker.api.Pitch(ctx, s.jobID)
	if ctx.Err() != nil {
		return s.cancelled()
	}
	if err != nil {
		s.logger.Warn("Pitch document unavailable", map[string]interface{}{"error": err.Error()})
		outcome.Err = apperrors.NewDocumentFetchFailedError(s.jobID, err)
	} else {
		outcome.Document = doc
	}

	return s.finish(ctx, outcome)
}

func (s *session) finish(ctx context.Context, outcome Outcome) Outcome {
	outcome.SessionID = s.id
	outcome.JobID = s.jobID
	outcome.Attempts = s.attempts
	outcome.Duration = time.Since(s.start)

	if ctx.Err() != nil {
		return s.cancelled()
	}

	metrics.TrackingResults.WithLabelValues(string(outcome.State)).Inc()
	metrics.TrackingDuration.Observe(outcome.Duration.Seconds())

	fields := map[string]interface{}{
		"state":      outcome.State,
		"attempts":   outcome.Attempts,
		"durationMs": outcome.Duration.Milliseconds(),
	}
	if outcome.Err != nil {
		fields["error"] = outcome.Err.Error()
	}
	switch {
	case outcome.State == StateCompleted && outcome.Err == nil:
		s.logger.Info("Pitch job completed", fields)
	case outcome.State == StateCompleted:
		s.logger.Warn("Pitch job completed without document", fields)
	default:
		s.logger.Error("Pitch job did not complete", fields)
	}

	s.emit(ctx, Update{State: outcome.State, Err: outcome.Err, Outcome: &outcome})
	return outcome
}

func (s *session) cancelled() Outcome {
	metrics.TrackingResults.WithLabelValues("cancelled").Inc()
	s.logger.Info("Tracking cancelled", map[string]interface{}{"attempts": s.attempts})
	return Outcome{
		SessionID: s.id,
		JobID:     s.jobID,
		Attempts:  s.attempts,
		Cancelled: true,
		Duration:  time.Since(s.start),
	}
}

func (s *session) emit(ctx context.Context, u Update) {
	if s.onUpdate == nil || ctx.Err() != nil {
		return
	}
	u.SessionID = s.id
	u.JobID = s.jobID
	u.Attempt = s.attempts
	u.Status = s.lastStatus
	s.onUpdate(u)
}
