package tracker

import (
	"context"
	"sync"

	"pitch-workers/internal/common/logger"
	"pitch-workers/internal/models"
)

// Supervisor owns at most one tracking session at a time. Starting a new
// session stops the previous one first, so a superseded session never
// delivers another update.
//
// onUpdate callbacks must not call Start or Cancel on the same Supervisor.
type Supervisor struct {
	tracker *Tracker
	logger  logger.Logger

	mu      sync.Mutex
	current *run
}

type run struct {
	job     *models.Job
	cancel  context.CancelFunc
	done    chan struct{}
	outcome Outcome
}

func NewSupervisor(t *Tracker, log logger.Logger) *Supervisor {
	return &Supervisor{
		tracker: t,
		logger:  log.WithFields(map[string]interface{}{"component": "supervisor"}),
	}
}

// Start submits idea and tracks the resulting job in the background.
func (s *Supervisor) Start(ctx context.Context, idea models.Idea, onUpdate func(Update)) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	runCtx, cancel := context.WithCancel(ctx)
	job, err := s.tracker.Submit(runCtx, idea)
	if err != nil {
		cancel()
		return nil, err
	}

	s.launchLocked(runCtx, cancel, job, onUpdate)
	return job, nil
}

// Resume tracks an already submitted job, replacing any current session.
func (s *Supervisor) Resume(ctx context.Context, job *models.Job, onUpdate func(Update)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	runCtx, cancel := context.WithCancel(ctx)
	s.launchLocked(runCtx, cancel, job, onUpdate)
}

func (s *Supervisor) launchLocked(ctx context.Context, cancel context.CancelFunc, job *models.Job, onUpdate func(Update)) {
	r := &run{job: job, cancel: cancel, done: make(chan struct{})}
	s.current = r

	go func() {
		defer close(r.done)
		defer cancel()
		r.outcome = s.tracker.Track(ctx, job, onUpdate)
	}()
}

// Cancel stops the current session and waits for it to exit.
func (s *Supervisor) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Supervisor) stopLocked() {
	r := s.current
	if r == nil {
		return
	}
	s.current = nil

	r.cancel()
	<-r.done
	if r.outcome.Cancelled {
		s.logger.Info("Superseded tracking session", map[string]interface{}{"jobId": r.job.ID})
	}
}

// Wait blocks until the current session ends and returns its outcome. ok is
// false when no session is running.
func (s *Supervisor) Wait() (outcome Outcome, ok bool) {
	s.mu.Lock()
	r := s.current
	s.mu.Unlock()

	if r == nil {
		return Outcome{}, false
	}
	<-r.done
	return r.outcome, true
}
