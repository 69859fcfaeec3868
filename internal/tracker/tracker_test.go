package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	apperrors "pitch-workers/internal/common/errors"
	"pitch-workers/internal/common/logger"
	"pitch-workers/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ==========================
// Test Helper Functions
// ==========================

type statusReply struct {
	status models.JobStatus
	extra  models.StatusResponse
	err    error
}

func pending(n int) []statusReply {
	out := make([]statusReply, n)
	for i := range out {
		out[i] = statusReply{status: models.JobStatusProcessing}
	}
	return out
}

func failures(n int) []statusReply {
	out := make([]statusReply, n)
	for i := range out {
		out[i] = statusReply{err: fmt.Errorf("dial tcp: connection refused")}
	}
	return out
}

// fakeAPI replays scripted status replies; the last one repeats forever.
type fakeAPI struct {
	mu          sync.Mutex
	replies     []statusReply
	doc         *models.PitchDocument
	pitchErr    error
	submitErr   error
	beforeReply func(call int)

	submitCalls int
	statusCalls int
	pitchCalls  int
	nextJob     int
}

func (f *fakeAPI) Submit(ctx context.Context, idea models.Idea) (*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitCalls++
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.nextJob++
	return &models.Job{ID: fmt.Sprintf("job-%d", f.nextJob), Status: models.JobStatusQueued}, nil
}

func (f *fakeAPI) Status(ctx context.Context, jobID string) (*models.StatusResponse, error) {
	f.mu.Lock()
	f.statusCalls++
	call := f.statusCalls
	reply := f.replies[len(f.replies)-1]
	if call <= len(f.replies) {
		reply = f.replies[call-1]
	}
	hook := f.beforeReply
	f.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	if reply.err != nil {
		return nil, reply.err
	}
	resp := reply.extra
	resp.JobID = jobID
	resp.Status = reply.status
	return &resp, nil
}

func (f *fakeAPI) Pitch(ctx context.Context, jobID string) (*models.PitchDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pitchCalls++
	if f.pitchErr != nil {
		return nil, f.pitchErr
	}
	return f.doc, nil
}

func (f *fakeAPI) counts() (submit, status, pitch int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitCalls, f.statusCalls, f.pitchCalls
}

type recorder struct {
	mu      sync.Mutex
	updates []Update
}

func (r *recorder) record(u Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, u)
}

func (r *recorder) all() []Update {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Update(nil), r.updates...)
}

func (r *recorder) terminal() []Update {
	var out []Update
	for _, u := range r.all() {
		if u.State.IsTerminal() {
			out = append(out, u)
		}
	}
	return out
}

func fastConfig() Config {
	return Config{PollInterval: time.Millisecond, MaxAttempts: 40, MaxConsecutiveErrors: 10}
}

func newTestTracker(t *testing.T, api API) *Tracker {
	return New(api, fastConfig(), logger.NewTestLogger(t))
}

var testJob = &models.Job{ID: "job-1", Status: models.JobStatusQueued}

// ==========================
// Core Functionality Tests
// ==========================

func TestTrack_CompletesAfterProcessing(t *testing.T) {
	api := &fakeAPI{
		replies: append(pending(5), statusReply{status: models.JobStatusDone, extra: models.StatusResponse{HasPPTX: true}}),
		doc:     &models.PitchDocument{Tagline: "Sun for all"},
	}
	rec := &recorder{}

	outcome := newTestTracker(t, api).Track(context.Background(), testJob, rec.record)

	_, statusCalls, pitchCalls := api.counts()
	assert.Equal(t, 6, statusCalls)
	assert.Equal(t, 1, pitchCalls)

	assert.True(t, outcome.Completed())
	assert.NoError(t, outcome.Err)
	assert.Equal(t, 6, outcome.Attempts)
	require.NotNil(t, outcome.Document)
	assert.Equal(t, "Sun for all", outcome.Document.Tagline)
	assert.Equal(t, "/static/output/job-1/pitch.pptx", outcome.DownloadRef)
	assert.NotEmpty(t, outcome.SessionID)

	updates := rec.all()
	require.Len(t, updates, 6)
	for i, u := range updates[:5] {
		assert.Equal(t, StatePolling, u.State)
		assert.Equal(t, i+1, u.Attempt)
		assert.Equal(t, models.JobStatusProcessing, u.Status)
		assert.Equal(t, outcome.SessionID, u.SessionID)
	}
	last := updates[5]
	assert.Equal(t, StateCompleted, last.State)
	require.NotNil(t, last.Outcome)
	assert.Equal(t, outcome.JobID, last.Outcome.JobID)
}

func TestTrack_ExplicitDownloadURLWins(t *testing.T) {
	api := &fakeAPI{
		replies: []statusReply{{status: models.JobStatusDone, extra: models.StatusResponse{DownloadURL: "/static/output/job-1/pitch_fixed.pptx", HasPPTX: true}}},
		doc:     &models.PitchDocument{},
	}

	outcome := newTestTracker(t, api).Track(context.Background(), testJob, nil)
	assert.Equal(t, "/static/output/job-1/pitch_fixed.pptx", outcome.DownloadRef)
}

func TestTrack_TimesOut(t *testing.T) {
	api := &fakeAPI{replies: pending(1)}
	rec := &recorder{}

	outcome := newTestTracker(t, api).Track(context.Background(), testJob, rec.record)

	_, statusCalls, pitchCalls := api.counts()
	assert.Equal(t, 40, statusCalls)
	assert.Equal(t, 0, pitchCalls)
	assert.Equal(t, StateTimedOut, outcome.State)
	assert.True(t, errors.Is(outcome.Err, apperrors.ErrTrackingTimeout))

	terminal := rec.terminal()
	require.Len(t, terminal, 1)
	assert.Equal(t, StateTimedOut, terminal[0].State)

	// Nothing happens after the terminal state.
	time.Sleep(20 * time.Millisecond)
	_, statusCalls, _ = api.counts()
	assert.Equal(t, 40, statusCalls)
}

func TestTrack_ProcessingError(t *testing.T) {
	api := &fakeAPI{
		replies: append(pending(2), statusReply{status: models.JobStatusError, extra: models.StatusResponse{Error: "LLM returned empty output"}}),
	}

	outcome := newTestTracker(t, api).Track(context.Background(), testJob, nil)

	assert.Equal(t, StateFailed, outcome.State)
	assert.True(t, errors.Is(outcome.Err, apperrors.ErrProcessingError))
	assert.Contains(t, outcome.Err.Error(), "LLM returned empty output")
	_, _, pitchCalls := api.counts()
	assert.Equal(t, 0, pitchCalls)
}

func TestTrack_ConnectivityFailure(t *testing.T) {
	api := &fakeAPI{replies: failures(1)}
	rec := &recorder{}

	outcome := newTestTracker(t, api).Track(context.Background(), testJob, rec.record)

	_, statusCalls, _ := api.counts()
	assert.Equal(t, 11, statusCalls)
	assert.Equal(t, StateFailed, outcome.State)
	assert.True(t, errors.Is(outcome.Err, apperrors.ErrConnectivityFailure))

	updates := rec.all()
	require.Len(t, updates, 11)
	for _, u := range updates[:10] {
		assert.Equal(t, StatePolling, u.State)
		assert.True(t, errors.Is(u.Err, apperrors.ErrPollTransient))
	}
	assert.Equal(t, StateFailed, updates[10].State)
}

func TestTrack_TransientErrorsTolerated(t *testing.T) {
	tests := []struct {
		name        string
		replies     []statusReply
		wantState   State
		wantAttempt int
	}{
		{
			name:        "ten failures then done",
			replies:     append(failures(10), statusReply{status: models.JobStatusDone}),
			wantState:   StateCompleted,
			wantAttempt: 11,
		},
		{
			name: "success resets the streak",
			replies: append(append(append(failures(10), pending(1)...), failures(10)...),
				statusReply{status: models.JobStatusDone}),
			wantState:   StateCompleted,
			wantAttempt: 22,
		},
		{
			name:        "failures count toward the attempt budget",
			replies:     append(append(pending(30), failures(10)...), pending(1)...),
			wantState:   StateTimedOut,
			wantAttempt: 40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{replies: tt.replies, doc: &models.PitchDocument{}}
			outcome := newTestTracker(t, api).Track(context.Background(), testJob, nil)
			assert.Equal(t, tt.wantState, outcome.State)
			assert.Equal(t, tt.wantAttempt, outcome.Attempts)
		})
	}
}

func TestTrack_DocumentFetchFailureStillCompletes(t *testing.T) {
	api := &fakeAPI{
		replies:  []statusReply{{status: models.JobStatusDone, extra: models.StatusResponse{HasPPTX: true}}},
		pitchErr: errors.New("pitch service returned 404: Pitch data not found"),
	}
	rec := &recorder{}

	outcome := newTestTracker(t, api).Track(context.Background(), testJob, rec.record)

	assert.True(t, outcome.Completed())
	assert.Nil(t, outcome.Document)
	assert.True(t, errors.Is(outcome.Err, apperrors.ErrDocumentFetchFailed))
	assert.Equal(t, "/static/output/job-1/pitch.pptx", outcome.DownloadRef)
	_, _, pitchCalls := api.counts()
	assert.Equal(t, 1, pitchCalls)

	terminal := rec.terminal()
	require.Len(t, terminal, 1)
	assert.Equal(t, StateCompleted, terminal[0].State)
}

// ==========================
// Cancellation Tests
// ==========================

func TestTrack_CancelDuringThirdPoll(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := &fakeAPI{
		replies: pending(1),
		beforeReply: func(call int) {
			if call == 3 {
				cancel()
			}
		},
	}
	rec := &recorder{}

	outcome := newTestTracker(t, api).Track(ctx, testJob, rec.record)

	assert.True(t, outcome.Cancelled)
	assert.False(t, outcome.Completed())
	_, statusCalls, _ := api.counts()
	assert.Equal(t, 3, statusCalls)
	assert.Len(t, rec.all(), 2)
	assert.Empty(t, rec.terminal())
}

func TestTrack_CancelBetweenPolls(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := &fakeAPI{replies: append(pending(3), statusReply{status: models.JobStatusDone})}
	rec := &recorder{}
	onUpdate := func(u Update) {
		rec.record(u)
		if u.Attempt == 3 {
			cancel()
		}
	}

	tr := New(api, Config{PollInterval: 5 * time.Millisecond, MaxAttempts: 40, MaxConsecutiveErrors: 10}, logger.NewNoOpLogger())
	outcome := tr.Track(ctx, testJob, onUpdate)

	assert.True(t, outcome.Cancelled)
	submit, statusCalls, pitchCalls := api.counts()
	assert.Equal(t, 0, submit)
	assert.Equal(t, 3, statusCalls)
	assert.Equal(t, 0, pitchCalls)
	assert.Len(t, rec.all(), 3)
	assert.Empty(t, rec.terminal())
}

func TestTrack_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	api := &fakeAPI{replies: pending(1)}
	outcome := newTestTracker(t, api).Track(ctx, testJob, func(Update) {
		t.Error("no update expected")
	})

	assert.True(t, outcome.Cancelled)
	_, statusCalls, _ := api.counts()
	assert.Equal(t, 0, statusCalls)
}

func TestTrack_CancelDuringDocumentFetch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := &fakeAPI{
		replies: []statusReply{{status: models.JobStatusDone}},
		doc:     &models.PitchDocument{},
	}
	api.beforeReply = func(int) { cancel() }
	rec := &recorder{}

	outcome := newTestTracker(t, api).Track(ctx, testJob, rec.record)

	assert.True(t, outcome.Cancelled)
	_, _, pitchCalls := api.counts()
	assert.Equal(t, 0, pitchCalls)
	assert.Empty(t, rec.all())
}

// ==========================
// Submission Tests
// ==========================

func TestSubmit(t *testing.T) {
	api := &fakeAPI{}
	tr := newTestTracker(t, api)

	job, err := tr.Submit(context.Background(), models.Idea{Idea: "Solar rooftop installations"})
	require.NoError(t, err)
	assert.Equal(t, "job-1", job.ID)
}

func TestSubmit_InvalidIdeaNeverReachesService(t *testing.T) {
	api := &fakeAPI{}
	tr := newTestTracker(t, api)

	_, err := tr.Submit(context.Background(), models.Idea{Idea: "  ", Audience: models.AudienceInvestors})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidIdea))

	submit, _, _ := api.counts()
	assert.Equal(t, 0, submit)
}

func TestSubmit_WrapsPlainErrors(t *testing.T) {
	api := &fakeAPI{submitErr: errors.New("connection reset by peer")}
	tr := newTestTracker(t, api)

	_, err := tr.Submit(context.Background(), models.Idea{Idea: "Solar rooftop installations"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrSubmissionFailed))
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, DefaultConfig(), cfg)

	custom := Config{PollInterval: time.Second, MaxAttempts: 5, MaxConsecutiveErrors: 0}.withDefaults()
	assert.Equal(t, time.Second, custom.PollInterval)
	assert.Equal(t, 5, custom.MaxAttempts)
	assert.Equal(t, 0, custom.MaxConsecutiveErrors)
}
