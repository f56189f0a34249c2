package runner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"post_syncer/internal/domain"
)

type scriptedStepper struct {
	targets    []string
	totalPages []int
	perPage    int

	failures map[domain.StepRequest][]error
	requests []domain.StepRequest
}

func (s *scriptedStepper) Step(ctx context.Context, req domain.StepRequest) (*domain.StepResult, error) {
	s.requests = append(s.requests, req)

	if errs := s.failures[req]; len(errs) > 0 {
		s.failures[req] = errs[1:]
		return nil, errs[0]
	}

	total := s.totalPages[req.TargetIndex]
	return &domain.StepResult{
		Page:               req.Page,
		TotalPages:         total,
		SyncedCount:        s.perPage,
		Errors:             []string{},
		IsDone:             req.Page >= total,
		Target:             s.targets[req.TargetIndex],
		Targets:            s.targets,
		CurrentTargetIndex: req.TargetIndex,
		Progress:           float64(req.Page) / float64(total) * 100,
	}, nil
}

func newRunner(stepper Stepper) *Runner {
	return New(stepper, Config{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name     string
		cursor   domain.SyncCursor
		result   domain.StepResult
		want     domain.SyncCursor
		wantDone bool
	}{
		{
			name:   "next page",
			cursor: domain.SyncCursor{TargetIndex: 0, Page: 1, Synced: 0},
			result: domain.StepResult{Page: 1, TotalPages: 3, SyncedCount: 10, Targets: []string{"post"}},
			want:   domain.SyncCursor{TargetIndex: 0, Page: 2, TotalPages: 3, Synced: 10},
		},
		{
			name:   "next target",
			cursor: domain.SyncCursor{TargetIndex: 0, Page: 3, Synced: 25},
			result: domain.StepResult{Page: 3, TotalPages: 3, SyncedCount: 5, IsDone: true, Targets: []string{"post", "page"}},
			want:   domain.SyncCursor{TargetIndex: 1, Page: 1, TotalPages: 0, Synced: 30},
		},
		{
			name:     "completed",
			cursor:   domain.SyncCursor{TargetIndex: 1, Page: 2, Synced: 30},
			result:   domain.StepResult{Page: 2, TotalPages: 2, SyncedCount: 4, IsDone: true, Targets: []string{"post", "page"}},
			want:     domain.SyncCursor{TargetIndex: 1, Page: 2, TotalPages: 2, Synced: 34},
			wantDone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, done := Advance(tt.cursor, &tt.result)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantDone, done)
		})
	}
}

func TestOverallProgress(t *testing.T) {
	tests := []struct {
		name  string
		index int
		n     int
		pct   float64
		want  float64
	}{
		{"single target", 0, 1, 40, 40},
		{"first of two halfway", 0, 2, 50, 25},
		{"second of two done", 1, 2, 100, 100},
		{"second of four started", 1, 4, 0, 25},
		{"no targets", 0, 0, 70, 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, OverallProgress(tt.index, tt.n, tt.pct), 1e-9)
		})
	}
}

func TestRun_WalksAllTargets(t *testing.T) {
	stepper := &scriptedStepper{
		targets:    []string{"post", "page"},
		totalPages: []int{2, 1},
		perPage:    10,
	}
	r := newRunner(stepper)

	var progress []float64
	r.OnStep(func(cursor domain.SyncCursor, result *domain.StepResult, overall float64) {
		progress = append(progress, overall)
	})

	summary, err := r.Run(context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 3, summary.Steps)
	assert.Equal(t, 30, summary.Synced)
	assert.Equal(t, 100.0, summary.Progress)
	assert.Equal(t, []domain.StepRequest{
		{TargetIndex: 0, Page: 1},
		{TargetIndex: 0, Page: 2},
		{TargetIndex: 1, Page: 1},
	}, stepper.requests)
	assert.Equal(t, []float64{25, 50, 100}, progress)
}

func TestRun_RetriesRetryableErrors(t *testing.T) {
	req := domain.StepRequest{TargetIndex: 0, Page: 1}
	stepper := &scriptedStepper{
		targets:    []string{"post"},
		totalPages: []int{1},
		perPage:    2,
		failures: map[domain.StepRequest][]error{
			req: {
				&domain.TransportError{URL: "http://src.test", Err: errors.New("connection refused")},
				&domain.RemoteError{StatusCode: 503},
			},
		},
	}

	summary, err := newRunner(stepper).Run(context.Background())

	require.NoError(t, err)
	assert.Len(t, stepper.requests, 3)
	assert.Equal(t, 2, summary.Synced)
}

func TestRun_StopsOnNonRetryableError(t *testing.T) {
	req := domain.StepRequest{TargetIndex: 0, Page: 2}
	stepper := &scriptedStepper{
		targets:    []string{"post"},
		totalPages: []int{3},
		perPage:    5,
		failures: map[domain.StepRequest][]error{
			req: {&domain.RemoteError{StatusCode: 400}},
		},
	}

	summary, err := newRunner(stepper).Run(context.Background())

	var remoteErr *domain.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, 400, remoteErr.StatusCode)
	assert.Len(t, stepper.requests, 2)
	assert.Equal(t, 1, summary.Steps)
	assert.Equal(t, 5, summary.Synced)
}

func TestRun_GivesUpAfterMaxAttempts(t *testing.T) {
	transient := &domain.RemoteError{StatusCode: 502}
	req := domain.StepRequest{TargetIndex: 0, Page: 1}
	stepper := &scriptedStepper{
		targets:    []string{"post"},
		totalPages: []int{1},
		failures: map[domain.StepRequest][]error{
			req: {transient, transient, transient, transient},
		},
	}

	_, err := newRunner(stepper).Run(context.Background())

	assert.ErrorIs(t, err, transient)
	assert.Len(t, stepper.requests, 3)
}

func TestRun_CanceledBeforeFirstStep(t *testing.T) {
	stepper := &scriptedStepper{targets: []string{"post"}, totalPages: []int{1}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := newRunner(stepper).Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, summary.Steps)
	assert.Empty(t, stepper.requests)
}

type cancelingStepper struct {
	*scriptedStepper
	cancel  context.CancelFunc
	stepErr []error
}

func (s *cancelingStepper) Step(ctx context.Context, req domain.StepRequest) (*domain.StepResult, error) {
	s.cancel()
	s.stepErr = append(s.stepErr, ctx.Err())
	return s.scriptedStepper.Step(ctx, req)
}

func TestRun_CanceledMidStepFinishesThatStep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stepper := &cancelingStepper{
		scriptedStepper: &scriptedStepper{targets: []string{"post"}, totalPages: []int{3}, perPage: 4},
		cancel:          cancel,
	}

	summary, err := newRunner(stepper).Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []error{nil}, stepper.stepErr)
	assert.Equal(t, 1, summary.Steps)
	assert.Equal(t, 4, summary.Synced)
}

func TestCalculateBackoff(t *testing.T) {
	r := New(nil, Config{MaxAttempts: 5, InitialBackoff: time.Second, MaxBackoff: 5 * time.Second}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.Equal(t, time.Second, r.calculateBackoff(1))
	assert.Equal(t, 2*time.Second, r.calculateBackoff(2))
	assert.Equal(t, 4*time.Second, r.calculateBackoff(3))
	assert.Equal(t, 5*time.Second, r.calculateBackoff(4))
}
