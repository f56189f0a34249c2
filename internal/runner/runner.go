// Package runner drives a complete sync by issuing steps one at a time and
// holding the cursor between them.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"post_syncer/internal/domain"
)

// Stepper executes one sync step. Implemented in-process by
// service.SyncService and over HTTP by httpapi.Client.
type Stepper interface {
	Step(ctx context.Context, req domain.StepRequest) (*domain.StepResult, error)
}

type Config struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// StepFunc observes every completed step of a run.
type StepFunc func(cursor domain.SyncCursor, result *domain.StepResult, overall float64)

type Runner struct {
	stepper Stepper
	cfg     Config
	logger  *slog.Logger
	onStep  StepFunc
}

func New(stepper Stepper, cfg Config, logger *slog.Logger) *Runner {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Runner{
		stepper: stepper,
		cfg:     cfg,
		logger:  logger.With("component", "runner"),
	}
}

// OnStep registers a callback invoked after each successful step.
func (r *Runner) OnStep(fn StepFunc) {
	r.onStep = fn
}

// Run syncs every target from the first page. Cancellation is honored
// between steps only. On failure the summary of the completed steps is
// returned along with the error.
func (r *Runner) Run(ctx context.Context) (*domain.RunSummary, error) {
	summary := &domain.RunSummary{
		RunID:  uuid.NewString(),
		Errors: []string{},
	}
	logger := r.logger.With("run_id", summary.RunID)
	start := time.Now()
	defer func() {
		summary.Duration = time.Since(start)
	}()

	logger.Info("sync run started")

	cursor := domain.NewSyncCursor()
	for {
		if err := ctx.Err(); err != nil {
			logger.Info("sync run canceled", "steps", summary.Steps, "synced", summary.Synced)
			return summary, err
		}

		result, err := r.step(ctx, logger, cursor)
		if err != nil {
			logger.Error("sync run failed",
				"target_index", cursor.TargetIndex,
				"page", cursor.Page,
				"error", err,
			)
			return summary, fmt.Errorf("step target %d page %d: %w", cursor.TargetIndex, cursor.Page, err)
		}

		summary.Steps++
		summary.Synced += result.SyncedCount
		summary.Errors = append(summary.Errors, result.Errors...)
		summary.Progress = OverallProgress(cursor.TargetIndex, len(result.Targets), result.Progress)

		next, done := Advance(cursor, result)

		logger.Info("sync step finished",
			"target", result.Target,
			"page", result.Page,
			"total_pages", result.TotalPages,
			"synced", result.SyncedCount,
			"errors", len(result.Errors),
			"total_synced", next.Synced,
			"progress", summary.Progress,
		)
		if r.onStep != nil {
			r.onStep(next, result, summary.Progress)
		}

		if done {
			break
		}
		cursor = next
	}

	logger.Info("sync run completed",
		"steps", summary.Steps,
		"synced", summary.Synced,
		"errors", len(summary.Errors),
	)
	return summary, nil
}

func (r *Runner) step(ctx context.Context, logger *slog.Logger, cursor domain.SyncCursor) (*domain.StepResult, error) {
	req := domain.StepRequest{TargetIndex: cursor.TargetIndex, Page: cursor.Page}

	var err error
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		var result *domain.StepResult
		result, err = r.stepOnce(ctx, req)
		if err == nil {
			return result, nil
		}

		if !domain.IsRetryable(err) || attempt == r.cfg.MaxAttempts {
			break
		}

		backoff := r.calculateBackoff(attempt)
		logger.Warn("step failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, err
}

// stepOnce issues one attempt. A step that has started is never canceled;
// ctx is only consulted between steps and between attempts.
func (r *Runner) stepOnce(ctx context.Context, req domain.StepRequest) (*domain.StepResult, error) {
	return r.stepper.Step(context.WithoutCancel(ctx), req)
}

func (r *Runner) calculateBackoff(attempt int) time.Duration {
	backoff := r.cfg.InitialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if r.cfg.MaxBackoff > 0 && backoff > r.cfg.MaxBackoff {
		backoff = r.cfg.MaxBackoff
	}
	return backoff
}

// Advance returns the cursor for the step after result and whether the
// whole run is complete.
func Advance(cursor domain.SyncCursor, result *domain.StepResult) (domain.SyncCursor, bool) {
	next := domain.SyncCursor{
		TargetIndex: cursor.TargetIndex,
		Page:        result.Page,
		TotalPages:  result.TotalPages,
		Synced:      cursor.Synced + result.SyncedCount,
	}

	if !result.IsDone {
		next.Page++
		return next, false
	}

	if cursor.TargetIndex < len(result.Targets)-1 {
		next.TargetIndex++
		next.Page = 1
		next.TotalPages = 0
		return next, false
	}

	return next, true
}

// OverallProgress weights each of n targets equally.
func OverallProgress(targetIndex, n int, pct float64) float64 {
	if n <= 1 {
		return pct
	}
	weight := 1 / float64(n)
	return (float64(targetIndex)*weight + pct/100*weight) * 100
}
