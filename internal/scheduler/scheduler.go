// Package scheduler triggers complete sync runs on a fixed interval.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"post_syncer/internal/domain"
)

// Runner performs one complete multi-target sync.
type Runner interface {
	Run(ctx context.Context) (*domain.RunSummary, error)
}

type Scheduler struct {
	runner   Runner
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

func NewScheduler(runner Runner, interval, timeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With("component", "scheduler"),
	}
}

// Start runs immediately and then once per interval until ctx is done.
// Runs never overlap; a tick that fires during a run is dropped.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval, "timeout", s.timeout)

	s.runSync(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runSync(ctx)
		}
	}
}

func (s *Scheduler) runSync(ctx context.Context) {
	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	summary, err := s.runner.Run(runCtx)
	if err != nil {
		s.logger.Error("scheduled sync failed", "error", err)
		return
	}
	s.logger.Info("scheduled sync completed",
		"run_id", summary.RunID,
		"synced", summary.Synced,
		"errors", len(summary.Errors),
		"duration", summary.Duration,
	)
}
