package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"time"

	"post_syncer/internal/domain"
	"post_syncer/internal/metrics"
)

// ErrNoTargets is returned when no collection is configured for syncing.
var ErrNoTargets = errors.New("no targets configured for syncing")

// Stores groups the local store collaborators of a SyncService.
type Stores struct {
	Entities  EntityStore
	Media     MediaStore
	Blobs     BlobStore
	Terms     TermStore
	Journal   StepJournal
	TxManager TransactionManager
}

// SyncService executes one stateless sync step per call. The cursor lives
// with the caller; nothing about a run is kept between calls.
type SyncService struct {
	source     Source
	targets    []domain.SyncTarget
	journal    StepJournal
	reconciler *Reconciler
	metrics    *metrics.Metrics
	logger     *slog.Logger
	now        func() time.Time
}

func NewSyncService(
	source Source,
	stores Stores,
	hooks Hooks,
	m *metrics.Metrics,
	logger *slog.Logger,
	targets []string,
) *SyncService {
	syncTargets := make([]domain.SyncTarget, 0, len(targets))
	for _, name := range targets {
		syncTargets = append(syncTargets, domain.NewSyncTarget(name))
	}

	logger = logger.With("source_url", source.BaseURL())
	resolver := NewResolver(source, stores.Entities, stores.Media, stores.Blobs, stores.Terms, m, logger)

	return &SyncService{
		source:     source,
		targets:    syncTargets,
		journal:    stores.Journal,
		reconciler: NewReconciler(source, stores.Entities, stores.TxManager, resolver, hooks, m, logger),
		metrics:    m,
		logger:     logger,
		now:        time.Now,
	}
}

// Targets returns the configured target names in sync order.
func (s *SyncService) Targets() []string {
	names := make([]string, len(s.targets))
	for i, t := range s.targets {
		names[i] = t.Name
	}
	return names
}

// Step syncs one page of one target. Fetch failures are returned as
// errors; per-record failures are collected into the result instead.
// Once started a step runs to completion: cancellation of ctx is ignored,
// only its values are kept.
func (s *SyncService) Step(ctx context.Context, req domain.StepRequest) (result *domain.StepResult, err error) {
	ctx = context.WithoutCancel(ctx)

	defer func() {
		if p := recover(); p != nil {
			stack := string(debug.Stack())
			s.logger.Error("sync step panicked",
				"target_index", req.TargetIndex,
				"page", req.Page,
				"panic", p,
			)
			result = nil
			err = &domain.InternalError{Message: fmt.Sprint(p), Stack: stack}
		}
	}()

	if len(s.targets) == 0 {
		return nil, ErrNoTargets
	}

	index := req.TargetIndex
	if index < 0 || index >= len(s.targets) {
		index = 0
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	target := s.targets[index]

	logger := s.logger.With("target", target.Name, "page", page)
	logger.Info("starting sync step")
	start := s.now()

	fetched, err := s.source.FetchPage(ctx, target.Path, page)
	if err != nil {
		s.metrics.ObserveStep(target.Name, err, s.now().Sub(start))
		logger.Error("failed to fetch page", "error", err)
		return nil, fmt.Errorf("fetch %s page %d: %w", target.Name, page, err)
	}

	names := s.Targets()
	result = &domain.StepResult{
		Page:               page,
		TotalPages:         fetched.TotalPages,
		TotalPosts:         fetched.TotalCount,
		Errors:             []string{},
		Target:             target.Name,
		Targets:            names,
		CurrentTargetIndex: slices.Index(names, target.Name),
	}

	for i := range fetched.Records {
		record := &fetched.Records[i]
		_, outcome, err := s.reconciler.Reconcile(ctx, record, target)
		s.metrics.ObserveRecord(target.Name, outcome.String())
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.SyncedCount++
	}

	for i := range fetched.Rejected {
		rejected := &fetched.Rejected[i]
		s.metrics.ObserveRecord(target.Name, domain.OutcomeFailed.String())
		result.Errors = append(result.Errors, rejected.Error())
	}

	result.IsDone = page >= fetched.TotalPages
	result.Progress = Progress(page, fetched.TotalPages)

	s.recordStep(ctx, target, result)
	s.metrics.ObserveStep(target.Name, nil, s.now().Sub(start))

	logger.Info("sync step completed",
		"synced", result.SyncedCount,
		"errors", len(result.Errors),
		"total_pages", result.TotalPages,
		"is_done", result.IsDone,
		"duration", s.now().Sub(start),
	)

	return result, nil
}

// Progress is the completion percentage within one target.
func Progress(page, totalPages int) float64 {
	if totalPages <= 0 {
		return 100
	}
	p := float64(page) / float64(totalPages) * 100
	if p > 100 {
		return 100
	}
	return p
}

func (s *SyncService) recordStep(ctx context.Context, target domain.SyncTarget, result *domain.StepResult) {
	if s.journal == nil {
		return
	}

	rec := &domain.StepRecord{
		SourceURL:   s.source.BaseURL(),
		Target:      target.Name,
		Page:        result.Page,
		TotalPages:  result.TotalPages,
		SyncedCount: result.SyncedCount,
		ErrorCount:  len(result.Errors),
		CompletedAt: s.now().UTC(),
	}
	if err := s.journal.Record(ctx, rec); err != nil {
		s.logger.Warn("failed to record sync step", "target", target.Name, "error", err)
	}
}
