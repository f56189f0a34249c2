package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"post_syncer/internal/domain"
	"post_syncer/internal/metrics"
)

// Reconciler creates or updates the local counterpart of one remote record.
type Reconciler struct {
	source    Source
	entities  EntityStore
	txManager TransactionManager
	resolver  *Resolver
	hooks     Hooks
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

func NewReconciler(
	source Source,
	entities EntityStore,
	txManager TransactionManager,
	resolver *Resolver,
	hooks Hooks,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Reconciler {
	return &Reconciler{
		source:    source,
		entities:  entities,
		txManager: txManager,
		resolver:  resolver,
		hooks:     hooks,
		metrics:   m,
		logger:    logger.With("component", "reconciler"),
		now:       time.Now,
	}
}

// Reconcile upserts the record keyed by its source id. Store failures come
// back as *domain.RecordReconcileError with OutcomeFailed; media, taxonomy
// and extension failures are logged and never change the outcome.
func (r *Reconciler) Reconcile(ctx context.Context, record *domain.RemoteRecord, target domain.SyncTarget) (int64, domain.Outcome, error) {
	sourceURL := r.source.BaseURL()
	entity := r.mapRecord(record, target, sourceURL)

	outcome := domain.OutcomeFailed
	err := r.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		existingID, err := r.entities.FindBySource(txCtx, sourceURL, target.Name, record.ID)
		switch {
		case err == nil:
			entity.ID = existingID
			if err := r.entities.Update(txCtx, entity); err != nil {
				return fmt.Errorf("update entity: %w", err)
			}
			outcome = domain.OutcomeUpdated
		case errors.Is(err, domain.ErrNotFound):
			id, err := r.entities.Insert(txCtx, entity)
			if err != nil {
				return fmt.Errorf("insert entity: %w", err)
			}
			entity.ID = id
			outcome = domain.OutcomeCreated
		default:
			return fmt.Errorf("find entity: %w", err)
		}

		// The store stamps "now" on every write; put the remote value back.
		if !record.Modified.IsZero() {
			if err := r.entities.OverwriteModified(txCtx, entity.ID, record.Modified.Time, modifiedGMT(record)); err != nil {
				return fmt.Errorf("overwrite modified: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Warn("failed to reconcile record",
			"target", target.Name,
			"source_id", record.ID,
			"error", err,
		)
		return 0, domain.OutcomeFailed, &domain.RecordReconcileError{SourceID: record.ID, Reason: err}
	}

	r.logger.Debug("reconciled record",
		"target", target.Name,
		"source_id", record.ID,
		"entity_id", entity.ID,
		"outcome", outcome.String(),
	)

	if mediaID, ok := record.FeaturedMediaID(); ok {
		r.resolver.ResolveFeaturedMedia(ctx, mediaID, entity.ID)
	}

	r.resolver.ResolveTaxonomies(ctx, record.TermGroups(), entity.ID)

	if r.hooks != nil {
		hc := domain.HookContext{
			SourceURL:    sourceURL,
			APINamespace: r.source.Namespace(),
			TargetType:   target.Name,
		}
		// failures are already logged per extension
		_ = r.hooks.InvokeAll(ctx, entity.ID, record, hc)
	}

	return entity.ID, outcome, nil
}

func (r *Reconciler) mapRecord(record *domain.RemoteRecord, target domain.SyncTarget, sourceURL string) *domain.LocalEntity {
	now := r.now()

	published := record.Date.Time
	if published.IsZero() {
		published = now
	}
	publishedGMT := record.DateGMT.Time
	if publishedGMT.IsZero() {
		publishedGMT = published.UTC()
	}

	return &domain.LocalEntity{
		Type:           target.Name,
		Title:          record.Title.Rendered,
		Content:        record.Content.Rendered,
		Excerpt:        record.Excerpt.Rendered,
		Status:         domain.StatusDraft,
		PublishedAt:    published,
		PublishedAtGMT: publishedGMT,
		Meta: domain.EntityMeta{
			SourceID:         record.ID,
			SourceURL:        sourceURL,
			LastSyncedAt:     now,
			OriginalModified: record.Modified.String(),
		},
	}
}

func modifiedGMT(record *domain.RemoteRecord) time.Time {
	if record.ModifiedGMT.IsZero() {
		return record.Modified.Time
	}
	return record.ModifiedGMT.Time
}
