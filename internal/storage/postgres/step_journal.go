package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"post_syncer/internal/domain"
)

// StepJournal keeps an audit trail of completed sync steps.
type StepJournal struct {
	db *sqlx.DB
}

func NewStepJournal(db *sqlx.DB) *StepJournal {
	return &StepJournal{db: db}
}

func (s *StepJournal) Record(ctx context.Context, rec *domain.StepRecord) error {
	query := `
		INSERT INTO sync_steps (source_url, target, page, total_pages, synced_count, error_count, completed_at)
		VALUES (:source_url, :target, :page, :total_pages, :synced_count, :error_count, :completed_at)`

	_, err := sqlx.NamedExecContext(ctx, GetExecutor(ctx, s.db), query, rec)
	return err
}

func (s *StepJournal) Recent(ctx context.Context, sourceURL string, limit int) ([]domain.StepRecord, error) {
	query := `
		SELECT id, source_url, target, page, total_pages, synced_count, error_count, completed_at
		FROM sync_steps
		WHERE source_url = $1
		ORDER BY completed_at DESC, id DESC
		LIMIT $2`

	var records []domain.StepRecord
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &records, query, sourceURL, limit)
	return records, err
}
