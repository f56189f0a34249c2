package memory

import (
	"context"

	"post_syncer/internal/domain"
)

type StepJournal struct {
	db *DB
}

func (s *StepJournal) Record(ctx context.Context, rec *domain.StepRecord) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	stored := *rec
	stored.ID = s.db.next("sync_steps")
	s.db.steps = append(s.db.steps, stored)
	return nil
}

// Recent returns the newest records first.
func (s *StepJournal) Recent(ctx context.Context, sourceURL string, limit int) ([]domain.StepRecord, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var out []domain.StepRecord
	for i := len(s.db.steps) - 1; i >= 0 && len(out) < limit; i-- {
		if s.db.steps[i].SourceURL == sourceURL {
			out = append(out, s.db.steps[i])
		}
	}
	return out, nil
}
