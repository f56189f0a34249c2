package memory

import (
	"context"
	"encoding/json"
	"maps"
	"time"

	"post_syncer/internal/domain"
)

type EntityStore struct {
	db *DB
}

func (s *EntityStore) FindBySource(ctx context.Context, sourceURL, entityType string, sourceID int64) (int64, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for id, e := range s.db.entities {
		if e.Meta.SourceURL == sourceURL && e.Type == entityType && e.Meta.SourceID == sourceID {
			return id, nil
		}
	}
	return 0, domain.ErrNotFound
}

func (s *EntityStore) Insert(ctx context.Context, entity *domain.LocalEntity) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	stored := *entity
	stored.ID = s.db.next("entities")
	stored.ModifiedAt = s.db.now()
	stored.ModifiedAtGMT = stored.ModifiedAt.UTC()
	stored.Meta.Extra = maps.Clone(entity.Meta.Extra)
	s.db.entities[stored.ID] = stored

	links := make(map[int64]struct{})
	for id, t := range s.db.terms {
		if t.Taxonomy == domain.PrimaryTaxonomy && t.Slug == domain.DefaultTermSlug {
			links[id] = struct{}{}
		}
	}
	s.db.entityTerms[stored.ID] = links

	return stored.ID, nil
}

func (s *EntityStore) Update(ctx context.Context, entity *domain.LocalEntity) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	current, ok := s.db.entities[entity.ID]
	if !ok {
		return domain.ErrNotFound
	}

	current.Title = entity.Title
	current.Content = entity.Content
	current.Excerpt = entity.Excerpt
	current.Status = entity.Status
	current.PublishedAt = entity.PublishedAt
	current.PublishedAtGMT = entity.PublishedAtGMT
	current.ModifiedAt = s.db.now()
	current.ModifiedAtGMT = current.ModifiedAt.UTC()
	current.Meta.LastSyncedAt = entity.Meta.LastSyncedAt
	current.Meta.OriginalModified = entity.Meta.OriginalModified
	s.db.entities[entity.ID] = current
	return nil
}

func (s *EntityStore) OverwriteModified(ctx context.Context, id int64, modified, modifiedGMT time.Time) error {
	return s.mutate(id, func(e *domain.LocalEntity) {
		e.ModifiedAt = modified
		e.ModifiedAtGMT = modifiedGMT
	})
}

func (s *EntityStore) SetThumbnail(ctx context.Context, id, mediaID int64) error {
	return s.mutate(id, func(e *domain.LocalEntity) {
		e.ThumbnailID = &mediaID
	})
}

func (s *EntityStore) SetMeta(ctx context.Context, id int64, key string, value json.RawMessage) error {
	return s.mutate(id, func(e *domain.LocalEntity) {
		extra := maps.Clone(e.Meta.Extra)
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[key] = append(json.RawMessage(nil), value...)
		e.Meta.Extra = extra
	})
}

func (s *EntityStore) Get(ctx context.Context, id int64) (*domain.LocalEntity, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	e, ok := s.db.entities[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.Meta.Extra = maps.Clone(e.Meta.Extra)
	return &e, nil
}

// List returns every entity of the given type.
func (s *EntityStore) List(ctx context.Context, entityType string) []domain.LocalEntity {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var out []domain.LocalEntity
	for _, e := range s.db.entities {
		if e.Type == entityType {
			out = append(out, e)
		}
	}
	return out
}

func (s *EntityStore) mutate(id int64, fn func(e *domain.LocalEntity)) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	e, ok := s.db.entities[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(&e)
	s.db.entities[id] = e
	return nil
}
