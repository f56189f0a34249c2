package memory

import (
	"context"
	"slices"
	"sort"

	"post_syncer/internal/domain"
)

type TermStore struct {
	db *DB
}

func (s *TermStore) TaxonomyExists(ctx context.Context, taxonomy string) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return s.db.taxonomies[taxonomy], nil
}

func (s *TermStore) FindByName(ctx context.Context, taxonomy, name string) (int64, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return s.findLocked(taxonomy, name)
}

func (s *TermStore) findLocked(taxonomy, name string) (int64, error) {
	for id, t := range s.db.terms {
		if t.Taxonomy == taxonomy && t.Name == name {
			return id, nil
		}
	}
	return 0, domain.ErrNotFound
}

func (s *TermStore) Create(ctx context.Context, taxonomy, name string) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if id, err := s.findLocked(taxonomy, name); err == nil {
		return id, nil
	}

	id := s.db.next("terms")
	s.db.terms[id] = domain.LocalTerm{
		ID:       id,
		Taxonomy: taxonomy,
		Name:     name,
		Slug:     domain.Slugify(name),
	}
	return id, nil
}

func (s *TermStore) Attach(ctx context.Context, entityID, termID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.entities[entityID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := s.db.terms[termID]; !ok {
		return domain.ErrNotFound
	}

	links := s.db.entityTerms[entityID]
	if links == nil {
		links = make(map[int64]struct{})
		s.db.entityTerms[entityID] = links
	}
	links[termID] = struct{}{}
	return nil
}

func (s *TermStore) RemoveDefault(ctx context.Context, entityID int64, taxonomy, slug string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	links := s.db.entityTerms[entityID]
	for termID := range links {
		t := s.db.terms[termID]
		if t.Taxonomy == taxonomy && t.Slug == slug {
			delete(links, termID)
		}
	}
	return nil
}

// TermsOf lists the entity's terms, optionally limited to some taxonomies.
func (s *TermStore) TermsOf(ctx context.Context, entityID int64, taxonomies ...string) ([]domain.LocalTerm, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var out []domain.LocalTerm
	for termID := range s.db.entityTerms[entityID] {
		t := s.db.terms[termID]
		if len(taxonomies) > 0 && !slices.Contains(taxonomies, t.Taxonomy) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
