package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"post_syncer/internal/domain"
)

const uniqueViolation = pq.ErrorCode("23505")

type TermStore struct {
	db *sqlx.DB
}

func NewTermStore(db *sqlx.DB) *TermStore {
	return &TermStore{db: db}
}

func (s *TermStore) TaxonomyExists(ctx context.Context, taxonomy string) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &exists,
		"SELECT EXISTS (SELECT 1 FROM taxonomies WHERE name = $1)", taxonomy,
	)
	return exists, err
}

func (s *TermStore) FindByName(ctx context.Context, taxonomy, name string) (int64, error) {
	var id int64
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &id,
		"SELECT id FROM terms WHERE taxonomy = $1 AND name = $2", taxonomy, name,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Create inserts a term. A concurrent insert of the same (taxonomy, name)
// resolves to the existing row.
func (s *TermStore) Create(ctx context.Context, taxonomy, name string) (int64, error) {
	var id int64
	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx,
		"INSERT INTO terms (taxonomy, name, slug) VALUES ($1, $2, $3) RETURNING id",
		taxonomy, name, domain.Slugify(name),
	).Scan(&id)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return s.FindByName(ctx, taxonomy, name)
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *TermStore) Attach(ctx context.Context, entityID, termID int64) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"INSERT INTO entity_terms (entity_id, term_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		entityID, termID,
	)
	return err
}

func (s *TermStore) RemoveDefault(ctx context.Context, entityID int64, taxonomy, slug string) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, `
		DELETE FROM entity_terms
		WHERE entity_id = $1
			AND term_id IN (SELECT id FROM terms WHERE taxonomy = $2 AND slug = $3)`,
		entityID, taxonomy, slug,
	)
	return err
}

// TermsOf lists the entity's terms, optionally limited to some taxonomies.
func (s *TermStore) TermsOf(ctx context.Context, entityID int64, taxonomies ...string) ([]domain.LocalTerm, error) {
	query := `
		SELECT t.id, t.taxonomy, t.name, t.slug
		FROM terms t
		INNER JOIN entity_terms et ON et.term_id = t.id
		WHERE et.entity_id = $1
			AND (cardinality($2::text[]) = 0 OR t.taxonomy = ANY($2))
		ORDER BY t.id`

	if taxonomies == nil {
		taxonomies = []string{}
	}

	var terms []domain.LocalTerm
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &terms, query, entityID, pq.Array(taxonomies))
	return terms, err
}
