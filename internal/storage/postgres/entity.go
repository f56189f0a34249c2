package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"post_syncer/internal/domain"
)

type EntityStore struct {
	db *sqlx.DB
}

func NewEntityStore(db *sqlx.DB) *EntityStore {
	return &EntityStore{db: db}
}

type entityRow struct {
	ID               int64     `db:"id"`
	Type             string    `db:"type"`
	Title            string    `db:"title"`
	Content          string    `db:"content"`
	Excerpt          string    `db:"excerpt"`
	Status           string    `db:"status"`
	PublishedAt      time.Time `db:"published_at"`
	PublishedAtGMT   time.Time `db:"published_at_gmt"`
	ModifiedAt       time.Time `db:"modified_at"`
	ModifiedAtGMT    time.Time `db:"modified_at_gmt"`
	ThumbnailID      *int64    `db:"thumbnail_id"`
	SourceID         int64     `db:"source_id"`
	SourceURL        string    `db:"source_url"`
	LastSyncedAt     time.Time `db:"last_synced_at"`
	OriginalModified string    `db:"original_modified"`
	ExtraMeta        []byte    `db:"extra_meta"`
}

func (r entityRow) toDomain() (*domain.LocalEntity, error) {
	entity := &domain.LocalEntity{
		ID:             r.ID,
		Type:           r.Type,
		Title:          r.Title,
		Content:        r.Content,
		Excerpt:        r.Excerpt,
		Status:         r.Status,
		PublishedAt:    r.PublishedAt,
		PublishedAtGMT: r.PublishedAtGMT,
		ModifiedAt:     r.ModifiedAt,
		ModifiedAtGMT:  r.ModifiedAtGMT,
		ThumbnailID:    r.ThumbnailID,
		Meta: domain.EntityMeta{
			SourceID:         r.SourceID,
			SourceURL:        r.SourceURL,
			LastSyncedAt:     r.LastSyncedAt,
			OriginalModified: r.OriginalModified,
		},
	}
	if len(r.ExtraMeta) > 0 {
		if err := json.Unmarshal(r.ExtraMeta, &entity.Meta.Extra); err != nil {
			return nil, fmt.Errorf("decode extra meta: %w", err)
		}
	}
	return entity, nil
}

func (s *EntityStore) FindBySource(ctx context.Context, sourceURL, entityType string, sourceID int64) (int64, error) {
	var id int64
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &id,
		"SELECT id FROM entities WHERE source_url = $1 AND type = $2 AND source_id = $3",
		sourceURL, entityType, sourceID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Insert stores a new entity stamped with the current time as its modified
// date and attaches it to the default term of the primary taxonomy.
func (s *EntityStore) Insert(ctx context.Context, entity *domain.LocalEntity) (int64, error) {
	exec := GetExecutor(ctx, s.db)

	query := `
		INSERT INTO entities (
			type, title, content, excerpt, status,
			published_at, published_at_gmt, modified_at, modified_at_gmt,
			source_id, source_url, last_synced_at, original_modified
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, now(), now() AT TIME ZONE 'UTC', $8, $9, $10, $11
		)
		RETURNING id`

	var id int64
	err := exec.QueryRowxContext(ctx, query,
		entity.Type,
		entity.Title,
		entity.Content,
		entity.Excerpt,
		entity.Status,
		entity.PublishedAt,
		entity.PublishedAtGMT,
		entity.Meta.SourceID,
		entity.Meta.SourceURL,
		entity.Meta.LastSyncedAt,
		entity.Meta.OriginalModified,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	_, err = exec.ExecContext(ctx, `
		INSERT INTO entity_terms (entity_id, term_id)
		SELECT $1, id FROM terms WHERE taxonomy = $2 AND slug = $3
		ON CONFLICT DO NOTHING`,
		id, domain.PrimaryTaxonomy, domain.DefaultTermSlug,
	)
	if err != nil {
		return 0, fmt.Errorf("attach default term: %w", err)
	}

	return id, nil
}

func (s *EntityStore) Update(ctx context.Context, entity *domain.LocalEntity) error {
	query := `
		UPDATE entities SET
			title = $2,
			content = $3,
			excerpt = $4,
			status = $5,
			published_at = $6,
			published_at_gmt = $7,
			modified_at = now(),
			modified_at_gmt = now() AT TIME ZONE 'UTC',
			last_synced_at = $8,
			original_modified = $9
		WHERE id = $1`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		entity.ID,
		entity.Title,
		entity.Content,
		entity.Excerpt,
		entity.Status,
		entity.PublishedAt,
		entity.PublishedAtGMT,
		entity.Meta.LastSyncedAt,
		entity.Meta.OriginalModified,
	)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (s *EntityStore) OverwriteModified(ctx context.Context, id int64, modified, modifiedGMT time.Time) error {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"UPDATE entities SET modified_at = $2, modified_at_gmt = $3 WHERE id = $1",
		id, modified, modifiedGMT,
	)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (s *EntityStore) SetThumbnail(ctx context.Context, id, mediaID int64) error {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"UPDATE entities SET thumbnail_id = $2 WHERE id = $1",
		id, mediaID,
	)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// SetMeta merges one key into the entity's extra metadata.
func (s *EntityStore) SetMeta(ctx context.Context, id int64, key string, value json.RawMessage) error {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"UPDATE entities SET extra_meta = extra_meta || jsonb_build_object($2::text, $3::jsonb) WHERE id = $1",
		id, key, string(value),
	)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (s *EntityStore) Get(ctx context.Context, id int64) (*domain.LocalEntity, error) {
	var row entityRow
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, `
		SELECT id, type, title, content, excerpt, status,
			published_at, published_at_gmt, modified_at, modified_at_gmt,
			thumbnail_id, source_id, source_url, last_synced_at, original_modified, extra_meta
		FROM entities
		WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
