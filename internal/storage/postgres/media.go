package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"post_syncer/internal/domain"
)

type MediaStore struct {
	db *sqlx.DB
}

func NewMediaStore(db *sqlx.DB) *MediaStore {
	return &MediaStore{db: db}
}

func (s *MediaStore) FindBySourceMediaID(ctx context.Context, sourceMediaID int64) (int64, error) {
	var id int64
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &id,
		"SELECT id FROM media WHERE source_media_id = $1", sourceMediaID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *MediaStore) Create(ctx context.Context, media *domain.LocalMedia) (int64, error) {
	query := `
		INSERT INTO media (
			owner_id, source_media_id, file_name, object_key, mime_type,
			size, width, height, alt, title
		) VALUES (
			:owner_id, :source_media_id, :file_name, :object_key, :mime_type,
			:size, :width, :height, :alt, :title
		)
		RETURNING id`

	query, args, err := sqlx.Named(query, media)
	if err != nil {
		return 0, err
	}

	var id int64
	exec := GetExecutor(ctx, s.db)
	if err := exec.QueryRowxContext(ctx, exec.Rebind(query), args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *MediaStore) OverwriteModified(ctx context.Context, id int64, modified, modifiedGMT time.Time) error {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"UPDATE media SET modified_at = $2, modified_at_gmt = $3 WHERE id = $1",
		id, modified, modifiedGMT,
	)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (s *MediaStore) Get(ctx context.Context, id int64) (*domain.LocalMedia, error) {
	var media domain.LocalMedia
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &media, `
		SELECT id, owner_id, source_media_id, file_name, object_key, mime_type,
			size, width, height, alt, title, modified_at, modified_at_gmt
		FROM media
		WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &media, nil
}
