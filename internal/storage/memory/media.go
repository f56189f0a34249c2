package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"post_syncer/internal/domain"
)

type MediaStore struct {
	db *DB
}

func (s *MediaStore) FindBySourceMediaID(ctx context.Context, sourceMediaID int64) (int64, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for id, m := range s.db.media {
		if m.SourceMediaID == sourceMediaID {
			return id, nil
		}
	}
	return 0, domain.ErrNotFound
}

func (s *MediaStore) Create(ctx context.Context, media *domain.LocalMedia) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, m := range s.db.media {
		if m.SourceMediaID == media.SourceMediaID {
			return 0, fmt.Errorf("media for source id %d already exists", media.SourceMediaID)
		}
	}

	stored := *media
	stored.ID = s.db.next("media")
	stored.ModifiedAt = s.db.now()
	stored.ModifiedAtGMT = stored.ModifiedAt.UTC()
	s.db.media[stored.ID] = stored
	return stored.ID, nil
}

func (s *MediaStore) OverwriteModified(ctx context.Context, id int64, modified, modifiedGMT time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	m, ok := s.db.media[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.ModifiedAt = modified
	m.ModifiedAtGMT = modifiedGMT
	s.db.media[id] = m
	return nil
}

func (s *MediaStore) Get(ctx context.Context, id int64) (*domain.LocalMedia, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	m, ok := s.db.media[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

type BlobStore struct {
	db *DB
}

func (s *BlobStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read blob: %w", err)
	}
	if size >= 0 && int64(len(data)) != size {
		return fmt.Errorf("blob %s: read %d bytes, expected %d", key, len(data), size)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.blobs[key] = blob{data: data, contentType: contentType}
	return nil
}

func (s *BlobStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	b, ok := s.db.blobs[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b.data)), nil
}
