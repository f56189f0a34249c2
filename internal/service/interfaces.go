package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"io"
	"time"

	"post_syncer/internal/domain"
)

type Source interface {
	BaseURL() string
	Namespace() string
	FetchPage(ctx context.Context, collectionPath string, page int) (*domain.Page, error)
	FetchPublicMediaDescriptor(ctx context.Context, mediaID int64) (*domain.MediaDescriptor, error)
	Download(ctx context.Context, fileURL string) (string, error)
}

type EntityStore interface {
	FindBySource(ctx context.Context, sourceURL, entityType string, sourceID int64) (int64, error)
	Insert(ctx context.Context, entity *domain.LocalEntity) (int64, error)
	Update(ctx context.Context, entity *domain.LocalEntity) error
	OverwriteModified(ctx context.Context, id int64, modified, modifiedGMT time.Time) error
	SetThumbnail(ctx context.Context, id, mediaID int64) error
}

type MediaStore interface {
	FindBySourceMediaID(ctx context.Context, sourceMediaID int64) (int64, error)
	Create(ctx context.Context, media *domain.LocalMedia) (int64, error)
	OverwriteModified(ctx context.Context, id int64, modified, modifiedGMT time.Time) error
}

type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}

type TermStore interface {
	TaxonomyExists(ctx context.Context, taxonomy string) (bool, error)
	FindByName(ctx context.Context, taxonomy, name string) (int64, error)
	Create(ctx context.Context, taxonomy, name string) (int64, error)
	Attach(ctx context.Context, entityID, termID int64) error
	RemoveDefault(ctx context.Context, entityID int64, taxonomy, slug string) error
}

type StepJournal interface {
	Record(ctx context.Context, rec *domain.StepRecord) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Hooks interface {
	InvokeAll(ctx context.Context, entityID int64, record *domain.RemoteRecord, hc domain.HookContext) error
}
