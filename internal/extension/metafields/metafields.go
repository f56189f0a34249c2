// Package metafields copies a record's custom fields into the local
// entity's extra metadata.
package metafields

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"post_syncer/internal/domain"
)

const (
	Name = "acf"

	SyncedKey   = "sync_fields_synced"
	SyncDateKey = "sync_fields_sync_date"

	syncDateLayout = "2006-01-02 15:04:05"
	fieldsKey      = "acf"
)

type RecordFetcher interface {
	FetchRecord(ctx context.Context, collectionPath string, id int64, query url.Values) (map[string]json.RawMessage, error)
}

type MetaWriter interface {
	SetMeta(ctx context.Context, id int64, key string, value json.RawMessage) error
}

type Extension struct {
	fetcher RecordFetcher
	meta    MetaWriter
	logger  *slog.Logger
	now     func() time.Time
}

func New(fetcher RecordFetcher, meta MetaWriter, logger *slog.Logger) *Extension {
	return &Extension{
		fetcher: fetcher,
		meta:    meta,
		logger:  logger.With("extension", Name),
		now:     time.Now,
	}
}

// Handle implements extension.Handler. Records without custom fields are
// left untouched.
func (e *Extension) Handle(ctx context.Context, entityID int64, record *domain.RemoteRecord, hc domain.HookContext) error {
	fields := record.Fields
	if fields == nil {
		var err error
		fields, err = e.fetchFields(ctx, record.ID, hc)
		if err != nil {
			return err
		}
	}
	if fields == nil {
		return nil
	}

	for key, value := range fields {
		if err := e.meta.SetMeta(ctx, entityID, key, value); err != nil {
			return fmt.Errorf("set field %s: %w", key, err)
		}
	}

	if err := e.setString(ctx, entityID, SyncedKey, "yes"); err != nil {
		return err
	}
	if err := e.setString(ctx, entityID, SyncDateKey, e.now().Format(syncDateLayout)); err != nil {
		return err
	}

	e.logger.Debug("synced custom fields", "entity_id", entityID, "fields", len(fields))
	return nil
}

func (e *Extension) fetchFields(ctx context.Context, sourceID int64, hc domain.HookContext) (domain.CustomFields, error) {
	target := domain.NewSyncTarget(hc.TargetType)

	payload, err := e.fetcher.FetchRecord(ctx, target.Path, sourceID, url.Values{fieldsKey: {"1"}})
	if err != nil {
		return nil, fmt.Errorf("fetch record %d: %w", sourceID, err)
	}

	raw, ok := payload[fieldsKey]
	if !ok {
		return nil, nil
	}

	var fields domain.CustomFields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode fields of record %d: %w", sourceID, err)
	}
	return fields, nil
}

func (e *Extension) setString(ctx context.Context, entityID int64, key, value string) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := e.meta.SetMeta(ctx, entityID, key, raw); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
