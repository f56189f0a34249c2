package memory

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"post_syncer/internal/domain"
)

func newEntity(sourceID int64) *domain.LocalEntity {
	return &domain.LocalEntity{
		Type:   "post",
		Title:  "Hello",
		Status: domain.StatusDraft,
		Meta: domain.EntityMeta{
			SourceID:  sourceID,
			SourceURL: "https://src.test/",
		},
	}
}

func TestEntityStore_InsertStampsNowAndDefaultTerm(t *testing.T) {
	ctx := context.Background()
	db := New()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	db.SetClock(func() time.Time { return now })

	id, err := db.Entities().Insert(ctx, newEntity(1))
	require.NoError(t, err)

	got, err := db.Entities().Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, now, got.ModifiedAt)

	terms, err := db.Terms().TermsOf(ctx, id)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, domain.DefaultTermSlug, terms[0].Slug)

	found, err := db.Entities().FindBySource(ctx, "https://src.test/", "post", 1)
	require.NoError(t, err)
	assert.Equal(t, id, found)

	_, err = db.Entities().FindBySource(ctx, "https://src.test/", "page", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEntityStore_OverwriteModifiedAfterUpdate(t *testing.T) {
	ctx := context.Background()
	db := New()
	store := db.Entities()

	id, err := store.Insert(ctx, newEntity(2))
	require.NoError(t, err)

	update := newEntity(2)
	update.ID = id
	update.Title = "Changed"
	require.NoError(t, store.Update(ctx, update))

	remote := time.Date(2019, 4, 5, 6, 7, 8, 0, time.UTC)
	require.NoError(t, store.OverwriteModified(ctx, id, remote, remote))

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Changed", got.Title)
	assert.Equal(t, remote, got.ModifiedAt)
	assert.Equal(t, remote, got.ModifiedAtGMT)

	assert.ErrorIs(t, store.OverwriteModified(ctx, 999, remote, remote), domain.ErrNotFound)
}

func TestEntityStore_SetMeta(t *testing.T) {
	ctx := context.Background()
	store := New().Entities()

	id, err := store.Insert(ctx, newEntity(3))
	require.NoError(t, err)
	require.NoError(t, store.SetMeta(ctx, id, "color", json.RawMessage(`"red"`)))

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.JSONEq(t, `"red"`, string(got.Meta.Extra["color"]))
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := New()

	err := db.TxManager().WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := db.Entities().Insert(ctx, newEntity(4)); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.EqualError(t, err, "abort")

	_, err = db.Entities().FindBySource(ctx, "https://src.test/", "post", 4)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTermStore_CreateAttachRemoveDefault(t *testing.T) {
	ctx := context.Background()
	db := New()

	entityID, err := db.Entities().Insert(ctx, newEntity(5))
	require.NoError(t, err)

	terms := db.Terms()
	_, err = terms.FindByName(ctx, "post_tag", "Go")
	require.ErrorIs(t, err, domain.ErrNotFound)

	tagID, err := terms.Create(ctx, "post_tag", "Go")
	require.NoError(t, err)
	again, err := terms.Create(ctx, "post_tag", "Go")
	require.NoError(t, err)
	assert.Equal(t, tagID, again)

	require.NoError(t, terms.Attach(ctx, entityID, tagID))
	require.NoError(t, terms.RemoveDefault(ctx, entityID, domain.PrimaryTaxonomy, domain.DefaultTermSlug))

	attached, err := terms.TermsOf(ctx, entityID)
	require.NoError(t, err)
	require.Len(t, attached, 1)
	assert.Equal(t, "Go", attached[0].Name)
	assert.Equal(t, "go", attached[0].Slug)

	exists, err := terms.TaxonomyExists(ctx, "genre")
	require.NoError(t, err)
	assert.False(t, exists)

	db.RegisterTaxonomy("genre")
	exists, err = terms.TaxonomyExists(ctx, "genre")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMediaStore_UniqueSourceMediaID(t *testing.T) {
	ctx := context.Background()
	media := New().Media()

	id, err := media.Create(ctx, &domain.LocalMedia{SourceMediaID: 9, FileName: "a.png"})
	require.NoError(t, err)

	found, err := media.FindBySourceMediaID(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, id, found)

	_, err = media.Create(ctx, &domain.LocalMedia{SourceMediaID: 9})
	assert.Error(t, err)
}

func TestBlobStore_PutGet(t *testing.T) {
	ctx := context.Background()
	blobs := New().Blobs()

	require.NoError(t, blobs.Put(ctx, "media/1/a.txt", strings.NewReader("hello"), 5, "text/plain"))

	rc, err := blobs.Get(ctx, "media/1/a.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, err = blobs.Get(ctx, "media/2/b.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Error(t, blobs.Put(ctx, "short", strings.NewReader("hi"), 10, "text/plain"))
}

func TestStepJournal_Recent(t *testing.T) {
	ctx := context.Background()
	journal := New().Journal()

	for page := 1; page <= 3; page++ {
		require.NoError(t, journal.Record(ctx, &domain.StepRecord{SourceURL: "https://src.test/", Page: page}))
	}
	require.NoError(t, journal.Record(ctx, &domain.StepRecord{SourceURL: "https://other.test/", Page: 1}))

	recent, err := journal.Recent(ctx, "https://src.test/", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 3, recent[0].Page)
	assert.Equal(t, 2, recent[1].Page)
}
