package runner_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"post_syncer/internal/domain"
	"post_syncer/internal/extension"
	"post_syncer/internal/metrics"
	"post_syncer/internal/runner"
	"post_syncer/internal/service"
	"post_syncer/internal/source/wp"
	"post_syncer/internal/storage/memory"
)

var png = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type remoteSite struct {
	*httptest.Server
	downloads atomic.Int32
}

func newRemoteSite(t *testing.T) *remoteSite {
	t.Helper()
	site := &remoteSite{}

	posts := []map[string]any{
		{
			"id":             1,
			"title":          map[string]string{"rendered": "First"},
			"content":        map[string]string{"rendered": "<p>one</p>"},
			"excerpt":        map[string]string{"rendered": ""},
			"date":           "2024-01-01T10:00:00",
			"date_gmt":       "2024-01-01T09:00:00",
			"modified":       "2024-02-01T10:00:00",
			"modified_gmt":   "2024-02-01T09:00:00",
			"featured_media": 50,
			"_embedded": map[string]any{
				"wp:term": [][]map[string]any{
					{{"id": 7, "name": "News", "slug": "news", "taxonomy": "category"}},
				},
			},
		},
		{
			"id":       2,
			"title":    map[string]string{"rendered": "Second"},
			"modified": "2024-02-02T10:00:00",
		},
		{
			"id":       3,
			"title":    map[string]string{"rendered": "Third"},
			"modified": "2024-02-03T10:00:00",
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /wp-json/wp/v2/posts", func(w http.ResponseWriter, r *http.Request) {
		perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		start := (page - 1) * perPage
		if start >= len(posts) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		end := min(start+perPage, len(posts))
		totalPages := (len(posts) + perPage - 1) / perPage

		w.Header().Set(wp.HeaderTotal, strconv.Itoa(len(posts)))
		w.Header().Set(wp.HeaderTotalPages, strconv.Itoa(totalPages))
		_ = json.NewEncoder(w).Encode(posts[start:end])
	})
	mux.HandleFunc("GET /wp-json/sync-posts/v1/public-media/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "50" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":         50,
			"source_url": site.URL + "/uploads/pic.png",
			"width":      1,
			"height":     1,
			"alt":        "a pixel",
			"title":      "pic",
		})
	})
	mux.HandleFunc("GET /uploads/pic.png", func(w http.ResponseWriter, r *http.Request) {
		site.downloads.Add(1)
		_, _ = w.Write(png)
	})

	site.Server = httptest.NewServer(mux)
	t.Cleanup(site.Close)
	return site
}

func newSyncService(t *testing.T, baseURL string, db *memory.DB) *service.SyncService {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New(prometheus.NewRegistry())

	client := wp.New(wp.Config{
		BaseURL:   baseURL,
		Namespace: "wp/v2",
		PerPage:   2,
		Timeout:   5 * time.Second,
	}, logger)

	return service.NewSyncService(
		client,
		service.Stores{
			Entities:  db.Entities(),
			Media:     db.Media(),
			Blobs:     db.Blobs(),
			Terms:     db.Terms(),
			Journal:   db.Journal(),
			TxManager: db.TxManager(),
		},
		extension.NewRegistry(m, logger),
		m,
		logger,
		[]string{"post"},
	)
}

func TestEndToEnd_TwoPagesOfPosts(t *testing.T) {
	ctx := context.Background()
	site := newRemoteSite(t)
	db := memory.New()
	svc := newSyncService(t, site.URL, db)

	first, err := svc.Step(ctx, domain.StepRequest{TargetIndex: 0, Page: 1})
	require.NoError(t, err)
	assert.False(t, first.IsDone)
	assert.Equal(t, 2, first.SyncedCount)
	assert.Equal(t, 2, first.TotalPages)
	assert.Equal(t, 3, first.TotalPosts)

	cursor, done := runner.Advance(domain.NewSyncCursor(), first)
	require.False(t, done)
	assert.Equal(t, 2, cursor.Page)

	second, err := svc.Step(ctx, domain.StepRequest{TargetIndex: cursor.TargetIndex, Page: cursor.Page})
	require.NoError(t, err)
	assert.True(t, second.IsDone)
	assert.Equal(t, 1, second.SyncedCount)

	cursor, done = runner.Advance(cursor, second)
	assert.True(t, done)
	assert.Equal(t, 3, cursor.Synced)
	assert.Equal(t, 100.0, runner.OverallProgress(cursor.TargetIndex, len(second.Targets), second.Progress))
}

func TestEndToEnd_RunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	site := newRemoteSite(t)
	db := memory.New()
	svc := newSyncService(t, site.URL, db)
	r := runner.New(svc, runner.Config{MaxAttempts: 1}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	for run := 1; run <= 2; run++ {
		summary, err := r.Run(ctx)
		require.NoError(t, err, "run %d", run)
		assert.Equal(t, 3, summary.Synced, "run %d", run)
		assert.Empty(t, summary.Errors, "run %d", run)
		assert.Equal(t, 100.0, summary.Progress)
	}

	posts := db.Entities().List(ctx, "post")
	require.Len(t, posts, 3)
	assert.Equal(t, int32(1), site.downloads.Load())

	byTitle := make(map[string]domain.LocalEntity, len(posts))
	for _, p := range posts {
		byTitle[p.Title] = p
		assert.Equal(t, domain.StatusDraft, p.Status)
	}

	first := byTitle["First"]
	assert.Equal(t, time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC), first.ModifiedAt)
	assert.Equal(t, time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC), first.ModifiedAtGMT)
	require.NotNil(t, first.ThumbnailID)

	media, err := db.Media().Get(ctx, *first.ThumbnailID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), media.SourceMediaID)
	assert.Equal(t, "image/png", media.MimeType)
	assert.Equal(t, first.ID, media.OwnerID)

	rc, err := db.Blobs().Get(ctx, media.ObjectKey)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, png, data)

	terms, err := db.Terms().TermsOf(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, "News", terms[0].Name)

	plain, err := db.Terms().TermsOf(ctx, byTitle["Second"].ID)
	require.NoError(t, err)
	require.Len(t, plain, 1)
	assert.Equal(t, domain.DefaultTermSlug, plain[0].Slug)

	steps, err := db.Journal().Recent(ctx, wp.NormalizeBaseURL(site.URL), 10)
	require.NoError(t, err)
	assert.Len(t, steps, 4)
	assert.Equal(t, 2, steps[0].Page)
}
