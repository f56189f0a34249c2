package domain

import (
	"encoding/json"
	"strings"
	"time"
	"unicode"
)

const (
	StatusDraft = "draft"

	// PrimaryTaxonomy owns the catch-all default term.
	PrimaryTaxonomy = "category"
	DefaultTermSlug = "uncategorized"
)

// SyncTarget is one remote collection mirrored locally.
type SyncTarget struct {
	Name string
	Path string
}

// NewSyncTarget derives the plural collection path from the type name.
func NewSyncTarget(name string) SyncTarget {
	return SyncTarget{Name: name, Path: name + "s"}
}

type LocalEntity struct {
	ID             int64
	Type           string
	Title          string
	Content        string
	Excerpt        string
	Status         string
	PublishedAt    time.Time
	PublishedAtGMT time.Time
	ModifiedAt     time.Time
	ModifiedAtGMT  time.Time
	ThumbnailID    *int64
	Meta           EntityMeta
}

// EntityMeta links a local entity back to its remote record.
type EntityMeta struct {
	SourceID         int64
	SourceURL        string
	LastSyncedAt     time.Time
	OriginalModified string
	Extra            map[string]json.RawMessage
}

type LocalMedia struct {
	ID            int64     `db:"id"`
	OwnerID       int64     `db:"owner_id"`
	SourceMediaID int64     `db:"source_media_id"`
	FileName      string    `db:"file_name"`
	ObjectKey     string    `db:"object_key"`
	MimeType      string    `db:"mime_type"`
	Size          int64     `db:"size"`
	Width         int       `db:"width"`
	Height        int       `db:"height"`
	Alt           string    `db:"alt"`
	Title         string    `db:"title"`
	ModifiedAt    time.Time `db:"modified_at"`
	ModifiedAtGMT time.Time `db:"modified_at_gmt"`
}

type LocalTerm struct {
	ID       int64  `db:"id"`
	Taxonomy string `db:"taxonomy"`
	Name     string `db:"name"`
	Slug     string `db:"slug"`
}

// HookContext describes where a reconciled entity came from.
type HookContext struct {
	SourceURL    string `json:"source_url"`
	APINamespace string `json:"api_endpoint"`
	TargetType   string `json:"post_type"`
}

// Slugify derives a URL-safe term slug from a display name.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
