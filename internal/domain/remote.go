package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// WPTimeLayout is the zone-less timestamp format used by the source API.
const WPTimeLayout = "2006-01-02T15:04:05"

// WPTime is a source timestamp. The zero value means the field was absent.
type WPTime struct {
	time.Time
}

func (t *WPTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	parsed, err := time.Parse(WPTimeLayout, s)
	if err != nil {
		// some installs append a zone designator
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("parse timestamp %q: %w", s, err)
		}
	}
	t.Time = parsed
	return nil
}

func (t WPTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(WPTimeLayout))
}

// String returns the source representation, or "" when absent.
func (t WPTime) String() string {
	if t.IsZero() {
		return ""
	}
	return t.Format(WPTimeLayout)
}

type Rendered struct {
	Rendered string `json:"rendered"`
}

// RemoteRecord is one entity as returned by a collection endpoint.
type RemoteRecord struct {
	ID            int64        `json:"id"`
	Title         Rendered     `json:"title"`
	Content       Rendered     `json:"content"`
	Excerpt       Rendered     `json:"excerpt"`
	Date          WPTime       `json:"date"`
	DateGMT       WPTime       `json:"date_gmt"`
	Modified      WPTime       `json:"modified"`
	ModifiedGMT   WPTime       `json:"modified_gmt"`
	FeaturedMedia *int64       `json:"featured_media,omitempty"`
	Embedded      *Embedded    `json:"_embedded,omitempty"`
	Fields        CustomFields `json:"acf,omitempty"`
}

// FeaturedMediaID returns the referenced media id, if any.
func (r *RemoteRecord) FeaturedMediaID() (int64, bool) {
	if r.FeaturedMedia == nil || *r.FeaturedMedia <= 0 {
		return 0, false
	}
	return *r.FeaturedMedia, true
}

// TermGroups returns the embedded term lists, one per taxonomy.
func (r *RemoteRecord) TermGroups() [][]EmbeddedTerm {
	if r.Embedded == nil {
		return nil
	}
	return r.Embedded.Terms
}

// CustomFields holds per-record custom field values keyed by field name.
// Sources send an empty array or false instead of an object when a record
// has no fields; both decode to nil.
type CustomFields map[string]json.RawMessage

func (f *CustomFields) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		*f = nil
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return fmt.Errorf("decode custom fields: %w", err)
	}
	*f = fields
	return nil
}

type Embedded struct {
	Terms [][]EmbeddedTerm `json:"wp:term,omitempty"`
}

type EmbeddedTerm struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Taxonomy string `json:"taxonomy"`
}

// MediaDescriptor is the minimal public view of a remote attachment.
type MediaDescriptor struct {
	ID        int64   `json:"id"`
	SourceURL string  `json:"source_url"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Alt       string  `json:"alt"`
	Title     string  `json:"title"`
	Modified  *WPTime `json:"modified,omitempty"`
}

// Page is one page of a remote collection. Rejected holds the records
// that could not be decoded.
type Page struct {
	Records    []RemoteRecord
	Rejected   []RecordReconcileError
	TotalCount int
	TotalPages int
}
