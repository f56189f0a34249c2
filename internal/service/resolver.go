package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strconv"

	"github.com/gabriel-vasile/mimetype"

	"post_syncer/internal/domain"
	"post_syncer/internal/metrics"
	"post_syncer/internal/source/wp"
)

const (
	kindMedia    = "media"
	kindTaxonomy = "taxonomy"
)

// Resolver imports the resources a record depends on: its featured media
// and its taxonomy terms. Every failure here is skipped, never returned.
type Resolver struct {
	source   Source
	entities EntityStore
	media    MediaStore
	blobs    BlobStore
	terms    TermStore
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewResolver(
	source Source,
	entities EntityStore,
	media MediaStore,
	blobs BlobStore,
	terms TermStore,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Resolver {
	return &Resolver{
		source:   source,
		entities: entities,
		media:    media,
		blobs:    blobs,
		terms:    terms,
		metrics:  m,
		logger:   logger.With("component", "resolver"),
	}
}

// ResolveFeaturedMedia makes sure the remote media exists locally and sets it
// as the owner's thumbnail. A known source media id is reused without any
// network call.
func (r *Resolver) ResolveFeaturedMedia(ctx context.Context, mediaID, ownerID int64) (int64, bool) {
	localID, err := r.media.FindBySourceMediaID(ctx, mediaID)
	switch {
	case err == nil:
		r.metrics.MediaReused()
	case errors.Is(err, domain.ErrNotFound):
		localID, err = r.importMedia(ctx, mediaID, ownerID)
		if err != nil {
			r.skip(kindMedia, err, "media_id", mediaID, "entity_id", ownerID)
			return 0, false
		}
	default:
		r.skip(kindMedia, fmt.Errorf("find media: %w", err), "media_id", mediaID, "entity_id", ownerID)
		return 0, false
	}

	if err := r.entities.SetThumbnail(ctx, ownerID, localID); err != nil {
		r.skip(kindMedia, fmt.Errorf("set thumbnail: %w", err), "media_id", mediaID, "entity_id", ownerID)
		return 0, false
	}
	return localID, true
}

func (r *Resolver) importMedia(ctx context.Context, mediaID, ownerID int64) (int64, error) {
	desc, err := r.source.FetchPublicMediaDescriptor(ctx, mediaID)
	if err != nil {
		return 0, fmt.Errorf("fetch media descriptor: %w", err)
	}

	tmpPath, err := r.source.Download(ctx, desc.SourceURL)
	if err != nil {
		return 0, fmt.Errorf("download media: %w", err)
	}
	r.metrics.MediaDownloaded()
	defer func() {
		if err := os.Remove(tmpPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("failed to remove temp file", "path", tmpPath, "error", err)
		}
	}()

	localID, err := r.attach(ctx, tmpPath, mediaID, ownerID, desc)
	if err != nil {
		return 0, err
	}

	if desc.Modified != nil && !desc.Modified.IsZero() {
		modified := desc.Modified.Time
		if err := r.media.OverwriteModified(ctx, localID, modified, modified.UTC()); err != nil {
			r.logger.Warn("failed to overwrite media modified date", "media_id", localID, "error", err)
		}
	}

	return localID, nil
}

func (r *Resolver) attach(ctx context.Context, tmpPath string, mediaID, ownerID int64, desc *domain.MediaDescriptor) (int64, error) {
	mtype, err := mimetype.DetectFile(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("detect mime type: %w", err)
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("open temp file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat temp file: %w", err)
	}

	fileName := wp.FileName(desc.SourceURL)
	key := path.Join("media", strconv.FormatInt(mediaID, 10), fileName)

	if err := r.blobs.Put(ctx, key, f, info.Size(), mtype.String()); err != nil {
		return 0, fmt.Errorf("store media binary: %w", err)
	}

	media := &domain.LocalMedia{
		OwnerID:       ownerID,
		SourceMediaID: mediaID,
		FileName:      fileName,
		ObjectKey:     key,
		MimeType:      mtype.String(),
		Size:          info.Size(),
		Width:         desc.Width,
		Height:        desc.Height,
		Alt:           desc.Alt,
		Title:         desc.Title,
	}

	localID, err := r.media.Create(ctx, media)
	if err != nil {
		return 0, fmt.Errorf("create media: %w", err)
	}
	return localID, nil
}

// ResolveTaxonomies appends the embedded terms to the owner and then drops
// the owner from the primary taxonomy's default term. Returns the number of
// terms attached.
func (r *Resolver) ResolveTaxonomies(ctx context.Context, groups [][]domain.EmbeddedTerm, ownerID int64) int {
	if len(groups) == 0 {
		return 0
	}

	registered := make(map[string]bool)
	attached := 0

	for _, terms := range groups {
		for _, term := range terms {
			ok, seen := registered[term.Taxonomy]
			if !seen {
				exists, err := r.terms.TaxonomyExists(ctx, term.Taxonomy)
				if err != nil {
					r.skip(kindTaxonomy, fmt.Errorf("check taxonomy: %w", err), "taxonomy", term.Taxonomy)
					continue
				}
				registered[term.Taxonomy] = exists
				ok = exists
			}
			if !ok {
				continue
			}

			termID, err := r.findOrCreateTerm(ctx, term)
			if err != nil {
				r.skip(kindTaxonomy, err, "taxonomy", term.Taxonomy, "term", term.Name)
				continue
			}

			if err := r.terms.Attach(ctx, ownerID, termID); err != nil {
				r.skip(kindTaxonomy, fmt.Errorf("attach term: %w", err), "entity_id", ownerID, "term_id", termID)
				continue
			}
			attached++
		}
	}

	// Runs even when nothing was attached above.
	if err := r.terms.RemoveDefault(ctx, ownerID, domain.PrimaryTaxonomy, domain.DefaultTermSlug); err != nil {
		r.skip(kindTaxonomy, fmt.Errorf("remove default term: %w", err), "entity_id", ownerID)
	}

	return attached
}

func (r *Resolver) findOrCreateTerm(ctx context.Context, term domain.EmbeddedTerm) (int64, error) {
	termID, err := r.terms.FindByName(ctx, term.Taxonomy, term.Name)
	if err == nil {
		return termID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return 0, fmt.Errorf("find term: %w", err)
	}

	termID, err = r.terms.Create(ctx, term.Taxonomy, term.Name)
	if err != nil {
		return 0, fmt.Errorf("create term: %w", err)
	}
	return termID, nil
}

func (r *Resolver) skip(kind string, err error, args ...any) {
	r.metrics.DependentFailure(kind)
	depErr := &domain.DependentResourceError{Kind: kind, Err: err}
	r.logger.Warn("skipped dependent resource", append(args, "error", depErr)...)
}
