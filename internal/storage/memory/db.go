// Package memory is an in-process implementation of the local stores. It
// backs the memory storage driver and end-to-end tests.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"post_syncer/internal/domain"
)

type blob struct {
	data        []byte
	contentType string
}

// DB holds every table. The store types below are views onto it.
type DB struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	now  func() time.Time

	seq         map[string]int64
	entities    map[int64]domain.LocalEntity
	media       map[int64]domain.LocalMedia
	taxonomies  map[string]bool
	terms       map[int64]domain.LocalTerm
	entityTerms map[int64]map[int64]struct{}
	blobs       map[string]blob
	steps       []domain.StepRecord
}

// New returns an empty database with the built-in taxonomies and the
// default term of the primary taxonomy.
func New() *DB {
	db := &DB{
		now:         time.Now,
		seq:         make(map[string]int64),
		entities:    make(map[int64]domain.LocalEntity),
		media:       make(map[int64]domain.LocalMedia),
		taxonomies:  map[string]bool{domain.PrimaryTaxonomy: true, "post_tag": true},
		terms:       make(map[int64]domain.LocalTerm),
		entityTerms: make(map[int64]map[int64]struct{}),
		blobs:       make(map[string]blob),
	}

	id := db.next("terms")
	db.terms[id] = domain.LocalTerm{
		ID:       id,
		Taxonomy: domain.PrimaryTaxonomy,
		Name:     "Uncategorized",
		Slug:     domain.DefaultTermSlug,
	}
	return db
}

// SetClock replaces the time source used to stamp writes.
func (db *DB) SetClock(now func() time.Time) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.now = now
}

// RegisterTaxonomy makes a taxonomy available for term matching.
func (db *DB) RegisterTaxonomy(name string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.taxonomies[name] = true
}

func (db *DB) Entities() *EntityStore {
	return &EntityStore{db: db}
}

func (db *DB) Media() *MediaStore {
	return &MediaStore{db: db}
}

func (db *DB) Terms() *TermStore {
	return &TermStore{db: db}
}

func (db *DB) Blobs() *BlobStore {
	return &BlobStore{db: db}
}

func (db *DB) Journal() *StepJournal {
	return &StepJournal{db: db}
}

func (db *DB) TxManager() *TransactionManager {
	return &TransactionManager{db: db}
}

// next must be called with mu held.
func (db *DB) next(table string) int64 {
	db.seq[table]++
	return db.seq[table]
}

type snapshot struct {
	seq         map[string]int64
	entities    map[int64]domain.LocalEntity
	media       map[int64]domain.LocalMedia
	terms       map[int64]domain.LocalTerm
	entityTerms map[int64]map[int64]struct{}
}

func (db *DB) snapshot() snapshot {
	db.mu.RLock()
	defer db.mu.RUnlock()

	links := make(map[int64]map[int64]struct{}, len(db.entityTerms))
	for id, set := range db.entityTerms {
		links[id] = maps.Clone(set)
	}
	return snapshot{
		seq:         maps.Clone(db.seq),
		entities:    maps.Clone(db.entities),
		media:       maps.Clone(db.media),
		terms:       maps.Clone(db.terms),
		entityTerms: links,
	}
}

func (db *DB) restore(s snapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.seq = s.seq
	db.entities = s.entities
	db.media = s.media
	db.terms = s.terms
	db.entityTerms = s.entityTerms
}

// TransactionManager serializes transactions and rolls back every table
// except blobs and the step journal when fn fails.
type TransactionManager struct {
	db *DB
}

type txKey struct{}

func (tm *TransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	tm.db.txMu.Lock()
	defer tm.db.txMu.Unlock()

	before := tm.db.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		tm.db.restore(before)
		return err
	}
	return nil
}
