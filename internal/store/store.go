// Package store persists the example corpus and answers nearest-neighbor queries.
//
// Reads go through an immutable snapshot that is rebuilt and atomically swapped
// on every ingest or reset, so the query path takes no locks and never observes
// a partially-ingested batch.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hyperjump/kaiseki/internal/embedding"
	"github.com/hyperjump/kaiseki/internal/models"
)

// ErrUnavailable indicates the backing database cannot be reached.
var ErrUnavailable = errors.New("example store unavailable")

// Hit is one nearest-neighbor result with its raw cosine similarity.
type Hit struct {
	Document   *models.Document
	Similarity float64
}

// Store is the example corpus: SQLite persistence plus an in-memory snapshot
// for similarity search. Ingest and Reset are serialized; Nearest and Stats are
// safe under any concurrency.
type Store struct {
	db       *sqliteDB
	embedder embedding.Embedder
	snap     atomic.Pointer[snapshot]
	ingestMu sync.Mutex
}

// New opens (or creates) the corpus database at dbPath and builds the initial
// snapshot from persisted documents. embedder is used during ingestion only.
func New(dbPath string, embedder embedding.Embedder) (*Store, error) {
	db, err := openSQLite(dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	s := &Store{db: db, embedder: embedder}
	docs, err := db.listDocuments(context.Background())
	if err != nil {
		_ = db.close()
		return nil, fmt.Errorf("%w: load corpus: %v", ErrUnavailable, err)
	}
	s.snap.Store(newSnapshot(docs))
	return s, nil
}

// Ingest upserts a batch of documents. Embeddings are computed for inputs that
// lack one; IDs are derived from the code content when absent, so re-ingesting
// the same corpus is idempotent. The snapshot is rebuilt once, after the whole
// batch is persisted, and swapped in atomically.
func (s *Store) Ingest(ctx context.Context, inputs []*models.DocumentInput) error {
	s.ingestMu.Lock()
	defer s.ingestMu.Unlock()

	docs := make([]*models.Document, 0, len(inputs))
	for _, in := range inputs {
		if in.Code == "" {
			continue
		}
		emb := in.Embedding
		if emb == nil {
			var err error
			emb, err = s.embedder.Embed(ctx, in.Code)
			if err != nil {
				return fmt.Errorf("embed document: %w", err)
			}
		}
		id := in.ID
		if id == "" {
			id = StableID(in.Code)
		}
		docs = append(docs, &models.Document{
			ID:          id,
			Code:        in.Code,
			Language:    in.Language,
			Category:    in.Category,
			Subcategory: in.Subcategory,
			Difficulty:  in.Difficulty,
			Explanation: in.Explanation,
			Embedding:   emb,
		})
	}

	if err := s.db.upsertDocuments(ctx, docs); err != nil {
		return fmt.Errorf("%w: persist batch: %v", ErrUnavailable, err)
	}
	return s.reloadSnapshot(ctx)
}

// Reset deletes the entire corpus and swaps in an empty snapshot.
func (s *Store) Reset(ctx context.Context) error {
	s.ingestMu.Lock()
	defer s.ingestMu.Unlock()

	if err := s.db.deleteAll(ctx); err != nil {
		return fmt.Errorf("%w: reset: %v", ErrUnavailable, err)
	}
	s.snap.Store(newSnapshot(nil))
	return nil
}

// reloadSnapshot rebuilds the snapshot from the database. Caller holds ingestMu.
func (s *Store) reloadSnapshot(ctx context.Context) error {
	docs, err := s.db.listDocuments(ctx)
	if err != nil {
		return fmt.Errorf("%w: reload: %v", ErrUnavailable, err)
	}
	s.snap.Store(newSnapshot(docs))
	return nil
}

// Nearest returns up to k documents ordered by descending cosine similarity to
// query. An empty corpus yields an empty result, not an error.
func (s *Store) Nearest(ctx context.Context, query []float32, k int) ([]Hit, error) {
	return s.snap.Load().nearest(query, k), nil
}

// Count returns the number of documents in the current snapshot.
func (s *Store) Count() int {
	return len(s.snap.Load().docs)
}

// Stats summarizes the current snapshot by language and category.
func (s *Store) Stats() *models.CorpusStats {
	snap := s.snap.Load()
	stats := &models.CorpusStats{
		TotalDocuments: len(snap.docs),
		ByLanguage:     make(map[string]int),
		ByCategory:     make(map[string]int),
	}
	for _, d := range snap.docs {
		if d.Language != "" {
			stats.ByLanguage[d.Language]++
		}
		if d.Category != "" {
			stats.ByCategory[d.Category]++
		}
	}
	return stats
}

// Close closes the backing database.
func (s *Store) Close() error {
	return s.db.close()
}

// StableID derives a document ID from the code content, so the same example
// always maps to the same ID regardless of ingestion order.
func StableID(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])[:16]
}
