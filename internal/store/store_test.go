package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hyperjump/kaiseki/internal/embedding"
	"github.com/hyperjump/kaiseki/internal/models"
)

func newTestStore(t *testing.T) (*Store, embedding.Embedder) {
	t.Helper()
	dir := t.TempDir()
	embedder := embedding.NewMockEmbedder(64)
	s, err := New(filepath.Join(dir, "corpus.db"), embedder)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, embedder
}

func TestStore_IngestAndCount(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	err := s.Ingest(ctx, []*models.DocumentInput{
		{Code: "def add(a, b): return a + b", Language: "python", Category: "functions", Explanation: "Adds two numbers."},
		{Code: "for i in range(10): print(i)", Language: "python", Category: "loops", Explanation: "Prints numbers 0 to 9."},
	})
	if err != nil {
		t.Fatal(err)
	}
	if s.Count() != 2 {
		t.Errorf("Count=%d", s.Count())
	}
}

func TestStore_IngestIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	batch := []*models.DocumentInput{
		{Code: "x = 1", Language: "python", Explanation: "Assigns 1 to x."},
	}
	if err := s.Ingest(ctx, batch); err != nil {
		t.Fatal(err)
	}
	if err := s.Ingest(ctx, batch); err != nil {
		t.Fatal(err)
	}
	if s.Count() != 1 {
		t.Errorf("re-ingesting the same code should not duplicate: Count=%d", s.Count())
	}
}

func TestStore_NearestRoundTrip(t *testing.T) {
	s, embedder := newTestStore(t)
	ctx := context.Background()

	code := "def quicksort(arr):\n    if len(arr) <= 1:\n        return arr"
	err := s.Ingest(ctx, []*models.DocumentInput{
		{Code: code, Language: "python", Explanation: "Quicksort base case."},
		{Code: "SELECT * FROM users", Language: "sql", Explanation: "Selects all users."},
	})
	if err != nil {
		t.Fatal(err)
	}

	vec, err := embedder.Embed(ctx, code)
	if err != nil {
		t.Fatal(err)
	}
	hits, err := s.Nearest(ctx, vec, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Fatalf("len(hits)=%d", len(hits))
	}
	if hits[0].Document.Code != code {
		t.Errorf("expected the ingested document first, got %q", hits[0].Document.Code)
	}
	if hits[0].Similarity < 0.999 {
		t.Errorf("round-trip similarity=%f, expected ~1.0", hits[0].Similarity)
	}
	if hits[1].Similarity > hits[0].Similarity {
		t.Error("hits not sorted by similarity")
	}
}

func TestStore_NearestEmptyCorpus(t *testing.T) {
	s, embedder := newTestStore(t)
	ctx := context.Background()

	vec, _ := embedder.Embed(ctx, "anything")
	hits, err := s.Nearest(ctx, vec, 5)
	if err != nil {
		t.Fatalf("empty corpus should not error: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("len(hits)=%d", len(hits))
	}
}

func TestStore_Reset(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.Ingest(ctx, []*models.DocumentInput{
		{Code: "x = 1", Explanation: "Assignment."},
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	if s.Count() != 0 {
		t.Errorf("Count=%d after reset", s.Count())
	}
}

func TestStore_Stats(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	err := s.Ingest(ctx, []*models.DocumentInput{
		{Code: "a", Language: "python", Category: "basics", Explanation: "A."},
		{Code: "b", Language: "python", Category: "loops", Explanation: "B."},
		{Code: "c", Language: "go", Category: "basics", Explanation: "C."},
	})
	if err != nil {
		t.Fatal(err)
	}
	stats := s.Stats()
	if stats.TotalDocuments != 3 {
		t.Errorf("TotalDocuments=%d", stats.TotalDocuments)
	}
	if stats.ByLanguage["python"] != 2 || stats.ByLanguage["go"] != 1 {
		t.Errorf("ByLanguage=%v", stats.ByLanguage)
	}
	if stats.ByCategory["basics"] != 2 {
		t.Errorf("ByCategory=%v", stats.ByCategory)
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "corpus.db")
	embedder := embedding.NewMockEmbedder(64)
	ctx := context.Background()

	s, err := New(dbPath, embedder)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Ingest(ctx, []*models.DocumentInput{
		{Code: "print('hi')", Language: "python", Explanation: "Prints hi."},
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := New(dbPath, embedder)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	if reopened.Count() != 1 {
		t.Errorf("Count=%d after reopen", reopened.Count())
	}
}

func TestStableID(t *testing.T) {
	a := StableID("some code")
	if a != StableID("some code") {
		t.Error("StableID should be deterministic")
	}
	if a == StableID("other code") {
		t.Error("different code should get different IDs")
	}
	if len(a) != 16 {
		t.Errorf("len=%d", len(a))
	}
}
