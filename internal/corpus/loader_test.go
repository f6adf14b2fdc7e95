package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/kaiseki/internal/embedding"
	"github.com/hyperjump/kaiseki/internal/models"
	"github.com/hyperjump/kaiseki/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "corpus.db"), embedding.NewMockEmbedder(64))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func writeCorpusFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	st := newTestStore(t)
	path := writeCorpusFile(t, `[
		{"code": "def add(a, b): return a + b", "language": "python", "category": "functions", "difficulty": "beginner", "explanation": "Adds two numbers."},
		{"code": "for i in range(5): print(i)", "language": "python", "category": "loops", "difficulty": "intermediate", "explanation": "Prints 0 to 4."}
	]`)

	count, err := Load(context.Background(), path, st, nil)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("count=%d", count)
	}
	if st.Count() != 2 {
		t.Errorf("store Count=%d", st.Count())
	}
}

func TestLoad_SkipsIncompleteEntries(t *testing.T) {
	st := newTestStore(t)
	path := writeCorpusFile(t, `[
		{"code": "", "language": "python", "explanation": "No code."},
		{"code": "x = 1", "language": "python", "explanation": ""},
		{"code": "y = 2", "language": "python", "explanation": "Assigns 2 to y."}
	]`)

	count, err := Load(context.Background(), path, st, nil)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("count=%d", count)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	st := newTestStore(t)
	path := writeCorpusFile(t, `{not json`)
	if _, err := Load(context.Background(), path, st, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	st := newTestStore(t)
	if _, err := Load(context.Background(), "/nonexistent/corpus.json", st, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoad_Idempotent(t *testing.T) {
	st := newTestStore(t)
	path := writeCorpusFile(t, `[
		{"code": "x = 1", "language": "python", "explanation": "Assignment."}
	]`)
	if _, err := Load(context.Background(), path, st, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(context.Background(), path, st, nil); err != nil {
		t.Fatal(err)
	}
	if st.Count() != 1 {
		t.Errorf("reload duplicated documents: Count=%d", st.Count())
	}
}

func TestMapDifficulty(t *testing.T) {
	cases := map[string]models.Difficulty{
		"beginner":     models.DifficultyEasy,
		"easy":         models.DifficultyEasy,
		"intermediate": models.DifficultyMedium,
		"medium":       models.DifficultyMedium,
		"advanced":     models.DifficultyHard,
		"hard":         models.DifficultyHard,
		"":             models.DifficultyMedium,
		"unknown":      models.DifficultyMedium,
	}
	for in, want := range cases {
		if got := mapDifficulty(in); got != want {
			t.Errorf("mapDifficulty(%q)=%q, want %q", in, got, want)
		}
	}
}
