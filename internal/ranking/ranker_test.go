package ranking

import (
	"testing"

	"github.com/hyperjump/kaiseki/internal/models"
	"github.com/hyperjump/kaiseki/internal/store"
)

func hit(code, language string, seq int64, sim float64) store.Hit {
	return store.Hit{
		Document:   &models.Document{Code: code, Language: language, Seq: seq},
		Similarity: sim,
	}
}

func TestRanker_FiltersBelowThreshold(t *testing.T) {
	r := NewRanker(nil)
	hits := []store.Hit{
		hit("a", "python", 1, 0.9),
		hit("b", "python", 2, 0.5),
		hit("c", "python", 3, 0.64),
	}
	ranked := r.Rank(hits, "query", "")
	if len(ranked) != 1 {
		t.Fatalf("expected 1 result, got %d", len(ranked))
	}
	if ranked[0].Document.Code != "a" {
		t.Errorf("got %q", ranked[0].Document.Code)
	}
}

func TestRanker_TopKAndOrder(t *testing.T) {
	r := NewRanker(nil)
	hits := []store.Hit{
		hit("a", "", 1, 0.70),
		hit("b", "", 2, 0.95),
		hit("c", "", 3, 0.80),
		hit("d", "", 4, 0.90),
	}
	ranked := r.Rank(hits, "query", "")
	if len(ranked) != 3 {
		t.Fatalf("expected 3 results, got %d", len(ranked))
	}
	want := []string{"b", "d", "c"}
	for i, w := range want {
		if ranked[i].Document.Code != w {
			t.Errorf("rank %d: expected %q, got %q", i+1, w, ranked[i].Document.Code)
		}
		if ranked[i].Rank != i+1 {
			t.Errorf("Rank field=%d, expected %d", ranked[i].Rank, i+1)
		}
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Error("scores not non-increasing")
		}
	}
}

func TestRanker_LanguageBonus(t *testing.T) {
	r := NewRanker(nil)
	base := r.Score(hit("a", "go", 1, 0.7), "query", "")
	boosted := r.Score(hit("a", "go", 1, 0.7), "query", "go")
	if boosted <= base {
		t.Errorf("bonus not applied: base=%f boosted=%f", base, boosted)
	}
	other := r.Score(hit("a", "go", 1, 0.7), "query", "python")
	if other != base {
		t.Errorf("bonus applied for mismatched hint: %f != %f", other, base)
	}
}

func TestRanker_ScoreClampedToOne(t *testing.T) {
	r := NewRanker(nil)
	s := r.Score(hit("query", "go", 1, 0.99), "query", "go")
	if s > 1.0 {
		t.Errorf("score=%f exceeds 1.0", s)
	}
}

func TestRanker_LengthPenalty(t *testing.T) {
	r := NewRanker(nil)
	short := "ab"
	long := "this is a very long code snippet that is way more than four times the query length"
	penalizedScore := r.Score(hit(long, "", 1, 0.8), short, "")
	plainScore := r.Score(hit(short, "", 1, 0.8), short, "")
	if penalizedScore >= plainScore {
		t.Errorf("penalty not applied: %f >= %f", penalizedScore, plainScore)
	}
}

func TestRanker_TieBreakByInsertionOrder(t *testing.T) {
	r := NewRanker(nil)
	hits := []store.Hit{
		hit("later", "", 9, 0.8),
		hit("earlier", "", 2, 0.8),
	}
	ranked := r.Rank(hits, "query", "")
	if len(ranked) != 2 {
		t.Fatalf("len=%d", len(ranked))
	}
	if ranked[0].Document.Code != "earlier" {
		t.Errorf("expected insertion-order tie-break, got %q first", ranked[0].Document.Code)
	}
}

func TestRanker_EmptyHits(t *testing.T) {
	r := NewRanker(nil)
	if ranked := r.Rank(nil, "query", ""); len(ranked) != 0 {
		t.Errorf("len=%d", len(ranked))
	}
}

func TestRanker_CandidateK(t *testing.T) {
	r := NewRanker(&Config{TopK: 5, CandidateK: 3})
	if k := r.CandidateK(); k != 5 {
		t.Errorf("CandidateK should never be below TopK, got %d", k)
	}
}
