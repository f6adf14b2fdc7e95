package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/hyperjump/kaiseki/pkg/utils"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	e := NewMockEmbedder(384)
	ctx := context.Background()
	a, err := e.Embed(ctx, "def add(a, b): return a + b")
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Embed(ctx, "def add(a, b): return a + b")
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 384 {
		t.Fatalf("dimensions=%d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embedding not deterministic at %d: %v != %v", i, a[i], b[i])
		}
	}
}

func TestMockEmbedder_UnitLength(t *testing.T) {
	e := NewMockEmbedder(64)
	emb, err := e.Embed(context.Background(), "for i in range(10): print(i)")
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, v := range emb {
		sum += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(sum)-1.0) > 1e-5 {
		t.Errorf("norm=%f, expected 1.0", math.Sqrt(sum))
	}
}

func TestMockEmbedder_SimilarTextsCorrelate(t *testing.T) {
	e := NewMockEmbedder(384)
	ctx := context.Background()
	base, _ := e.Embed(ctx, "def quicksort(arr): return sorted(arr)")
	near, _ := e.Embed(ctx, "def quicksort(xs): return sorted(xs)")
	far, _ := e.Embed(ctx, "SELECT name FROM users WHERE active = 1")

	simNear := utils.CosineSimilarity(base, near)
	simFar := utils.CosineSimilarity(base, far)
	if simNear <= simFar {
		t.Errorf("expected overlapping code to score higher: near=%f far=%f", simNear, simFar)
	}
}

func TestMockEmbedder_EmptyText(t *testing.T) {
	e := NewMockEmbedder(8)
	emb, err := e.Embed(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(emb) != 8 {
		t.Fatalf("dimensions=%d", len(emb))
	}
}

func TestMockEmbedder_EmbedBatch(t *testing.T) {
	e := NewMockEmbedder(16)
	embs, err := e.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if len(embs) != 3 {
		t.Fatalf("len=%d", len(embs))
	}
}
