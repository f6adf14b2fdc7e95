package embedding

import (
	"context"
	"math"

	"github.com/hyperjump/kaiseki/pkg/utils"
)

// MockEmbedder is a deterministic embedder for tests. It derives a unit-length
// vector from token hashes so that the same code always gets the same embedding
// and texts sharing tokens land near each other.
type MockEmbedder struct {
	dimensions int
}

// NewMockEmbedder returns an embedder producing deterministic embeddings of the given dimensions.
func NewMockEmbedder(dimensions int) *MockEmbedder {
	if dimensions <= 0 {
		dimensions = 384
	}
	return &MockEmbedder{dimensions: dimensions}
}

// Embed returns a deterministic embedding built from the text's code tokens.
// Each token contributes to a hash-selected bucket, so overlapping token sets
// produce correlated vectors, which makes similarity ordering testable.
func (e *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	emb := make([]float32, e.dimensions)
	for _, tok := range SplitCode(text) {
		h := HashString(tok)
		emb[h%e.dimensions] += float32(math.Sin(float64(h))*0.5 + 1.0)
	}
	if allZero(emb) {
		emb[0] = 1
	}
	utils.NormalizeL2(emb)
	return emb, nil
}

// EmbedBatch calls Embed for each text.
func (e *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		emb, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}

// Dimensions returns the embedding dimension.
func (e *MockEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op for MockEmbedder.
func (e *MockEmbedder) Close() error {
	return nil
}

func allZero(x []float32) bool {
	for _, v := range x {
		if v != 0 {
			return false
		}
	}
	return true
}
