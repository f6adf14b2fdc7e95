// Package embedding provides code embedding via ONNX and caching.
package embedding

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the embedding model could not be loaded or reached.
// This is a hard dependency failure: callers degrade to non-retrieval mode
// instead of retrying.
var ErrUnavailable = errors.New("embedding encoder unavailable")

// Embedder produces fixed-dimension vector embeddings for code text.
// Implementations must return L2-normalized vectors and be deterministic
// for identical input.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
