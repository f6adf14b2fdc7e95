//go:build !cgo
// +build !cgo

package embedding

import (
	"context"
	"fmt"
)

// ONNXEmbedder stub type when built without CGO (see onnx.go for the real implementation).
type ONNXEmbedder struct{}

// NewONNXEmbedder returns ErrUnavailable when built without CGO.
func NewONNXEmbedder(_ string, _, _, _ int) (*ONNXEmbedder, error) {
	return nil, fmt.Errorf("%w: requires CGO; build with CGO_ENABLED=1 and onnxruntime", ErrUnavailable)
}

// Embed is unavailable when built without CGO.
func (e *ONNXEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return nil, ErrUnavailable
}

// EmbedBatch is unavailable when built without CGO.
func (e *ONNXEmbedder) EmbedBatch(_ context.Context, _ []string) ([][]float32, error) {
	return nil, ErrUnavailable
}

// Dimensions is unavailable when built without CGO.
func (e *ONNXEmbedder) Dimensions() int {
	return 0
}

// Close is a no-op when built without CGO.
func (e *ONNXEmbedder) Close() error {
	return nil
}
