// Package generate calls the text-generation back end that produces explanations.
package generate

import "context"

// Request is one generation call.
type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Generator produces explanation text from an assembled prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}
