// Package prompt builds the generation input from ranked examples and query code.
package prompt

import (
	"fmt"
	"strings"

	"github.com/hyperjump/kaiseki/internal/models"
	"github.com/hyperjump/kaiseki/pkg/utils"
)

// Assembler serializes system instructions, retrieved examples, and the query
// code into the text handed to the generation back end. Output is deterministic
// for identical inputs; all sampling randomness belongs to the back end.
type Assembler struct {
	instructions      string
	maxTokens         int
	maxExplanationLen int
	counter           TokenCounter
}

// NewAssembler creates an assembler with the given system instructions, token
// budget, and per-example explanation truncation length.
func NewAssembler(instructions string, maxTokens, maxExplanationLen int, counter TokenCounter) *Assembler {
	if counter == nil {
		counter = EstimateCounter{}
	}
	return &Assembler{
		instructions:      instructions,
		maxTokens:         maxTokens,
		maxExplanationLen: maxExplanationLen,
		counter:           counter,
	}
}

// Build assembles the prompt. When the serialized prompt exceeds the token
// budget, examples are dropped from the tail of the ranked list (lowest
// relevance first) until it fits; the query code itself is never truncated.
// Returns the prompt and the examples actually included.
func (a *Assembler) Build(examples []*models.ScoredExample, queryCode, languageHint string) (string, []*models.ScoredExample) {
	kept := examples
	for {
		text := a.render(kept, queryCode, languageHint)
		if a.maxTokens <= 0 || a.counter.Count(text) <= a.maxTokens || len(kept) == 0 {
			return text, kept
		}
		kept = kept[:len(kept)-1]
	}
}

func (a *Assembler) render(examples []*models.ScoredExample, queryCode, languageHint string) string {
	var b strings.Builder
	b.WriteString(a.instructions)
	b.WriteString("\n\n")

	if len(examples) > 0 {
		b.WriteString("Here are similar code examples for reference:\n\n")
		for i, ex := range examples {
			fmt.Fprintf(&b, "Example %d (Relevance: %.2f, Language: %s):\n\n", i+1, ex.Score, ex.Document.Language)
			fmt.Fprintf(&b, "```%s\n%s\n```\n\n", ex.Document.Language, ex.Document.Code)
			fmt.Fprintf(&b, "Explanation: %s\n\n---\n\n", utils.Truncate(ex.Document.Explanation, a.maxExplanationLen))
		}
	}

	b.WriteString("Now, explain the following code in detail, using a similar comprehensive style:\n\n")
	fmt.Fprintf(&b, "```%s\n%s\n```\n\n", languageHint, queryCode)
	b.WriteString("Provide a well-structured, educational explanation that helps the reader understand both what the code does and why it is written this way.")
	return b.String()
}
