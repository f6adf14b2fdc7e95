package models

import (
	"fmt"
	"strings"
)

// Mode selects the explanation strategy.
type Mode string

const (
	// ModeBasic explains without retrieval (zero-shot).
	ModeBasic Mode = "basic"
	// ModeRAG augments the prompt with retrieved corpus examples.
	ModeRAG Mode = "rag"
)

// MaxCodeLength is the maximum accepted query code size in characters.
const MaxCodeLength = 10000

// ExplainQuery is one incoming explanation request.
type ExplainQuery struct {
	Code         string `json:"code"`
	LanguageHint string `json:"language_hint,omitempty"`
	Mode         Mode   `json:"mode,omitempty"`
}

// Validate checks the query and sets defaults. The code must be non-empty after
// trimming and at most MaxCodeLength characters; mode defaults to rag.
func (q *ExplainQuery) Validate() error {
	if strings.TrimSpace(q.Code) == "" {
		return fmt.Errorf("code cannot be empty")
	}
	if len(q.Code) > MaxCodeLength {
		return fmt.Errorf("code exceeds %d characters", MaxCodeLength)
	}
	switch q.Mode {
	case "":
		q.Mode = ModeRAG
	case ModeBasic, ModeRAG:
	default:
		return fmt.Errorf("unknown mode %q", q.Mode)
	}
	return nil
}
