package models

import (
	"strings"
	"testing"
)

func TestExplainQuery_Validate(t *testing.T) {
	q := &ExplainQuery{Code: "x = 1"}
	if err := q.Validate(); err != nil {
		t.Fatal(err)
	}
	if q.Mode != ModeRAG {
		t.Errorf("mode should default to rag, got %q", q.Mode)
	}
}

func TestExplainQuery_Validate_EmptyCode(t *testing.T) {
	for _, code := range []string{"", "   ", "\n\t"} {
		q := &ExplainQuery{Code: code}
		if err := q.Validate(); err == nil {
			t.Errorf("code %q should be rejected", code)
		}
	}
}

func TestExplainQuery_Validate_OversizeCode(t *testing.T) {
	q := &ExplainQuery{Code: strings.Repeat("a", MaxCodeLength+1)}
	if err := q.Validate(); err == nil {
		t.Error("oversize code should be rejected")
	}
	q = &ExplainQuery{Code: strings.Repeat("a", MaxCodeLength)}
	if err := q.Validate(); err != nil {
		t.Errorf("code at the limit should pass: %v", err)
	}
}

func TestExplainQuery_Validate_Mode(t *testing.T) {
	q := &ExplainQuery{Code: "x", Mode: ModeBasic}
	if err := q.Validate(); err != nil {
		t.Fatal(err)
	}
	q = &ExplainQuery{Code: "x", Mode: "turbo"}
	if err := q.Validate(); err == nil {
		t.Error("unknown mode should be rejected")
	}
}
