package embedding

import (
	"testing"
)

func TestCodeTokenizer_Tokenize(t *testing.T) {
	tok := &CodeTokenizer{}
	ids, attn, _ := tok.Tokenize("func add(a, b int) int", 16)
	if len(ids) != 16 {
		t.Errorf("len(ids)=%d", len(ids))
	}
	if ids[0] != 101 {
		t.Errorf("expected CLS 101, got %d", ids[0])
	}
	if attn[0] != 1 {
		t.Error("attention[0] should be 1")
	}
}

func TestSplitCode(t *testing.T) {
	tokens := SplitCode("def add(a, b):")
	want := []string{"def", "add", "(", "a", ",", "b", ")", ":"}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %v", len(want), tokens)
	}
	for i, w := range want {
		if tokens[i] != w {
			t.Errorf("token %d: expected %q, got %q", i, w, tokens[i])
		}
	}
	if SplitCode("") != nil {
		t.Error("empty string should return nil")
	}
}

func TestSplitCode_LowercasesIdentifiers(t *testing.T) {
	tokens := SplitCode("QuickSort")
	if len(tokens) != 1 || tokens[0] != "quicksort" {
		t.Errorf("got %v", tokens)
	}
}

func TestHashString(t *testing.T) {
	h := HashString("abc")
	if h == 0 {
		t.Error("hash should be non-zero")
	}
	if HashString("abc") != HashString("abc") {
		t.Error("hash should be deterministic")
	}
	if HashString("abc") < 0 {
		t.Error("hash should be non-negative")
	}
}
