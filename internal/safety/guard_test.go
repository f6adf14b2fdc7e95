package safety

import (
	"strings"
	"testing"
)

func newTestGuard(t *testing.T) *Guard {
	t.Helper()
	g, err := NewGuard(nil, Options{MinWords: 10, MinLength: 50}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestGuard_DetectsAPIKey(t *testing.T) {
	g := newTestGuard(t)
	findings, masked := g.PreScreen(`api_key = "sk_live_abc123def456"`)
	if len(findings) == 0 {
		t.Fatal("expected a finding")
	}
	if findings[0].Category != CategorySecret {
		t.Errorf("category=%q", findings[0].Category)
	}
	if !strings.Contains(masked, DefaultMaskPlaceholder) {
		t.Errorf("masked copy missing placeholder: %q", masked)
	}
	if strings.Contains(masked, "sk_live_abc123def456") {
		t.Errorf("secret survived masking: %q", masked)
	}
}

func TestGuard_DetectsSSN(t *testing.T) {
	g := newTestGuard(t)
	findings, masked := g.PreScreen("ssn = '123-45-6789'")
	found := false
	for _, f := range findings {
		if f.Category == CategoryPII {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a pii finding")
	}
	if strings.Contains(masked, "123-45-6789") {
		t.Errorf("ssn survived masking: %q", masked)
	}
}

func TestGuard_DetectsDestructiveShell(t *testing.T) {
	g := newTestGuard(t)
	findings, _ := g.PreScreen(`os.system("rm -rf /")`)
	categories := map[string]bool{}
	for _, f := range findings {
		categories[f.Category] = true
	}
	if !categories[CategoryMalicious] {
		t.Errorf("expected malicious finding, got %v", findings)
	}
}

func TestGuard_CleanCodeHasNoFindings(t *testing.T) {
	g := newTestGuard(t)
	code := "def add(a, b):\n    return a + b"
	findings, masked := g.PreScreen(code)
	if len(findings) != 0 {
		t.Errorf("unexpected findings: %v", findings)
	}
	if masked != code {
		t.Errorf("clean code should pass through unchanged: %q", masked)
	}
}

func TestGuard_MaliciousNotMasked(t *testing.T) {
	g := newTestGuard(t)
	code := `eval(user_input)`
	findings, masked := g.PreScreen(code)
	if len(findings) == 0 {
		t.Fatal("expected a finding")
	}
	// Malicious patterns are flagged, not redacted; the code must stay intact
	// for the generation prompt.
	if masked != code {
		t.Errorf("malicious code should not be masked: %q", masked)
	}
}

func TestNewGuard_EmptyRuleSetFails(t *testing.T) {
	if _, err := NewGuard(&RuleSet{Version: "1"}, Options{}, nil); err == nil {
		t.Fatal("expected error for empty rule set")
	}
	bad := &RuleSet{Version: "1", Rules: []Rule{{Name: "broken", Category: "secret", Pattern: "("}}}
	if _, err := NewGuard(bad, Options{}, nil); err == nil {
		t.Fatal("expected error when no rule compiles")
	}
}

func TestGuard_MaskForLog(t *testing.T) {
	g := newTestGuard(t)
	out := g.MaskForLog("password = 'hunter22'")
	if strings.Contains(out, "hunter22") {
		t.Errorf("password survived masking: %q", out)
	}
}

func TestDefaultRuleSet_AllPatternsCompile(t *testing.T) {
	rs := DefaultRuleSet()
	compiled, err := compileRules(rs)
	if err != nil {
		t.Fatal(err)
	}
	if len(compiled) != len(rs.Rules) {
		t.Errorf("compiled %d of %d rules", len(compiled), len(rs.Rules))
	}
}
