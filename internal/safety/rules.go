// Package safety screens code and generated text with pattern-based rules.
//
// Detection is advisory by design: findings are surfaced as warnings and never
// block generation. Callers that want to tighten this must do so explicitly,
// since downstream behavior depends on requests always going through.
package safety

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Finding categories.
const (
	CategorySecret    = "secret"
	CategoryPII       = "pii"
	CategoryMalicious = "malicious"
	CategoryBias      = "bias"
)

// Rule is one screening pattern. Mask controls whether matched spans are
// replaced in the sanitized copy of the input.
type Rule struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Pattern  string `yaml:"pattern"`
	Mask     bool   `yaml:"mask"`
}

// RuleSet is a versioned collection of screening rules. Rules are data, not
// control flow: updating the set never requires touching the guard.
type RuleSet struct {
	Version string `yaml:"version"`
	Rules   []Rule `yaml:"rules"`
}

// LoadRuleSet reads a YAML rule set from path.
func LoadRuleSet(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule set: %w", err)
	}
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("failed to parse rule set: %w", err)
	}
	return &rs, nil
}

// DefaultRuleSet returns the built-in screening rules.
func DefaultRuleSet() *RuleSet {
	return &RuleSet{
		Version: "1",
		Rules: []Rule{
			// Secret-like key=value assignments.
			{Name: "api_key", Category: CategorySecret, Mask: true,
				Pattern: `(?i)(api[_-]?key|apikey)\s*[:=]\s*["']?([A-Za-z0-9_\-]{6,})["']?`},
			{Name: "secret_key", Category: CategorySecret, Mask: true,
				Pattern: `(?i)(secret[_-]?key|secretkey)\s*[:=]\s*["']?([A-Za-z0-9_\-]{6,})["']?`},
			{Name: "access_token", Category: CategorySecret, Mask: true,
				Pattern: `(?i)(access[_-]?token|auth[_-]?token)\s*[:=]\s*["']?([A-Za-z0-9_.\-]{6,})["']?`},
			{Name: "password", Category: CategorySecret, Mask: true,
				Pattern: `(?i)(password|passwd|pwd)\s*[:=]\s*["']?([^\s"']{4,})["']?`},

			// Structured personal data.
			{Name: "ssn", Category: CategoryPII, Mask: true,
				Pattern: `\b\d{3}-\d{2}-\d{4}\b`},
			{Name: "credit_card", Category: CategoryPII, Mask: true,
				Pattern: `\b\d{16}\b`},
			{Name: "email", Category: CategoryPII, Mask: true,
				Pattern: `\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`},
			{Name: "phone", Category: CategoryPII, Mask: true,
				Pattern: `\b(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]\d{3}[-.\s]\d{4}\b`},

			// Destructive or injection-shaped code.
			{Name: "destructive_shell", Category: CategoryMalicious,
				Pattern: `(?i)\b(rm\s+-rf|rmdir\s+/s|mkfs|dd\s+if=)`},
			{Name: "dynamic_eval", Category: CategoryMalicious,
				Pattern: `(?i)\b(eval|exec)\s*\(`},
			{Name: "system_access", Category: CategoryMalicious,
				Pattern: `(?i)\b(__import__|subprocess|os\.system)\b`},
			{Name: "sql_injection", Category: CategoryMalicious,
				Pattern: `(?i)\b(DROP\s+TABLE|DELETE\s+FROM|;\s*--)\b`},
			{Name: "script_injection", Category: CategoryMalicious,
				Pattern: `(?i)(<script|javascript:)`},

			// Terms relating to protected categories; flagged so explanations
			// can be reviewed for objectivity, never blocked.
			{Name: "protected_category", Category: CategoryBias,
				Pattern: `(?i)\b(gender|race|religion|ethnicity|disability|nationality)\b`},
		},
	}
}

// compiledRule pairs a rule with its compiled expression.
type compiledRule struct {
	rule Rule
	re   *regexp.Regexp
}

// compileRules compiles a rule set, skipping invalid patterns. Returns an
// error when no rule compiles: a guard with zero rules is a misconfiguration,
// fatal at startup rather than silently screening nothing.
func compileRules(rs *RuleSet) ([]compiledRule, error) {
	if rs == nil || len(rs.Rules) == 0 {
		return nil, fmt.Errorf("safety rule set is empty")
	}
	compiled := make([]compiledRule, 0, len(rs.Rules))
	for _, r := range rs.Rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			continue
		}
		compiled = append(compiled, compiledRule{rule: r, re: re})
	}
	if len(compiled) == 0 {
		return nil, fmt.Errorf("no safety rule compiled (version %q)", rs.Version)
	}
	return compiled, nil
}
