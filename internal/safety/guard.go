package safety

import (
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/kaiseki/internal/models"
)

// DefaultMaskPlaceholder replaces masked spans in sanitized text.
const DefaultMaskPlaceholder = "***REDACTED***"

// Guard screens input code before generation and validates explanations after.
// Safe for concurrent use; the compiled rules are immutable after construction.
type Guard struct {
	rules       []compiledRule
	placeholder string
	minWords    int
	minLength   int
	logger      *zap.Logger
}

// Options configures a Guard.
type Options struct {
	// MinWords and MinLength are the quality floor for post-validation.
	MinWords  int
	MinLength int
	// MaskPlaceholder replaces masked spans; DefaultMaskPlaceholder when empty.
	MaskPlaceholder string
}

// NewGuard compiles the rule set and returns a guard. A nil rule set uses the
// built-in rules. Fails when the set compiles to zero rules.
func NewGuard(rs *RuleSet, opts Options, logger *zap.Logger) (*Guard, error) {
	if rs == nil {
		rs = DefaultRuleSet()
	}
	rules, err := compileRules(rs)
	if err != nil {
		return nil, err
	}
	if opts.MaskPlaceholder == "" {
		opts.MaskPlaceholder = DefaultMaskPlaceholder
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{
		rules:       rules,
		placeholder: opts.MaskPlaceholder,
		minWords:    opts.MinWords,
		minLength:   opts.MinLength,
		logger:      logger,
	}, nil
}

// PreScreen scans code against every rule and returns the findings plus a
// sanitized copy with masked spans replaced. The original code is never
// modified; generation proceeds regardless of findings.
func (g *Guard) PreScreen(code string) ([]models.SafetyFinding, string) {
	findings, masked := g.scan(code)
	if len(findings) > 0 {
		g.logger.Warn("screening flagged input",
			zap.Int("findings", len(findings)),
			zap.String("first_pattern", findings[0].MatchedPattern))
	}
	return findings, masked
}

// MaskForLog returns text with all maskable spans replaced, for safe logging.
func (g *Guard) MaskForLog(text string) string {
	_, masked := g.scan(text)
	return masked
}

func (g *Guard) scan(text string) ([]models.SafetyFinding, string) {
	var findings []models.SafetyFinding
	masked := text

	for _, cr := range g.rules {
		matches := cr.re.FindAllString(text, -1)
		if len(matches) == 0 {
			continue
		}
		for _, m := range matches {
			f := models.SafetyFinding{
				Category:       cr.rule.Category,
				MatchedPattern: cr.rule.Name,
			}
			if cr.rule.Mask {
				f.MaskedSpan = g.placeholder
				masked = strings.ReplaceAll(masked, m, g.placeholder)
			}
			findings = append(findings, f)
		}
	}
	return findings, masked
}
