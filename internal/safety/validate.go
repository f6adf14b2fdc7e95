package safety

import (
	"strings"

	"github.com/hyperjump/kaiseki/internal/models"
)

// incompleteMarkers appear when generation was cut off or refused mid-answer.
var incompleteMarkers = []string{
	"i cannot",
	"i can't",
	"as an ai",
	"[truncated]",
	"...",
}

// PostValidate checks a generated explanation against the quality floor and
// the bias rules. The report is attached to the response as-is; an invalid
// explanation is still returned to the caller with the report explaining why.
func (g *Guard) PostValidate(explanation string) *models.ValidationReport {
	trimmed := strings.TrimSpace(explanation)
	words := len(strings.Fields(trimmed))
	report := &models.ValidationReport{Valid: true, WordCount: words}

	if trimmed == "" {
		report.Valid = false
		report.Reason = "empty explanation"
		return report
	}
	if len(trimmed) < g.minLength {
		report.Valid = false
		report.Reason = "explanation too short"
		return report
	}
	if words < g.minWords {
		report.Valid = false
		report.Reason = "explanation below minimum word count"
		return report
	}

	lower := strings.ToLower(trimmed)
	for _, marker := range incompleteMarkers {
		if strings.HasSuffix(lower, marker) {
			report.Valid = false
			report.Reason = "explanation appears incomplete"
			return report
		}
	}

	// Bias findings do not invalidate the explanation, they accompany it.
	for _, cr := range g.rules {
		if cr.rule.Category != CategoryBias {
			continue
		}
		for range cr.re.FindAllString(trimmed, -1) {
			report.Findings = append(report.Findings, models.SafetyFinding{
				Category:       CategoryBias,
				MatchedPattern: cr.rule.Name,
			})
		}
	}
	return report
}
