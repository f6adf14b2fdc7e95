package models

// ScoredExample is a corpus document paired with its final relevance score and rank.
// Produced by the ranker, consumed by the prompt assembler; never persisted.
type ScoredExample struct {
	Document *Document `json:"document"`
	// Score is the final relevance in [0,1]: cosine similarity adjusted by
	// language bonus and length penalty.
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// SafetyFinding is one screening hit. Findings are advisory: they are surfaced
// as warnings and never block generation.
type SafetyFinding struct {
	Category       string `json:"category"` // secret | pii | malicious | bias
	MatchedPattern string `json:"matched_pattern"`
	MaskedSpan     string `json:"masked_span,omitempty"`
}

// ValidationReport is the result of post-validating a generated explanation.
type ValidationReport struct {
	Valid     bool            `json:"valid"`
	Reason    string          `json:"reason,omitempty"`
	WordCount int             `json:"word_count"`
	Findings  []SafetyFinding `json:"findings,omitempty"`
}

// ExplainResponse is the full result of one explanation request.
type ExplainResponse struct {
	Explanation       string            `json:"explanation"`
	Mode              Mode              `json:"mode"`
	RetrievedExamples []*ScoredExample  `json:"retrieved_examples"`
	SafetyFindings    []SafetyFinding   `json:"safety_findings,omitempty"`
	Validation        *ValidationReport `json:"validation,omitempty"`
	LatencyMs         int64             `json:"latency_ms"`
	// Degraded is true when a rag request fell back to basic mode because
	// the encoder or store was unavailable.
	Degraded bool `json:"degraded,omitempty"`
}
