// Package ranking turns raw similarity hits into a filtered, ordered example list.
package ranking

// Config holds all tunables for relevance scoring.
type Config struct {
	// TopK is the maximum number of examples returned.
	TopK int `yaml:"top_k"` // default: 3
	// CandidateK is how many raw neighbors to request before filtering.
	CandidateK int `yaml:"candidate_k"` // default: 10
	// RelevanceThreshold filters out examples whose final score is below it.
	RelevanceThreshold float64 `yaml:"relevance_threshold"` // default: 0.65
	// LanguageBonus is added when the document language matches the query hint.
	LanguageBonus float64 `yaml:"language_bonus"` // default: 0.05
	// LengthRatio is the max allowed ratio between query and document code
	// lengths before the length penalty applies.
	LengthRatio float64 `yaml:"length_ratio"` // default: 4.0
	// LengthPenalty is subtracted when the length ratio is exceeded.
	LengthPenalty float64 `yaml:"length_penalty"` // default: 0.1
}

// DefaultConfig returns the default ranking configuration.
func DefaultConfig() *Config {
	return &Config{
		TopK:               3,
		CandidateK:         10,
		RelevanceThreshold: 0.65,
		LanguageBonus:      0.05,
		LengthRatio:        4.0,
		LengthPenalty:      0.1,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()
	if c.TopK == 0 {
		c.TopK = defaults.TopK
	}
	if c.CandidateK == 0 {
		c.CandidateK = defaults.CandidateK
	}
	if c.RelevanceThreshold == 0 {
		c.RelevanceThreshold = defaults.RelevanceThreshold
	}
	if c.LanguageBonus == 0 {
		c.LanguageBonus = defaults.LanguageBonus
	}
	if c.LengthRatio == 0 {
		c.LengthRatio = defaults.LengthRatio
	}
	if c.LengthPenalty == 0 {
		c.LengthPenalty = defaults.LengthPenalty
	}
}
