package ranking

import (
	"sort"

	"github.com/hyperjump/kaiseki/internal/models"
	"github.com/hyperjump/kaiseki/internal/store"
)

// Ranker converts raw similarity hits plus metadata into the final ranked,
// filtered example list.
type Ranker struct {
	config *Config
}

// NewRanker creates a Ranker with the given configuration.
func NewRanker(config *Config) *Ranker {
	if config == nil {
		config = DefaultConfig()
	}
	config.ApplyDefaults()
	return &Ranker{config: config}
}

// Score computes the final relevance for one hit:
// base cosine similarity, plus the language bonus when the document language
// matches languageHint, minus the length penalty when code sizes diverge past
// the configured ratio. The result is clamped to [0,1].
func (r *Ranker) Score(hit store.Hit, queryCode, languageHint string) float64 {
	score := hit.Similarity

	if languageHint != "" && hit.Document.Language == languageHint {
		score += r.config.LanguageBonus
	}

	if penalized(len(queryCode), len(hit.Document.Code), r.config.LengthRatio) {
		score -= r.config.LengthPenalty
	}

	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score
}

// Rank scores, filters, and orders candidate hits. The output is sorted by
// non-increasing score with ties broken by corpus insertion order, holds at
// most TopK entries, and every entry scores at or above the threshold.
// An empty result is a valid outcome, not an error.
func (r *Ranker) Rank(hits []store.Hit, queryCode, languageHint string) []*models.ScoredExample {
	scored := make([]*models.ScoredExample, 0, len(hits))
	for _, hit := range hits {
		s := r.Score(hit, queryCode, languageHint)
		if s < r.config.RelevanceThreshold {
			continue
		}
		scored = append(scored, &models.ScoredExample{Document: hit.Document, Score: s})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Document.Seq < scored[j].Document.Seq
	})

	if len(scored) > r.config.TopK {
		scored = scored[:r.config.TopK]
	}
	for i, ex := range scored {
		ex.Rank = i + 1
	}
	return scored
}

// CandidateK returns how many raw neighbors the caller should request.
func (r *Ranker) CandidateK() int {
	if r.config.CandidateK < r.config.TopK {
		return r.config.TopK
	}
	return r.config.CandidateK
}

// penalized reports whether two code lengths differ by more than ratio.
func penalized(a, b int, ratio float64) bool {
	if a == 0 || b == 0 {
		return a != b
	}
	longer, shorter := a, b
	if shorter > longer {
		longer, shorter = shorter, longer
	}
	return float64(longer)/float64(shorter) > ratio
}
