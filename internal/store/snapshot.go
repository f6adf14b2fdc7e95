package store

import (
	"sort"

	"github.com/hyperjump/kaiseki/internal/models"
	"github.com/hyperjump/kaiseki/pkg/utils"
)

// snapshot is an immutable view of the corpus. It is never mutated after
// construction; the Store swaps whole snapshots instead.
type snapshot struct {
	docs []*models.Document
}

func newSnapshot(docs []*models.Document) *snapshot {
	return &snapshot{docs: docs}
}

// nearest runs brute-force cosine search over the snapshot. Ties are broken by
// corpus insertion order so results are deterministic.
func (s *snapshot) nearest(query []float32, k int) []Hit {
	if k <= 0 || len(s.docs) == 0 {
		return nil
	}
	hits := make([]Hit, 0, len(s.docs))
	for _, doc := range s.docs {
		hits = append(hits, Hit{
			Document:   doc,
			Similarity: utils.CosineSimilarity(query, doc.Embedding),
		})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].Document.Seq < hits[j].Document.Seq
	})
	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k]
}
