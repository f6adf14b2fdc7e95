// Package models defines core data structures for corpus documents, queries, and explanation results.
package models

import "time"

// Difficulty is the coarse difficulty level of a corpus example.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Document is an immutable corpus entry: a code example with its reference
// explanation and metadata. The embedding is owned by the store once ingested.
type Document struct {
	ID          string     `json:"id"`
	Code        string     `json:"code"`
	Language    string     `json:"language"`
	Category    string     `json:"category"`
	Subcategory string     `json:"subcategory,omitempty"`
	Difficulty  Difficulty `json:"difficulty,omitempty"`
	Explanation string     `json:"explanation"`
	Embedding   []float32  `json:"-"`
	// Seq is the corpus insertion order, used as a deterministic ranking tie-break.
	Seq       int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// DocumentInput is the input for ingesting a corpus document. ID and Embedding
// are optional; the store assigns a stable ID and computes the embedding when absent.
type DocumentInput struct {
	ID          string     `json:"id,omitempty"`
	Code        string     `json:"code"`
	Language    string     `json:"language,omitempty"`
	Category    string     `json:"category,omitempty"`
	Subcategory string     `json:"subcategory,omitempty"`
	Difficulty  Difficulty `json:"difficulty,omitempty"`
	Explanation string     `json:"explanation"`
	Embedding   []float32  `json:"-"`
}

// CorpusStats summarizes the ingested corpus.
type CorpusStats struct {
	TotalDocuments int            `json:"total_documents"`
	ByLanguage     map[string]int `json:"counts_by_language"`
	ByCategory     map[string]int `json:"counts_by_category"`
}
