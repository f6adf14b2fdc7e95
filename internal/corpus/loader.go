// Package corpus loads example documents from disk into the store.
package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/hyperjump/kaiseki/internal/models"
	"github.com/hyperjump/kaiseki/internal/store"
)

// fileDocument is the on-disk shape of one corpus entry.
type fileDocument struct {
	ID          string `json:"id,omitempty"`
	Code        string `json:"code"`
	Language    string `json:"language"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
	Explanation string `json:"explanation"`
}

// Load reads a JSON corpus file (an array of documents) and ingests it.
// Entries with empty code or explanation are skipped with a warning rather
// than failing the whole file. Returns the number of documents ingested.
func Load(ctx context.Context, path string, st *store.Store, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read corpus file: %w", err)
	}

	var entries []fileDocument
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("failed to parse corpus file: %w", err)
	}

	inputs := make([]*models.DocumentInput, 0, len(entries))
	for i, e := range entries {
		if e.Code == "" || e.Explanation == "" {
			logger.Warn("skipping incomplete corpus entry", zap.Int("index", i))
			continue
		}
		inputs = append(inputs, &models.DocumentInput{
			ID:          e.ID,
			Code:        e.Code,
			Language:    e.Language,
			Category:    e.Category,
			Subcategory: e.Subcategory,
			Difficulty:  mapDifficulty(e.Difficulty),
			Explanation: e.Explanation,
		})
	}
	if len(inputs) == 0 {
		return 0, nil
	}

	if err := st.Ingest(ctx, inputs); err != nil {
		return 0, err
	}
	logger.Info("corpus loaded",
		zap.String("path", path),
		zap.Int("documents", len(inputs)))
	return len(inputs), nil
}

// mapDifficulty normalizes the difficulty labels found in corpus files.
func mapDifficulty(s string) models.Difficulty {
	switch s {
	case "beginner", "easy":
		return models.DifficultyEasy
	case "intermediate", "medium":
		return models.DifficultyMedium
	case "advanced", "hard":
		return models.DifficultyHard
	default:
		return models.DifficultyMedium
	}
}
