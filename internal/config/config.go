// Package config provides configuration loading and structs for the Kaiseki server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Prompt     PromptConfig     `yaml:"prompt"`
	Safety     SafetyConfig     `yaml:"safety"`
	Generation GenerationConfig `yaml:"generation"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Corpus     CorpusConfig     `yaml:"corpus"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds paths for the corpus database.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// EmbeddingConfig holds ONNX embedder settings.
type EmbeddingConfig struct {
	ModelPath  string `yaml:"model_path"`
	Dimensions int    `yaml:"dimensions"`
	MaxTokens  int    `yaml:"max_tokens"`
	CacheSize  int    `yaml:"cache_size"`
}

// RetrievalConfig holds ranking and candidate selection settings.
type RetrievalConfig struct {
	TopK               int     `yaml:"top_k"`
	CandidateK         int     `yaml:"candidate_k"`
	RelevanceThreshold float64 `yaml:"relevance_threshold"`
	LanguageBonus      float64 `yaml:"language_bonus"`
	LengthRatio        float64 `yaml:"length_ratio"`
	LengthPenalty      float64 `yaml:"length_penalty"`
}

// PromptConfig holds prompt assembly settings.
type PromptConfig struct {
	// MaxTokens is the serialized prompt budget; examples are dropped from the
	// tail of the ranked list until the assembled prompt fits.
	MaxTokens          int    `yaml:"max_tokens"`
	MaxExplanationLen  int    `yaml:"max_explanation_len"`
	TokenizerEncoding  string `yaml:"tokenizer_encoding"`
	SystemInstructions string `yaml:"system_instructions"`
}

// SafetyConfig holds screening settings.
type SafetyConfig struct {
	// RulesPath optionally points to a YAML rule set that replaces the built-in
	// patterns. An empty or unparseable rule set is a startup error.
	RulesPath     string `yaml:"rules_path"`
	MinWords      int    `yaml:"min_words"`
	MinLength     int    `yaml:"min_length"`
	MaskPlaceholder string `yaml:"mask_placeholder"`
}

// GenerationConfig holds generation back-end settings. The API key comes from
// the GENERATION_API_KEY environment variable, never from the config file.
type GenerationConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	TimeoutSec  int     `yaml:"timeout_sec"`
}

// MetricsConfig holds performance monitor settings.
type MetricsConfig struct {
	HistorySize  int   `yaml:"history_size"`
	LatencyCeilMs int64 `yaml:"latency_ceiling_ms"`
}

// CorpusConfig holds corpus loading settings.
type CorpusConfig struct {
	// Path is a JSON file of corpus documents loaded at startup.
	Path string `yaml:"path"`
	// Watch re-ingests the corpus when the file changes.
	Watch bool `yaml:"watch"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	if cfg.Safety.RulesPath != "" {
		cfg.Safety.RulesPath = expandPath(cfg.Safety.RulesPath, configDir)
	}
	if cfg.Corpus.Path != "" {
		cfg.Corpus.Path = expandPath(cfg.Corpus.Path, configDir)
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
