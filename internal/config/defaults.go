package config

// DefaultSystemInstructions is the generation system prompt used when the
// config file does not override it.
const DefaultSystemInstructions = "You are an expert programming instructor. " +
	"Analyze the given code and provide a clear, comprehensive explanation covering: " +
	"an overview, a step-by-step breakdown, the key concepts demonstrated, and any " +
	"potential issues or improvements."

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/kaiseki/data/db/corpus.db"
	}
	if cfg.Embedding.ModelPath == "" {
		cfg.Embedding.ModelPath = "/usr/local/var/kaiseki/data/models/all-MiniLM-L6-v2.onnx"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 3
	}
	if cfg.Retrieval.CandidateK == 0 {
		cfg.Retrieval.CandidateK = 10
	}
	if cfg.Retrieval.RelevanceThreshold == 0 {
		cfg.Retrieval.RelevanceThreshold = 0.65
	}
	if cfg.Retrieval.LanguageBonus == 0 {
		cfg.Retrieval.LanguageBonus = 0.05
	}
	if cfg.Retrieval.LengthRatio == 0 {
		cfg.Retrieval.LengthRatio = 4.0
	}
	if cfg.Retrieval.LengthPenalty == 0 {
		cfg.Retrieval.LengthPenalty = 0.1
	}
	if cfg.Prompt.MaxTokens == 0 {
		cfg.Prompt.MaxTokens = 6000
	}
	if cfg.Prompt.MaxExplanationLen == 0 {
		cfg.Prompt.MaxExplanationLen = 600
	}
	if cfg.Prompt.TokenizerEncoding == "" {
		cfg.Prompt.TokenizerEncoding = "cl100k_base"
	}
	if cfg.Prompt.SystemInstructions == "" {
		cfg.Prompt.SystemInstructions = DefaultSystemInstructions
	}
	if cfg.Safety.MinWords == 0 {
		cfg.Safety.MinWords = 10
	}
	if cfg.Safety.MinLength == 0 {
		cfg.Safety.MinLength = 50
	}
	if cfg.Safety.MaskPlaceholder == "" {
		cfg.Safety.MaskPlaceholder = "***REDACTED***"
	}
	if cfg.Generation.BaseURL == "" {
		cfg.Generation.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Generation.Model == "" {
		cfg.Generation.Model = "llama-3.3-70b-versatile"
	}
	if cfg.Generation.MaxTokens == 0 {
		cfg.Generation.MaxTokens = 2048
	}
	if cfg.Generation.Temperature == 0 {
		cfg.Generation.Temperature = 0.7
	}
	if cfg.Generation.TimeoutSec == 0 {
		cfg.Generation.TimeoutSec = 30
	}
	if cfg.Metrics.HistorySize == 0 {
		cfg.Metrics.HistorySize = 1000
	}
	if cfg.Metrics.LatencyCeilMs == 0 {
		cfg.Metrics.LatencyCeilMs = 5000
	}
}
