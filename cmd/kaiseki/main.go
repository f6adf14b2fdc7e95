// Package main is the Kaiseki CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hyperjump/kaiseki/internal/config"
	"github.com/hyperjump/kaiseki/internal/corpus"
	"github.com/hyperjump/kaiseki/internal/embedding"
	"github.com/hyperjump/kaiseki/internal/explain"
	"github.com/hyperjump/kaiseki/internal/generate"
	"github.com/hyperjump/kaiseki/internal/metrics"
	"github.com/hyperjump/kaiseki/internal/models"
	"github.com/hyperjump/kaiseki/internal/prompt"
	"github.com/hyperjump/kaiseki/internal/ranking"
	"github.com/hyperjump/kaiseki/internal/safety"
	"github.com/hyperjump/kaiseki/internal/server"
	"github.com/hyperjump/kaiseki/internal/store"
	"github.com/hyperjump/kaiseki/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kaiseki/config.yaml"

// apiKeyEnv is the only source for the generation API key; it is never read
// from the config file.
const apiKeyEnv = "GENERATION_API_KEY"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// .env is optional; environment variables already set take precedence.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "explain":
		runExplain()
	case "ingest":
		runIngest()
	case "stats":
		runStats()
	case "version", "--version", "-v":
		fmt.Printf("kaiseki version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`Usage: kaiseki <command> [flags]

Commands:
  server    start the HTTP API server
  explain   explain a code snippet from a file or stdin
  ingest    load a JSON corpus file into the example store
  stats     print corpus statistics
  version   print version
  help      print this message
`)
}

// Components bundles everything the pipeline needs.
type Components struct {
	Store     *store.Store
	Embedder  embedding.Embedder
	Guard     *safety.Guard
	Monitor   *metrics.Monitor
	Engine    *explain.Engine
	Generator generate.Generator
}

// Close releases component resources.
func (c *Components) Close() {
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.Store != nil {
		_ = c.Store.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	var embedder embedding.Embedder
	onnxEmbedder, err := embedding.NewONNXEmbedder(
		cfg.Embedding.ModelPath,
		cfg.Embedding.Dimensions,
		cfg.Embedding.MaxTokens,
		cfg.Embedding.CacheSize,
	)
	if err != nil {
		logger.Warn("ONNX embedder unavailable, using mock embedder", zap.Error(err))
		embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	} else {
		embedder = onnxEmbedder
	}

	st, err := store.New(cfg.Storage.DatabasePath, embedder)
	if err != nil {
		_ = embedder.Close()
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	rules := safety.DefaultRuleSet()
	if cfg.Safety.RulesPath != "" {
		rules, err = safety.LoadRuleSet(cfg.Safety.RulesPath)
		if err != nil {
			_ = st.Close()
			_ = embedder.Close()
			return nil, fmt.Errorf("failed to load safety rules: %w", err)
		}
	}
	guard, err := safety.NewGuard(rules, safety.Options{
		MinWords:        cfg.Safety.MinWords,
		MinLength:       cfg.Safety.MinLength,
		MaskPlaceholder: cfg.Safety.MaskPlaceholder,
	}, logger)
	if err != nil {
		_ = st.Close()
		_ = embedder.Close()
		return nil, fmt.Errorf("failed to initialize safety guard: %w", err)
	}

	var counter prompt.TokenCounter
	tiktokenCounter, err := prompt.NewTiktokenCounter(cfg.Prompt.TokenizerEncoding)
	if err != nil {
		logger.Warn("tokenizer encoding unavailable, using length estimate", zap.Error(err))
		counter = prompt.EstimateCounter{}
	} else {
		counter = tiktokenCounter
	}
	assembler := prompt.NewAssembler(
		cfg.Prompt.SystemInstructions,
		cfg.Prompt.MaxTokens,
		cfg.Prompt.MaxExplanationLen,
		counter,
	)

	generator, err := generate.NewClient(generate.ClientOptions{
		BaseURL: cfg.Generation.BaseURL,
		APIKey:  os.Getenv(apiKeyEnv),
		Model:   cfg.Generation.Model,
		Timeout: time.Duration(cfg.Generation.TimeoutSec) * time.Second,
	}, logger)
	if err != nil {
		_ = st.Close()
		_ = embedder.Close()
		return nil, fmt.Errorf("failed to initialize generation client (set %s): %w", apiKeyEnv, err)
	}

	ranker := ranking.NewRanker(&ranking.Config{
		TopK:               cfg.Retrieval.TopK,
		CandidateK:         cfg.Retrieval.CandidateK,
		RelevanceThreshold: cfg.Retrieval.RelevanceThreshold,
		LanguageBonus:      cfg.Retrieval.LanguageBonus,
		LengthRatio:        cfg.Retrieval.LengthRatio,
		LengthPenalty:      cfg.Retrieval.LengthPenalty,
	})
	monitor := metrics.NewMonitor(cfg.Metrics.HistorySize, cfg.Metrics.LatencyCeilMs)

	engine := explain.NewEngine(explain.Options{
		Embedder:              embedder,
		Store:                 st,
		Ranker:                ranker,
		Assembler:             assembler,
		Guard:                 guard,
		Generator:             generator,
		Monitor:               monitor,
		Logger:                logger,
		GenerationMaxTokens:   cfg.Generation.MaxTokens,
		GenerationTemperature: cfg.Generation.Temperature,
	})

	return &Components{
		Store:     st,
		Embedder:  embedder,
		Guard:     guard,
		Monitor:   monitor,
		Engine:    engine,
		Generator: generator,
	}, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Corpus.Path != "" {
		if _, err := corpus.Load(context.Background(), cfg.Corpus.Path, components.Store, logger); err != nil {
			logger.Warn("corpus load failed", zap.String("path", cfg.Corpus.Path), zap.Error(err))
		}
		if cfg.Corpus.Watch {
			watchSvc := corpus.NewWatcher(cfg.Corpus.Path, func(path string) {
				if _, err := corpus.Load(context.Background(), path, components.Store, logger); err != nil {
					logger.Warn("corpus reload failed", zap.String("path", path), zap.Error(err))
				}
			}, logger)
			if err := watchSvc.Start(watchCtx); err != nil {
				logger.Fatal("Failed to start corpus watcher", zap.Error(err))
			}
			defer watchSvc.Stop()
		}
	}

	srv := server.NewServer(
		components.Engine,
		components.Store,
		components.Guard,
		components.Monitor,
		&cfg.Server,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runExplain() {
	fs := flag.NewFlagSet("explain", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	language := fs.String("language", "", "language hint for retrieval")
	mode := fs.String("mode", "rag", "explanation mode: rag or basic")
	outputJSON := fs.Bool("json", false, "print the full response as JSON")
	_ = fs.Parse(os.Args[2:])

	code, err := readCode(fs.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read code: %v\n", err)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	response, err := components.Engine.Explain(context.Background(), &models.ExplainQuery{
		Code:         code,
		LanguageHint: *language,
		Mode:         models.Mode(*mode),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Explain failed: %v\n", err)
		os.Exit(1)
	}

	if *outputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(response)
		return
	}
	fmt.Println(response.Explanation)
	if len(response.RetrievedExamples) > 0 {
		fmt.Printf("\n(%d examples used, mode %s, %dms)\n",
			len(response.RetrievedExamples), response.Mode, response.LatencyMs)
	}
}

// readCode reads the snippet from the first positional argument (a file path)
// or from stdin when no argument is given.
func readCode(args []string) (string, error) {
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: kaiseki ingest [flags] <corpus.json>")
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var embedder embedding.Embedder
	onnxEmbedder, err := embedding.NewONNXEmbedder(
		cfg.Embedding.ModelPath,
		cfg.Embedding.Dimensions,
		cfg.Embedding.MaxTokens,
		cfg.Embedding.CacheSize,
	)
	if err != nil {
		logger.Warn("ONNX embedder unavailable, using mock embedder", zap.Error(err))
		embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	} else {
		embedder = onnxEmbedder
	}
	defer embedder.Close()

	st, err := store.New(cfg.Storage.DatabasePath, embedder)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer st.Close()

	count, err := corpus.Load(context.Background(), fs.Arg(0), st, logger)
	if err != nil {
		logger.Fatal("Ingest failed", zap.Error(err))
	}
	fmt.Printf("Ingested %d documents (%d total)\n", count, st.Count())
}

func runStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	embedder := embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	defer embedder.Close()

	st, err := store.New(cfg.Storage.DatabasePath, embedder)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	stats := st.Stats()
	fmt.Printf("Documents: %d\n", stats.TotalDocuments)
	if len(stats.ByLanguage) > 0 {
		fmt.Println("By language:")
		for lang, n := range stats.ByLanguage {
			fmt.Printf("  %-12s %d\n", lang, n)
		}
	}
	if len(stats.ByCategory) > 0 {
		fmt.Println("By category:")
		for cat, n := range stats.ByCategory {
			fmt.Printf("  %-12s %d\n", cat, n)
		}
	}
}
