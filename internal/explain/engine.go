// Package explain orchestrates the full explanation pipeline.
package explain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/kaiseki/internal/embedding"
	"github.com/hyperjump/kaiseki/internal/generate"
	"github.com/hyperjump/kaiseki/internal/metrics"
	"github.com/hyperjump/kaiseki/internal/models"
	"github.com/hyperjump/kaiseki/internal/prompt"
	"github.com/hyperjump/kaiseki/internal/ranking"
	"github.com/hyperjump/kaiseki/internal/safety"
	"github.com/hyperjump/kaiseki/internal/store"
	"github.com/hyperjump/kaiseki/pkg/utils"
)

// Engine runs one request through screening, retrieval, assembly, generation,
// and validation. Stateless per request; safe for concurrent use.
type Engine struct {
	embedder  embedding.Embedder
	store     *store.Store
	ranker    *ranking.Ranker
	assembler *prompt.Assembler
	guard     *safety.Guard
	generator generate.Generator
	monitor   *metrics.Monitor
	logger    *zap.Logger

	genMaxTokens   int
	genTemperature float64
}

// Options bundles the engine's collaborators.
type Options struct {
	Embedder  embedding.Embedder
	Store     *store.Store
	Ranker    *ranking.Ranker
	Assembler *prompt.Assembler
	Guard     *safety.Guard
	Generator generate.Generator
	Monitor   *metrics.Monitor
	Logger    *zap.Logger

	GenerationMaxTokens   int
	GenerationTemperature float64
}

// NewEngine creates an Engine.
func NewEngine(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		embedder:       opts.Embedder,
		store:          opts.Store,
		ranker:         opts.Ranker,
		assembler:      opts.Assembler,
		guard:          opts.Guard,
		generator:      opts.Generator,
		monitor:        opts.Monitor,
		logger:         logger,
		genMaxTokens:   opts.GenerationMaxTokens,
		genTemperature: opts.GenerationTemperature,
	}
}

// Explain runs the pipeline for one query.
//
// A rag request degrades to basic (zero examples) when the encoder or store is
// unavailable; that outcome is a successful response with Degraded set, not an
// error. Exactly one metrics sample is recorded per finished request, including
// requests rejected before screening. Caller cancellation records nothing: an
// abandoned request says nothing about service health.
func (e *Engine) Explain(ctx context.Context, query *models.ExplainQuery) (*models.ExplainResponse, error) {
	start := time.Now()
	if err := query.Validate(); err != nil {
		mode := query.Mode
		if mode == "" {
			mode = models.ModeRAG
		}
		if e.monitor != nil {
			e.monitor.Record(mode, time.Since(start).Milliseconds(), false)
		}
		return nil, &InputError{Reason: err.Error()}
	}

	requestID := uuid.New().String()
	logger := e.logger.With(zap.String("request_id", requestID))

	resp, err := e.run(ctx, query, logger)
	latency := time.Since(start).Milliseconds()

	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil, err
	}

	mode := query.Mode
	if resp != nil {
		mode = resp.Mode
		resp.LatencyMs = latency
	}
	if e.monitor != nil {
		e.monitor.Record(mode, latency, err == nil)
	}

	if err != nil {
		logger.Error("explanation failed",
			zap.Int64("latency_ms", latency),
			zap.Error(err))
		return nil, err
	}

	logger.Info("explanation completed",
		zap.String("mode", string(resp.Mode)),
		zap.Int("examples", len(resp.RetrievedExamples)),
		zap.Bool("degraded", resp.Degraded),
		zap.Int64("latency_ms", latency))
	return resp, nil
}

func (e *Engine) run(ctx context.Context, query *models.ExplainQuery, logger *zap.Logger) (*models.ExplainResponse, error) {
	findings, masked := e.guard.PreScreen(query.Code)
	// Only the masked form of the query ever reaches the logs.
	logger.Debug("query received",
		zap.String("code", utils.Truncate(masked, 200)),
		zap.String("mode", string(query.Mode)))

	resp := &models.ExplainResponse{
		Mode:              query.Mode,
		RetrievedExamples: []*models.ScoredExample{},
		SafetyFindings:    findings,
	}

	if query.Mode == models.ModeRAG {
		examples, degraded, err := e.retrieve(ctx, query, logger)
		if err != nil {
			return nil, err
		}
		// The degraded path yields no slice at all; the response always
		// carries an empty list, never null.
		if examples != nil {
			resp.RetrievedExamples = examples
		}
		resp.Degraded = degraded
		if degraded {
			resp.Mode = models.ModeBasic
		}
	}

	text, kept := e.assembler.Build(resp.RetrievedExamples, query.Code, query.LanguageHint)
	resp.RetrievedExamples = kept

	explanation, err := e.generator.Generate(ctx, generate.Request{
		Prompt:      text,
		MaxTokens:   e.genMaxTokens,
		Temperature: e.genTemperature,
	})
	if err != nil {
		return nil, err
	}

	resp.Explanation = explanation
	resp.Validation = e.guard.PostValidate(explanation)
	return resp, nil
}

// retrieve embeds the query and ranks nearest neighbors. Encoder or store
// unavailability degrades to zero examples instead of failing the request.
func (e *Engine) retrieve(ctx context.Context, query *models.ExplainQuery, logger *zap.Logger) ([]*models.ScoredExample, bool, error) {
	vec, err := e.embedder.Embed(ctx, query.Code)
	if err != nil {
		if errors.Is(err, embedding.ErrUnavailable) {
			logger.Warn("encoder unavailable, degrading to basic mode", zap.Error(err))
			return nil, true, nil
		}
		return nil, false, err
	}

	hits, err := e.store.Nearest(ctx, vec, e.ranker.CandidateK())
	if err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			logger.Warn("store unavailable, degrading to basic mode", zap.Error(err))
			return nil, true, nil
		}
		return nil, false, err
	}

	return e.ranker.Rank(hits, query.Code, query.LanguageHint), false, nil
}
