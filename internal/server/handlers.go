package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/hyperjump/kaiseki/internal/explain"
	"github.com/hyperjump/kaiseki/internal/generate"
	"github.com/hyperjump/kaiseki/internal/models"
)

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var query models.ExplainQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("explain request",
		zap.String("mode", string(query.Mode)),
		zap.Int("code_len", len(query.Code)),
		zap.String("language_hint", query.LanguageHint))

	response, err := s.engine.Explain(r.Context(), &query)
	if err != nil {
		s.respondExplainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

// respondExplainError maps pipeline errors to HTTP statuses. Input problems
// are the caller's fault; generation failures depend on their kind. Responses
// carry fixed messages; underlying error text stays in the logs.
func (s *Server) respondExplainError(w http.ResponseWriter, err error) {
	var inputErr *explain.InputError
	if errors.As(err, &inputErr) {
		s.respondError(w, http.StatusBadRequest, inputErr.Error())
		return
	}
	var genErr *generate.Error
	if errors.As(err, &genErr) {
		switch genErr.Kind {
		case generate.KindAuth:
			s.respondError(w, http.StatusBadGateway, "generation back end rejected credentials")
		case generate.KindRateLimit:
			s.respondError(w, http.StatusTooManyRequests, "generation rate limit exceeded")
		case generate.KindTimeout:
			s.respondError(w, http.StatusGatewayTimeout, "generation timed out")
		default:
			s.logger.Error("generation failed", zap.Error(genErr))
			s.respondError(w, http.StatusInternalServerError, "generation failed")
		}
		return
	}
	s.logger.Error("explain failed", zap.Error(err))
	s.respondError(w, http.StatusInternalServerError, "internal error")
}

type validateRequest struct {
	Code string `json:"code"`
}

// handleValidate screens a snippet without generating an explanation.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Code == "" {
		s.respondError(w, http.StatusBadRequest, "code is required")
		return
	}
	findings, masked := s.guard.PreScreen(req.Code)
	if findings == nil {
		findings = []models.SafetyFinding{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"findings":    findings,
		"masked_code": masked,
	})
}

func (s *Server) handleCorpusIngest(w http.ResponseWriter, r *http.Request) {
	var inputs []*models.DocumentInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(inputs) == 0 {
		s.respondError(w, http.StatusBadRequest, "empty document batch")
		return
	}
	s.logger.Debug("corpus ingest request", zap.Int("documents", len(inputs)))
	if err := s.store.Ingest(r.Context(), inputs); err != nil {
		s.logger.Error("ingest failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to ingest documents")
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":    "ingested",
		"documents": len(inputs),
		"total":     s.store.Count(),
	})
}

func (s *Server) handleCorpusReset(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("corpus reset request")
	if err := s.store.Reset(r.Context()); err != nil {
		s.logger.Error("reset failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to reset corpus")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleCorpusStats(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.store.Stats())
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.monitor.Stats())
}

func (s *Server) handleMetricsHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"samples": s.monitor.Recent(limit),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := s.monitor.Stats()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    stats.Health,
		"documents": s.store.Count(),
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
