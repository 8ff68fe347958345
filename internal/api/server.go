// Package api exposes the paper translation pipeline over HTTP: job
// submission, polling, results, and operational stats.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jaehyuk-choi/papertrans/internal/config"
	"github.com/jaehyuk-choi/papertrans/internal/pipeline"
	"github.com/jaehyuk-choi/papertrans/internal/translate"
)

// Server is the HTTP API server for papertrans.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	stats        *translate.LLMStats
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, stats *translate.LLMStats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		stats:        stats,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// API endpoints; auth only applies when a key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/papers/translate", s.handleTranslate)
		r.Post("/api/papers/summarize", s.handleSummarize)
		r.Get("/api/papers/jobs/{jobID}", s.handleJobStatus)
		r.Get("/api/papers/jobs/{jobID}/result", s.handleJobResult)

		r.Get("/api/stats/llm", s.handleLLMStats)
		r.Get("/api/cache/stats", s.handleCacheStats)
		r.Delete("/api/cache", s.handleCacheClear)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":      "ok",
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}
