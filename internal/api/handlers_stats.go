package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "llm stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"engine": s.cfg.Engine,
		"stats":  s.stats.Snapshot(),
	})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	c := s.orchestrator.ResultCache()
	if c == nil {
		jsonError(w, "cache disabled", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(c.Stats())
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	c := s.orchestrator.ResultCache()
	if c == nil {
		jsonError(w, "cache disabled", http.StatusServiceUnavailable)
		return
	}
	if err := c.Clear(); err != nil {
		jsonError(w, "clear cache: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "cleared"})
}
