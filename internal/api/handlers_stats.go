package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleTranslateStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "translation stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"backend":     s.cfg.TranslateBackend,
		"stats":       s.stats.Snapshot(),
		"queue_depth": s.orchestrator.QueueDepth(),
		"jobs":        s.orchestrator.JobCount(),
	})
}
