package server

import (
	"net/http"

	"github.com/aristath/alpha/internal/utils"
)

// Version is reported by the health endpoint
var Version = "dev"

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"version": Version,
		"service": "alpha",
	}

	if s.system != nil && s.system.db != nil {
		if err := s.system.db.HealthCheck(r.Context()); err != nil {
			s.log.Error().Err(err).Msg("Health check failed")
			response["status"] = "unhealthy"
			response["error"] = err.Error()
			utils.WriteJSON(w, s.log, http.StatusServiceUnavailable, response)
			return
		}
	}

	utils.WriteJSON(w, s.log, http.StatusOK, response)
}
