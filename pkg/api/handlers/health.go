package handlers

import (
	"net/http"

	"github.com/martengale/foxbox/internal/lobby"
	"github.com/martengale/foxbox/internal/session"
)

// HealthHandler handles health check endpoints.
//
// Health endpoints are unauthenticated:
//   - Liveness probe: Is the server process running?
//   - Readiness probe: Are the registries wired up?
type HealthHandler struct {
	sessions *session.Registry
	rooms    *lobby.Registry
}

// NewHealthHandler creates a new health handler. Either registry may be nil,
// in which case readiness reports unhealthy.
func NewHealthHandler(sessions *session.Registry, rooms *lobby.Registry) *HealthHandler {
	return &HealthHandler{sessions: sessions, rooms: rooms}
}

// Liveness handles GET /health - simple liveness probe.
//
// Returns 200 OK as long as the HTTP server is responsive. Designed for
// Kubernetes liveness probes.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthyResponse(map[string]string{
		"service": "foxbox",
	}))
}

// Readiness handles GET /health/ready - readiness probe.
//
// Returns 200 OK once the session and room registries exist; 503 otherwise.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.sessions == nil || h.rooms == nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("registries not initialized"))
		return
	}

	writeJSON(w, http.StatusOK, healthyResponse(map[string]interface{}{
		"sessions": h.sessions.Count(),
		"rooms":    h.rooms.Count(),
	}))
}
