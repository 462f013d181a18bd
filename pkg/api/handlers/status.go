package handlers

import (
	"net/http"
	"time"

	"github.com/martengale/foxbox/internal/lobby"
	"github.com/martengale/foxbox/internal/session"
	"github.com/martengale/foxbox/pkg/adapter"
)

// StatusHandler reports server-wide state for operators.
type StatusHandler struct {
	sessions  *session.Registry
	rooms     *lobby.Registry
	adapters  []adapter.Adapter
	version   string
	startedAt time.Time
}

// NewStatusHandler creates a new StatusHandler. The adapters slice is read
// only for protocol/port reporting.
func NewStatusHandler(sessions *session.Registry, rooms *lobby.Registry, adapters []adapter.Adapter, version string) *StatusHandler {
	return &StatusHandler{
		sessions:  sessions,
		rooms:     rooms,
		adapters:  adapters,
		version:   version,
		startedAt: time.Now(),
	}
}

// AdapterStatus describes one running protocol adapter.
type AdapterStatus struct {
	Protocol string `json:"protocol"`
	Port     int    `json:"port"`
}

// StatusResponse is the response body for GET /api/v1/status.
type StatusResponse struct {
	Version  string          `json:"version"`
	Uptime   string          `json:"uptime"`
	Sessions int             `json:"sessions"`
	Rooms    int             `json:"rooms"`
	Adapters []AdapterStatus `json:"adapters"`
}

// Status handles GET /api/v1/status.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	adapters := make([]AdapterStatus, 0, len(h.adapters))
	for _, a := range h.adapters {
		adapters = append(adapters, AdapterStatus{
			Protocol: a.Protocol(),
			Port:     a.Port(),
		})
	}

	WriteJSONOK(w, StatusResponse{
		Version:  h.version,
		Uptime:   time.Since(h.startedAt).Round(time.Second).String(),
		Sessions: h.sessions.Count(),
		Rooms:    h.rooms.Count(),
		Adapters: adapters,
	})
}
