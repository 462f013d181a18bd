package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/martengale/foxbox/internal/processor"
	"github.com/martengale/foxbox/internal/session"
)

// SessionHandler exposes the session registry to operators.
type SessionHandler struct {
	sessions *session.Registry
	proc     *processor.Processor
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions *session.Registry, proc *processor.Processor) *SessionHandler {
	return &SessionHandler{sessions: sessions, proc: proc}
}

// SessionResponse is the API view of one session.
type SessionResponse struct {
	ID           string    `json:"id"`
	Transport    string    `json:"transport"`
	ClientIP     string    `json:"client_ip"`
	Player       string    `json:"player,omitempty"`
	UserID       int32     `json:"user_id"`
	Rooms        []int32   `json:"rooms,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

func sessionToResponse(s *session.Session) SessionResponse {
	resp := SessionResponse{
		ID:           s.ID,
		Transport:    s.Transport,
		ClientIP:     s.ClientIP,
		UserID:       s.UserID,
		Rooms:        s.Rooms(),
		CreatedAt:    s.CreatedAt,
		LastActivity: s.LastActivity(),
	}
	if player, ok := s.Player(); ok {
		resp.Player = player.Key()
	}
	return resp
}

// List handles GET /api/v1/sessions.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	all := h.sessions.List()
	out := make([]SessionResponse, 0, len(all))
	for _, s := range all {
		out = append(out, sessionToResponse(s))
	}
	WriteJSONOK(w, out)
}

// Delete handles DELETE /api/v1/sessions/{id}.
// Kicks the session: room memberships cascade through the normal leave
// fan-out.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.sessions.Get(id); err != nil {
		NotFound(w, "Session not found")
		return
	}
	h.proc.DisconnectSession(id, "kicked by operator")
	WriteJSONOK(w, map[string]string{"session_id": id})
}
