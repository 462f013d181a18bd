package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/martengale/foxbox/internal/lobby"
	"github.com/martengale/foxbox/internal/processor"
)

// RoomHandler exposes the room registry to operators.
type RoomHandler struct {
	rooms *lobby.Registry
	proc  *processor.Processor
}

// NewRoomHandler creates a new RoomHandler.
func NewRoomHandler(rooms *lobby.Registry, proc *processor.Processor) *RoomHandler {
	return &RoomHandler{rooms: rooms, proc: proc}
}

// MemberResponse is the API view of one room member.
type MemberResponse struct {
	Player    string    `json:"player"`
	Name      string    `json:"name"`
	SessionID string    `json:"session_id"`
	UserID    int32     `json:"user_id"`
	Owner     bool      `json:"owner"`
	Ready     bool      `json:"ready"`
	JoinedAt  time.Time `json:"joined_at"`
}

// RoomResponse is the API view of one room.
type RoomResponse struct {
	ID           int32            `json:"id"`
	Name         string           `json:"name"`
	Group        string           `json:"group"`
	HasPassword  bool             `json:"has_password"`
	Started      bool             `json:"started"`
	MaxPlayers   int              `json:"max_players"`
	MapName      string           `json:"map_name,omitempty"`
	Members      []MemberResponse `json:"members"`
	CreatedAt    time.Time        `json:"created_at"`
	LastActivity time.Time        `json:"last_activity"`
}

func roomToResponse(snap lobby.Snapshot) RoomResponse {
	members := make([]MemberResponse, 0, len(snap.Members))
	for _, m := range snap.Members {
		members = append(members, MemberResponse{
			Player:    m.Player.Key(),
			Name:      m.Player.Name(),
			SessionID: m.SessionID,
			UserID:    m.UserID,
			Owner:     m.Owner,
			Ready:     m.Ready,
			JoinedAt:  m.JoinedAt,
		})
	}
	return RoomResponse{
		ID:           snap.ID,
		Name:         snap.Name,
		Group:        snap.Group,
		HasPassword:  snap.HasPassword,
		Started:      snap.Started,
		MaxPlayers:   snap.Settings.MaxPlayers,
		MapName:      snap.Settings.MapName,
		Members:      members,
		CreatedAt:    snap.CreatedAt,
		LastActivity: snap.LastActivity,
	}
}

// List handles GET /api/v1/rooms.
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	snaps := h.rooms.List()
	rooms := make([]RoomResponse, 0, len(snaps))
	for _, snap := range snaps {
		rooms = append(rooms, roomToResponse(snap))
	}
	WriteJSONOK(w, rooms)
}

// Get handles GET /api/v1/rooms/{id}.
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := roomIDParam(w, r)
	if !ok {
		return
	}
	snap, err := h.rooms.Get(id)
	if err != nil {
		if errors.Is(err, lobby.ErrRoomNotFound) {
			NotFound(w, "Room not found")
			return
		}
		InternalServerError(w, "Failed to get room")
		return
	}
	WriteJSONOK(w, roomToResponse(snap))
}

// Delete handles DELETE /api/v1/rooms/{id}.
//
// Members are kicked by disconnecting their sessions, which runs the
// normal leave fan-out; removing the last member removes the room.
func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := roomIDParam(w, r)
	if !ok {
		return
	}
	snap, err := h.rooms.Get(id)
	if err != nil {
		if errors.Is(err, lobby.ErrRoomNotFound) {
			NotFound(w, "Room not found")
			return
		}
		InternalServerError(w, "Failed to get room")
		return
	}

	for _, m := range snap.Members {
		h.proc.DisconnectSession(m.SessionID, "room closed by operator")
	}
	// The disconnect cascade removes the room with its last member. A stale
	// member whose session is already gone would leave the room behind.
	if _, err := h.rooms.Get(id); err == nil {
		_, _ = h.rooms.Remove(id)
	}

	WriteJSONOK(w, map[string]interface{}{
		"room_id": id,
		"kicked":  len(snap.Members),
	})
}

func roomIDParam(w http.ResponseWriter, r *http.Request) (int32, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		BadRequest(w, "Invalid room id")
		return 0, false
	}
	return int32(id), true
}
