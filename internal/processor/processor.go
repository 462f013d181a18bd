// Package processor is the transport-agnostic message core. It decodes
// envelope frames, dispatches on (controller, action), mutates the session
// and room registries and enqueues response/event frames onto session
// queues. It never touches a socket; the adapters own all I/O.
package processor

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/martengale/foxbox/internal/identity"
	"github.com/martengale/foxbox/internal/lobby"
	"github.com/martengale/foxbox/internal/logger"
	"github.com/martengale/foxbox/internal/protocol/sfs2x"
	"github.com/martengale/foxbox/internal/session"
	"github.com/martengale/foxbox/internal/telemetry"
	"github.com/martengale/foxbox/pkg/metrics"
)

// Processor wires the two registries together behind Process. One instance
// serves all transports; per-session serialization happens on the session's
// handling lock, so concurrent calls for different sessions never contend.
type Processor struct {
	sessions *session.Registry
	rooms    *lobby.Registry
	metrics  metrics.LobbyMetrics

	defaultGroup string
	now          func() time.Time
}

// New creates a processor over the given registries. defaultGroup is where
// create/find requests without an explicit group land; empty falls back to
// the lobby package default. m may be nil (metrics disabled).
func New(sessions *session.Registry, rooms *lobby.Registry, m metrics.LobbyMetrics, defaultGroup string) *Processor {
	if defaultGroup == "" {
		defaultGroup = lobby.DefaultGroup
	}
	if m == nil {
		m = metrics.NopLobby()
	}
	return &Processor{
		sessions:     sessions,
		rooms:        rooms,
		metrics:      m,
		defaultGroup: defaultGroup,
		now:          time.Now,
	}
}

// wireError is a request failure with a pinned protocol error code. Handlers
// return it for validation failures; registry sentinels are mapped in
// codeFor.
type wireError struct {
	code int16
	msg  string
}

func (e *wireError) Error() string { return e.msg }

func errInvalid(format string, args ...any) error {
	return &wireError{code: sfs2x.ErrorCodeInvalidData, msg: fmt.Sprintf(format, args...)}
}

// codeFor maps a handler error onto a wire error code. The second return is
// false for errors that must not become an error response (malformed frames,
// internal failures); the transport deals with those.
func codeFor(err error) (int16, bool) {
	var we *wireError
	if errors.As(err, &we) {
		return we.code, true
	}
	switch {
	case errors.Is(err, lobby.ErrRoomNotFound),
		errors.Is(err, lobby.ErrAlreadyStarted):
		return sfs2x.ErrorCodeRoomNotFound, true
	case errors.Is(err, lobby.ErrRoomFull):
		return sfs2x.ErrorCodeRoomFull, true
	case errors.Is(err, lobby.ErrWrongPassword):
		return sfs2x.ErrorCodeRoomWrongPassword, true
	case errors.Is(err, lobby.ErrNotOwner):
		return sfs2x.ErrorCodeRoomPermission, true
	case errors.Is(err, lobby.ErrNotReady),
		errors.Is(err, lobby.ErrNotEnoughPlayers):
		return sfs2x.ErrorCodeRoomNotReady, true
	case errors.Is(err, lobby.ErrOwnerHasRoom):
		return sfs2x.ErrorCodeRoomDuplicate, true
	case errors.Is(err, lobby.ErrInvalidSettings),
		errors.Is(err, lobby.ErrSchemaMismatch),
		errors.Is(err, lobby.ErrCapacityBelowMembers),
		errors.Is(err, lobby.ErrNotMember),
		errors.Is(err, lobby.ErrAlreadyMember):
		return sfs2x.ErrorCodeInvalidData, true
	}
	return 0, false
}

// Process handles one inbound frame for a session. The returned error is
// transport-fatal: unknown session, malformed frame or an internal failure.
// Request-level failures become error response frames on the session queue
// and Process returns nil.
func (p *Processor) Process(ctx context.Context, sessionID string, frame []byte) error {
	s, err := p.sessions.Get(sessionID)
	if err != nil {
		return err
	}

	s.LockHandling()
	defer s.UnlockHandling()

	s.Touch(p.now())
	p.metrics.RecordFrameIn(s.Transport, len(frame))

	start := p.now()
	msg, err := sfs2x.DecodeMessage(frame)
	if err != nil {
		p.metrics.RecordProcess("decode", "malformed", p.now().Sub(start))
		logger.Warn("Malformed frame", "session_id", sessionID, "error", err)
		return err
	}

	name := actionName(msg)
	ctx, span := telemetry.StartRequestSpan(ctx, name, s.Transport, sessionID,
		telemetry.Controller(int(msg.Controller)))
	defer span.End()

	err = p.dispatch(ctx, s, msg)
	outcome := "ok"
	if err != nil {
		code, ok := codeFor(err)
		if !ok {
			p.metrics.RecordProcess(name, "malformed", p.now().Sub(start))
			telemetry.RecordError(ctx, err)
			return err
		}
		outcome = "error"
		logger.Debug("Request failed", "session_id", sessionID, "action", name, "code", code, "error", err)
		p.send(s, sfs2x.NewErrorResponse(msg.Controller, msg.Action, code, err.Error()))
	}
	p.metrics.RecordProcess(name, outcome, p.now().Sub(start))
	return nil
}

// dispatch routes a decoded envelope. The handshake is the only request a
// fresh session may issue; everything else on a pre-handshake session is
// treated as a malformed stream and kills the connection.
func (p *Processor) dispatch(ctx context.Context, s *session.Session, msg *sfs2x.Message) error {
	if msg.Controller == sfs2x.ControllerSystem && msg.Action == sfs2x.ActionHandshake {
		return p.handleHandshake(s, msg)
	}
	if !s.Handshaken() {
		return &sfs2x.FrameError{Offset: -1, Reason: "request before handshake"}
	}

	switch msg.Controller {
	case sfs2x.ControllerSystem:
		switch msg.Action {
		case sfs2x.ActionLogin:
			return p.handleLogin(s, msg)
		case sfs2x.ActionLogout:
			return p.handleLogout(s, msg)
		case sfs2x.ActionPingPong:
			return p.handlePingPong(s, msg)
		case sfs2x.ActionCreateRoom:
			return p.handleCreateRoom(s, msg)
		case sfs2x.ActionJoinRoom:
			return p.handleJoinRoom(s, msg)
		case sfs2x.ActionLeaveRoom:
			return p.handleLeaveRoom(s, msg)
		case sfs2x.ActionSetUserVariables:
			return p.handleSetUserVariables(s, msg)
		case sfs2x.ActionSetRoomVariables:
			return p.handleSetRoomVariables(s, msg)
		}
	case sfs2x.ControllerExtension:
		if msg.Action == sfs2x.ActionCallExtension {
			return p.handleExtension(ctx, s, msg)
		}
	}

	logger.Debug("Unknown action dropped", "session_id", s.ID,
		"controller", msg.Controller, "action", msg.Action)
	return nil
}

// DisconnectSession removes a session and cascades its room memberships.
// Used by logout, transport drops, the janitor and the admin kick endpoint.
// Removing an already-gone session is a no-op.
func (p *Processor) DisconnectSession(sessionID, reason string) {
	s, err := p.sessions.Remove(sessionID)
	if err != nil {
		return
	}
	logger.Info("Session disconnected", "session_id", sessionID, "reason", reason, "transport", s.Transport)

	p.leaveAllRooms(s)
	p.metrics.SetActiveSessions(p.sessions.Count())
	p.metrics.SetActiveRooms(p.rooms.Count())
}

// ReapIdleSessions removes every session idle past the cutoff and cascades
// its room memberships, exactly like a transport drop. Returns the number
// of sessions reaped; the janitor drives this on its sweep cadence.
func (p *Processor) ReapIdleSessions(idleCutoff time.Duration) int {
	victims := p.sessions.Reap(idleCutoff)
	for _, s := range victims {
		p.leaveAllRooms(s)
	}
	if len(victims) > 0 {
		p.metrics.SetActiveSessions(p.sessions.Count())
		p.metrics.SetActiveRooms(p.rooms.Count())
	}
	return len(victims)
}

// leaveAllRooms walks the session's room bindings and leaves each, fanning
// the exit events out to the remaining members.
func (p *Processor) leaveAllRooms(s *session.Session) {
	player, ok := s.Player()
	if !ok {
		return
	}
	key := player.Key()
	for _, roomID := range s.Rooms() {
		res, err := p.rooms.Leave(roomID, key)
		s.UnbindRoom(roomID)
		if err != nil {
			continue
		}
		p.fanOutLeave(roomID, res)
	}
}

// fanOutLeave broadcasts the exit events a completed Leave requires: exit
// and count-change to the remaining members, plus a room-variables event
// when ownership transferred.
func (p *Processor) fanOutLeave(roomID int32, res lobby.LeaveResult) {
	if res.Removed {
		p.metrics.SetActiveRooms(p.rooms.Count())
		return
	}
	p.fanOut(res.Room, "", userExitRoomEvent(roomID, res.LeftSnapshot.UserID))
	p.fanOut(res.Room, "", userCountChangeEvent(roomID, res.Room.MemberCount()))
	if res.NewOwnerKey != "" {
		p.fanOut(res.Room, "", roomSettingsEvent(res.Room))
	}
}

// send encodes a message, base64s the payload and enqueues it for one
// session. Queue overflow drops the frame with a warning; the requester is
// never failed because a receiver stopped draining.
func (p *Processor) send(s *session.Session, msg *sfs2x.Message) {
	payload, err := msg.Encode()
	if err != nil {
		logger.Error("Encode outbound frame", "session_id", s.ID, "error", err)
		return
	}
	frame := base64.StdEncoding.EncodeToString(payload)
	if err := s.Enqueue(frame); err != nil {
		if errors.Is(err, session.ErrQueueFull) {
			p.metrics.RecordQueueDrop(s.Transport)
			logger.Warn("Outbound queue full, frame dropped", "session_id", s.ID, "queue_len", s.QueueLen())
		}
		return
	}
	p.metrics.RecordFrameOut(s.Transport, len(payload))
}

// fanOut delivers an event to every member of a room snapshot, skipping the
// session named by except (empty skips nobody). Each enqueue is independent;
// a dead member costs the others nothing.
func (p *Processor) fanOut(room lobby.Snapshot, except string, msg *sfs2x.Message) {
	for _, m := range room.Members {
		if m.SessionID == except {
			continue
		}
		target, err := p.sessions.Get(m.SessionID)
		if err != nil {
			continue
		}
		p.send(target, msg)
	}
}

// combinedFor builds the endpoint identity for a logged-in session.
func combinedFor(s *session.Session, player identity.PlayerID) identity.CombinedID {
	port, provider := s.Endpoint()
	return identity.CombinedID{
		Player:   player,
		IP:       s.ClientIP,
		Port:     int(port),
		Provider: provider,
	}
}

// requirePlayer gates room operations behind login.
func requirePlayer(s *session.Session) (identity.PlayerID, error) {
	player, ok := s.Player()
	if !ok {
		return identity.PlayerID{}, errInvalid("login required")
	}
	return player, nil
}

// actionName renders the metrics/tracing label for an envelope.
func actionName(msg *sfs2x.Message) string {
	if msg.Controller == sfs2x.ControllerExtension && msg.Action == sfs2x.ActionCallExtension {
		if cmd, err := msg.Params.GetString(sfs2x.KeyExtCmd); err == nil {
			return "ext:" + cmd
		}
		return "ext:unknown"
	}
	switch msg.Action {
	case sfs2x.ActionHandshake:
		return "handshake"
	case sfs2x.ActionLogin:
		return "login"
	case sfs2x.ActionLogout:
		return "logout"
	case sfs2x.ActionJoinRoom:
		return "joinRoom"
	case sfs2x.ActionCreateRoom:
		return "createRoom"
	case sfs2x.ActionSetRoomVariables:
		return "setRoomVariables"
	case sfs2x.ActionSetUserVariables:
		return "setUserVariables"
	case sfs2x.ActionLeaveRoom:
		return "leaveRoom"
	case sfs2x.ActionPingPong:
		return "pingPong"
	}
	return fmt.Sprintf("action_%d", msg.Action)
}
