package processor

import (
	"context"

	"github.com/martengale/foxbox/internal/lobby"
	"github.com/martengale/foxbox/internal/logger"
	"github.com/martengale/foxbox/internal/protocol/sfs2x"
	"github.com/martengale/foxbox/internal/session"
)

// handleExtension dispatches a callExtension envelope by its cmd string.
// Unknown commands are dropped, matching the lenient treatment of unknown
// actions.
func (p *Processor) handleExtension(ctx context.Context, s *session.Session, msg *sfs2x.Message) error {
	cmd, err := msg.Params.GetString(sfs2x.KeyExtCmd)
	if err != nil {
		return errInvalid("extension call without a command")
	}
	payload := sfs2x.NewObject()
	if msg.Params.Has(sfs2x.KeyExtParams) {
		payload, err = msg.Params.GetObject(sfs2x.KeyExtParams)
		if err != nil {
			return errInvalid("extension params must be an object")
		}
	}

	switch cmd {
	case sfs2x.CmdFindLobbies:
		return p.handleFindLobbies(s, payload)
	case sfs2x.CmdLobbyCount:
		return p.handleLobbyCount(s, payload)
	case sfs2x.CmdQuickJoin:
		return p.handleQuickJoin(s, payload)
	case sfs2x.CmdStartGame:
		return p.handleStartGame(s, msg)
	case sfs2x.CmdSetTeam:
		return p.handleSetTeam(s, payload)
	case sfs2x.CmdSetHandicap:
		return p.handleSetHandicap(s, payload)
	}

	logger.Debug("Unknown extension command dropped", "session_id", s.ID, "cmd", cmd)
	return nil
}

// groupFrom reads the optional group parameter, falling back to the
// configured default.
func (p *Processor) groupFrom(payload *sfs2x.Object) string {
	if payload.Has(sfs2x.KeyRoomGroup) {
		if g, err := payload.GetString(sfs2x.KeyRoomGroup); err == nil && g != "" {
			return g
		}
	}
	return p.defaultGroup
}

// handleFindLobbies lists the joinable rooms of a group as room-objects.
func (p *Processor) handleFindLobbies(s *session.Session, payload *sfs2x.Object) error {
	limit := 0
	if payload.Has(sfs2x.KeyLimit) {
		n, err := payload.GetAsInt(sfs2x.KeyLimit)
		if err != nil {
			return errInvalid("limit must be numeric")
		}
		limit = int(n)
	}

	list := sfs2x.NewArray()
	for _, snap := range p.rooms.FindJoinable(p.groupFrom(payload), limit) {
		list.AddArray(encodeRoom(snap))
	}
	resp := sfs2x.NewObject().PutArray(sfs2x.KeyRoomList, list)
	p.send(s, extensionResponse(sfs2x.CmdFindLobbies, resp))
	return nil
}

// handleLobbyCount reports the number of rooms in a group.
func (p *Processor) handleLobbyCount(s *session.Session, payload *sfs2x.Object) error {
	count := p.rooms.CountGroup(p.groupFrom(payload))
	resp := sfs2x.NewObject().PutInt(sfs2x.KeyCount, int32(count))
	p.send(s, extensionResponse(sfs2x.CmdLobbyCount, resp))
	return nil
}

// handleQuickJoin joins the first password-free joinable room of a group.
// Candidates that fill up between listing and joining are skipped; running
// out of candidates reads as room-not-found.
func (p *Processor) handleQuickJoin(s *session.Session, payload *sfs2x.Object) error {
	player, err := requirePlayer(s)
	if err != nil {
		return err
	}

	for _, candidate := range p.rooms.FindJoinable(p.groupFrom(payload), 0) {
		if candidate.HasPassword {
			continue
		}
		snap, err := p.rooms.Join(candidate.ID, combinedFor(s, player), s.ID, s.UserID, "")
		if err != nil {
			continue
		}
		s.BindRoom(snap.ID)
		p.send(s, roomResponse(sfs2x.ActionJoinRoom, snap))
		if joined, ok := snap.Member(player.Key()); ok {
			p.fanOut(snap, s.ID, userEnterRoomEvent(snap, joined))
		}
		p.fanOut(snap, s.ID, userCountChangeEvent(snap.ID, snap.MemberCount()))
		return nil
	}
	return lobby.ErrRoomNotFound
}

// handleStartGame runs the owner's start negotiation and broadcasts the
// rendezvous material to every member, the owner included.
func (p *Processor) handleStartGame(s *session.Session, msg *sfs2x.Message) error {
	player, err := requirePlayer(s)
	if err != nil {
		return err
	}
	roomID, ok := extensionRoom(s, msg)
	if !ok {
		return errInvalid("not in a room")
	}

	info, err := p.rooms.StartGame(roomID, player.Key())
	if err != nil {
		return err
	}
	hostBlob, err := info.Host.Encode()
	if err != nil {
		return err
	}

	p.metrics.RecordGameStarted()
	p.fanOut(info.Room, "", gameStartedEvent(hostBlob, info.MatchToken, info.Seed))
	return nil
}

// handleSetTeam records the requester's own team slot and broadcasts the
// updated settings.
func (p *Processor) handleSetTeam(s *session.Session, payload *sfs2x.Object) error {
	player, err := requirePlayer(s)
	if err != nil {
		return err
	}
	team, err := payload.GetShort(sfs2x.KeyTeam)
	if err != nil {
		return errInvalid("setTeam requires a team")
	}
	roomID, ok := s.CurrentRoom()
	if !ok {
		return errInvalid("not in a room")
	}

	snap, err := p.rooms.SetTeam(roomID, player.Key(), team)
	if err != nil {
		return err
	}
	p.fanOut(snap, "", roomSettingsEvent(snap))
	return nil
}

// handleSetHandicap records the requester's own handicap. The client has
// shipped both short keys over time, so both are accepted.
func (p *Processor) handleSetHandicap(s *session.Session, payload *sfs2x.Object) error {
	player, err := requirePlayer(s)
	if err != nil {
		return err
	}
	key := sfs2x.KeyHandicap
	if !payload.Has(key) {
		key = sfs2x.KeyHost
	}
	handicap, err := payload.GetShort(key)
	if err != nil {
		return errInvalid("setHandicap requires a handicap")
	}
	roomID, ok := s.CurrentRoom()
	if !ok {
		return errInvalid("not in a room")
	}

	snap, err := p.rooms.SetHandicap(roomID, player.Key(), handicap)
	if err != nil {
		return err
	}
	p.fanOut(snap, "", roomSettingsEvent(snap))
	return nil
}

// extensionRoom resolves the target room of an extension call: the "r"
// parameter when present and not the zone-wide sentinel, else the session's
// current room.
func extensionRoom(s *session.Session, msg *sfs2x.Message) (int32, bool) {
	if msg.Params.Has(sfs2x.KeyRoomID) {
		if id, err := msg.Params.GetAsInt(sfs2x.KeyRoomID); err == nil && id >= 0 {
			return id, true
		}
	}
	return s.CurrentRoom()
}
