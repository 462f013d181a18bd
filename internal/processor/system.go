package processor

import (
	"math"

	"github.com/martengale/foxbox/internal/identity"
	"github.com/martengale/foxbox/internal/lobby"
	"github.com/martengale/foxbox/internal/protocol/sfs2x"
	"github.com/martengale/foxbox/internal/session"
)

// handleHandshake opens the protocol for a session. The token mirrors the
// session id; compression and encryption are disabled by pushing both
// thresholds to max-int32, which the 1.7.x client treats as "never".
func (p *Processor) handleHandshake(s *session.Session, msg *sfs2x.Message) error {
	s.MarkHandshaken()

	resp := sfs2x.NewMessage(sfs2x.ControllerSystem, sfs2x.ActionHandshake)
	resp.Params.
		PutString(sfs2x.KeyToken, s.ID).
		PutInt(sfs2x.KeyCompressionThreshold, math.MaxInt32).
		PutInt(sfs2x.KeyEncryptionThreshold, math.MaxInt32).
		PutLong(sfs2x.KeyServerTime, p.now().UnixMilli())
	p.send(s, resp)
	return nil
}

// handleLogin binds a player identity to the session. Any non-empty
// username is accepted; the nested params may carry a display name, a relay
// provider and the port the client accepts peer connections on.
func (p *Processor) handleLogin(s *session.Session, msg *sfs2x.Message) error {
	name, err := msg.Params.GetString(sfs2x.KeyUserName)
	if err != nil || name == "" {
		return errInvalid("login requires a username")
	}
	player := identity.ParsePlayerID(name)

	echo := sfs2x.NewObject()
	if msg.Params.Has(sfs2x.KeyUserParams) {
		extra, err := msg.Params.GetObject(sfs2x.KeyUserParams)
		if err != nil {
			return errInvalid("login params must be an object")
		}
		echo = extra
		if dn, err := extra.GetString(sfs2x.KeyDisplayName); err == nil {
			player.DisplayName = dn
		}
		var provider string
		if pv, err := extra.GetString(sfs2x.KeyProvider); err == nil {
			provider = pv
		}
		var port int32
		if pt, err := extra.GetAsInt(sfs2x.KeyPort); err == nil {
			port = pt
		}
		s.SetEndpoint(port, provider)
	}
	s.BindPlayer(player)

	resp := sfs2x.NewMessage(sfs2x.ControllerSystem, sfs2x.ActionLogin)
	resp.Params.
		PutInt(sfs2x.KeyUserID, s.UserID).
		PutString(sfs2x.KeyUserName, player.Key()).
		PutObject(sfs2x.KeyUserParams, echo)
	p.send(s, resp)
	return nil
}

// handleLogout leaves every bound room, clears the identity and acks. The
// session itself survives; the transport decides whether to drop it.
func (p *Processor) handleLogout(s *session.Session, msg *sfs2x.Message) error {
	p.leaveAllRooms(s)
	s.UnbindPlayer()
	p.metrics.SetActiveRooms(p.rooms.Count())
	p.send(s, sfs2x.NewMessage(sfs2x.ControllerSystem, sfs2x.ActionLogout))
	return nil
}

func (p *Processor) handlePingPong(s *session.Session, msg *sfs2x.Message) error {
	p.send(s, sfs2x.NewMessage(sfs2x.ControllerSystem, sfs2x.ActionPingPong))
	return nil
}

// handleCreateRoom builds a lobby. An absent settings tuple yields the
// defaults for the requested name; the capacity rides outside the tuple.
func (p *Processor) handleCreateRoom(s *session.Session, msg *sfs2x.Message) error {
	player, err := requirePlayer(s)
	if err != nil {
		return err
	}
	name, err := msg.Params.GetString(sfs2x.KeyRoomName)
	if err != nil || name == "" {
		return errInvalid("createRoom requires a room name")
	}

	group := p.defaultGroup
	if msg.Params.Has(sfs2x.KeyRoomGroup) {
		if g, err := msg.Params.GetString(sfs2x.KeyRoomGroup); err == nil && g != "" {
			group = g
		}
	}
	password := ""
	if msg.Params.Has(sfs2x.KeyRoomPassword) {
		password, _ = msg.Params.GetString(sfs2x.KeyRoomPassword)
	}
	maxPlayers := lobby.MaxPlayers
	if msg.Params.Has(sfs2x.KeyMaxPlayers) {
		n, err := msg.Params.GetAsInt(sfs2x.KeyMaxPlayers)
		if err != nil {
			return errInvalid("max players must be numeric")
		}
		maxPlayers = int(n)
	}

	settings := lobby.DefaultSettings(name)
	settings.MaxPlayers = maxPlayers
	if msg.Params.Has(sfs2x.KeySettings) {
		tuple, err := msg.Params.GetArray(sfs2x.KeySettings)
		if err != nil {
			return errInvalid("settings must be an array")
		}
		settings, err = lobby.FromTuple(tuple, maxPlayers)
		if err != nil {
			return err
		}
		if settings.Name == "" {
			settings.Name = name
		}
	}

	snap, err := p.rooms.Create(combinedFor(s, player), s.ID, s.UserID, group, password, settings)
	if err != nil {
		return err
	}
	s.BindRoom(snap.ID)
	p.metrics.SetActiveRooms(p.rooms.Count())
	p.send(s, roomResponse(sfs2x.ActionCreateRoom, snap))
	return nil
}

// handleJoinRoom adds the player to a room; the incumbents get enter and
// count-change events, the joiner gets the full room-object.
func (p *Processor) handleJoinRoom(s *session.Session, msg *sfs2x.Message) error {
	player, err := requirePlayer(s)
	if err != nil {
		return err
	}
	roomID, err := msg.Params.GetAsInt(sfs2x.KeyRoomID)
	if err != nil {
		return errInvalid("joinRoom requires a room id")
	}
	password := ""
	if msg.Params.Has(sfs2x.KeyRoomPassword) {
		password, _ = msg.Params.GetString(sfs2x.KeyRoomPassword)
	}

	snap, err := p.rooms.Join(roomID, combinedFor(s, player), s.ID, s.UserID, password)
	if err != nil {
		return err
	}
	s.BindRoom(roomID)
	p.send(s, roomResponse(sfs2x.ActionJoinRoom, snap))

	if joined, ok := snap.Member(player.Key()); ok {
		p.fanOut(snap, s.ID, userEnterRoomEvent(snap, joined))
	}
	p.fanOut(snap, s.ID, userCountChangeEvent(roomID, snap.MemberCount()))
	return nil
}

// handleLeaveRoom removes the player from a room, defaulting to the most
// recently joined one when the request names none.
func (p *Processor) handleLeaveRoom(s *session.Session, msg *sfs2x.Message) error {
	player, err := requirePlayer(s)
	if err != nil {
		return err
	}
	roomID, ok := int32(0), false
	if msg.Params.Has(sfs2x.KeyRoomID) {
		id, err := msg.Params.GetAsInt(sfs2x.KeyRoomID)
		if err != nil {
			return errInvalid("room id must be numeric")
		}
		roomID, ok = id, true
	} else {
		roomID, ok = s.CurrentRoom()
	}
	if !ok {
		return errInvalid("not in a room")
	}

	res, err := p.rooms.Leave(roomID, player.Key())
	s.UnbindRoom(roomID)
	if err != nil {
		return err
	}

	ack := sfs2x.NewMessage(sfs2x.ControllerSystem, sfs2x.ActionLeaveRoom).WithRoom(roomID)
	ack.Params.PutInt(sfs2x.KeyRoomID, roomID)
	p.send(s, ack)

	p.fanOutLeave(roomID, res)
	return nil
}

// handleSetUserVariables applies recognized variables and echoes the triples
// to the whole room. The only variable the lobby interprets is the boolean
// ready flag; everything else passes through untouched.
func (p *Processor) handleSetUserVariables(s *session.Session, msg *sfs2x.Message) error {
	player, err := requirePlayer(s)
	if err != nil {
		return err
	}
	triples, err := msg.Params.GetArray(sfs2x.KeyVariables)
	if err != nil {
		return errInvalid("setUserVariables requires a variable list")
	}

	roomID, inRoom := s.CurrentRoom()
	var snap lobby.Snapshot

	for i := 0; i < triples.Len(); i++ {
		triple, err := triples.ArrayAt(i)
		if err != nil {
			return errInvalid("variable %d is not a triple", i)
		}
		name, err := triple.StringAt(0)
		if err != nil {
			return errInvalid("variable %d has no name", i)
		}
		vtype, err := triple.ByteAt(1)
		if err != nil {
			return errInvalid("variable %q has no type", name)
		}
		if name != sfs2x.VarReady || vtype != sfs2x.VarTypeBool {
			continue
		}
		ready, err := triple.BoolAt(2)
		if err != nil {
			return errInvalid("ready flag must be a bool")
		}
		if !inRoom {
			return errInvalid("not in a room")
		}
		snap, err = p.rooms.SetReady(roomID, player.Key(), ready)
		if err != nil {
			return err
		}
	}

	event := userVariablesEvent(s.UserID, triples)
	if snap.ID != 0 {
		p.fanOut(snap, "", event)
		return nil
	}
	if inRoom {
		if current, err := p.rooms.Get(roomID); err == nil {
			p.fanOut(current, "", event)
			return nil
		}
	}
	p.send(s, event)
	return nil
}

// handleSetRoomVariables routes a "settings" variable through the owner-only
// settings update and broadcasts the committed tuple.
func (p *Processor) handleSetRoomVariables(s *session.Session, msg *sfs2x.Message) error {
	player, err := requirePlayer(s)
	if err != nil {
		return err
	}
	roomID, ok := int32(0), false
	if msg.Params.Has(sfs2x.KeyRoomID) {
		id, err := msg.Params.GetAsInt(sfs2x.KeyRoomID)
		if err != nil {
			return errInvalid("room id must be numeric")
		}
		roomID, ok = id, true
	} else {
		roomID, ok = s.CurrentRoom()
	}
	if !ok {
		return errInvalid("not in a room")
	}
	triples, err := msg.Params.GetArray(sfs2x.KeyVariables)
	if err != nil {
		return errInvalid("setRoomVariables requires a variable list")
	}

	current, err := p.rooms.Get(roomID)
	if err != nil {
		return err
	}

	var updated *lobby.Snapshot
	for i := 0; i < triples.Len(); i++ {
		triple, err := triples.ArrayAt(i)
		if err != nil {
			return errInvalid("variable %d is not a triple", i)
		}
		name, err := triple.StringAt(0)
		if err != nil {
			return errInvalid("variable %d has no name", i)
		}
		vtype, err := triple.ByteAt(1)
		if err != nil {
			return errInvalid("variable %q has no type", name)
		}
		if name != sfs2x.VarSettings || vtype != sfs2x.VarTypeArray {
			continue
		}
		tuple, err := triple.ArrayAt(2)
		if err != nil {
			return errInvalid("settings variable must be an array")
		}
		settings, err := lobby.FromTuple(tuple, current.Settings.MaxPlayers)
		if err != nil {
			return err
		}
		if settings.Name == "" {
			settings.Name = current.Name
		}
		snap, err := p.rooms.UpdateSettings(roomID, player.Key(), settings)
		if err != nil {
			return err
		}
		updated = &snap
	}

	if updated != nil {
		p.fanOut(*updated, "", roomSettingsEvent(*updated))
	}
	return nil
}
