package processor

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martengale/foxbox/internal/identity"
	"github.com/martengale/foxbox/internal/lobby"
	"github.com/martengale/foxbox/internal/protocol/sfs2x"
	"github.com/martengale/foxbox/internal/session"
)

func newTestProcessor(t *testing.T) (*Processor, *session.Registry, *lobby.Registry) {
	t.Helper()
	sessions := session.NewRegistry(0)
	rooms := lobby.NewRegistry()
	return New(sessions, rooms, nil, ""), sessions, rooms
}

func encodeFrame(t *testing.T, msg *sfs2x.Message) []byte {
	t.Helper()
	payload, err := msg.Encode()
	require.NoError(t, err)
	return payload
}

// popMessage decodes the oldest queued frame for a session.
func popMessage(t *testing.T, s *session.Session) *sfs2x.Message {
	t.Helper()
	frame, ok := s.Poll()
	require.True(t, ok, "expected a queued frame for %s", s.ID)
	payload, err := base64.StdEncoding.DecodeString(frame)
	require.NoError(t, err)
	msg, err := sfs2x.DecodeMessage(payload)
	require.NoError(t, err)
	return msg
}

func drain(s *session.Session) {
	for {
		if _, ok := s.Poll(); !ok {
			return
		}
	}
}

// connect creates a session and completes the handshake.
func connect(t *testing.T, p *Processor, sessions *session.Registry) *session.Session {
	t.Helper()
	s, err := sessions.Create(session.TransportTCP, "10.0.0.1")
	require.NoError(t, err)
	hs := sfs2x.NewMessage(sfs2x.ControllerSystem, sfs2x.ActionHandshake)
	require.NoError(t, p.Process(context.Background(), s.ID, encodeFrame(t, hs)))
	drain(s)
	return s
}

// login binds a player to a connected session.
func login(t *testing.T, p *Processor, s *session.Session, name string) {
	t.Helper()
	msg := sfs2x.NewMessage(sfs2x.ControllerSystem, sfs2x.ActionLogin)
	msg.Params.PutString(sfs2x.KeyUserName, name).
		PutObject(sfs2x.KeyUserParams, sfs2x.NewObject().
			PutString(sfs2x.KeyDisplayName, "Player "+name).
			PutInt(sfs2x.KeyPort, 7777))
	require.NoError(t, p.Process(context.Background(), s.ID, encodeFrame(t, msg)))
	drain(s)
}

// createRoom issues a default-settings createRoom and returns the room id.
func createRoom(t *testing.T, p *Processor, s *session.Session, name, password string) int32 {
	t.Helper()
	msg := sfs2x.NewMessage(sfs2x.ControllerSystem, sfs2x.ActionCreateRoom)
	msg.Params.PutString(sfs2x.KeyRoomName, name)
	if password != "" {
		msg.Params.PutString(sfs2x.KeyRoomPassword, password)
	}
	require.NoError(t, p.Process(context.Background(), s.ID, encodeFrame(t, msg)))
	resp := popMessage(t, s)
	require.Equal(t, sfs2x.ActionCreateRoom, resp.Action)
	require.True(t, resp.HasRoomID)
	return resp.RoomID
}

func joinRoom(t *testing.T, p *Processor, s *session.Session, roomID int32, password string) {
	t.Helper()
	msg := sfs2x.NewMessage(sfs2x.ControllerSystem, sfs2x.ActionJoinRoom)
	msg.Params.PutInt(sfs2x.KeyRoomID, roomID)
	if password != "" {
		msg.Params.PutString(sfs2x.KeyRoomPassword, password)
	}
	require.NoError(t, p.Process(context.Background(), s.ID, encodeFrame(t, msg)))
}

func setReady(t *testing.T, p *Processor, s *session.Session, ready bool) {
	t.Helper()
	triple := sfs2x.NewArray().
		AddString(sfs2x.VarReady).
		AddByte(sfs2x.VarTypeBool).
		AddBool(ready)
	msg := sfs2x.NewMessage(sfs2x.ControllerSystem, sfs2x.ActionSetUserVariables)
	msg.Params.PutArray(sfs2x.KeyVariables, sfs2x.NewArray().AddArray(triple))
	require.NoError(t, p.Process(context.Background(), s.ID, encodeFrame(t, msg)))
}

func extCall(t *testing.T, p *Processor, s *session.Session, cmd string, payload *sfs2x.Object) {
	t.Helper()
	if payload == nil {
		payload = sfs2x.NewObject()
	}
	msg := sfs2x.NewMessage(sfs2x.ControllerExtension, sfs2x.ActionCallExtension)
	msg.Params.
		PutString(sfs2x.KeyExtCmd, cmd).
		PutInt(sfs2x.KeyRoomID, -1).
		PutObject(sfs2x.KeyExtParams, payload)
	require.NoError(t, p.Process(context.Background(), s.ID, encodeFrame(t, msg)))
}

func errorCode(t *testing.T, msg *sfs2x.Message) int16 {
	t.Helper()
	code, err := msg.Params.GetShort(sfs2x.KeyErrorCode)
	require.NoError(t, err)
	return code
}

func TestHandshakeResponse(t *testing.T) {
	p, sessions, _ := newTestProcessor(t)
	s, err := sessions.Create(session.TransportBlueBox, "10.0.0.1")
	require.NoError(t, err)

	hs := sfs2x.NewMessage(sfs2x.ControllerSystem, sfs2x.ActionHandshake)
	require.NoError(t, p.Process(context.Background(), s.ID, encodeFrame(t, hs)))

	resp := popMessage(t, s)
	assert.Equal(t, sfs2x.ControllerSystem, resp.Controller)
	assert.Equal(t, sfs2x.ActionHandshake, resp.Action)

	token, err := resp.Params.GetString(sfs2x.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, s.ID, token)

	ct, err := resp.Params.GetInt(sfs2x.KeyCompressionThreshold)
	require.NoError(t, err)
	assert.Equal(t, int32(1<<31-1), ct)

	st, err := resp.Params.GetLong(sfs2x.KeyServerTime)
	require.NoError(t, err)
	assert.Positive(t, st)
	assert.True(t, s.Handshaken())
}

func TestRequestBeforeHandshakeRejected(t *testing.T) {
	p, sessions, _ := newTestProcessor(t)
	s, err := sessions.Create(session.TransportTCP, "10.0.0.1")
	require.NoError(t, err)

	msg := sfs2x.NewMessage(sfs2x.ControllerSystem, sfs2x.ActionLogin)
	msg.Params.PutString(sfs2x.KeyUserName, "steam:1")
	err = p.Process(context.Background(), s.ID, encodeFrame(t, msg))
	assert.ErrorIs(t, err, sfs2x.ErrMalformedFrame)
}

func TestProcessUnknownSession(t *testing.T) {
	p, _, _ := newTestProcessor(t)
	err := p.Process(context.Background(), "SESS_0000000000000000", []byte{0x12, 0x00, 0x00})
	assert.ErrorIs(t, err, session.ErrUnknownSession)
}

func TestLoginBindsPlayer(t *testing.T) {
	p, sessions, _ := newTestProcessor(t)
	s := connect(t, p, sessions)

	msg := sfs2x.NewMessage(sfs2x.ControllerSystem, sfs2x.ActionLogin)
	msg.Params.PutString(sfs2x.KeyUserName, "steam:76561198000000001").
		PutObject(sfs2x.KeyUserParams, sfs2x.NewObject().
			PutString(sfs2x.KeyDisplayName, "Commander").
			PutInt(sfs2x.KeyPort, 7777))
	require.NoError(t, p.Process(context.Background(), s.ID, encodeFrame(t, msg)))

	resp := popMessage(t, s)
	require.Equal(t, sfs2x.ActionLogin, resp.Action)

	id, err := resp.Params.GetInt(sfs2x.KeyUserID)
	require.NoError(t, err)
	assert.Equal(t, s.UserID, id)

	un, err := resp.Params.GetString(sfs2x.KeyUserName)
	require.NoError(t, err)
	assert.Equal(t, "steam:76561198000000001", un)

	player, ok := s.Player()
	require.True(t, ok)
	assert.Equal(t, identity.StorefrontSteam, player.Storefront)
	assert.Equal(t, "Commander", player.DisplayName)

	port, _ := s.Endpoint()
	assert.Equal(t, int32(7777), port)
}

func TestLoginWithoutUsername(t *testing.T) {
	p, sessions, _ := newTestProcessor(t)
	s := connect(t, p, sessions)

	msg := sfs2x.NewMessage(sfs2x.ControllerSystem, sfs2x.ActionLogin)
	require.NoError(t, p.Process(context.Background(), s.ID, encodeFrame(t, msg)))

	resp := popMessage(t, s)
	assert.Equal(t, sfs2x.ErrorCodeInvalidData, errorCode(t, resp))
}

func TestPingPong(t *testing.T) {
	p, sessions, _ := newTestProcessor(t)
	s := connect(t, p, sessions)

	ping := sfs2x.NewMessage(sfs2x.ControllerSystem, sfs2x.ActionPingPong)
	require.NoError(t, p.Process(context.Background(), s.ID, encodeFrame(t, ping)))

	resp := popMessage(t, s)
	assert.Equal(t, sfs2x.ActionPingPong, resp.Action)
	assert.Zero(t, resp.Params.Len())
}

func TestCreateRoomRequiresLogin(t *testing.T) {
	p, sessions, _ := newTestProcessor(t)
	s := connect(t, p, sessions)

	msg := sfs2x.NewMessage(sfs2x.ControllerSystem, sfs2x.ActionCreateRoom)
	msg.Params.PutString(sfs2x.KeyRoomName, "My Lobby")
	require.NoError(t, p.Process(context.Background(), s.ID, encodeFrame(t, msg)))

	resp := popMessage(t, s)
	assert.Equal(t, sfs2x.ErrorCodeInvalidData, errorCode(t, resp))
}

func TestCreateRoomResponseShape(t *testing.T) {
	p, sessions, _ := newTestProcessor(t)
	s := connect(t, p, sessions)
	login(t, p, s, "steam:1")

	msg := sfs2x.NewMessage(sfs2x.ControllerSystem, sfs2x.ActionCreateRoom)
	msg.Params.PutString(sfs2x.KeyRoomName, "My Lobby").
		PutShort(sfs2x.KeyMaxPlayers, 4)
	require.NoError(t, p.Process(context.Background(), s.ID, encodeFrame(t, msg)))

	resp := popMessage(t, s)
	require.Equal(t, sfs2x.ActionCreateRoom, resp.Action)
	require.True(t, resp.HasRoomID)

	roomObj, err := resp.Params.GetArray(sfs2x.KeyRoomID)
	require.NoError(t, err)
	require.Equal(t, 9, roomObj.Len())

	name, err := roomObj.StringAt(1)
	require.NoError(t, err)
	assert.Equal(t, "My Lobby", name)

	maxPlayers, err := roomObj.ShortAt(6)
	require.NoError(t, err)
	assert.Equal(t, int16(4), maxPlayers)

	members, err := roomObj.ArrayAt(8)
	require.NoError(t, err)
	require.Equal(t, 1, members.Len())

	owner, err := members.ArrayAt(0)
	require.NoError(t, err)
	isOwner, err := owner.BoolAt(3)
	require.NoError(t, err)
	assert.True(t, isOwner)
}

func TestJoinRoomFansOutEvents(t *testing.T) {
	p, sessions, _ := newTestProcessor(t)
	owner := connect(t, p, sessions)
	login(t, p, owner, "steam:1")
	roomID := createRoom(t, p, owner, "Lobby", "")

	joiner := connect(t, p, sessions)
	login(t, p, joiner, "steam:2")
	joinRoom(t, p, joiner, roomID, "")

	resp := popMessage(t, joiner)
	assert.Equal(t, sfs2x.ActionJoinRoom, resp.Action)
	assert.Equal(t, roomID, resp.RoomID)

	enter := popMessage(t, owner)
	assert.Equal(t, sfs2x.EventUserEnterRoom, enter.Action)
	memberObj, err := enter.Params.GetArray(sfs2x.KeyUser)
	require.NoError(t, err)
	canonical, err := memberObj.StringAt(1)
	require.NoError(t, err)
	assert.Equal(t, "steam:2", canonical)

	count := popMessage(t, owner)
	assert.Equal(t, sfs2x.EventUserCountChange, count.Action)
	uc, err := count.Params.GetShort(sfs2x.KeyUserCount)
	require.NoError(t, err)
	assert.Equal(t, int16(2), uc)
}

func TestJoinRoomWrongPassword(t *testing.T) {
	p, sessions, _ := newTestProcessor(t)
	owner := connect(t, p, sessions)
	login(t, p, owner, "steam:1")
	roomID := createRoom(t, p, owner, "Private", "hunter2")

	joiner := connect(t, p, sessions)
	login(t, p, joiner, "steam:2")
	joinRoom(t, p, joiner, roomID, "wrong")

	resp := popMessage(t, joiner)
	assert.Equal(t, sfs2x.ErrorCodeRoomWrongPassword, errorCode(t, resp))
	assert.Equal(t, 0, owner.QueueLen())
}

func TestJoinMissingRoom(t *testing.T) {
	p, sessions, _ := newTestProcessor(t)
	s := connect(t, p, sessions)
	login(t, p, s, "steam:1")
	joinRoom(t, p, s, 42, "")

	resp := popMessage(t, s)
	assert.Equal(t, sfs2x.ErrorCodeRoomNotFound, errorCode(t, resp))
}

func TestLeaveRoomTransfersOwnership(t *testing.T) {
	p, sessions, rooms := newTestProcessor(t)
	owner := connect(t, p, sessions)
	login(t, p, owner, "steam:1")
	roomID := createRoom(t, p, owner, "Lobby", "")

	joiner := connect(t, p, sessions)
	login(t, p, joiner, "steam:2")
	joinRoom(t, p, joiner, roomID, "")
	drain(owner)
	drain(joiner)

	leave := sfs2x.NewMessage(sfs2x.ControllerSystem, sfs2x.ActionLeaveRoom)
	leave.Params.PutInt(sfs2x.KeyRoomID, roomID)
	require.NoError(t, p.Process(context.Background(), owner.ID, encodeFrame(t, leave)))

	ack := popMessage(t, owner)
	assert.Equal(t, sfs2x.ActionLeaveRoom, ack.Action)

	exit := popMessage(t, joiner)
	assert.Equal(t, sfs2x.EventUserExitRoom, exit.Action)
	gone, err := exit.Params.GetInt(sfs2x.KeyUser)
	require.NoError(t, err)
	assert.Equal(t, owner.UserID, gone)

	count := popMessage(t, joiner)
	assert.Equal(t, sfs2x.EventUserCountChange, count.Action)

	transfer := popMessage(t, joiner)
	assert.Equal(t, sfs2x.ActionSetRoomVariables, transfer.Action)

	snap, err := rooms.Get(roomID)
	require.NoError(t, err)
	assert.Equal(t, "steam:2", snap.OwnerKey)
}

func TestLastLeaveRemovesRoom(t *testing.T) {
	p, sessions, rooms := newTestProcessor(t)
	owner := connect(t, p, sessions)
	login(t, p, owner, "steam:1")
	roomID := createRoom(t, p, owner, "Lobby", "")

	leave := sfs2x.NewMessage(sfs2x.ControllerSystem, sfs2x.ActionLeaveRoom)
	require.NoError(t, p.Process(context.Background(), owner.ID, encodeFrame(t, leave)))

	_, err := rooms.Get(roomID)
	assert.ErrorIs(t, err, lobby.ErrRoomNotFound)
	assert.Empty(t, owner.Rooms())
}

func TestReadyFlagFansOut(t *testing.T) {
	p, sessions, rooms := newTestProcessor(t)
	owner := connect(t, p, sessions)
	login(t, p, owner, "steam:1")
	roomID := createRoom(t, p, owner, "Lobby", "")

	joiner := connect(t, p, sessions)
	login(t, p, joiner, "steam:2")
	joinRoom(t, p, joiner, roomID, "")
	drain(owner)
	drain(joiner)

	setReady(t, p, joiner, true)

	for _, s := range []*session.Session{owner, joiner} {
		event := popMessage(t, s)
		assert.Equal(t, sfs2x.ActionSetUserVariables, event.Action)
		uid, err := event.Params.GetInt(sfs2x.KeyUser)
		require.NoError(t, err)
		assert.Equal(t, joiner.UserID, uid)
	}

	snap, err := rooms.Get(roomID)
	require.NoError(t, err)
	m, ok := snap.Member("steam:2")
	require.True(t, ok)
	assert.True(t, m.Ready)
}

func TestStartGameBroadcastsRendezvous(t *testing.T) {
	p, sessions, _ := newTestProcessor(t)
	owner := connect(t, p, sessions)
	login(t, p, owner, "steam:1")
	roomID := createRoom(t, p, owner, "Lobby", "")

	joiner := connect(t, p, sessions)
	login(t, p, joiner, "steam:2")
	joinRoom(t, p, joiner, roomID, "")
	setReady(t, p, joiner, true)
	drain(owner)
	drain(joiner)

	extCall(t, p, owner, sfs2x.CmdStartGame, nil)

	for _, s := range []*session.Session{owner, joiner} {
		event := popMessage(t, s)
		require.Equal(t, sfs2x.ControllerExtension, event.Controller)
		cmd, err := event.Params.GetString(sfs2x.KeyExtCmd)
		require.NoError(t, err)
		assert.Equal(t, sfs2x.CmdGameStarted, cmd)

		payload, err := event.Params.GetObject(sfs2x.KeyExtParams)
		require.NoError(t, err)
		token, err := payload.GetString(sfs2x.KeyMatchToken)
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		blob, err := payload.GetByteArray(sfs2x.KeyHost)
		require.NoError(t, err)
		host, err := identity.DecodeCombinedID(blob)
		require.NoError(t, err)
		assert.Equal(t, "steam:1", host.Player.Key())
		assert.Equal(t, "10.0.0.1", host.IP)
		assert.Equal(t, 7777, host.Port)
	}
}

func TestStartGameGate(t *testing.T) {
	p, sessions, _ := newTestProcessor(t)
	owner := connect(t, p, sessions)
	login(t, p, owner, "steam:1")
	roomID := createRoom(t, p, owner, "Lobby", "")

	// Alone: not enough players.
	extCall(t, p, owner, sfs2x.CmdStartGame, nil)
	resp := popMessage(t, owner)
	assert.Equal(t, sfs2x.ErrorCodeRoomNotReady, errorCode(t, resp))

	joiner := connect(t, p, sessions)
	login(t, p, joiner, "steam:2")
	joinRoom(t, p, joiner, roomID, "")
	drain(owner)
	drain(joiner)

	// Joiner not ready yet.
	extCall(t, p, owner, sfs2x.CmdStartGame, nil)
	resp = popMessage(t, owner)
	assert.Equal(t, sfs2x.ErrorCodeRoomNotReady, errorCode(t, resp))

	// Non-owner may not start at all.
	setReady(t, p, joiner, true)
	drain(owner)
	drain(joiner)
	extCall(t, p, joiner, sfs2x.CmdStartGame, nil)
	resp = popMessage(t, joiner)
	assert.Equal(t, sfs2x.ErrorCodeRoomPermission, errorCode(t, resp))
}

func TestFindLobbiesAndCount(t *testing.T) {
	p, sessions, _ := newTestProcessor(t)
	owner := connect(t, p, sessions)
	login(t, p, owner, "steam:1")
	createRoom(t, p, owner, "Lobby A", "")

	other := connect(t, p, sessions)
	login(t, p, other, "steam:2")

	extCall(t, p, other, sfs2x.CmdFindLobbies, nil)
	resp := popMessage(t, other)
	payload, err := resp.Params.GetObject(sfs2x.KeyExtParams)
	require.NoError(t, err)
	list, err := payload.GetArray(sfs2x.KeyRoomList)
	require.NoError(t, err)
	require.Equal(t, 1, list.Len())

	extCall(t, p, other, sfs2x.CmdLobbyCount, nil)
	resp = popMessage(t, other)
	payload, err = resp.Params.GetObject(sfs2x.KeyExtParams)
	require.NoError(t, err)
	count, err := payload.GetInt(sfs2x.KeyCount)
	require.NoError(t, err)
	assert.Equal(t, int32(1), count)
}

func TestQuickJoinSkipsPasswordedRooms(t *testing.T) {
	p, sessions, _ := newTestProcessor(t)
	owner := connect(t, p, sessions)
	login(t, p, owner, "steam:1")
	createRoom(t, p, owner, "Private", "secret")

	joiner := connect(t, p, sessions)
	login(t, p, joiner, "steam:2")
	extCall(t, p, joiner, sfs2x.CmdQuickJoin, nil)

	resp := popMessage(t, joiner)
	assert.Equal(t, sfs2x.ErrorCodeRoomNotFound, errorCode(t, resp))
}

func TestQuickJoinFindsOpenRoom(t *testing.T) {
	p, sessions, _ := newTestProcessor(t)
	owner := connect(t, p, sessions)
	login(t, p, owner, "steam:1")
	roomID := createRoom(t, p, owner, "Open", "")

	joiner := connect(t, p, sessions)
	login(t, p, joiner, "steam:2")
	extCall(t, p, joiner, sfs2x.CmdQuickJoin, nil)

	resp := popMessage(t, joiner)
	assert.Equal(t, sfs2x.ActionJoinRoom, resp.Action)
	assert.Equal(t, roomID, resp.RoomID)
}

func TestSetTeamBroadcastsSettings(t *testing.T) {
	p, sessions, rooms := newTestProcessor(t)
	owner := connect(t, p, sessions)
	login(t, p, owner, "steam:1")
	roomID := createRoom(t, p, owner, "Lobby", "")

	extCall(t, p, owner, sfs2x.CmdSetTeam, sfs2x.NewObject().PutShort(sfs2x.KeyTeam, 2))

	event := popMessage(t, owner)
	assert.Equal(t, sfs2x.ActionSetRoomVariables, event.Action)

	snap, err := rooms.Get(roomID)
	require.NoError(t, err)
	assert.Equal(t, int16(2), snap.Settings.Teams["steam:1"])
}

func TestDisconnectCascadesLeave(t *testing.T) {
	p, sessions, rooms := newTestProcessor(t)
	owner := connect(t, p, sessions)
	login(t, p, owner, "steam:1")
	roomID := createRoom(t, p, owner, "Lobby", "")

	joiner := connect(t, p, sessions)
	login(t, p, joiner, "steam:2")
	joinRoom(t, p, joiner, roomID, "")
	drain(owner)
	drain(joiner)

	p.DisconnectSession(joiner.ID, "transport closed")

	_, err := sessions.Get(joiner.ID)
	assert.ErrorIs(t, err, session.ErrUnknownSession)

	exit := popMessage(t, owner)
	assert.Equal(t, sfs2x.EventUserExitRoom, exit.Action)

	snap, err := rooms.Get(roomID)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.MemberCount())
}

func TestReapIdleSessionsCascadesRooms(t *testing.T) {
	p, sessions, rooms := newTestProcessor(t)
	owner := connect(t, p, sessions)
	login(t, p, owner, "steam:1")
	roomID := createRoom(t, p, owner, "Lobby", "")

	idler := connect(t, p, sessions)
	login(t, p, idler, "steam:2")
	joinRoom(t, p, idler, roomID, "")
	drain(owner)
	drain(idler)

	idler.Touch(time.Now().Add(-time.Hour))

	assert.Equal(t, 1, p.ReapIdleSessions(30*time.Minute))

	_, err := sessions.Get(idler.ID)
	assert.ErrorIs(t, err, session.ErrUnknownSession)

	exit := popMessage(t, owner)
	assert.Equal(t, sfs2x.EventUserExitRoom, exit.Action)

	snap, err := rooms.Get(roomID)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.MemberCount())

	assert.Zero(t, p.ReapIdleSessions(30*time.Minute))
}

func TestLogoutLeavesRooms(t *testing.T) {
	p, sessions, rooms := newTestProcessor(t)
	owner := connect(t, p, sessions)
	login(t, p, owner, "steam:1")
	createRoom(t, p, owner, "Lobby", "")

	logout := sfs2x.NewMessage(sfs2x.ControllerSystem, sfs2x.ActionLogout)
	require.NoError(t, p.Process(context.Background(), owner.ID, encodeFrame(t, logout)))

	ack := popMessage(t, owner)
	assert.Equal(t, sfs2x.ActionLogout, ack.Action)
	assert.Zero(t, rooms.Count())

	_, loggedIn := owner.Player()
	assert.False(t, loggedIn)
}

func TestUnknownActionDropped(t *testing.T) {
	p, sessions, _ := newTestProcessor(t)
	s := connect(t, p, sessions)

	msg := sfs2x.NewMessage(sfs2x.ControllerSystem, 99)
	require.NoError(t, p.Process(context.Background(), s.ID, encodeFrame(t, msg)))
	assert.Zero(t, s.QueueLen())
}
