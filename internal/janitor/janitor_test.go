package janitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martengale/foxbox/internal/identity"
	"github.com/martengale/foxbox/internal/lobby"
	"github.com/martengale/foxbox/internal/processor"
	"github.com/martengale/foxbox/internal/session"
)

func newTestJanitor(cfg Config) (*Janitor, *session.Registry, *lobby.Registry) {
	sessions := session.NewRegistry(0)
	rooms := lobby.NewRegistry()
	proc := processor.New(sessions, rooms, nil, "")
	return New(sessions, rooms, proc, nil, cfg), sessions, rooms
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.applyDefaults()
	assert.Equal(t, time.Minute, cfg.Interval)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdle)
	assert.Equal(t, 60*time.Minute, cfg.RoomIdle)
}

func TestReapSessionsCascadesRooms(t *testing.T) {
	j, sessions, rooms := newTestJanitor(Config{SessionIdle: time.Minute})

	idle, err := sessions.Create(session.TransportBlueBox, "10.0.0.1")
	require.NoError(t, err)
	idle.BindPlayer(identity.ParsePlayerID("steam:1"))

	snap, err := rooms.Create(identity.CombinedID{
		Player: identity.ParsePlayerID("steam:1"), IP: "10.0.0.1",
	}, idle.ID, idle.UserID, "", "", lobby.DefaultSettings("Stale"))
	require.NoError(t, err)
	idle.BindRoom(snap.ID)

	fresh, err := sessions.Create(session.TransportBlueBox, "10.0.0.2")
	require.NoError(t, err)

	idle.Touch(time.Now().Add(-time.Hour))
	j.reapSessions()

	_, err = sessions.Get(idle.ID)
	assert.ErrorIs(t, err, session.ErrUnknownSession)
	_, err = sessions.Get(fresh.ID)
	assert.NoError(t, err)

	// The owner was the only member, so the cascade removed the room too.
	_, err = rooms.Get(snap.ID)
	assert.ErrorIs(t, err, lobby.ErrRoomNotFound)
}

func TestReapRoomsClearsBindings(t *testing.T) {
	j, sessions, rooms := newTestJanitor(Config{RoomIdle: time.Nanosecond})

	s, err := sessions.Create(session.TransportTCP, "10.0.0.1")
	require.NoError(t, err)
	snap, err := rooms.Create(identity.CombinedID{
		Player: identity.ParsePlayerID("steam:1"), IP: "10.0.0.1",
	}, s.ID, s.UserID, "", "", lobby.DefaultSettings("Stale"))
	require.NoError(t, err)
	s.BindRoom(snap.ID)

	time.Sleep(5 * time.Millisecond)
	j.reapRooms()

	_, err = rooms.Get(snap.ID)
	assert.ErrorIs(t, err, lobby.ErrRoomNotFound)
	assert.Empty(t, s.Rooms())
}

func TestStartStop(t *testing.T) {
	j, _, _ := newTestJanitor(Config{Interval: time.Hour})
	require.NoError(t, j.Start())
	j.Stop()
}
