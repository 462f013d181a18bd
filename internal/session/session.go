// Package session tracks connected clients: opaque SESS_ ids, per-session
// FIFO outbound queues, activity clocks and the bindings (player, rooms)
// the processor needs to cascade a disconnect.
//
// Both transports speak through here. BlueBox clients drain their queue via
// poll requests; the TCP adapter runs a writer goroutine that blocks on the
// session's wake channel. Either way the processor only ever enqueues.
package session

import (
	"sync"
	"time"

	"github.com/martengale/foxbox/internal/identity"
)

// Transport names recorded on a session for logging and metrics.
const (
	TransportBlueBox = "bluebox"
	TransportTCP     = "tcp"
)

// DefaultQueueLimit bounds the outbound queue. Overflow drops the newest
// frame; a client that never polls should not pin server memory.
const DefaultQueueLimit = 1024

// Session is one logical client connection. All mutable state is guarded
// by mu except the handling mutex, which the processor holds for the whole
// of a data-frame dispatch so overlapping requests on one session
// serialize.
type Session struct {
	// Immutable after creation.
	ID        string
	Transport string
	ClientIP  string
	CreatedAt time.Time
	UserID    int32

	// handling serializes processor dispatches for this session. It is
	// deliberately separate from mu: dispatch holds it across registry
	// calls, while mu only ever guards short field accesses.
	handling sync.Mutex

	mu           sync.Mutex
	lastActivity time.Time
	handshaken   bool
	player       identity.PlayerID
	loggedIn     bool
	gamePort     int32
	provider     string
	rooms        []int32
	queue        []string
	queueLimit   int
	closed       bool

	// wake is a 1-buffered signal channel: Enqueue posts, the TCP drainer
	// blocks on it. BlueBox ignores it and polls on the client's cadence.
	wake chan struct{}
}

// LockHandling serializes message processing on this session.
func (s *Session) LockHandling() { s.handling.Lock() }

// UnlockHandling releases the processing lock.
func (s *Session) UnlockHandling() { s.handling.Unlock() }

// Wake returns the channel Enqueue signals on. Receivers must tolerate
// spurious wakes and re-check the queue.
func (s *Session) Wake() <-chan struct{} { return s.wake }

// Touch bumps the activity clock.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.lastActivity = now
	s.mu.Unlock()
}

// LastActivity returns the activity clock.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// MarkHandshaken records a completed protocol handshake. Every other
// request is rejected until this happens.
func (s *Session) MarkHandshaken() {
	s.mu.Lock()
	s.handshaken = true
	s.mu.Unlock()
}

// Handshaken reports whether the handshake completed.
func (s *Session) Handshaken() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handshaken
}

// BindPlayer records the logged-in identity. A second login on the same
// session overwrites the first; the client never does this, but the server
// does not care.
func (s *Session) BindPlayer(p identity.PlayerID) {
	s.mu.Lock()
	s.player = p
	s.loggedIn = true
	s.mu.Unlock()
}

// SetEndpoint records the rendezvous extras a login may carry: the port
// the client accepts peer connections on and an optional relay provider.
func (s *Session) SetEndpoint(gamePort int32, provider string) {
	s.mu.Lock()
	s.gamePort = gamePort
	s.provider = provider
	s.mu.Unlock()
}

// Endpoint returns the rendezvous port and provider from login, zero values
// when the login never carried them.
func (s *Session) Endpoint() (int32, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gamePort, s.provider
}

// UnbindPlayer clears the identity on logout.
func (s *Session) UnbindPlayer() {
	s.mu.Lock()
	s.player = identity.PlayerID{}
	s.loggedIn = false
	s.mu.Unlock()
}

// Player returns the bound identity and whether login happened.
func (s *Session) Player() (identity.PlayerID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player, s.loggedIn
}

// BindRoom records room membership on the session.
func (s *Session) BindRoom(roomID int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.rooms {
		if id == roomID {
			return
		}
	}
	s.rooms = append(s.rooms, roomID)
}

// UnbindRoom removes a room binding.
func (s *Session) UnbindRoom(roomID int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, id := range s.rooms {
		if id == roomID {
			s.rooms = append(s.rooms[:i], s.rooms[i+1:]...)
			return
		}
	}
}

// Rooms returns a copy of the bound room ids.
func (s *Session) Rooms() []int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int32(nil), s.rooms...)
}

// CurrentRoom returns the most recently joined room, which is where
// room-scoped requests without an explicit room id land.
func (s *Session) CurrentRoom() (int32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.rooms) == 0 {
		return 0, false
	}
	return s.rooms[len(s.rooms)-1], true
}

// Enqueue appends a base64-encoded frame to the outbound queue and signals
// the wake channel. At the queue limit the newest frame is dropped and
// ErrQueueFull returned; the caller logs, the client misses an event.
func (s *Session) Enqueue(frame string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrUnknownSession
	}
	if len(s.queue) >= s.queueLimit {
		s.mu.Unlock()
		return ErrQueueFull
	}
	s.queue = append(s.queue, frame)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return nil
}

// Poll pops the oldest queued frame. Non-blocking; the BlueBox client
// drives the cadence.
func (s *Session) Poll() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return "", false
	}
	frame := s.queue[0]
	s.queue = s.queue[1:]
	return frame, true
}

// QueueLen returns the number of pending frames.
func (s *Session) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// close marks the session dead so late enqueues fail instead of piling
// frames onto a queue nobody will drain. Called by the registry only.
func (s *Session) close() {
	s.mu.Lock()
	s.closed = true
	s.queue = nil
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Closed reports whether the registry already removed the session.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
