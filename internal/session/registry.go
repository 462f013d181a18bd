package session

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/martengale/foxbox/internal/logger"
)

// Registry errors.
var (
	// ErrUnknownSession indicates the id is not (or no longer) registered.
	ErrUnknownSession = errors.New("unknown session")

	// ErrQueueFull indicates the outbound queue hit its limit; the newest
	// frame was dropped.
	ErrQueueFull = errors.New("session queue full")
)

// IDPattern matches every id the registry generates.
var IDPattern = regexp.MustCompile(`^SESS_[0-9A-F]{16}$`)

// Registry owns all live sessions behind a single RWMutex index.
type Registry struct {
	mu         sync.RWMutex
	sessions   map[string]*Session
	queueLimit int
	nextUserID int32

	now func() time.Time
}

// NewRegistry returns an empty session registry. queueLimit <= 0 uses
// DefaultQueueLimit.
func NewRegistry(queueLimit int) *Registry {
	if queueLimit <= 0 {
		queueLimit = DefaultQueueLimit
	}
	return &Registry{
		sessions:   make(map[string]*Session),
		queueLimit: queueLimit,
		now:        time.Now,
	}
}

// newID renders 64 random bits as SESS_ + 16 uppercase hex digits.
func newID() (string, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return fmt.Sprintf("SESS_%016X", binary.BigEndian.Uint64(buf[:])), nil
}

// Create registers a new session. Collisions on the random id retry; the
// probability is negligible but the check is cheap.
func (r *Registry) Create(transport, clientIP string) (*Session, error) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	var id string
	for {
		var err error
		id, err = newID()
		if err != nil {
			return nil, err
		}
		if _, exists := r.sessions[id]; !exists {
			break
		}
	}

	r.nextUserID++
	s := &Session{
		ID:           id,
		Transport:    transport,
		ClientIP:     clientIP,
		CreatedAt:    now,
		UserID:       r.nextUserID,
		lastActivity: now,
		queueLimit:   r.queueLimit,
		wake:         make(chan struct{}, 1),
	}
	r.sessions[id] = s

	logger.Debug("Session created", "session_id", id, "transport", transport, "client_ip", clientIP)
	return s, nil
}

// Get resolves a session by id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrUnknownSession
	}
	return s, nil
}

// Touch bumps the activity clock. Returns false when the session is gone.
func (r *Registry) Touch(id string) bool {
	s, err := r.Get(id)
	if err != nil {
		return false
	}
	s.Touch(r.now())
	return true
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// List snapshots the live sessions in no particular order.
func (r *Registry) List() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

// Remove unregisters and closes a session. Returns the removed session so
// the caller can cascade room leaves; ErrUnknownSession when already gone.
func (r *Registry) Remove(id string) (*Session, error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	if !ok {
		return nil, ErrUnknownSession
	}
	s.close()
	logger.Debug("Session removed", "session_id", id, "transport", s.Transport)
	return s, nil
}

// Reap collects and removes sessions idle past the cutoff. The caller (the
// janitor, through the processor) cascades the room leaves for each one.
func (r *Registry) Reap(idleCutoff time.Duration) []*Session {
	deadline := r.now().Add(-idleCutoff)

	r.mu.Lock()
	var victims []*Session
	for id, s := range r.sessions {
		if s.LastActivity().Before(deadline) {
			delete(r.sessions, id)
			victims = append(victims, s)
		}
	}
	r.mu.Unlock()

	for _, s := range victims {
		s.close()
		logger.Info("Session reaped", "session_id", s.ID, "transport", s.Transport, "idle_since", s.LastActivity())
	}
	return victims
}
