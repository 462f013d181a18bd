package lobby

import (
	"sync"
	"time"

	"github.com/martengale/foxbox/internal/identity"
)

// DefaultGroup is the room group lobbies land in unless the create request
// names another.
const DefaultGroup = "lobbies"

// member is a room's per-player record. Insertion order is tracked on the
// room; the earliest-joined member inherits ownership when the owner leaves.
type member struct {
	combined  identity.CombinedID
	sessionID string
	userID    int32
	ready     bool
	joinedAt  time.Time
}

// Room is the registry's live record. All fields past the immutable header
// are guarded by mu; nothing outside this package ever touches a live Room.
type Room struct {
	id      int32
	group   string
	created time.Time

	mu           sync.RWMutex
	name         string
	password     string
	settings     Settings
	ownerKey     string
	memberOrder  []string // canonical keys, join order
	members      map[string]*member
	started      bool
	lastActivity time.Time

	// removed is set under both locks when the room is unlinked from the
	// registry. A caller that resolved the room pointer before the unlink
	// and wins the room lock afterwards must treat the room as gone.
	removed bool
}

// Member is the immutable per-player view carried by a Snapshot.
type Member struct {
	Player    identity.PlayerID
	SessionID string
	UserID    int32
	Owner     bool
	Ready     bool
	JoinedAt  time.Time
}

// Snapshot is the post-commit view of a room. It is safe to hold across
// lock boundaries; the processor builds events and fan-out lists from it.
type Snapshot struct {
	ID           int32
	Name         string
	Group        string
	HasPassword  bool
	OwnerKey     string
	Settings     Settings
	Members      []Member // join order
	Started      bool
	CreatedAt    time.Time
	LastActivity time.Time
}

// MemberCount returns the current membership size.
func (s Snapshot) MemberCount() int { return len(s.Members) }

// Joinable reports whether a join attempt can succeed, password aside.
func (s Snapshot) Joinable() bool {
	return !s.Started && len(s.Members) < s.Settings.MaxPlayers
}

// Member looks up a member by canonical player key.
func (s Snapshot) Member(key string) (Member, bool) {
	for _, m := range s.Members {
		if m.Player.Key() == key {
			return m, true
		}
	}
	return Member{}, false
}

// Owner returns the owning member. A room always has its owner as a member,
// so the lookup only misses on a zero Snapshot.
func (s Snapshot) Owner() (Member, bool) {
	return s.Member(s.OwnerKey)
}

// snapshotLocked copies the room state. Callers hold at least the read lock.
func (r *Room) snapshotLocked() Snapshot {
	members := make([]Member, 0, len(r.memberOrder))
	for _, key := range r.memberOrder {
		m := r.members[key]
		members = append(members, Member{
			Player:    m.combined.Player,
			SessionID: m.sessionID,
			UserID:    m.userID,
			Owner:     key == r.ownerKey,
			Ready:     m.ready,
			JoinedAt:  m.joinedAt,
		})
	}
	return Snapshot{
		ID:           r.id,
		Name:         r.name,
		Group:        r.group,
		HasPassword:  r.password != "",
		OwnerKey:     r.ownerKey,
		Settings:     r.settings.Clone(),
		Members:      members,
		Started:      r.started,
		CreatedAt:    r.created,
		LastActivity: r.lastActivity,
	}
}

// touchLocked bumps the activity clock. Every mutating operation calls it
// so the reaper only collects genuinely abandoned rooms.
func (r *Room) touchLocked(now time.Time) {
	r.lastActivity = now
}

// removeMemberLocked drops a member and repairs the join-order index.
func (r *Room) removeMemberLocked(key string) {
	delete(r.members, key)
	for i, k := range r.memberOrder {
		if k == key {
			r.memberOrder = append(r.memberOrder[:i], r.memberOrder[i+1:]...)
			break
		}
	}
}
