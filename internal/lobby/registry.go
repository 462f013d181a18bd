package lobby

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/martengale/foxbox/internal/identity"
	"github.com/martengale/foxbox/internal/logger"
)

// StartInfo is what a successful StartGame hands the processor for the
// rendezvous broadcast: the owner's endpoint identity, a fresh match token
// and the final pre-start view of the room.
type StartInfo struct {
	Host       identity.CombinedID
	MatchToken string
	Seed       int32
	Room       Snapshot
}

// Registry owns all rooms. The top-level index is a single RWMutex over the
// id map, the group index and the owner index; each room carries its own
// lock. The canonical lock order is index before room: any operation that
// unlinks a room or touches the owner index takes the index write lock
// first and holds it across the room lock. Room before session stays the
// outer order, so nothing in this package ever calls into the session
// registry.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[int32]*Room
	groups map[string][]int32            // creation order per group
	owners map[string]map[int32]struct{} // open (non-started) room ids per owner key
	nextID int32

	now func() time.Time
}

// NewRegistry returns an empty room registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms:  make(map[int32]*Room),
		groups: make(map[string][]int32),
		owners: make(map[string]map[int32]struct{}),
		now:    time.Now,
	}
}

// Create validates the settings, allocates a fresh room id and inserts the
// owner as the first member (ready=false). An owner with an existing
// non-started room gets ErrOwnerHasRoom; room ids are never reused.
func (reg *Registry) Create(owner identity.CombinedID, sessionID string, userID int32, group, password string, settings Settings) (Snapshot, error) {
	if err := settings.Validate(); err != nil {
		return Snapshot{}, err
	}
	if group == "" {
		group = DefaultGroup
	}
	ownerKey := owner.Player.Key()
	now := reg.now()

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if len(reg.owners[ownerKey]) > 0 {
		return Snapshot{}, ErrOwnerHasRoom
	}

	reg.nextID++
	room := &Room{
		id:           reg.nextID,
		group:        group,
		created:      now,
		name:         settings.Name,
		password:     password,
		settings:     settings.Clone(),
		ownerKey:     ownerKey,
		memberOrder:  []string{ownerKey},
		members:      map[string]*member{ownerKey: {combined: owner, sessionID: sessionID, userID: userID, joinedAt: now}},
		lastActivity: now,
	}
	reg.rooms[room.id] = room
	reg.groups[group] = append(reg.groups[group], room.id)
	reg.ownerAddLocked(ownerKey, room.id)

	logger.Info("Room created", "room_id", room.id, "name", room.name, "group", group, "owner", ownerKey)
	return room.snapshotLocked(), nil
}

// get resolves a live room under the index read lock.
func (reg *Registry) get(id int32) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rooms[id]
	return r, ok
}

// Get returns a snapshot of the room.
func (reg *Registry) Get(id int32) (Snapshot, error) {
	room, ok := reg.get(id)
	if !ok {
		return Snapshot{}, ErrRoomNotFound
	}
	room.mu.RLock()
	defer room.mu.RUnlock()
	if room.removed {
		return Snapshot{}, ErrRoomNotFound
	}
	return room.snapshotLocked(), nil
}

// ListGroup snapshots every room in a group, creation order.
func (reg *Registry) ListGroup(group string) []Snapshot {
	if group == "" {
		group = DefaultGroup
	}
	reg.mu.RLock()
	ids := append([]int32(nil), reg.groups[group]...)
	rooms := make([]*Room, 0, len(ids))
	for _, id := range ids {
		if r, ok := reg.rooms[id]; ok {
			rooms = append(rooms, r)
		}
	}
	reg.mu.RUnlock()

	out := make([]Snapshot, 0, len(rooms))
	for _, r := range rooms {
		r.mu.RLock()
		if !r.removed {
			out = append(out, r.snapshotLocked())
		}
		r.mu.RUnlock()
	}
	return out
}

// CountGroup returns the number of rooms in a group.
func (reg *Registry) CountGroup(group string) int {
	if group == "" {
		group = DefaultGroup
	}
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.groups[group])
}

// Count returns the total number of rooms.
func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// List snapshots every room regardless of group, id order not guaranteed.
func (reg *Registry) List() []Snapshot {
	reg.mu.RLock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	reg.mu.RUnlock()

	out := make([]Snapshot, 0, len(rooms))
	for _, r := range rooms {
		r.mu.RLock()
		if !r.removed {
			out = append(out, r.snapshotLocked())
		}
		r.mu.RUnlock()
	}
	return out
}

// FindJoinable returns up to limit non-full, non-started rooms in creation
// order. Password-protected rooms are included; the password check happens
// at join time.
func (reg *Registry) FindJoinable(group string, limit int) []Snapshot {
	all := reg.ListGroup(group)
	out := make([]Snapshot, 0, len(all))
	for _, snap := range all {
		if !snap.Joinable() {
			continue
		}
		out = append(out, snap)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// ownerAddLocked records an open room against its owner key. Caller holds
// the index write lock.
func (reg *Registry) ownerAddLocked(key string, id int32) {
	set := reg.owners[key]
	if set == nil {
		set = make(map[int32]struct{}, 1)
		reg.owners[key] = set
	}
	set[id] = struct{}{}
}

// ownerRemoveLocked drops one room from an owner's open set. Caller holds
// the index write lock; removing an untracked id is a no-op.
func (reg *Registry) ownerRemoveLocked(key string, id int32) {
	set := reg.owners[key]
	delete(set, id)
	if len(set) == 0 {
		delete(reg.owners, key)
	}
}

// GetByOwner returns one of the owner's open rooms, if any. Ownership can
// be inherited through transfer, so an owner may briefly hold more than
// one; which of them is returned is unspecified.
func (reg *Registry) GetByOwner(ownerKey string) (Snapshot, bool) {
	reg.mu.RLock()
	var room *Room
	for id := range reg.owners[ownerKey] {
		room = reg.rooms[id]
		break
	}
	reg.mu.RUnlock()
	if room == nil {
		return Snapshot{}, false
	}
	room.mu.RLock()
	defer room.mu.RUnlock()
	if room.removed {
		return Snapshot{}, false
	}
	return room.snapshotLocked(), true
}

// Join adds a player to a room. Order of checks is fixed: existence,
// started, duplicate membership, password, capacity. No partial mutation
// survives a failure.
func (reg *Registry) Join(roomID int32, player identity.CombinedID, sessionID string, userID int32, password string) (Snapshot, error) {
	room, ok := reg.get(roomID)
	if !ok {
		return Snapshot{}, ErrRoomNotFound
	}
	key := player.Player.Key()

	room.mu.Lock()
	defer room.mu.Unlock()

	switch {
	case room.removed:
		return Snapshot{}, ErrRoomNotFound
	case room.started:
		return Snapshot{}, ErrAlreadyStarted
	case room.members[key] != nil:
		return Snapshot{}, ErrAlreadyMember
	case room.password != "" && room.password != password:
		return Snapshot{}, ErrWrongPassword
	case len(room.members) >= room.settings.MaxPlayers:
		return Snapshot{}, ErrRoomFull
	}

	now := reg.now()
	room.members[key] = &member{combined: player, sessionID: sessionID, userID: userID, joinedAt: now}
	room.memberOrder = append(room.memberOrder, key)
	room.touchLocked(now)

	logger.Debug("Player joined room", "room_id", roomID, "player", key, "members", len(room.members))
	return room.snapshotLocked(), nil
}

// LeaveResult describes what a Leave did beyond removing the member.
type LeaveResult struct {
	Room         Snapshot // post-leave view; zero-membered when removed
	Removed      bool     // room deleted because the last member left
	NewOwnerKey  string   // non-empty when ownership transferred
	LeftSnapshot Member   // the member that left
}

// Leave removes a player. An owner leaving a non-empty room hands ownership
// to the earliest-joined remaining member; the last member leaving removes
// the room entirely. Both locks are held for the whole operation so a join
// waiting on the room can never land between the last leave and the unlink.
func (reg *Registry) Leave(roomID int32, playerKey string) (LeaveResult, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	room, ok := reg.rooms[roomID]
	if !ok {
		return LeaveResult{}, ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	m := room.members[playerKey]
	if m == nil {
		return LeaveResult{}, ErrNotMember
	}

	res := LeaveResult{
		LeftSnapshot: Member{
			Player:    m.combined.Player,
			SessionID: m.sessionID,
			UserID:    m.userID,
			Owner:     playerKey == room.ownerKey,
			Ready:     m.ready,
			JoinedAt:  m.joinedAt,
		},
	}

	room.removeMemberLocked(playerKey)
	delete(room.settings.Teams, playerKey)
	delete(room.settings.Handicaps, playerKey)

	if len(room.members) == 0 {
		res.Removed = true
		res.Room = room.snapshotLocked()
		reg.unlinkLocked(room)
		logger.Info("Room removed, last member left", "room_id", roomID)
		return res, nil
	}

	if playerKey == room.ownerKey {
		// memberOrder is join order, so index 0 is the earliest joiner.
		room.ownerKey = room.memberOrder[0]
		res.NewOwnerKey = room.ownerKey
		if !room.started {
			reg.ownerRemoveLocked(playerKey, room.id)
			reg.ownerAddLocked(room.ownerKey, room.id)
		}
		logger.Info("Room ownership transferred", "room_id", roomID, "new_owner", room.ownerKey)
	}
	room.touchLocked(reg.now())
	res.Room = room.snapshotLocked()
	return res, nil
}

// unlinkLocked marks the room dead and drops it from every index. Caller
// holds the index write lock and the room lock; a waiter that acquires the
// room lock afterwards sees removed and treats the room as gone.
func (reg *Registry) unlinkLocked(room *Room) {
	room.removed = true
	delete(reg.rooms, room.id)
	ids := reg.groups[room.group]
	for i, id := range ids {
		if id == room.id {
			reg.groups[room.group] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(reg.groups[room.group]) == 0 {
		delete(reg.groups, room.group)
	}
	if !room.started {
		reg.ownerRemoveLocked(room.ownerKey, room.id)
	}
}

// SetReady flips a member's ready flag.
func (reg *Registry) SetReady(roomID int32, playerKey string, ready bool) (Snapshot, error) {
	return reg.mutateMember(roomID, playerKey, func(room *Room, m *member) error {
		m.ready = ready
		return nil
	})
}

// SetTeam records a member's own team assignment.
func (reg *Registry) SetTeam(roomID int32, playerKey string, team int16) (Snapshot, error) {
	return reg.mutateMember(roomID, playerKey, func(room *Room, m *member) error {
		room.settings.Teams[playerKey] = team
		return nil
	})
}

// SetHandicap records a member's own handicap assignment.
func (reg *Registry) SetHandicap(roomID int32, playerKey string, handicap int16) (Snapshot, error) {
	return reg.mutateMember(roomID, playerKey, func(room *Room, m *member) error {
		room.settings.Handicaps[playerKey] = handicap
		return nil
	})
}

// mutateMember runs fn on a live member under the room lock and returns the
// post-commit snapshot.
func (reg *Registry) mutateMember(roomID int32, playerKey string, fn func(*Room, *member) error) (Snapshot, error) {
	room, ok := reg.get(roomID)
	if !ok {
		return Snapshot{}, ErrRoomNotFound
	}
	room.mu.Lock()
	defer room.mu.Unlock()

	if room.removed {
		return Snapshot{}, ErrRoomNotFound
	}
	m := room.members[playerKey]
	if m == nil {
		return Snapshot{}, ErrNotMember
	}
	if err := fn(room, m); err != nil {
		return Snapshot{}, err
	}
	room.touchLocked(reg.now())
	return room.snapshotLocked(), nil
}

// UpdateSettings replaces the room's settings. Owner only; the new capacity
// may not drop below the current membership.
func (reg *Registry) UpdateSettings(roomID int32, playerKey string, settings Settings) (Snapshot, error) {
	if err := settings.Validate(); err != nil {
		return Snapshot{}, err
	}
	room, ok := reg.get(roomID)
	if !ok {
		return Snapshot{}, ErrRoomNotFound
	}
	room.mu.Lock()
	defer room.mu.Unlock()

	switch {
	case room.removed:
		return Snapshot{}, ErrRoomNotFound
	case room.ownerKey != playerKey:
		return Snapshot{}, ErrNotOwner
	case room.started:
		return Snapshot{}, ErrAlreadyStarted
	case settings.MaxPlayers < len(room.members):
		return Snapshot{}, ErrCapacityBelowMembers
	}

	room.settings = settings.Clone()
	room.name = settings.Name
	room.touchLocked(reg.now())
	return room.snapshotLocked(), nil
}

// StartGame marks the room started and returns the rendezvous broadcast
// material. The gate is strict: caller owns the room, at least MinPlayers
// members, every non-owner member ready, game not already started. Takes
// the index write lock because starting releases the owner index entry.
func (reg *Registry) StartGame(roomID int32, playerKey string) (StartInfo, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	room, ok := reg.rooms[roomID]
	if !ok {
		return StartInfo{}, ErrRoomNotFound
	}
	room.mu.Lock()
	defer room.mu.Unlock()

	switch {
	case room.ownerKey != playerKey:
		return StartInfo{}, ErrNotOwner
	case room.started:
		return StartInfo{}, ErrAlreadyStarted
	case len(room.members) < MinPlayers:
		return StartInfo{}, ErrNotEnoughPlayers
	}
	for key, m := range room.members {
		if key != room.ownerKey && !m.ready {
			return StartInfo{}, ErrNotReady
		}
	}

	room.started = true
	reg.ownerRemoveLocked(room.ownerKey, room.id)
	room.touchLocked(reg.now())
	owner := room.members[room.ownerKey]

	info := StartInfo{
		Host:       owner.combined,
		MatchToken: uuid.NewString(),
		Seed:       room.settings.Seed,
		Room:       room.snapshotLocked(),
	}
	logger.Info("Game started", "room_id", roomID, "owner", room.ownerKey, "members", len(room.members), "match_token", info.MatchToken)
	return info, nil
}

// Remove deletes a room outright (admin path). Returns the final snapshot
// so the caller can notify the kicked members.
func (reg *Registry) Remove(roomID int32) (Snapshot, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	room, ok := reg.rooms[roomID]
	if !ok {
		return Snapshot{}, ErrRoomNotFound
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	snap := room.snapshotLocked()
	reg.unlinkLocked(room)
	logger.Info("Room removed", "room_id", roomID)
	return snap, nil
}

// Reap removes rooms idle past the cutoff and returns their final
// snapshots. Holds the index write lock for the whole sweep so every
// victim is unlinked atomically with its final snapshot.
func (reg *Registry) Reap(idleCutoff time.Duration) []Snapshot {
	deadline := reg.now().Add(-idleCutoff)

	reg.mu.Lock()
	defer reg.mu.Unlock()

	out := make([]Snapshot, 0)
	for _, room := range reg.rooms {
		room.mu.Lock()
		if !room.lastActivity.Before(deadline) {
			room.mu.Unlock()
			continue
		}
		snap := room.snapshotLocked()
		reg.unlinkLocked(room)
		room.mu.Unlock()
		out = append(out, snap)
		logger.Info("Room reaped", "room_id", snap.ID, "idle_since", snap.LastActivity)
	}
	return out
}
