// Package lobby holds the pre-game state: the settings record every lobby
// carries, the rooms players gather in and the registry that owns them.
//
// Rooms are owned exclusively by the Registry. Callers never see a live
// *Room; every operation returns an immutable Snapshot taken after the
// mutation committed, which is what the processor fans out to members.
package lobby

import (
	"fmt"
)

// Capacity bounds for a lobby. MaxPlayers is room capacity, not a tuple
// slot; it rides in the create-room request next to the settings.
const (
	MinPlayers = 2
	MaxPlayers = 10
)

// GameOptionCount is the fixed length of the game-options flag array.
const GameOptionCount = 32

// hqSlotCount is the number of per-slot HQ flags a default lobby carries,
// one per potential player seat.
const hqSlotCount = 10

// Settings is the lobby settings record. It round-trips through a 21-slot
// positional SFS_ARRAY (see tuple.go); the field order here mirrors the
// slot order so the two stay easy to diff.
type Settings struct {
	Name             string
	KindOfLobby      byte
	VersionKey       string
	GameSetup        int16
	RulesSet         int16
	Replay           bool
	Location         int16
	HumanHQInvalid   []bool
	AIFill           bool
	MapSize          byte
	Terrain          int16
	Speed            byte
	MapName          string
	Seed             int32
	Latitude         int16
	ResourceMin      byte
	ResourcePresence byte
	ColonyClass      int16
	GameOptions      []bool // exactly GameOptionCount flags

	// Teams and Handicaps key by the player's canonical string form.
	// Iteration order is not part of the contract; the tuple codec
	// rebuilds them as maps on decode.
	Teams     map[string]int16
	Handicaps map[string]int16

	// MaxPlayers is the room capacity, validated to [MinPlayers, MaxPlayers].
	MaxPlayers int
}

// DefaultSettings returns a playable baseline for a lobby with the given
// display name: all game options off, every HQ slot valid, no assignments.
func DefaultSettings(name string) Settings {
	return Settings{
		Name:           name,
		HumanHQInvalid: make([]bool, hqSlotCount),
		GameOptions:    make([]bool, GameOptionCount),
		Teams:          make(map[string]int16),
		Handicaps:      make(map[string]int16),
		MaxPlayers:     MaxPlayers,
	}
}

// Validate checks the bounds the registry enforces on create and update.
func (s *Settings) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: empty lobby name", ErrInvalidSettings)
	}
	if s.MaxPlayers < MinPlayers || s.MaxPlayers > MaxPlayers {
		return fmt.Errorf("%w: max players %d outside [%d,%d]",
			ErrInvalidSettings, s.MaxPlayers, MinPlayers, MaxPlayers)
	}
	if len(s.GameOptions) != GameOptionCount {
		return fmt.Errorf("%w: %d game options, want %d",
			ErrInvalidSettings, len(s.GameOptions), GameOptionCount)
	}
	return nil
}

// Clone returns a deep copy. Snapshots hand settings to callers outside the
// room lock, so the registry never shares the live record.
func (s Settings) Clone() Settings {
	c := s
	c.HumanHQInvalid = append([]bool(nil), s.HumanHQInvalid...)
	c.GameOptions = append([]bool(nil), s.GameOptions...)
	c.Teams = make(map[string]int16, len(s.Teams))
	for k, v := range s.Teams {
		c.Teams[k] = v
	}
	c.Handicaps = make(map[string]int16, len(s.Handicaps))
	for k, v := range s.Handicaps {
		c.Handicaps[k] = v
	}
	return c
}
