package lobby

import (
	"errors"
	"fmt"
)

// Room registry errors. The processor maps these onto wire error codes;
// everything else treats them as opaque failures.
var (
	ErrRoomNotFound           = errors.New("room not found")
	ErrRoomFull               = errors.New("room is full")
	ErrWrongPassword          = errors.New("wrong room password")
	ErrAlreadyStarted         = errors.New("game already started")
	ErrAlreadyMember          = errors.New("already a member of the room")
	ErrNotMember              = errors.New("not a member of the room")
	ErrNotOwner               = errors.New("requester is not the room owner")
	ErrNotReady               = errors.New("not all players are ready")
	ErrNotEnoughPlayers       = errors.New("not enough players to start")
	ErrOwnerHasRoom           = errors.New("owner already has an open room")
	ErrCapacityBelowMembers   = errors.New("max players below current membership")
	ErrInvalidSettings        = errors.New("invalid settings")
	ErrSchemaMismatch         = errors.New("settings schema mismatch")
)

// SchemaMismatchError pinpoints the tuple slot that failed to decode.
// Slot -1 means the tuple arity itself was wrong. Unwraps to
// ErrSchemaMismatch.
type SchemaMismatchError struct {
	Slot   int
	Reason string
}

func (e *SchemaMismatchError) Error() string {
	if e.Slot < 0 {
		return fmt.Sprintf("settings schema mismatch: %s", e.Reason)
	}
	return fmt.Sprintf("settings schema mismatch at slot %d: %s", e.Slot, e.Reason)
}

func (e *SchemaMismatchError) Unwrap() error { return ErrSchemaMismatch }

func schemaErrorf(slot int, format string, args ...any) error {
	return &SchemaMismatchError{Slot: slot, Reason: fmt.Sprintf(format, args...)}
}
