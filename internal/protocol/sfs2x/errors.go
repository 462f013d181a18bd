package sfs2x

import (
	"errors"
	"fmt"
)

// Sentinel errors for the codec layer. Wire-level failures wrap
// ErrMalformedFrame so transports can match with errors.Is and close the
// connection regardless of the concrete cause.
var (
	// ErrMalformedFrame indicates a frame that cannot be decoded: unknown
	// type tag, truncated body, trailing garbage, oversize frame or a
	// header with unsupported flag bits.
	ErrMalformedFrame = errors.New("malformed frame")

	// ErrTypeMismatch indicates a typed accessor was called on a value
	// carrying a different type tag.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrKeyNotFound indicates an object lookup for a missing key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrIndexOutOfRange indicates an array access past the last element.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// FrameError describes where and why decoding failed. It unwraps to
// ErrMalformedFrame.
type FrameError struct {
	Offset int    // byte offset into the payload, -1 when not applicable
	Reason string
}

func (e *FrameError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("malformed frame: %s", e.Reason)
	}
	return fmt.Sprintf("malformed frame at offset %d: %s", e.Offset, e.Reason)
}

func (e *FrameError) Unwrap() error { return ErrMalformedFrame }

// frameErrorf builds a FrameError at the given offset.
func frameErrorf(offset int, format string, args ...any) error {
	return &FrameError{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}

// TypeMismatchError reports the tag an accessor wanted against the tag the
// value actually carries. It unwraps to ErrTypeMismatch.
type TypeMismatchError struct {
	Want TypeID
	Got  TypeID
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: want %s, got %s", e.Want, e.Got)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

func typeMismatch(want, got TypeID) error {
	return &TypeMismatchError{Want: want, Got: got}
}
