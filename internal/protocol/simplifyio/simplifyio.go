// Package simplifyio implements the keyed binary framing the game uses for
// identity blobs: every field is a 4-byte BE key length, the key bytes, a
// 1-byte type tag and the value in a tag-specific encoding.
//
// Reads are expect-keyed: the caller names the field it wants and a
// different key on the wire is a KeyMismatch, not a silent skip. That keeps
// decoding strictly positional, which is how the client writes these blobs.
package simplifyio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// TypeTag identifies a field's value encoding.
type TypeTag byte

const (
	TagString    TypeTag = 1 // 4-byte BE length + UTF-8 bytes
	TagInt32     TypeTag = 2 // 4 bytes BE
	TagInt16     TypeTag = 3 // 2 bytes BE
	TagByte      TypeTag = 4 // 1 byte
	TagBool      TypeTag = 5 // 1 byte
	TagFloat32   TypeTag = 6 // 4 bytes BE
	TagBoolArray TypeTag = 7 // 4-byte BE count + count×1 byte
)

// maxLen caps key, string and array lengths so a corrupt length prefix
// cannot trigger a giant allocation.
const maxLen = 1 << 20

// ErrKeyMismatch indicates the wire carried a different field than the
// reader expected.
var ErrKeyMismatch = errors.New("key mismatch")

// KeyMismatchError carries the expected and found keys. Unwraps to
// ErrKeyMismatch.
type KeyMismatchError struct {
	Want string
	Got  string
}

func (e *KeyMismatchError) Error() string {
	return fmt.Sprintf("key mismatch: want %q, got %q", e.Want, e.Got)
}

func (e *KeyMismatchError) Unwrap() error { return ErrKeyMismatch }

// WriteRawString writes a bare length-prefixed string (no key, no tag).
// Identity blobs use this form for their unkeyed leading fields.
func WriteRawString(w io.Writer, s string) error {
	if len(s) > maxLen {
		return fmt.Errorf("string length %d exceeds limit", len(s))
	}
	if err := binary.Write(w, binary.BigEndian, uint32(len(s))); err != nil {
		return fmt.Errorf("write string length: %w", err)
	}
	if _, err := io.WriteString(w, s); err != nil {
		return fmt.Errorf("write string bytes: %w", err)
	}
	return nil
}

// ReadRawString reads a bare length-prefixed string.
func ReadRawString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", fmt.Errorf("read string length: %w", err)
	}
	if n > maxLen {
		return "", fmt.Errorf("string length %d exceeds limit", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read string bytes: %w", err)
	}
	return string(buf), nil
}

// writeHeader emits the key and type tag of a field.
func writeHeader(w io.Writer, key string, tag TypeTag) error {
	if err := WriteRawString(w, key); err != nil {
		return fmt.Errorf("key %q: %w", key, err)
	}
	if _, err := w.Write([]byte{byte(tag)}); err != nil {
		return fmt.Errorf("write type tag: %w", err)
	}
	return nil
}

// readHeader consumes a field header and verifies both the key and the tag.
func readHeader(r io.Reader, key string, tag TypeTag) error {
	got, err := ReadRawString(r)
	if err != nil {
		return fmt.Errorf("read key: %w", err)
	}
	if got != key {
		return &KeyMismatchError{Want: key, Got: got}
	}
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return fmt.Errorf("read type tag: %w", err)
	}
	if TypeTag(b[0]) != tag {
		return fmt.Errorf("field %q: unexpected type tag %d, want %d", key, b[0], tag)
	}
	return nil
}

func WriteString(w io.Writer, key, v string) error {
	if err := writeHeader(w, key, TagString); err != nil {
		return err
	}
	return WriteRawString(w, v)
}

func ReadString(r io.Reader, key string) (string, error) {
	if err := readHeader(r, key, TagString); err != nil {
		return "", err
	}
	return ReadRawString(r)
}

func WriteInt32(w io.Writer, key string, v int32) error {
	if err := writeHeader(w, key, TagInt32); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, v)
}

func ReadInt32(r io.Reader, key string) (int32, error) {
	if err := readHeader(r, key, TagInt32); err != nil {
		return 0, err
	}
	var v int32
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return 0, fmt.Errorf("field %q: %w", key, err)
	}
	return v, nil
}

func WriteInt16(w io.Writer, key string, v int16) error {
	if err := writeHeader(w, key, TagInt16); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, v)
}

func ReadInt16(r io.Reader, key string) (int16, error) {
	if err := readHeader(r, key, TagInt16); err != nil {
		return 0, err
	}
	var v int16
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return 0, fmt.Errorf("field %q: %w", key, err)
	}
	return v, nil
}

func WriteByteField(w io.Writer, key string, v byte) error {
	if err := writeHeader(w, key, TagByte); err != nil {
		return err
	}
	_, err := w.Write([]byte{v})
	return err
}

func ReadByteField(r io.Reader, key string) (byte, error) {
	if err := readHeader(r, key, TagByte); err != nil {
		return 0, err
	}
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, fmt.Errorf("field %q: %w", key, err)
	}
	return b[0], nil
}

func WriteBool(w io.Writer, key string, v bool) error {
	if err := writeHeader(w, key, TagBool); err != nil {
		return err
	}
	b := byte(0)
	if v {
		b = 1
	}
	_, err := w.Write([]byte{b})
	return err
}

func ReadBool(r io.Reader, key string) (bool, error) {
	if err := readHeader(r, key, TagBool); err != nil {
		return false, err
	}
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return false, fmt.Errorf("field %q: %w", key, err)
	}
	return b[0] != 0, nil
}

func WriteFloat32(w io.Writer, key string, v float32) error {
	if err := writeHeader(w, key, TagFloat32); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, math.Float32bits(v))
}

func ReadFloat32(r io.Reader, key string) (float32, error) {
	if err := readHeader(r, key, TagFloat32); err != nil {
		return 0, err
	}
	var bits uint32
	if err := binary.Read(r, binary.BigEndian, &bits); err != nil {
		return 0, fmt.Errorf("field %q: %w", key, err)
	}
	return math.Float32frombits(bits), nil
}

func WriteBoolArray(w io.Writer, key string, v []bool) error {
	if err := writeHeader(w, key, TagBoolArray); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint32(len(v))); err != nil {
		return fmt.Errorf("write array count: %w", err)
	}
	buf := make([]byte, len(v))
	for i, b := range v {
		if b {
			buf[i] = 1
		}
	}
	_, err := w.Write(buf)
	return err
}

func ReadBoolArray(r io.Reader, key string) ([]bool, error) {
	if err := readHeader(r, key, TagBoolArray); err != nil {
		return nil, err
	}
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, fmt.Errorf("field %q: read count: %w", key, err)
	}
	if n > maxLen {
		return nil, fmt.Errorf("field %q: array count %d exceeds limit", key, n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("field %q: %w", key, err)
	}
	out := make([]bool, n)
	for i, b := range buf {
		out[i] = b != 0
	}
	return out, nil
}
