package sfs2x

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"net"
	"time"
)

// TCP frame header flag bits. Encryption and compression are negotiated
// features the lobby never enables, so a set bit is a protocol violation.
const (
	flagBigSize    = 0x01
	flagEncrypted  = 0x02
	flagCompressed = 0x04
)

// ReadFrame reads one length-framed message from conn: a 1-byte flag header,
// a 2-byte BE length (or 4-byte when the big-size flag is set), then the
// payload. maxSize caps the payload; zero means DefaultMaxFrameSize.
//
// The context is checked before blocking so shutdown interrupts idle
// readers at the next frame boundary.
func ReadFrame(ctx context.Context, conn net.Conn, maxSize int, timeout time.Duration) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if maxSize <= 0 {
		maxSize = DefaultMaxFrameSize
	}
	if timeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return nil, fmt.Errorf("set read deadline: %w", err)
		}
	}

	var flagBuf [1]byte
	if _, err := io.ReadFull(conn, flagBuf[:]); err != nil {
		return nil, fmt.Errorf("read frame header: %w", err)
	}
	flags := flagBuf[0]

	if flags&flagEncrypted != 0 {
		return nil, frameErrorf(-1, "encrypted frames are not supported")
	}
	if flags&flagCompressed != 0 {
		return nil, frameErrorf(-1, "compressed frames are not supported")
	}
	if flags&^flagBigSize != 0 {
		return nil, frameErrorf(-1, "unknown header flags 0x%02x", flags)
	}

	var size int
	if flags&flagBigSize != 0 {
		var lenBuf [4]byte
		if _, err := io.ReadFull(conn, lenBuf[:]); err != nil {
			return nil, fmt.Errorf("read frame length: %w", err)
		}
		n := binary.BigEndian.Uint32(lenBuf[:])
		if n > math.MaxInt32 {
			return nil, frameErrorf(-1, "frame length %d out of range", n)
		}
		size = int(n)
	} else {
		var lenBuf [2]byte
		if _, err := io.ReadFull(conn, lenBuf[:]); err != nil {
			return nil, fmt.Errorf("read frame length: %w", err)
		}
		size = int(binary.BigEndian.Uint16(lenBuf[:]))
	}

	if size == 0 {
		return nil, frameErrorf(-1, "zero-length frame")
	}
	if size > maxSize {
		return nil, frameErrorf(-1, "frame length %d exceeds limit %d", size, maxSize)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(conn, payload); err != nil {
		return nil, fmt.Errorf("read frame payload (%d bytes): %w", size, err)
	}
	return payload, nil
}

// AppendFrame frames payload into dst and returns the extended slice,
// choosing the short header whenever the length fits in 2 bytes.
func AppendFrame(dst, payload []byte) ([]byte, error) {
	n := len(payload)
	switch {
	case n == 0:
		return nil, fmt.Errorf("frame payload is empty")
	case n <= math.MaxUint16:
		dst = append(dst, 0)
		dst = binary.BigEndian.AppendUint16(dst, uint16(n))
	case n <= math.MaxInt32:
		dst = append(dst, flagBigSize)
		dst = binary.BigEndian.AppendUint32(dst, uint32(n))
	default:
		return nil, fmt.Errorf("frame payload %d bytes exceeds 4-byte length", n)
	}
	return append(dst, payload...), nil
}

// WriteFrame frames payload and writes it to conn in one Write call so
// concurrent writers never interleave partial frames.
func WriteFrame(conn net.Conn, payload []byte, timeout time.Duration) error {
	frame, err := AppendFrame(nil, payload)
	if err != nil {
		return err
	}
	if timeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			return fmt.Errorf("set write deadline: %w", err)
		}
	}
	if _, err := conn.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}
