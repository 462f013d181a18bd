package logger

import (
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements for log aggregation
// and querying.
const (
	// Distributed tracing
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// Protocol & message
	KeyTransport  = "transport"  // Transport type: sfs2x-tcp, bluebox
	KeyAction     = "action"     // Request action name: Login, CreateRoom, etc.
	KeyController = "controller" // Controller id: 0 system, 1 extension
	KeyRequestID  = "request_id" // Request correlation id

	// Session & client
	KeySessionID = "session_id" // Session identifier
	KeyClientIP  = "client_ip"  // Client IP address
	KeyUserID    = "user_id"    // Per-session numeric user id
	KeyPlayer    = "player"     // Player identity key

	// Rooms
	KeyRoom    = "room"    // Room name
	KeyRoomID  = "room_id" // Room identifier
	KeyGroup   = "group"   // Room group
	KeyMembers = "members" // Member count

	// Operation metadata
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyErrorCode  = "error_code"  // Numeric error code
	KeyReason     = "reason"      // Disconnect/kick reason
)

// ----------------------------------------------------------------------------
// Field constructors for type safety
// ----------------------------------------------------------------------------

// TraceID returns a slog.Attr for OpenTelemetry trace ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for OpenTelemetry span ID
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// Transport returns a slog.Attr for transport type
func Transport(t string) slog.Attr {
	return slog.String(KeyTransport, t)
}

// Action returns a slog.Attr for request action name
func Action(name string) slog.Attr {
	return slog.String(KeyAction, name)
}

// Controller returns a slog.Attr for controller id
func Controller(c int) slog.Attr {
	return slog.Int(KeyController, c)
}

// RequestID returns a slog.Attr for request correlation id
func RequestID(id string) slog.Attr {
	return slog.String(KeyRequestID, id)
}

// SessionID returns a slog.Attr for session identifier
func SessionID(id string) slog.Attr {
	return slog.String(KeySessionID, id)
}

// ClientIP returns a slog.Attr for client IP address
func ClientIP(addr string) slog.Attr {
	return slog.String(KeyClientIP, addr)
}

// UserID returns a slog.Attr for per-session numeric user id
func UserID(id int32) slog.Attr {
	return slog.Int(KeyUserID, int(id))
}

// Player returns a slog.Attr for player identity key
func Player(key string) slog.Attr {
	return slog.String(KeyPlayer, key)
}

// Room returns a slog.Attr for room name
func Room(name string) slog.Attr {
	return slog.String(KeyRoom, name)
}

// RoomID returns a slog.Attr for room identifier
func RoomID(id int32) slog.Attr {
	return slog.Int(KeyRoomID, int(id))
}

// Group returns a slog.Attr for room group
func Group(name string) slog.Attr {
	return slog.String(KeyGroup, name)
}

// Members returns a slog.Attr for member count
func Members(n int) slog.Attr {
	return slog.Int(KeyMembers, n)
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// ErrorCode returns a slog.Attr for numeric error code
func ErrorCode(code int) slog.Attr {
	return slog.Int(KeyErrorCode, code)
}

// Reason returns a slog.Attr for a disconnect or kick reason
func Reason(r string) slog.Attr {
	return slog.String(KeyReason, r)
}
