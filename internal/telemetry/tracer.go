package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for lobby request spans. Client keys follow OpenTelemetry
// semantic conventions; lobby-specific keys use their own prefixes.
const (
	// Client attributes
	AttrClientIP   = "client.ip"
	AttrClientAddr = "client.address"

	// Request attributes
	AttrTransport  = "lobby.transport" // sfs2x-tcp, bluebox
	AttrAction     = "lobby.action"    // Login, CreateRoom, ...
	AttrController = "lobby.controller"
	AttrErrorCode  = "lobby.error_code"

	// Session attributes
	AttrSessionID = "session.id"
	AttrUserID    = "user.id"
	AttrPlayer    = "user.player"

	// Room attributes
	AttrRoomID  = "room.id"
	AttrRoom    = "room.name"
	AttrGroup   = "room.group"
	AttrMembers = "room.members"
)

// ClientIP returns an attribute for the client IP address.
func ClientIP(ip string) attribute.KeyValue {
	return attribute.String(AttrClientIP, ip)
}

// ClientAddr returns an attribute for the full client address.
func ClientAddr(addr string) attribute.KeyValue {
	return attribute.String(AttrClientAddr, addr)
}

// Transport returns an attribute for the transport type.
func Transport(t string) attribute.KeyValue {
	return attribute.String(AttrTransport, t)
}

// Action returns an attribute for the request action name.
func Action(name string) attribute.KeyValue {
	return attribute.String(AttrAction, name)
}

// Controller returns an attribute for the controller id.
func Controller(c int) attribute.KeyValue {
	return attribute.Int(AttrController, c)
}

// ErrorCode returns an attribute for the wire error code.
func ErrorCode(code int) attribute.KeyValue {
	return attribute.Int(AttrErrorCode, code)
}

// SessionID returns an attribute for the session identifier.
func SessionID(id string) attribute.KeyValue {
	return attribute.String(AttrSessionID, id)
}

// UserID returns an attribute for the per-session numeric user id.
func UserID(id int32) attribute.KeyValue {
	return attribute.Int(AttrUserID, int(id))
}

// Player returns an attribute for the player identity key.
func Player(key string) attribute.KeyValue {
	return attribute.String(AttrPlayer, key)
}

// RoomID returns an attribute for the room identifier.
func RoomID(id int32) attribute.KeyValue {
	return attribute.Int(AttrRoomID, int(id))
}

// Room returns an attribute for the room name.
func Room(name string) attribute.KeyValue {
	return attribute.String(AttrRoom, name)
}

// Group returns an attribute for the room group.
func Group(name string) attribute.KeyValue {
	return attribute.String(AttrGroup, name)
}

// Members returns an attribute for the member count.
func Members(n int) attribute.KeyValue {
	return attribute.Int(AttrMembers, n)
}

// StartRequestSpan starts a span for one lobby request, named
// "lobby.<action>" and tagged with the transport and session identity.
func StartRequestSpan(ctx context.Context, action, transport, sessionID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		Action(action),
		Transport(transport),
		SessionID(sessionID),
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, "lobby."+action, trace.WithAttributes(allAttrs...))
}
