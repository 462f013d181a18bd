package metrics

import "time"

// LobbyMetrics observes the message processor and the two registries.
//
// A nil LobbyMetrics disables collection with zero overhead; the prometheus
// implementation's methods are nil-receiver safe, so callers never guard.
type LobbyMetrics interface {
	// RecordFrameIn counts an inbound frame and its payload size.
	RecordFrameIn(transport string, bytes int)

	// RecordFrameOut counts a frame enqueued for delivery.
	RecordFrameOut(transport string, bytes int)

	// RecordProcess records one processor dispatch with its outcome.
	// action is the request's wire name ("login", "createRoom",
	// "ext:quickJoin", ...); outcome is "ok", "error" or "malformed".
	RecordProcess(action string, outcome string, duration time.Duration)

	// SetActiveSessions updates the live session gauge.
	SetActiveSessions(count int)

	// SetActiveRooms updates the live room gauge.
	SetActiveRooms(count int)

	// RecordQueueDrop counts a frame dropped on queue overflow.
	RecordQueueDrop(transport string)

	// RecordReaped counts entities collected by the janitor.
	// kind is "session" or "room".
	RecordReaped(kind string, count int)

	// RecordGameStarted counts successful start negotiations.
	RecordGameStarted()
}

// TransportMetrics observes the transport adapters.
type TransportMetrics interface {
	// RecordConnectionAccepted counts an accepted TCP connection.
	RecordConnectionAccepted()

	// RecordConnectionClosed counts a closed TCP connection.
	RecordConnectionClosed()

	// RecordConnectionForceClosed counts connections killed after the
	// shutdown timeout.
	RecordConnectionForceClosed()

	// SetActiveConnections updates the live TCP connection gauge.
	SetActiveConnections(count int32)

	// RecordBlueBoxRequest counts one BlueBox command with its outcome
	// ("ok" or "error").
	RecordBlueBoxRequest(command string, outcome string)
}
