package metrics

import "time"

// nopLobby and nopTransport satisfy the interfaces with no-ops. The
// consumer constructors normalize a plain nil interface to these, so
// callers without a collector never hit a nil method call.

type nopLobby struct{}

func (nopLobby) RecordFrameIn(string, int)                   {}
func (nopLobby) RecordFrameOut(string, int)                  {}
func (nopLobby) RecordProcess(string, string, time.Duration) {}
func (nopLobby) SetActiveSessions(int)                       {}
func (nopLobby) SetActiveRooms(int)                          {}
func (nopLobby) RecordQueueDrop(string)                      {}
func (nopLobby) RecordReaped(string, int)                    {}
func (nopLobby) RecordGameStarted()                          {}

// NopLobby returns a LobbyMetrics that records nothing.
func NopLobby() LobbyMetrics { return nopLobby{} }

type nopTransport struct{}

func (nopTransport) RecordConnectionAccepted()           {}
func (nopTransport) RecordConnectionClosed()             {}
func (nopTransport) RecordConnectionForceClosed()        {}
func (nopTransport) SetActiveConnections(int32)          {}
func (nopTransport) RecordBlueBoxRequest(string, string) {}

// NopTransport returns a TransportMetrics that records nothing.
func NopTransport() TransportMetrics { return nopTransport{} }
