package sfs2x

// Controller ids carried in the envelope "c" field.
const (
	ControllerSystem    int32 = 0
	ControllerExtension int32 = 1
)

// Envelope keys.
const (
	KeyController = "c"
	KeyAction     = "a"
	KeyParams     = "p"
	KeyRoomID     = "r"
)

// System controller action codes, pinned against the 1.7.x client family.
// Requests and their direct responses share a code; server-initiated events
// use the 1000 range.
const (
	ActionHandshake        int16 = 0
	ActionLogin            int16 = 1
	ActionLogout           int16 = 2
	ActionJoinRoom         int16 = 4
	ActionCreateRoom       int16 = 6
	ActionSetRoomVariables int16 = 11
	ActionSetUserVariables int16 = 12
	ActionCallExtension    int16 = 13
	ActionLeaveRoom        int16 = 14
	ActionPingPong         int16 = 29

	EventUserEnterRoom   int16 = 1000
	EventUserCountChange int16 = 1001
	EventUserExitRoom    int16 = 1004
)

// Error codes carried in the "ec" field of an error response. Code 13 is
// fixed by the client; the room codes are pinned here as the single source
// of truth for interop corrections.
const (
	ErrorCodeInvalidData       int16 = 13
	ErrorCodeRoomDuplicate     int16 = 14
	ErrorCodeRoomFull          int16 = 17
	ErrorCodeRoomWrongPassword int16 = 18
	ErrorCodeRoomNotFound      int16 = 19
	ErrorCodeRoomPermission    int16 = 20
	ErrorCodeRoomNotReady      int16 = 21
)

// Parameter keys. Short names mirror the client library's conventions; the
// processor and the tests are the only writers.
const (
	// Error responses.
	KeyErrorCode   = "ec"
	KeyErrorParams = "ep"

	// Handshake.
	KeyToken                = "tk"
	KeyCompressionThreshold = "ct"
	KeyEncryptionThreshold  = "et"
	KeyServerTime           = "st"

	// Login / user identity.
	KeyUserName    = "un"
	KeyUserID      = "id"
	KeyUserParams  = "p"
	KeyDisplayName = "dn"
	KeyProvider    = "pv"
	KeyPort        = "pt"

	// Rooms.
	KeyRoomName     = "n"
	KeyRoomGroup    = "g"
	KeyRoomPassword = "pw"
	KeyMaxPlayers   = "m"
	KeySettings     = "set"
	KeyUser         = "u"
	KeyUserCount    = "uc"
	KeyVariables    = "vl"

	// Extension envelope.
	KeyExtCmd    = "c"
	KeyExtParams = "p"

	// Extension payloads. KeyCount shares the short name "n" with room
	// names; the two never appear in the same object.
	KeyRoomList   = "rl"
	KeyCount      = "n"
	KeyLimit      = "l"
	KeyHost       = "h"
	KeyMatchToken = "mt"
	KeySeed       = "sd"
	KeyTeam       = "t"
	KeyHandicap   = "hc"
)

// Variable type codes used inside "vl" triples ([name, vtype, value]).
const (
	VarTypeNull   byte = 0
	VarTypeBool   byte = 1
	VarTypeInt    byte = 2
	VarTypeDouble byte = 3
	VarTypeString byte = 4
	VarTypeObject byte = 5
	VarTypeArray  byte = 6
)

// Extension command names.
const (
	CmdFindLobbies = "findLobbies"
	CmdLobbyCount  = "lobbyCount"
	CmdQuickJoin   = "quickJoin"
	CmdStartGame   = "startGame"
	CmdGameStarted = "gameStarted"
	CmdSetTeam     = "setTeam"
	CmdSetHandicap = "setHandicap"
)

// Variable names the processor recognizes.
const (
	VarReady    = "ready"
	VarSettings = "settings"
)
