package processor

import (
	"github.com/martengale/foxbox/internal/lobby"
	"github.com/martengale/foxbox/internal/protocol/sfs2x"
)

// encodeRoom renders a room snapshot as the positional room-object the
// client decodes:
//
//	[id, name, group, locked, started, memberCount, maxPlayers,
//	 settings tuple, members]
func encodeRoom(room lobby.Snapshot) *sfs2x.Array {
	members := sfs2x.NewArray()
	for _, m := range room.Members {
		members.AddArray(encodeMember(room, m))
	}
	return sfs2x.NewArray().
		AddInt(room.ID).
		AddString(room.Name).
		AddString(room.Group).
		AddBool(room.HasPassword).
		AddBool(room.Started).
		AddShort(int16(room.MemberCount())).
		AddShort(int16(room.Settings.MaxPlayers)).
		AddArray(room.Settings.ToTuple()).
		AddArray(members)
}

// encodeMember renders one member:
//
//	[userID, canonical id, display name, owner, ready, team, handicap]
func encodeMember(room lobby.Snapshot, m lobby.Member) *sfs2x.Array {
	key := m.Player.Key()
	return sfs2x.NewArray().
		AddInt(m.UserID).
		AddString(key).
		AddString(m.Player.Name()).
		AddBool(m.Owner).
		AddBool(m.Ready).
		AddShort(room.Settings.Teams[key]).
		AddShort(room.Settings.Handicaps[key])
}

// roomResponse is the create/join success frame: the mirrored action with
// the room-object under "r" in the params and the room id on the envelope.
func roomResponse(action int16, room lobby.Snapshot) *sfs2x.Message {
	msg := sfs2x.NewMessage(sfs2x.ControllerSystem, action).WithRoom(room.ID)
	msg.Params.PutArray(sfs2x.KeyRoomID, encodeRoom(room))
	return msg
}

// userEnterRoomEvent announces a new member to the incumbents.
func userEnterRoomEvent(room lobby.Snapshot, m lobby.Member) *sfs2x.Message {
	msg := sfs2x.NewMessage(sfs2x.ControllerSystem, sfs2x.EventUserEnterRoom).WithRoom(room.ID)
	msg.Params.
		PutInt(sfs2x.KeyRoomID, room.ID).
		PutArray(sfs2x.KeyUser, encodeMember(room, m))
	return msg
}

// userCountChangeEvent carries the new membership size.
func userCountChangeEvent(roomID int32, count int) *sfs2x.Message {
	msg := sfs2x.NewMessage(sfs2x.ControllerSystem, sfs2x.EventUserCountChange).WithRoom(roomID)
	msg.Params.
		PutInt(sfs2x.KeyRoomID, roomID).
		PutShort(sfs2x.KeyUserCount, int16(count))
	return msg
}

// userExitRoomEvent announces a departure by user id.
func userExitRoomEvent(roomID int32, userID int32) *sfs2x.Message {
	msg := sfs2x.NewMessage(sfs2x.ControllerSystem, sfs2x.EventUserExitRoom).WithRoom(roomID)
	msg.Params.
		PutInt(sfs2x.KeyRoomID, roomID).
		PutInt(sfs2x.KeyUser, userID)
	return msg
}

// userVariablesEvent echoes a variable update to the room; the triples are
// relayed as received.
func userVariablesEvent(userID int32, triples *sfs2x.Array) *sfs2x.Message {
	msg := sfs2x.NewMessage(sfs2x.ControllerSystem, sfs2x.ActionSetUserVariables)
	msg.Params.
		PutInt(sfs2x.KeyUser, userID).
		PutArray(sfs2x.KeyVariables, triples)
	return msg
}

// roomSettingsEvent is the room-variables broadcast: the current settings
// tuple as a single "settings" triple. Sent after any settings mutation and
// after an ownership transfer, since owner flags live in the room-object the
// client refetches from the tuple's room state.
func roomSettingsEvent(room lobby.Snapshot) *sfs2x.Message {
	triple := sfs2x.NewArray().
		AddString(sfs2x.VarSettings).
		AddByte(sfs2x.VarTypeArray).
		AddArray(room.Settings.ToTuple())
	msg := sfs2x.NewMessage(sfs2x.ControllerSystem, sfs2x.ActionSetRoomVariables).WithRoom(room.ID)
	msg.Params.
		PutInt(sfs2x.KeyRoomID, room.ID).
		PutArray(sfs2x.KeyVariables, sfs2x.NewArray().AddArray(triple))
	return msg
}

// extensionResponse wraps an extension payload in the callExtension mirror
// envelope.
func extensionResponse(cmd string, params *sfs2x.Object) *sfs2x.Message {
	msg := sfs2x.NewMessage(sfs2x.ControllerExtension, sfs2x.ActionCallExtension)
	msg.Params.
		PutString(sfs2x.KeyExtCmd, cmd).
		PutObject(sfs2x.KeyExtParams, params)
	return msg
}

// gameStartedEvent is the rendezvous broadcast: the owner's endpoint blob,
// the match token and the deterministic seed.
func gameStartedEvent(hostBlob []byte, matchToken string, seed int32) *sfs2x.Message {
	params := sfs2x.NewObject().
		PutByteArray(sfs2x.KeyHost, hostBlob).
		PutString(sfs2x.KeyMatchToken, matchToken).
		PutInt(sfs2x.KeySeed, seed)
	return extensionResponse(sfs2x.CmdGameStarted, params)
}
