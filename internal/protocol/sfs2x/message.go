package sfs2x

import "fmt"

// Message is the protocol envelope: controller, action, parameters and an
// optional room id. On the wire it is an SFS_OBJECT with the keys
// c / a / p / r.
type Message struct {
	Controller int32
	Action     int16
	Params     *Object
	RoomID     int32
	HasRoomID  bool
}

// NewMessage builds an envelope with empty parameters.
func NewMessage(controller int32, action int16) *Message {
	return &Message{Controller: controller, Action: action, Params: NewObject()}
}

// WithRoom sets the optional room id field.
func (m *Message) WithRoom(roomID int32) *Message {
	m.RoomID = roomID
	m.HasRoomID = true
	return m
}

// Encode serializes the envelope. Controller is written as INT and action
// as SHORT, the widths the client writes.
func (m *Message) Encode() ([]byte, error) {
	params := m.Params
	if params == nil {
		params = NewObject()
	}
	env := NewObject().
		PutInt(KeyController, m.Controller).
		PutShort(KeyAction, m.Action).
		PutObject(KeyParams, params)
	if m.HasRoomID {
		env.PutInt(KeyRoomID, m.RoomID)
	}
	return env.Encode()
}

// DecodeMessage parses a frame into the envelope. Controller and room id
// accept any integer width up to INT; a missing or mistyped field is a
// malformed frame.
func DecodeMessage(data []byte) (*Message, error) {
	obj, err := DecodeObject(data)
	if err != nil {
		return nil, err
	}

	controller, err := obj.GetAsInt(KeyController)
	if err != nil {
		return nil, envelopeError(KeyController, err)
	}
	action, err := obj.GetShort(KeyAction)
	if err != nil {
		return nil, envelopeError(KeyAction, err)
	}
	params, err := obj.GetObject(KeyParams)
	if err != nil {
		return nil, envelopeError(KeyParams, err)
	}

	m := &Message{Controller: controller, Action: action, Params: params}
	if obj.Has(KeyRoomID) {
		roomID, err := obj.GetAsInt(KeyRoomID)
		if err != nil {
			return nil, envelopeError(KeyRoomID, err)
		}
		m.WithRoom(roomID)
	}
	return m, nil
}

func envelopeError(key string, err error) error {
	return &FrameError{Offset: -1, Reason: fmt.Sprintf("envelope field %q: %v", key, err)}
}

// NewErrorResponse builds the error frame for a failed request: the action
// is mirrored and the params carry the code plus human-readable parameters.
func NewErrorResponse(controller int32, action int16, code int16, params ...string) *Message {
	m := NewMessage(controller, action)
	m.Params.PutShort(KeyErrorCode, code)
	if len(params) > 0 {
		m.Params.PutUTFStringArray(KeyErrorParams, params)
	}
	return m
}
