package apiclient

import (
	"fmt"
	"time"
)

// Member is one player inside a room.
type Member struct {
	Player    string    `json:"player"`
	Name      string    `json:"name"`
	SessionID string    `json:"session_id"`
	UserID    int32     `json:"user_id"`
	Owner     bool      `json:"owner"`
	Ready     bool      `json:"ready"`
	JoinedAt  time.Time `json:"joined_at"`
}

// Room is the admin view of one lobby.
type Room struct {
	ID           int32     `json:"id"`
	Name         string    `json:"name"`
	Group        string    `json:"group"`
	HasPassword  bool      `json:"has_password"`
	Started      bool      `json:"started"`
	MaxPlayers   int       `json:"max_players"`
	MapName      string    `json:"map_name,omitempty"`
	Members      []Member  `json:"members"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// ListRooms fetches all rooms.
func (c *Client) ListRooms() ([]Room, error) {
	var rooms []Room
	if err := c.get("/api/v1/rooms", &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// GetRoom fetches one room by id.
func (c *Client) GetRoom(id int32) (*Room, error) {
	var room Room
	if err := c.get(fmt.Sprintf("/api/v1/rooms/%d", id), &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// DeleteRoomResult reports the outcome of closing a room.
type DeleteRoomResult struct {
	RoomID int32 `json:"room_id"`
	Kicked int   `json:"kicked"`
}

// DeleteRoom closes a room, kicking its members.
func (c *Client) DeleteRoom(id int32) (*DeleteRoomResult, error) {
	var result DeleteRoomResult
	if err := c.delete(fmt.Sprintf("/api/v1/rooms/%d", id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
