package apiclient

import (
	"fmt"
	"time"
)

// Session is the admin view of one client session.
type Session struct {
	ID           string    `json:"id"`
	Transport    string    `json:"transport"`
	ClientIP     string    `json:"client_ip"`
	Player       string    `json:"player,omitempty"`
	UserID       int32     `json:"user_id"`
	Rooms        []int32   `json:"rooms,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// ListSessions fetches all sessions.
func (c *Client) ListSessions() ([]Session, error) {
	var sessions []Session
	if err := c.get("/api/v1/sessions", &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// KickSession disconnects a session by id.
func (c *Client) KickSession(id string) error {
	return c.delete(fmt.Sprintf("/api/v1/sessions/%s", id), nil)
}
