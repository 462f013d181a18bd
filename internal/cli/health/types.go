// Package health provides shared types for health check responses.
package health

// Response represents the API health response structure.
type Response struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Data      struct {
		Service  string `json:"service"`
		Sessions int    `json:"sessions"`
		Rooms    int    `json:"rooms"`
	} `json:"data"`
	Error string `json:"error,omitempty"`
}
