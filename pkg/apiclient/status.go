package apiclient

// AdapterStatus describes one running protocol adapter.
type AdapterStatus struct {
	Protocol string `json:"protocol"`
	Port     int    `json:"port"`
}

// Status is the server-wide state report.
type Status struct {
	Version  string          `json:"version"`
	Uptime   string          `json:"uptime"`
	Sessions int             `json:"sessions"`
	Rooms    int             `json:"rooms"`
	Adapters []AdapterStatus `json:"adapters"`
}

// GetStatus fetches the server status.
func (c *Client) GetStatus() (*Status, error) {
	var status Status
	if err := c.get("/api/v1/status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}
