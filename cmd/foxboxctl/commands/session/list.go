package session

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/martengale/foxbox/cmd/foxboxctl/cmdutil"
	"github.com/martengale/foxbox/internal/cli/timeutil"
	"github.com/martengale/foxbox/pkg/apiclient"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sessions",
	Long: `List all client sessions on the connected server.

Examples:
  # List sessions as table
  foxboxctl session list

  # List sessions as JSON
  foxboxctl session list -o json`,
	RunE: runList,
}

// SessionList is a list of sessions for table rendering.
type SessionList []apiclient.Session

// Headers implements TableRenderer.
func (sl SessionList) Headers() []string {
	return []string{"SESSION_ID", "TRANSPORT", "CLIENT_IP", "PLAYER", "USER_ID", "ROOMS", "LAST_ACTIVITY"}
}

// Rows implements TableRenderer.
func (sl SessionList) Rows() [][]string {
	rows := make([][]string, 0, len(sl))
	for _, s := range sl {
		// Truncate session ID for readability
		shortSID := s.ID
		if len(shortSID) > 16 {
			shortSID = shortSID[:16] + "..."
		}
		rows = append(rows, []string{
			shortSID,
			s.Transport,
			s.ClientIP,
			cmdutil.EmptyOr(s.Player, "-"),
			fmt.Sprintf("%d", s.UserID),
			fmt.Sprintf("%d", len(s.Rooms)),
			timeutil.FormatAgo(s.LastActivity),
		})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	sessions, err := client.ListSessions()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, sessions, len(sessions) == 0,
		"No sessions.", SessionList(sessions))
}
