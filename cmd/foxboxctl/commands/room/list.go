package room

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/martengale/foxbox/cmd/foxboxctl/cmdutil"
	"github.com/martengale/foxbox/pkg/apiclient"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all rooms",
	Long: `List all rooms on the connected server.

Examples:
  # List rooms as table
  foxboxctl room list

  # List rooms as JSON
  foxboxctl room list -o json`,
	RunE: runList,
}

// RoomList is a list of rooms for table rendering.
type RoomList []apiclient.Room

// Headers implements TableRenderer.
func (rl RoomList) Headers() []string {
	return []string{"ID", "NAME", "GROUP", "PLAYERS", "MAX", "STARTED", "PASSWORD", "MAP"}
}

// Rows implements TableRenderer.
func (rl RoomList) Rows() [][]string {
	rows := make([][]string, 0, len(rl))
	for _, r := range rl {
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.ID),
			r.Name,
			r.Group,
			fmt.Sprintf("%d", len(r.Members)),
			fmt.Sprintf("%d", r.MaxPlayers),
			cmdutil.BoolToYesNo(r.Started),
			cmdutil.BoolToYesNo(r.HasPassword),
			cmdutil.EmptyOr(r.MapName, "-"),
		})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	rooms, err := client.ListRooms()
	if err != nil {
		return fmt.Errorf("failed to list rooms: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, rooms, len(rooms) == 0,
		"No rooms.", RoomList(rooms))
}
