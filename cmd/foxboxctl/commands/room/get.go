package room

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/martengale/foxbox/cmd/foxboxctl/cmdutil"
	"github.com/martengale/foxbox/internal/cli/output"
	"github.com/martengale/foxbox/internal/cli/timeutil"
	"github.com/martengale/foxbox/pkg/apiclient"
)

var getCmd = &cobra.Command{
	Use:     "get <room-id>",
	Aliases: []string{"show"},
	Short:   "Show one room with its members",
	Long: `Show a room's details, including every member inside it.

Examples:
  # Show room 3
  foxboxctl room get 3

  # Show room 3 as JSON
  foxboxctl room get 3 -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

// memberTable renders a room's members.
type memberTable []apiclient.Member

// Headers implements TableRenderer.
func (mt memberTable) Headers() []string {
	return []string{"PLAYER", "NAME", "USER_ID", "OWNER", "READY", "JOINED_AT"}
}

// Rows implements TableRenderer.
func (mt memberTable) Rows() [][]string {
	rows := make([][]string, 0, len(mt))
	for _, m := range mt {
		rows = append(rows, []string{
			m.Player,
			m.Name,
			fmt.Sprintf("%d", m.UserID),
			cmdutil.BoolToYesNo(m.Owner),
			cmdutil.BoolToYesNo(m.Ready),
			timeutil.FormatStamp(m.JoinedAt),
		})
	}
	return rows
}

func runGet(cmd *cobra.Command, args []string) error {
	id, err := parseRoomID(args[0])
	if err != nil {
		return err
	}

	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	room, err := client.GetRoom(id)
	if err != nil {
		return fmt.Errorf("failed to fetch room: %w", err)
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}
	if format != output.FormatTable {
		return cmdutil.PrintResource(os.Stdout, room, nil)
	}

	fmt.Printf("\nRoom %d: %s\n", room.ID, room.Name)
	fmt.Printf("  Group:       %s\n", room.Group)
	fmt.Printf("  Started:     %s\n", cmdutil.BoolToYesNo(room.Started))
	fmt.Printf("  Password:    %s\n", cmdutil.BoolToYesNo(room.HasPassword))
	fmt.Printf("  Max players: %d\n", room.MaxPlayers)
	if room.MapName != "" {
		fmt.Printf("  Map:         %s\n", room.MapName)
	}
	fmt.Printf("  Created:     %s\n", timeutil.FormatStamp(room.CreatedAt))
	fmt.Println()

	if len(room.Members) == 0 {
		fmt.Println("No members.")
		return nil
	}
	return cmdutil.PrintOutput(os.Stdout, room.Members, false, "", memberTable(room.Members))
}
