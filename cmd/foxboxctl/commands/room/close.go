package room

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/martengale/foxbox/cmd/foxboxctl/cmdutil"
)

var closeForce bool

var closeCmd = &cobra.Command{
	Use:   "close <room-id>",
	Short: "Close a room",
	Long: `Close a room, disconnecting every member inside it.

Members receive a disconnect with reason "room closed by operator".

Examples:
  # Close room 3 (asks for confirmation)
  foxboxctl room close 3

  # Close without confirmation
  foxboxctl room close 3 --force`,
	Args: cobra.ExactArgs(1),
	RunE: runClose,
}

func init() {
	closeCmd.Flags().BoolVarP(&closeForce, "force", "f", false, "Skip confirmation prompt")
}

func runClose(cmd *cobra.Command, args []string) error {
	id, err := parseRoomID(args[0])
	if err != nil {
		return err
	}

	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	return cmdutil.RunDeleteWithConfirmation("Room", args[0], closeForce, func() error {
		result, err := client.DeleteRoom(id)
		if err != nil {
			return fmt.Errorf("failed to close room: %w", err)
		}
		fmt.Printf("Room %d closed, %d member(s) kicked\n", result.RoomID, result.Kicked)
		return nil
	})
}
