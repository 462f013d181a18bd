// Package room implements room management subcommands for foxboxctl.
package room

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// Cmd is the room subcommand.
var Cmd = &cobra.Command{
	Use:   "room",
	Short: "Manage rooms",
	Long: `Inspect and manage game rooms on the connected foxbox server.

Subcommands:
  list   List all rooms
  get    Show one room with its members
  close  Close a room, kicking its members`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(getCmd)
	Cmd.AddCommand(closeCmd)
}

// parseRoomID parses a positional room id argument.
func parseRoomID(arg string) (int32, error) {
	id, err := strconv.ParseInt(arg, 10, 32)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid room id: %s", arg)
	}
	return int32(id), nil
}
