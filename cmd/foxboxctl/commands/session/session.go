// Package session implements session management subcommands for foxboxctl.
package session

import (
	"github.com/spf13/cobra"
)

// Cmd is the session subcommand.
var Cmd = &cobra.Command{
	Use:   "session",
	Short: "Manage client sessions",
	Long: `Inspect and manage client sessions on the connected foxbox server.

Subcommands:
  list  List all sessions
  kick  Disconnect a session`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(kickCmd)
}
