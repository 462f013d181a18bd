package session

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/martengale/foxbox/cmd/foxboxctl/cmdutil"
)

var kickForce bool

var kickCmd = &cobra.Command{
	Use:   "kick <session-id>",
	Short: "Disconnect a session",
	Long: `Disconnect a client session.

The player is removed from any rooms they are in, with the usual leave
fan-out to the remaining members.

Examples:
  # Kick a session (asks for confirmation)
  foxboxctl session kick 1a2b3c4d-...

  # Kick without confirmation
  foxboxctl session kick 1a2b3c4d-... --force`,
	Args: cobra.ExactArgs(1),
	RunE: runKick,
}

func init() {
	kickCmd.Flags().BoolVarP(&kickForce, "force", "f", false, "Skip confirmation prompt")
}

func runKick(cmd *cobra.Command, args []string) error {
	sessionID := args[0]

	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	return cmdutil.RunDeleteWithConfirmation("Session", sessionID, kickForce, func() error {
		if err := client.KickSession(sessionID); err != nil {
			return fmt.Errorf("failed to kick session: %w", err)
		}
		return nil
	})
}
