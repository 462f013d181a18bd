package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/martengale/foxbox/cmd/foxboxctl/cmdutil"
	"github.com/martengale/foxbox/internal/cli/output"
	"github.com/martengale/foxbox/internal/cli/timeutil"
	"github.com/martengale/foxbox/pkg/apiclient"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status",
	Long: `Display the status of the connected foxbox server.

This command calls the admin status endpoint and displays version,
uptime, session and room counts, and the running protocol adapters.

Examples:
  # Check status of connected server
  foxboxctl status

  # Output as JSON
  foxboxctl status -o json`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	status, err := client.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to fetch server status: %w", err)
	}

	// Output based on format
	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, status)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, status)
	default:
		printStatusTable(status)
	}

	return nil
}

func printStatusTable(status *apiclient.Status) {
	fmt.Println()
	fmt.Println("foxbox Server Status")
	fmt.Println("====================")
	fmt.Println()
	fmt.Printf("  Version:    %s\n", status.Version)
	fmt.Printf("  Uptime:     %s\n", timeutil.FormatUptime(status.Uptime))
	fmt.Printf("  Sessions:   %d\n", status.Sessions)
	fmt.Printf("  Rooms:      %d\n", status.Rooms)

	if len(status.Adapters) > 0 {
		fmt.Println()
		fmt.Println("  Adapters:")
		for _, a := range status.Adapters {
			fmt.Printf("    %-10s port %d\n", a.Protocol, a.Port)
		}
	}
	fmt.Println()
}
