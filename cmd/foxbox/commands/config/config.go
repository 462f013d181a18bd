// Package config implements the config subcommands for foxbox.
package config

import (
	"github.com/spf13/cobra"
)

// Cmd is the config subcommand.
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Inspect and manage the foxbox configuration file.

Subcommands:
  show      Display the effective configuration
  validate  Validate the configuration file
  edit      Open the configuration in an editor
  schema    Generate a JSON schema for the configuration`,
}

func init() {
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(validateCmd)
	Cmd.AddCommand(editCmd)
	Cmd.AddCommand(schemaCmd)
}
