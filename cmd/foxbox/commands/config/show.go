package config

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/martengale/foxbox/internal/cli/output"
	"github.com/martengale/foxbox/pkg/config"
)

var showOutput string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Long: `Display the effective foxbox configuration after defaults and
environment overrides are applied. Secrets are redacted.

Examples:
  # Show effective config as YAML
  foxbox config show

  # Show as JSON
  foxbox config show --output json

  # Show a specific config file
  foxbox config show --config /etc/foxbox/config.yaml`,
	RunE: runConfigShow,
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "yaml", "Output format (yaml|json)")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}

	// Never print credentials, even to a terminal.
	if cfg.API.Auth.Secret != "" {
		cfg.API.Auth.Secret = "<redacted>"
	}
	if cfg.API.Admin.PasswordHash != "" {
		cfg.API.Admin.PasswordHash = "<redacted>"
	}

	format, err := output.ParseFormat(showOutput)
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, cfg)
	default:
		return output.PrintYAML(os.Stdout, cfg)
	}
}
