package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/martengale/foxbox/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the foxbox configuration file.

Checks for syntax errors, missing required fields, and invalid values.

Examples:
  # Validate default config
  foxbox config validate

  # Validate specific config file
  foxbox config validate --config /etc/foxbox/config.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	// Get config path from parent's persistent flag
	configPath, _ := cmd.Flags().GetString("config")

	// Load and validate configuration
	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}

	// Determine path for display
	displayPath := configPath
	if displayPath == "" {
		displayPath = config.GetDefaultConfigPath()
	}

	// Additional validation checks
	var warnings []string

	if cfg.API.IsEnabled() && cfg.API.Auth.Secret == "" {
		warnings = append(warnings, "API auth secret not configured - admin API will be disabled at startup")
	}
	if cfg.API.IsEnabled() && cfg.API.Admin.PasswordHash == "" {
		warnings = append(warnings, "Admin password hash not configured - admin login will be rejected")
	}
	if !cfg.Protocol.BlueBoxEnabled() && !cfg.Protocol.DirectEnabled() {
		warnings = append(warnings, "Both transports disabled - server will refuse to start")
	}

	// Print results
	fmt.Printf("Configuration file: %s\n", displayPath)
	fmt.Println("Validation: OK")

	if len(warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
	}

	fmt.Printf("\nConfiguration summary:\n")
	fmt.Printf("  BlueBox port:    %d\n", cfg.Ports.BlueBoxHTTP)
	fmt.Printf("  Direct port:     %d\n", cfg.Ports.SFS2XDirect)
	fmt.Printf("  API port:        %d\n", cfg.API.Port)
	fmt.Printf("  Log level:       %s\n", cfg.Logging.Level)

	return nil
}
