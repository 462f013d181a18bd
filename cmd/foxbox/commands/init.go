package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/martengale/foxbox/internal/cli/prompt"
	"github.com/martengale/foxbox/pkg/config"
)

var (
	initForce    bool
	initNoPrompt bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Initialize a sample foxbox configuration file.

By default, the configuration file is created at $XDG_CONFIG_HOME/foxbox/config.yaml
and an operator password for the admin API is prompted interactively.
Use --config to specify a custom path.

Examples:
  # Initialize with default location
  foxbox init

  # Initialize with custom path
  foxbox init --config /etc/foxbox/config.yaml

  # Non-interactive (no admin password; set api.admin.password_hash later)
  foxbox init --no-prompt

  # Force overwrite existing config
  foxbox init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
	initCmd.Flags().BoolVar(&initNoPrompt, "no-prompt", false, "Skip the admin password prompt")
}

func runInit(cmd *cobra.Command, args []string) error {
	var passwordHash string
	if !initNoPrompt {
		password, err := prompt.PasswordWithValidation("Admin API password", 8)
		if err != nil {
			if prompt.IsAborted(err) {
				return fmt.Errorf("aborted")
			}
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		passwordHash = string(hash)
	}

	configPath := GetConfigFile()
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	if err := config.InitConfigToPathWithAdmin(configPath, initForce, passwordHash); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit the configuration file to customize your setup")
	fmt.Println("  2. Start the server with: foxbox start")
	fmt.Printf("  3. Or specify custom config: foxbox start --config %s\n", configPath)
	fmt.Println("\nSecurity note:")
	fmt.Println("  A random admin API secret has been generated for development use.")
	fmt.Println("  For production, generate a secure secret and use an environment variable:")
	fmt.Println("    # Generates a 64-character hex string (32 bytes of entropy)")
	fmt.Println("    export FOXBOX_API_AUTH_SECRET=$(openssl rand -hex 32)")

	if initNoPrompt {
		fmt.Println("\n  No admin password was set; the admin API will refuse logins until")
		fmt.Println("  api.admin.password_hash is configured (bcrypt).")
	}

	return nil
}
