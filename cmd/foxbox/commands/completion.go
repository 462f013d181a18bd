package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for foxbox.

To load completions:

Bash:
  # Linux:
  $ foxbox completion bash > /etc/bash_completion.d/foxbox
  # macOS:
  $ foxbox completion bash > $(brew --prefix)/etc/bash_completion.d/foxbox

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  # Linux:
  $ foxbox completion zsh > "${fpath[1]}/_foxbox"
  # macOS:
  $ foxbox completion zsh > $(brew --prefix)/share/zsh/site-functions/_foxbox

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ foxbox completion fish > ~/.config/fish/completions/foxbox.fish

PowerShell:
  PS> foxbox completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> foxbox completion powershell > foxbox.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			return cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			return cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
		}
		return nil
	},
}
