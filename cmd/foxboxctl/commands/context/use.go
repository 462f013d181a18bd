package context

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/martengale/foxbox/internal/cli/credentials"
	"github.com/martengale/foxbox/internal/cli/prompt"
)

var useCmd = &cobra.Command{
	Use:   "use [name]",
	Short: "Switch to a different context",
	Long: `Switch to a different server context.

This changes the active context used for subsequent commands.
With no argument, an interactive picker is shown.

Examples:
  # Switch to context named "production"
  foxboxctl context use production

  # Pick a context interactively
  foxboxctl context use`,
	Args: cobra.MaximumNArgs(1),
	RunE: runContextUse,
}

func runContextUse(cmd *cobra.Command, args []string) error {
	// Load credential store
	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("failed to initialize credential store: %w", err)
	}

	var contextName string
	if len(args) == 1 {
		contextName = args[0]
	} else {
		contextName, err = pickContext(store)
		if err != nil {
			return err
		}
	}

	// Switch context
	if err := store.UseContext(contextName); err != nil {
		if err == credentials.ErrContextNotFound {
			return fmt.Errorf("context '%s' not found\n\n"+
				"List available contexts:\n"+
				"  foxboxctl context list", contextName)
		}
		return fmt.Errorf("failed to switch context: %w", err)
	}

	fmt.Printf("Switched to context: %s\n", contextName)
	return nil
}

// pickContext shows an interactive selection of the stored contexts.
func pickContext(store *credentials.Store) (string, error) {
	names := store.ListContexts()
	if len(names) == 0 {
		return "", fmt.Errorf("no contexts found, login first:\n  foxboxctl login <server-url>")
	}
	sort.Strings(names)

	options := make([]prompt.SelectOption, 0, len(names))
	for _, name := range names {
		opt := prompt.SelectOption{Label: name, Value: name}
		if ctx, err := store.GetContext(name); err == nil {
			opt.Description = ctx.ServerURL
		}
		options = append(options, opt)
	}

	name, err := prompt.Select("Select context", options)
	if err != nil {
		if prompt.IsAborted(err) {
			return "", fmt.Errorf("aborted")
		}
		return "", err
	}
	return name, nil
}
