package cmd

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <bash|zsh|fish|powershell>",
		Short: "Generate shell completions",
		Long: `Outputs the shell completion script for the specified shell.

Setup:
  # Bash - add to ~/.bashrc
  eval "$(spam completion bash)"

  # Zsh - add to ~/.zshrc
  eval "$(spam completion zsh)"

  # Fish - add to ~/.config/fish/config.fish
  spam completion fish | source

Account names are completed only when the password is available from
SPAM_PASSWORD or the keyring.`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			out := cmd.OutOrStdout()

			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeAccounts offers account names without ever prompting
func (a *App) completeAccounts(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if a.Config == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log := a.Log
	a.Log.Out, a.Log.Err = io.Discard, io.Discard
	defer func() { a.Log = log }()

	s, err := a.open(ctx, openOptions{
		path:   a.Config.File,
		format: a.Config.Format,
		useEnv: true,
	})
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer s.Close()

	var names []string
	for _, name := range s.store().SortedKeys() {
		if strings.HasPrefix(name, toComplete) {
			names = append(names, name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
