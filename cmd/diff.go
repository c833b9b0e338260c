package cmd

import (
	"fmt"

	"github.com/illarion/spam/internal/core"
	"github.com/illarion/spam/internal/crypto"
	"github.com/spf13/cobra"
)

func newDiffCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <file>",
		Short: "Compare the vault with a plaintext name=secret file",
		Long: `Prints a diff between the vault and a plaintext file, both sorted by
name. Lines starting with '-' exist only in the vault, '+' only in the file.

Secrets are printed in the clear.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withVault(cmd.Context(), func(s *session) error {
				return app.diff(s, args[0])
			})
		},
	}
}

func (a *App) diff(s *session, path string) error {
	payload, err := readPlaintext(path)
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(payload)

	out := core.GenerateUnifiedDiff(s.store(), path, payload)
	if out == "" {
		fmt.Fprintln(a.Out, "No differences")
		return nil
	}
	fmt.Fprint(a.Out, out)
	return nil
}
