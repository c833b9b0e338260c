package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/spam/internal/core"
	"github.com/illarion/spam/internal/logging"
	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add [name]",
		Short: "Add an account, or replace its secret",
		Long: `Adds an account to the vault. Asks for the name if it is not given,
then for the secret, which is never echoed. An existing account with the
same name has its secret replaced.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withVault(cmd.Context(), func(s *session) error {
				name, err := app.nameArg(args)
				if err != nil {
					return err
				}
				return app.add(cmd.Context(), s, name)
			})
		},
	}
}

func (a *App) add(ctx context.Context, s *session, name string) error {
	if err := core.ValidateName(name); err != nil {
		return err
	}

	secret, err := a.Prompt.Secret("Please enter account secret: ")
	if err != nil {
		return err
	}

	if s.store().Exists(name) {
		a.Log.Warnf("Replacing the secret of existing account %s", name)
	}
	s.store().Add(name, secret)

	if err := s.save(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.Out, logging.Success("Saved %s", logging.Highlight(name)))
	return nil
}
