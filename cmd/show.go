package cmd

import (
	"fmt"

	"github.com/illarion/spam/internal/core"
	"github.com/spf13/cobra"
)

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:               "show [name]",
		Short:             "Print the secret of an account",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: app.completeAccounts,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withVault(cmd.Context(), func(s *session) error {
				name, err := app.nameArg(args)
				if err != nil {
					return err
				}
				return app.show(s, name)
			})
		},
	}
}

func (a *App) show(s *session, name string) error {
	secret, ok := s.store().Get(name)
	if !ok {
		return fmt.Errorf("%w: could not locate account %s", core.ErrAccountNotFound, name)
	}
	fmt.Fprintln(a.Out, secret)
	return nil
}
