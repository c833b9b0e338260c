package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/spam/internal/logging"
	"github.com/spf13/cobra"
)

func newUpdateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "update [name]",
		Short: "Change the secret of an account",
		Long: `Replaces the secret of an existing account. If the account does not
exist, offers to add it instead (default: no).`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: app.completeAccounts,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withVault(cmd.Context(), func(s *session) error {
				name, err := app.nameArg(args)
				if err != nil {
					return err
				}
				return app.update(cmd.Context(), s, name)
			})
		},
	}
}

func (a *App) update(ctx context.Context, s *session, name string) error {
	if !s.store().Exists(name) {
		yes, err := a.Prompt.YesNo(fmt.Sprintf("Could not find account with name %s. Would you like to add it", name))
		if err != nil {
			return err
		}
		if !yes {
			a.Log.Infof("Nothing changed")
			return nil
		}
		return a.add(ctx, s, name)
	}

	secret, err := a.Prompt.Secret("Please enter account secret: ")
	if err != nil {
		return err
	}
	s.store().Modify(name, secret)

	if err := s.save(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.Out, logging.Success("Updated %s", logging.Highlight(name)))
	return nil
}
