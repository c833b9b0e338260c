package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/spam/internal/core"
	"github.com/illarion/spam/internal/logging"
	"github.com/spf13/cobra"
)

func newRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:               "rm [name]",
		Aliases:           []string{"del"},
		Short:             "Remove an account",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: app.completeAccounts,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withVault(cmd.Context(), func(s *session) error {
				name, err := app.nameArg(args)
				if err != nil {
					return err
				}
				return app.remove(cmd.Context(), s, name)
			})
		},
	}
}

func (a *App) remove(ctx context.Context, s *session, name string) error {
	if !s.store().Exists(name) {
		return fmt.Errorf("%w: could not locate account %s", core.ErrAccountNotFound, name)
	}
	s.store().Remove(name)

	if err := s.save(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.Out, logging.Success("Removed %s", logging.Highlight(name)))
	return nil
}
