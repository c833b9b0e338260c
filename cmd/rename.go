package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/spam/internal/core"
	"github.com/illarion/spam/internal/logging"
	"github.com/spf13/cobra"
)

func newRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:               "rename [old] [new]",
		Short:             "Rename an account",
		Long:              `Renames an account, keeping its secret. The new name must not be in use.`,
		Args:              cobra.MaximumNArgs(2),
		ValidArgsFunction: app.completeAccounts,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withVault(cmd.Context(), func(s *session) error {
				oldName, err := app.nameArg(args)
				if err != nil {
					return err
				}
				var newName string
				if len(args) > 1 {
					newName = args[1]
				}
				return app.rename(cmd.Context(), s, oldName, newName)
			})
		},
	}
}

// rename asks for the new name when newName is empty
func (a *App) rename(ctx context.Context, s *session, oldName, newName string) error {
	if !s.store().Exists(oldName) {
		return fmt.Errorf("%w: could not find account with name %s", core.ErrAccountNotFound, oldName)
	}

	if newName == "" {
		var err error
		newName, err = a.Prompt.AccountName(fmt.Sprintf("Account %s has been located. Please enter the new name: ", oldName))
		if err != nil {
			return err
		}
	}

	if err := s.store().Rename(oldName, newName); err != nil {
		return err
	}
	if err := s.save(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.Out, logging.Success("Renamed %s to %s", logging.Highlight(oldName), logging.Highlight(newName)))
	return nil
}
