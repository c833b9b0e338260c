package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all account names",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withVault(cmd.Context(), app.list)
		},
	}
}

func (a *App) list(s *session) error {
	names := s.store().SortedKeys()
	for _, name := range names {
		fmt.Fprintln(a.Out, name)
	}
	a.Log.Infof("%d account(s)", len(names))
	return nil
}
