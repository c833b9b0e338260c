package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search [pattern]",
		Short: "List accounts whose name contains a pattern",
		Long:  `Lists, sorted, the account names containing pattern, ignoring case.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withVault(cmd.Context(), func(s *session) error {
				var pattern string
				if len(args) > 0 {
					pattern = args[0]
				} else {
					var err error
					if pattern, err = app.Prompt.SearchPattern(); err != nil {
						return err
					}
				}
				return app.search(s, pattern)
			})
		},
	}
}

func (a *App) search(s *session, pattern string) error {
	matches := s.store().Search(pattern)
	for _, name := range matches {
		fmt.Fprintln(a.Out, name)
	}
	a.Log.Infof("%d match(es) for %q", len(matches), pattern)
	return nil
}
