package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/spam/internal/fileproxy"
	"github.com/illarion/spam/internal/logging"
	"github.com/spf13/cobra"
)

func newMergeCmd(app *App) *cobra.Command {
	var sourceFormat string

	cmd := &cobra.Command{
		Use:   "merge <file>",
		Short: "Copy accounts from another vault",
		Long: `Unlocks another vault with its own password and copies its accounts.

Accounts missing here are added. Accounts with the same secret are left
alone. Accounts with a different secret are added as name_<suffix>, so
nothing is overwritten.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withVault(cmd.Context(), func(s *session) error {
				return app.merge(cmd.Context(), s, args[0], sourceFormat)
			})
		},
	}
	cmd.Flags().StringVar(&sourceFormat, "source-format", "", "format of the merged vault (default: as registered, else legacy)")
	return cmd
}

func (a *App) merge(ctx context.Context, s *session, path, format string) error {
	source, err := fileproxy.Open(path)
	if err != nil {
		return err
	}
	sourcePath := source.Path()
	source.Close()
	if sourcePath == s.file.Path() {
		return fmt.Errorf("cannot merge %s into itself", path)
	}

	other, err := a.open(ctx, openOptions{
		path:        path,
		format:      format,
		message:     "Please specify SPAM password for the merge file: ",
		interactive: true,
	})
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer other.Close()

	result := s.store().MergeFrom(other.store())
	for _, r := range result.Renamed {
		a.Log.Infof("%s differs, merged as %s", r.From, r.To)
	}
	a.Log.Infof("%d account(s) already present", len(result.Identical))

	if err := s.save(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.Out, logging.Success("Merged %d account(s), %d renamed", len(result.Added)+len(result.Renamed), len(result.Renamed)))
	return nil
}
