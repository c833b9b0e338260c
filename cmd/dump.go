package cmd

import (
	"fmt"
	"strings"

	"github.com/illarion/spam/internal/crypto"
	"github.com/illarion/spam/internal/fileproxy"
	"github.com/illarion/spam/internal/git"
	"github.com/illarion/spam/internal/logging"
	"github.com/spf13/cobra"
)

func newDumpCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "dump <file>",
		Aliases: []string{"export"},
		Short:   "Write all accounts to a new plaintext file",
		Long: `Writes every account as name=secret lines to a new file with mode 0600.
An existing file is never overwritten.

The output is NOT encrypted. A warning is printed when it lands inside a
git work tree without being ignored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withVault(cmd.Context(), func(s *session) error {
				return app.dump(s, args[0])
			})
		},
	}
}

func (a *App) dump(s *session, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("cannot accept blank file name for dumping accounts")
	}

	out, err := fileproxy.Open(path)
	if err != nil {
		return err
	}
	defer out.Close()

	data := s.store().Export()
	defer crypto.ClearBytes(data)

	if err := out.CreateNew(data); err != nil {
		return err
	}

	if warning := git.FormatExposure(git.CheckExposure(out.Path())); warning != "" {
		a.Log.Warnf("%s", warning)
	}

	fmt.Fprintln(a.Out, logging.Success("Dumped %d account(s) to %s", s.store().Len(), out.Path()))
	return nil
}
