package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/illarion/spam/internal/crypto"
	"github.com/illarion/spam/internal/fileproxy"
	"github.com/illarion/spam/internal/logging"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "import <file>",
		Aliases: []string{"intake"},
		Short:   "Add accounts from a plaintext name=secret file",
		Long: `Adds every name=secret line of a plaintext file to the vault.

A name that is already taken, even with the same secret, is stored as
name_<suffix>. Lines without a name are skipped with a warning.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withVault(cmd.Context(), func(s *session) error {
				return app.importFile(cmd.Context(), s, args[0])
			})
		},
	}
}

func (a *App) importFile(ctx context.Context, s *session, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("cannot accept blank file name for importing accounts")
	}

	payload, err := readPlaintext(path)
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(payload)

	result := s.store().Import(payload)
	for _, m := range result.Malformed {
		a.Log.Warnf("Skipped malformed line %d in %s", m.Number, path)
	}
	for _, r := range result.Renamed {
		a.Log.Infof("%s already exists, imported as %s", r.From, r.To)
	}

	if err := s.save(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.Out, logging.Success("Imported %d account(s), %d renamed", len(result.Added)+len(result.Renamed), len(result.Renamed)))
	return nil
}

func readPlaintext(path string) ([]byte, error) {
	in, err := fileproxy.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	if !in.Exists() {
		return nil, fmt.Errorf("could not locate file %s", in.Path())
	}
	return in.ReadAll()
}
