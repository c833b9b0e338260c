package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/spam/internal/core"
	"github.com/illarion/spam/internal/crypto"
	"github.com/illarion/spam/internal/fileproxy"
	"github.com/illarion/spam/internal/logging"
	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a new, empty vault",
		Long: `Creates the vault file and encrypts an empty account list into it.

Prompts for the password twice unless SPAM_PASSWORD is set. The password
is not stored anywhere unless you run 'spam keyring save'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Init(cmd.Context())
		},
	}
}

// Init creates the configured vault
func (a *App) Init(ctx context.Context) error {
	file, err := fileproxy.Open(a.Config.File)
	if err != nil {
		return err
	}
	defer file.Close()

	if file.Exists() {
		return fmt.Errorf("%w: %s", core.ErrVaultExists, file.Path())
	}

	opts, err := a.vaultOptions(a.Config.Format, nil)
	if err != nil {
		return err
	}

	password := passwordFromEnv()
	if password == nil {
		password, err = a.Prompt.PasswordConfirm()
		if err != nil {
			return err
		}
	}
	defer crypto.ClearBytes(password)

	if err := ctx.Err(); err != nil {
		return err
	}

	v, err := core.Create(file, password, opts)
	if err != nil {
		return err
	}
	defer v.Close()

	if record := a.remember(file.Path(), nil, opts); record != nil {
		a.Log.Debugf("Registered vault %s as %s", file.Path(), record.ID)
	}

	fmt.Fprintln(a.Out, logging.Success("Initialized %s (%s format)", file.Path(), opts.Format))
	return nil
}
