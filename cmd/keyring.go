package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/illarion/spam/internal/core"
	"github.com/illarion/spam/internal/crypto"
	"github.com/illarion/spam/internal/fileproxy"
	"github.com/illarion/spam/internal/keyring"
	"github.com/illarion/spam/internal/storage"
	"github.com/spf13/cobra"
)

func newKeyringCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keyring",
		Short: "Cache the vault password in the OS keyring",
		Long: `Manages the password cached in the OS keyring for the vault.

Once saved, commands unlock the vault without prompting. If the cached
password stops working, spam falls back to a prompt.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "save",
			Short: "Verify the password and store it in the keyring",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.KeyringSave(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "delete",
			Short: "Remove the stored password",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.KeyringDelete()
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Report whether a password is stored",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.KeyringStatus()
			},
		},
	)
	return cmd
}

// KeyringSave unlocks the vault to verify the password, then stores it
func (a *App) KeyringSave(ctx context.Context) error {
	password := passwordFromEnv()
	if password == nil {
		var err error
		password, err = a.Prompt.Password("Enter password: ")
		if err != nil {
			return err
		}
	}
	defer crypto.ClearBytes(password)

	s, err := a.open(ctx, openOptions{
		path:     a.Config.File,
		format:   a.Config.Format,
		password: password,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	if s.record == nil {
		return errors.New("vault registry unavailable, cannot store password")
	}
	if err := keyring.SavePassword(s.record.ID, password); err != nil {
		return err
	}

	fmt.Fprintln(a.Out, "Password saved to keyring")
	return nil
}

// KeyringDelete removes the cached password of the vault
func (a *App) KeyringDelete() error {
	record, err := a.registeredVault()
	if err != nil {
		return err
	}

	if err := keyring.DeletePassword(record.ID); err != nil {
		if errors.Is(err, keyring.ErrNoPassword) {
			fmt.Fprintln(a.Out, "No password stored in keyring")
			return nil
		}
		return err
	}

	fmt.Fprintln(a.Out, "Password removed from keyring")
	return nil
}

// KeyringStatus reports whether a password is cached for the vault
func (a *App) KeyringStatus() error {
	record, err := a.registeredVault()
	if err != nil || !keyring.HasPassword(record.ID) {
		fmt.Fprintln(a.Out, "Password: not stored")
		return nil
	}

	fmt.Fprintln(a.Out, "Password: stored in keyring")
	return nil
}

// registeredVault returns the registry record of the configured vault
func (a *App) registeredVault() (*storage.VaultRecord, error) {
	file, err := fileproxy.Open(a.Config.File)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if !file.Exists() {
		return nil, fmt.Errorf("%w: %s", core.ErrVaultNotFound, file.Path())
	}
	record := a.lookup(file.Path())
	if record == nil {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotRegistered, file.Path())
	}
	return record, nil
}
