package cmd

import (
	"errors"
	"fmt"

	"github.com/illarion/spam/internal/fileproxy"
	"github.com/illarion/spam/internal/keyring"
	"github.com/spf13/cobra"
)

func newForgetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "forget [file]",
		Short: "Drop a vault from the registry and keyring",
		Long: `Removes the registry record and any cached keyring password of a vault
(default: the configured one). The vault file itself is not touched, but
its format has to be given with --format the next time it is opened if
it is not legacy.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.Config.File
			if len(args) > 0 {
				path = args[0]
			}
			return app.Forget(path)
		},
	}
}

// Forget removes what spam remembers about the vault at path
func (a *App) Forget(path string) error {
	file, err := fileproxy.Open(path)
	if err != nil {
		return err
	}
	file.Close()

	r := a.Registry()
	if r == nil {
		return errors.New("vault registry unavailable")
	}

	record := a.lookup(file.Path())
	if record == nil {
		fmt.Fprintf(a.Out, "%s is not registered\n", file.Path())
		return nil
	}

	if err := keyring.DeletePassword(record.ID); err != nil && !errors.Is(err, keyring.ErrNoPassword) {
		a.Log.Warnf("Failed to remove keyring entry: %s", err)
	}
	if err := r.Forget(file.Path()); err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "Forgot %s\n", file.Path())
	return nil
}
