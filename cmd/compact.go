package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newCompactCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "compact",
		Short: "Compact the vault registry database",
		Long: `Rewrites the registry database to reclaim space left by forgotten
vaults. Does not require a password.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Compact()
		},
	}
}

// Compact compacts the registry to reclaim unused space
func (a *App) Compact() error {
	r := a.Registry()
	if r == nil {
		return errors.New("vault registry unavailable")
	}

	info, err := os.Stat(r.Path())
	if err != nil {
		return err
	}
	sizeBefore := info.Size()

	if err := r.Compact(); err != nil {
		return err
	}

	info, err = os.Stat(r.Path())
	if err != nil {
		return err
	}
	sizeAfter := info.Size()

	fmt.Fprintf(a.Out, "Compacted: %s -> %s\n", formatSize(sizeBefore), formatSize(sizeAfter))
	return nil
}
