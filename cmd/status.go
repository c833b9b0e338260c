package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/illarion/spam/internal/fileproxy"
	"github.com/illarion/spam/internal/keyring"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show vault file and registry details",
		Long: `Shows the vault location, size, format, registry ID and whether a
password is cached in the keyring.

With --all, lists every vault in the registry instead.

Does not require a password.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				return app.StatusAll()
			}
			return app.Status()
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "list all registered vaults")
	return cmd
}

// Status prints what is known about the vault without unlocking it
func (a *App) Status() error {
	file, err := fileproxy.Open(a.Config.File)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Fprintf(a.Out, "Vault:     %s\n", file.Path())
	info, err := file.Stat()
	if err != nil || !info.Mode().IsRegular() {
		fmt.Fprintln(a.Out, "State:     not found")
		fmt.Fprintln(a.Out, "Run 'spam init' to create it")
		return nil
	}
	fmt.Fprintf(a.Out, "Size:      %s\n", formatSize(info.Size()))
	if info.Size() == 0 {
		fmt.Fprintln(a.Out, "State:     empty")
	}

	record := a.lookup(file.Path())
	if record == nil {
		format := a.Config.Format
		if format == "" {
			format = "legacy (assumed)"
		}
		fmt.Fprintf(a.Out, "Format:    %s\n", format)
		fmt.Fprintln(a.Out, "Registry:  not registered")
		return nil
	}

	fmt.Fprintf(a.Out, "Format:    %s\n", record.Format)
	if record.Iterations > 0 {
		fmt.Fprintf(a.Out, "KDF:       PBKDF2-SHA256, %d iterations\n", record.Iterations)
	}
	fmt.Fprintf(a.Out, "ID:        %s\n", record.ID)
	fmt.Fprintf(a.Out, "Opened:    %s\n", record.LastOpened.Format(time.RFC3339))
	if keyring.HasPassword(record.ID) {
		fmt.Fprintln(a.Out, "Password:  stored in keyring")
	} else {
		fmt.Fprintln(a.Out, "Password:  not stored")
	}
	return nil
}

// StatusAll prints every registered vault
func (a *App) StatusAll() error {
	r := a.Registry()
	if r == nil {
		return fmt.Errorf("vault registry unavailable in %s", a.Config.StateDir)
	}

	records, err := r.List()
	if err != nil {
		return fmt.Errorf("failed to list registry: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(a.Out, "No vaults registered")
		return nil
	}

	w := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tFORMAT\tOPENED\tKEYRING\tID")
	for _, record := range records {
		stored := "no"
		if keyring.HasPassword(record.ID) {
			stored = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			record.Path, record.Format, record.LastOpened.Format(time.RFC3339), stored, record.ID)
	}
	return w.Flush()
}

func formatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
	)

	switch {
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
