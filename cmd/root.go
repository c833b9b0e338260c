package cmd

import (
	"context"

	"github.com/illarion/spam/internal/config"
	"github.com/illarion/spam/internal/logging"
	"github.com/illarion/spam/internal/prompt"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	file       string
	format     string
	stateDir   string
	iterations int
	verbose    bool
	debug      bool
}

// Execute runs the spam CLI and returns the process exit code
func Execute(ctx context.Context) int {
	root, app := newRootCmd()
	return execute(ctx, root, app)
}

func execute(ctx context.Context, root *cobra.Command, app *App) int {
	defer app.Close()

	if err := root.ExecuteContext(ctx); err != nil {
		log := app.Log
		if log.Err == nil {
			// setup never ran, e.g. on a flag parse error
			log = logging.New(false, false)
			log.Err = root.ErrOrStderr()
		}
		HandleError(log, err)
		return 1
	}
	return 0
}

func newRootCmd() (*cobra.Command, *App) {
	app := &App{}
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "spam",
		Short: "spam - Simple PAssword Manager",
		Long: `spam keeps account secrets in a single password-encrypted file.

The vault is decrypted in memory only. Accounts can be listed, shown,
added, updated, renamed, searched, exported to plaintext, imported from
plaintext and merged from another vault.

The password is taken from SPAM_PASSWORD, then the OS keyring, then a
prompt.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd, opts)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/spam/config.json)")
	flags.StringVarP(&opts.file, "file", "f", "", "vault file")
	flags.StringVar(&opts.format, "format", "", "vault format: legacy or salted (default: as registered)")
	flags.StringVar(&opts.stateDir, "state-dir", "", "directory holding the vault registry")
	flags.IntVar(&opts.iterations, "iterations", 0, "PBKDF2 iterations for the salted format")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVarP(&opts.debug, "debug", "d", false, "enable debug output")

	root.AddCommand(
		newInitCmd(app),
		newListCmd(app),
		newAddCmd(app),
		newShowCmd(app),
		newUpdateCmd(app),
		newRmCmd(app),
		newRenameCmd(app),
		newSearchCmd(app),
		newDumpCmd(app),
		newImportCmd(app),
		newMergeCmd(app),
		newDiffCmd(app),
		newStatusCmd(app),
		newKeyringCmd(app),
		newForgetCmd(app),
		newCompactCmd(app),
		newMenuCmd(app),
		newCompletionCmd(),
	)

	return root, app
}

// setup resolves configuration once per invocation
func (a *App) setup(cmd *cobra.Command, opts *rootOptions) error {
	if a.Config != nil {
		return nil
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	if changed(cmd, "file") {
		cfg.File = opts.file
	}
	if changed(cmd, "format") {
		cfg.Format = opts.format
	}
	if changed(cmd, "state-dir") {
		cfg.StateDir = opts.stateDir
	}
	if changed(cmd, "iterations") {
		cfg.Iterations = opts.iterations
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.Config = cfg
	a.Out = cmd.OutOrStdout()
	a.Log = logging.New(opts.verbose, opts.debug)
	a.Log.Out = cmd.ErrOrStderr()
	a.Log.Err = cmd.ErrOrStderr()
	if a.Prompt == nil {
		a.Prompt = prompt.NewReader(cmd.InOrStdin(), cmd.ErrOrStderr())
	}

	a.Log.Debugf("Using vault %s (format %q, state dir %s)", cfg.File, cfg.Format, cfg.StateDir)
	return nil
}

func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}

// nameArg returns args[0] or asks for an account name
func (a *App) nameArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return a.Prompt.AccountName("Please enter account name: ")
}
