package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/illarion/spam/internal/config"
	"github.com/illarion/spam/internal/core"
	"github.com/illarion/spam/internal/crypto"
	"github.com/illarion/spam/internal/fileproxy"
	"github.com/illarion/spam/internal/keyring"
	"github.com/illarion/spam/internal/logging"
	"github.com/illarion/spam/internal/prompt"
	"github.com/illarion/spam/internal/storage"
)

var errNoPassword = errors.New("no password available without prompting")

// App carries what every command needs
type App struct {
	Config   *config.Config
	Log      logging.Logger
	Prompt   *prompt.Prompter
	Out      io.Writer
	Suffixer core.Suffixer

	registry       *storage.Registry
	registryFailed bool
}

// Close releases the registry
func (a *App) Close() {
	if a.registry != nil {
		a.registry.Close()
		a.registry = nil
	}
}

// Registry opens the vault registry on first use. Failures are reported
// once and leave spam working without it.
func (a *App) Registry() *storage.Registry {
	if a.registry != nil || a.registryFailed {
		return a.registry
	}

	r, err := storage.Open(a.Config.StateDir)
	if err != nil {
		a.registryFailed = true
		a.Log.Warnf("Vault registry unavailable: %s", err)
		return nil
	}
	a.registry = r
	return r
}

// lookup returns the registry record for path, or nil
func (a *App) lookup(path string) *storage.VaultRecord {
	r := a.Registry()
	if r == nil {
		return nil
	}

	record, err := r.Lookup(path)
	if err != nil {
		if !errors.Is(err, storage.ErrNotRegistered) {
			a.Log.Warnf("Failed to read registry: %s", err)
		}
		return nil
	}
	return record
}

// remember records a vault's format after it was opened successfully.
// A known vault opened with its registered format only gets a new
// last opened time.
func (a *App) remember(path string, record *storage.VaultRecord, opts core.VaultOptions) *storage.VaultRecord {
	r := a.Registry()
	if r == nil {
		return nil
	}

	if record != nil && record.Format == string(opts.Format) && record.Iterations == opts.Iterations {
		err := r.Touch(path)
		if err == nil {
			return record
		}
		if !errors.Is(err, storage.ErrNotRegistered) {
			a.Log.Warnf("Failed to update registry: %s", err)
			return record
		}
	}

	updated, err := r.Register(path, string(opts.Format), opts.Iterations)
	if err != nil {
		a.Log.Warnf("Failed to update registry: %s", err)
		return nil
	}
	return updated
}

// vaultOptions picks the format: --format/config first, then the registry,
// then legacy
func (a *App) vaultOptions(formatOverride string, record *storage.VaultRecord) (core.VaultOptions, error) {
	opts := core.VaultOptions{
		Iterations: a.Config.Iterations,
		Suffixer:   a.Suffixer,
	}

	name := formatOverride
	if name == "" && record != nil {
		name = record.Format
		if record.Iterations > 0 {
			opts.Iterations = record.Iterations
		}
	}

	format, err := crypto.ParseFormat(name)
	if err != nil {
		return opts, err
	}
	opts.Format = format
	if format == crypto.FormatLegacy {
		opts.Iterations = 0
	}
	return opts, nil
}

type passwordSource int

const (
	sourceEnv passwordSource = iota
	sourceKeyring
	sourcePrompt
	sourceCaller
)

// passwordFromEnv reads password from SPAM_PASSWORD
func passwordFromEnv() []byte {
	password := os.Getenv(config.EnvPassword)
	if password == "" {
		return nil
	}
	return []byte(password)
}

// readPassword tries the environment, then the keyring entry of record,
// then prompts. The caller clears the returned password.
func (a *App) readPassword(record *storage.VaultRecord, message string, useEnv, interactive bool) ([]byte, passwordSource, error) {
	if useEnv {
		if password := passwordFromEnv(); password != nil {
			a.Log.Debugf("Using password from %s", config.EnvPassword)
			return password, sourceEnv, nil
		}
	}

	if record != nil {
		password, err := keyring.GetPassword(record.ID)
		switch {
		case err == nil:
			a.Log.Debugf("Using password from keyring")
			return password, sourceKeyring, nil
		case !errors.Is(err, keyring.ErrNoPassword):
			a.Log.Debugf("Keyring unavailable: %s", err)
		}
	}

	if !interactive {
		return nil, sourcePrompt, errNoPassword
	}

	password, err := a.Prompt.Password(message)
	if err != nil {
		return nil, sourcePrompt, err
	}
	return password, sourcePrompt, nil
}

// session is an unlocked vault and the file behind it
type session struct {
	vault  *core.Vault
	file   *fileproxy.File
	record *storage.VaultRecord
}

func (s *session) store() *core.Store {
	return s.vault.Store()
}

// save writes the vault unless the command was interrupted
func (s *session) save(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.vault.Save()
}

func (s *session) Close() {
	s.vault.Close()
	s.file.Close()
}

type openOptions struct {
	path        string
	format      string
	message     string
	useEnv      bool
	interactive bool
	password    []byte // used as is when set
}

// openVault unlocks the configured vault
func (a *App) openVault(ctx context.Context) (*session, error) {
	return a.open(ctx, openOptions{
		path:        a.Config.File,
		format:      a.Config.Format,
		message:     "Enter password: ",
		useEnv:      true,
		interactive: true,
	})
}

func (a *App) open(ctx context.Context, o openOptions) (*session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := fileproxy.Open(o.path)
	if err != nil {
		return nil, err
	}
	if !file.Exists() {
		file.Close()
		return nil, fmt.Errorf("%w: %s", core.ErrVaultNotFound, file.Path())
	}

	record := a.lookup(file.Path())
	opts, err := a.vaultOptions(o.format, record)
	if err != nil {
		file.Close()
		return nil, err
	}

	password, source := append([]byte(nil), o.password...), sourceCaller
	if o.password == nil {
		password, source, err = a.readPassword(record, o.message, o.useEnv, o.interactive)
		if err != nil {
			file.Close()
			return nil, err
		}
	}
	v, err := core.Open(file, password, opts)
	crypto.ClearBytes(password)

	if errors.Is(err, core.ErrWrongPassword) && source == sourceKeyring && o.interactive {
		a.Log.Warnf("Password stored in keyring does not unlock %s", file.Path())
		password, err = a.Prompt.Password(o.message)
		if err != nil {
			file.Close()
			return nil, err
		}
		v, err = core.Open(file, password, opts)
		crypto.ClearBytes(password)
	}
	if err != nil {
		file.Close()
		return nil, err
	}

	for _, m := range v.Warnings() {
		a.Log.Warnf("Skipped malformed line %d in %s", m.Number, file.Name())
		a.Log.Debugf("Malformed line %d: %q", m.Number, m.Content)
	}

	if r := a.remember(file.Path(), record, opts); r != nil {
		record = r
	}
	a.Log.Infof("Unlocked %s (%d accounts, %s format)", file.Path(), v.Store().Len(), opts.Format)

	return &session{vault: v, file: file, record: record}, nil
}

// withVault unlocks the configured vault for the duration of fn
func (a *App) withVault(ctx context.Context, fn func(*session) error) error {
	s, err := a.openVault(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

// HandleError reports err through log with a hint for well-known failures
func HandleError(log logging.Logger, err error) {
	if log.Err == nil {
		log.Err = os.Stderr
	}

	switch {
	case errors.Is(err, core.ErrVaultNotFound):
		log.Errorf("%s", err)
		fmt.Fprintln(log.Err, "Run 'spam init' to create it, or pass --file")
	case errors.Is(err, core.ErrVaultExists):
		log.Errorf("%s", err)
		fmt.Fprintln(log.Err, "Use 'spam status' to see its state")
	case errors.Is(err, core.ErrWrongPassword):
		log.Errorf("wrong password")
	case errors.Is(err, fileproxy.ErrFileExists):
		log.Errorf("%s", err)
		fmt.Fprintln(log.Err, "Refusing to overwrite it, choose another name")
	case errors.Is(err, context.Canceled):
		log.Errorf("interrupted, nothing was saved")
	default:
		log.Errorf("%s", err)
	}
}
