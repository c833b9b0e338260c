package core

import (
	"errors"
	"fmt"

	"github.com/illarion/spam/internal/codec"
	"github.com/illarion/spam/internal/crypto"
)

// FileProxy is the storage location of an encrypted vault
type FileProxy interface {
	Exists() bool
	IsEmpty() (bool, error)
	ReadAll() ([]byte, error)
	WriteAll(data []byte) error
	Touch() error
	Name() string
}

// State is the lifecycle stage of a Vault
type State int

const (
	StateUninitialized State = iota
	StateLoaded
	StateMutated
	StateSaved
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateMutated:
		return "mutated"
	case StateSaved:
		return "saved"
	}
	return "uninitialized"
}

// VaultOptions selects the on-disk format and the suffix source
type VaultOptions struct {
	Format     crypto.Format
	Iterations int
	Suffixer   Suffixer
}

func (o VaultOptions) storeOptions() []Option {
	if o.Suffixer == nil {
		return nil
	}
	return []Option{WithSuffixer(o.Suffixer)}
}

// Vault binds an unlocked Store to its file and cipher
type Vault struct {
	file     FileProxy
	cipher   crypto.Cipher
	store    *Store
	warnings []codec.MalformedLine
	saved    bool
	savedRev uint64
}

// Unlock turns an encrypted blob into a store. An empty blob is a new,
// empty store; anything else must decrypt cleanly.
func Unlock(blob []byte, c crypto.Cipher, opts ...Option) (*Store, []codec.MalformedLine, error) {
	if len(blob) == 0 {
		return NewStore(opts...), nil, nil
	}

	plaintext, err := c.Decrypt(blob)
	if err != nil {
		if errors.Is(err, crypto.ErrDecryption) {
			return nil, nil, fmt.Errorf("%w: %w", ErrWrongPassword, err)
		}
		return nil, nil, err
	}
	defer crypto.ClearBytes(plaintext)

	entries, malformed := codec.Parse(plaintext)
	return NewStoreFromEntries(entries, opts...), malformed, nil
}

// Seal serializes and encrypts a store
func Seal(s *Store, c crypto.Cipher) ([]byte, error) {
	plaintext := s.Export()
	defer crypto.ClearBytes(plaintext)

	blob, err := c.Encrypt(plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt vault: %w", err)
	}
	return blob, nil
}

// Open reads and unlocks an existing vault file
func Open(file FileProxy, password []byte, opts VaultOptions) (*Vault, error) {
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if !file.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrVaultNotFound, file.Name())
	}

	c, err := crypto.NewCipher(opts.Format, password, opts.Iterations)
	if err != nil {
		return nil, err
	}

	empty, err := file.IsEmpty()
	if err != nil {
		c.Destroy()
		return nil, fmt.Errorf("failed to inspect %s: %w", file.Name(), err)
	}

	var blob []byte
	if !empty {
		blob, err = file.ReadAll()
		if err != nil {
			c.Destroy()
			return nil, fmt.Errorf("failed to read %s: %w", file.Name(), err)
		}
	}

	store, malformed, err := Unlock(blob, c, opts.storeOptions()...)
	if err != nil {
		c.Destroy()
		return nil, err
	}

	return &Vault{
		file:     file,
		cipher:   c,
		store:    store,
		warnings: malformed,
	}, nil
}

// Create makes a new vault file holding an empty, encrypted store
func Create(file FileProxy, password []byte, opts VaultOptions) (*Vault, error) {
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if file.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrVaultExists, file.Name())
	}
	if err := file.Touch(); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", file.Name(), err)
	}

	v, err := Open(file, password, opts)
	if err != nil {
		return nil, err
	}
	if err := v.Save(); err != nil {
		v.Close()
		return nil, err
	}
	return v, nil
}

// Store returns the unlocked accounts
func (v *Vault) Store() *Store {
	return v.store
}

// Warnings returns the malformed lines skipped while unlocking
func (v *Vault) Warnings() []codec.MalformedLine {
	return v.warnings
}

// Name identifies the vault file
func (v *Vault) Name() string {
	return v.file.Name()
}

// State reports where the vault is in its lifecycle
func (v *Vault) State() State {
	switch {
	case v.store == nil:
		return StateUninitialized
	case v.saved && v.store.Revision() == v.savedRev:
		return StateSaved
	case v.store.Revision() != v.savedRev:
		return StateMutated
	}
	return StateLoaded
}

// Save encrypts the store and overwrites the vault file
func (v *Vault) Save() error {
	if v.store == nil {
		return fmt.Errorf("vault %s is not unlocked", v.file.Name())
	}

	blob, err := Seal(v.store, v.cipher)
	if err != nil {
		return err
	}
	if err := v.file.WriteAll(blob); err != nil {
		return fmt.Errorf("failed to write %s: %w", v.file.Name(), err)
	}

	v.saved = true
	v.savedRev = v.store.Revision()
	return nil
}

// Close wipes the key material
func (v *Vault) Close() {
	if v.cipher != nil {
		v.cipher.Destroy()
	}
}
