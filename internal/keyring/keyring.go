// Package keyring caches vault passwords in the OS keyring.
//
// Entries are stored under the "spam" service, with the vault's registry
// ID as the account, so moving a vault file does not orphan its entry.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const serviceName = "spam"

var ErrNoPassword = errors.New("no password stored in keyring")

// SavePassword stores a password in the OS keyring
func SavePassword(vaultID string, password []byte) error {
	if err := keyring.Set(serviceName, vaultID, string(password)); err != nil {
		return fmt.Errorf("failed to save password to keyring: %w", err)
	}
	return nil
}

// GetPassword retrieves a password from the OS keyring
func GetPassword(vaultID string) ([]byte, error) {
	password, err := keyring.Get(serviceName, vaultID)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNoPassword
		}
		return nil, fmt.Errorf("failed to read keyring: %w", err)
	}
	return []byte(password), nil
}

// DeletePassword removes a password from the OS keyring
func DeletePassword(vaultID string) error {
	err := keyring.Delete(serviceName, vaultID)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNoPassword
	}
	return err
}

// HasPassword checks if a password is stored in the keyring
func HasPassword(vaultID string) bool {
	_, err := keyring.Get(serviceName, vaultID)
	return err == nil
}
