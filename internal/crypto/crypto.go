package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDecryption    = errors.New("decryption failed")
	ErrUnknownFormat = errors.New("unknown vault format")
)

// Format identifies the on-disk layout of an encrypted vault
type Format string

const (
	FormatLegacy Format = "legacy"
	FormatSalted Format = "salted"
)

// ParseFormat converts a user supplied format name into a Format
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatLegacy:
		return FormatLegacy, nil
	case FormatSalted:
		return FormatSalted, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Cipher encrypts and decrypts whole vault payloads
type Cipher interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
	// Destroy wipes key material held by the cipher
	Destroy()
}

// NewCipher builds the cipher for the given format.
// iterations only applies to FormatSalted; zero selects DefaultIters.
func NewCipher(format Format, password []byte, iterations int) (Cipher, error) {
	switch format {
	case FormatLegacy, "":
		return NewLegacyCipher(DeriveKey(password)), nil
	case FormatSalted:
		return NewSaltedCipher(password, iterations), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// GenerateRandom generates n random bytes
func GenerateRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
