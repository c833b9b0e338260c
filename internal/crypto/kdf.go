package crypto

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize     = 32     // Salt size in bytes
	KeySize      = 32     // AES-256 key size
	DefaultIters = 210000 // Default PBKDF2 iterations (OWASP minimum)
)

// DeriveKey returns SHA-256 of the password. The result is deterministic
// and unsalted; it is the key schedule of the legacy format.
func DeriveKey(password []byte) []byte {
	sum := sha256.Sum256(password)
	key := make([]byte, KeySize)
	copy(key, sum[:])
	ClearBytes(sum[:])
	return key
}

// KDF handles salted key derivation from passwords
type KDF struct {
	Salt       []byte
	Iterations int
}

// NewKDF creates a new KDF with a random salt
func NewKDF(iterations int) (*KDF, error) {
	salt, err := GenerateRandom(SaltSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	if iterations <= 0 {
		iterations = DefaultIters
	}

	return &KDF{
		Salt:       salt,
		Iterations: iterations,
	}, nil
}

// DeriveKey derives an encryption key from a password
func (k *KDF) DeriveKey(password []byte) []byte {
	return pbkdf2.Key(password, k.Salt, k.Iterations, KeySize, sha256.New)
}
