package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// BlockSize is the AES block size, also the IV size
const BlockSize = aes.BlockSize

var zeroIV = make([]byte, BlockSize)

// LegacyCipher is AES-256-CBC with a fixed zero IV and PKCS#7 padding
type LegacyCipher struct {
	key []byte
}

// NewLegacyCipher creates a legacy cipher over a 32-byte key
func NewLegacyCipher(key []byte) *LegacyCipher {
	return &LegacyCipher{key: key}
}

// Encrypt encrypts plaintext. The output is 1..16 bytes longer than the input.
func (c *LegacyCipher) Encrypt(plaintext []byte) ([]byte, error) {
	return cbcEncrypt(c.key, zeroIV, plaintext)
}

// Decrypt reverses Encrypt, returning ErrDecryption on bad length or padding
func (c *LegacyCipher) Decrypt(ciphertext []byte) ([]byte, error) {
	return cbcDecrypt(c.key, zeroIV, ciphertext)
}

// Destroy clears the key from memory
func (c *LegacyCipher) Destroy() {
	ClearBytes(c.key)
}

// SaltedCipher writes salt || iv || ciphertext with a PBKDF2-derived key.
// Every Encrypt draws a fresh salt and IV.
type SaltedCipher struct {
	password   []byte
	iterations int
}

// NewSaltedCipher keeps a private copy of the password for per-save key derivation
func NewSaltedCipher(password []byte, iterations int) *SaltedCipher {
	if iterations <= 0 {
		iterations = DefaultIters
	}
	pw := make([]byte, len(password))
	copy(pw, password)
	return &SaltedCipher{password: pw, iterations: iterations}
}

// Encrypt encrypts plaintext under a new salt and IV
func (c *SaltedCipher) Encrypt(plaintext []byte) ([]byte, error) {
	kdf, err := NewKDF(c.iterations)
	if err != nil {
		return nil, err
	}
	iv, err := GenerateRandom(BlockSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate iv: %w", err)
	}

	key := kdf.DeriveKey(c.password)
	defer ClearBytes(key)

	ciphertext, err := cbcEncrypt(key, iv, plaintext)
	if err != nil {
		return nil, err
	}

	result := make([]byte, 0, SaltSize+BlockSize+len(ciphertext))
	result = append(result, kdf.Salt...)
	result = append(result, iv...)
	result = append(result, ciphertext...)
	return result, nil
}

// Decrypt splits the header off and decrypts the remainder
func (c *SaltedCipher) Decrypt(data []byte) ([]byte, error) {
	if len(data) < SaltSize+2*BlockSize {
		return nil, ErrDecryption
	}

	kdf := &KDF{Salt: data[:SaltSize], Iterations: c.iterations}
	iv := data[SaltSize : SaltSize+BlockSize]

	key := kdf.DeriveKey(c.password)
	defer ClearBytes(key)

	return cbcDecrypt(key, iv, data[SaltSize+BlockSize:])
}

// Destroy clears the password copy from memory
func (c *SaltedCipher) Destroy() {
	ClearBytes(c.password)
}

func cbcEncrypt(key, iv, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	padded := pkcs7Pad(plaintext, BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	ClearBytes(padded)
	return out, nil
}

func cbcDecrypt(key, iv, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%BlockSize != 0 {
		return nil, ErrDecryption
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)

	plaintext, err := pkcs7Unpad(out, BlockSize)
	if err != nil {
		ClearBytes(out)
		return nil, err
	}
	return plaintext, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrDecryption
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, ErrDecryption
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrDecryption
		}
	}
	return data[:len(data)-n], nil
}
