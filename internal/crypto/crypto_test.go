package crypto

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIters = 1000

func payloads() map[string][]byte {
	return map[string][]byte{
		"empty":       {},
		"one byte":    []byte("a"),
		"block - 1":   bytes.Repeat([]byte("x"), BlockSize-1),
		"exact block": bytes.Repeat([]byte("y"), BlockSize),
		"block + 1":   bytes.Repeat([]byte("z"), BlockSize+1),
		"accounts":    []byte("abc=mySecret\nmy bank=my bank secret access codes\n"),
		"utf-8":       []byte("café=Ñoño 世界\n"),
	}
}

func TestDeriveKey(t *testing.T) {
	key := DeriveKey([]byte("password"))
	want := sha256.Sum256([]byte("password"))

	assert.Len(t, key, KeySize)
	assert.Equal(t, want[:], key)
	assert.Equal(t, key, DeriveKey([]byte("password")), "derivation must be deterministic")
	assert.NotEqual(t, key, DeriveKey([]byte("Password")))
}

func TestKDF_DeriveKey(t *testing.T) {
	kdf, err := NewKDF(testIters)
	require.NoError(t, err)
	assert.Len(t, kdf.Salt, SaltSize)

	k1 := kdf.DeriveKey([]byte("secret"))
	k2 := kdf.DeriveKey([]byte("secret"))
	assert.Len(t, k1, KeySize)
	assert.Equal(t, k1, k2)

	other, err := NewKDF(testIters)
	require.NoError(t, err)
	assert.NotEqual(t, k1, other.DeriveKey([]byte("secret")), "different salts must give different keys")
}

func TestNewKDF_DefaultIterations(t *testing.T) {
	kdf, err := NewKDF(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultIters, kdf.Iterations)
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatLegacy, FormatSalted} {
		for name, p := range payloads() {
			t.Run(fmt.Sprintf("%s/%s", format, name), func(t *testing.T) {
				c, err := NewCipher(format, []byte("password"), testIters)
				require.NoError(t, err)
				defer c.Destroy()

				ct, err := c.Encrypt(p)
				require.NoError(t, err)
				assert.Greater(t, len(ct), len(p))

				got, err := c.Decrypt(ct)
				require.NoError(t, err)
				assert.Equal(t, string(p), string(got))
			})
		}
	}
}

func TestLegacy_PaddingLength(t *testing.T) {
	c := NewLegacyCipher(DeriveKey([]byte("k")))
	for n := 0; n <= 3*BlockSize; n++ {
		ct, err := c.Encrypt(bytes.Repeat([]byte{'a'}, n))
		require.NoError(t, err)
		assert.Zero(t, len(ct)%BlockSize)
		pad := len(ct) - n
		assert.True(t, pad >= 1 && pad <= BlockSize, "padding of %d bytes for input %d", pad, n)
	}
}

func TestLegacy_Deterministic(t *testing.T) {
	c := NewLegacyCipher(DeriveKey([]byte("k")))
	a, err := c.Encrypt([]byte("acct=secret\n"))
	require.NoError(t, err)
	b, err := c.Encrypt([]byte("acct=secret\n"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// Known answer: openssl enc -aes-256-cbc -K $(sha256 "password") -iv 0
func TestLegacy_KnownAnswer(t *testing.T) {
	plaintext := []byte("acct1=secret1\nacct2=secret2\n")
	want, err := hex.DecodeString("587f2d3f436e12b4e10d8c28e86319b8de4f2fc28f78821c7226983b31678463")
	require.NoError(t, err)

	c, err := NewCipher(FormatLegacy, []byte("password"), 0)
	require.NoError(t, err)

	got, err := c.Encrypt(plaintext)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	decrypted, err := c.Decrypt(want)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestSalted_FreshSaltAndIV(t *testing.T) {
	c := NewSaltedCipher([]byte("k"), testIters)
	a, err := c.Encrypt([]byte("acct=secret\n"))
	require.NoError(t, err)
	b, err := c.Encrypt([]byte("acct=secret\n"))
	require.NoError(t, err)

	assert.NotEqual(t, a[:SaltSize], b[:SaltSize])
	assert.NotEqual(t, a, b)
	assert.Len(t, a, SaltSize+BlockSize+BlockSize)
}

func TestWrongPasswordNeverReturnsPlaintext(t *testing.T) {
	p := []byte("acct1=secret1\nacct2=secret2\n")

	for _, format := range []Format{FormatLegacy, FormatSalted} {
		right, err := NewCipher(format, []byte("right"), testIters)
		require.NoError(t, err)
		ct, err := right.Encrypt(p)
		require.NoError(t, err)

		for i := 0; i < 32; i++ {
			wrong, err := NewCipher(format, []byte(fmt.Sprintf("wrong-%d", i)), testIters)
			require.NoError(t, err)

			got, err := wrong.Decrypt(ct)
			if err != nil {
				assert.ErrorIs(t, err, ErrDecryption)
				continue
			}
			assert.NotEqual(t, p, got, "%s: wrong password %d decrypted to the plaintext", format, i)
		}
	}
}

func TestDecrypt_InvalidInput(t *testing.T) {
	legacy := NewLegacyCipher(DeriveKey([]byte("k")))
	salted := NewSaltedCipher([]byte("k"), testIters)

	tests := []struct {
		name   string
		cipher Cipher
		input  []byte
	}{
		{"legacy empty", legacy, []byte{}},
		{"legacy short", legacy, []byte("short")},
		{"legacy not block multiple", legacy, bytes.Repeat([]byte{1}, BlockSize+3)},
		{"salted header only", salted, bytes.Repeat([]byte{1}, SaltSize+BlockSize)},
		{"salted truncated", salted, bytes.Repeat([]byte{1}, SaltSize+BlockSize+5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cipher.Decrypt(tt.input)
			assert.ErrorIs(t, err, ErrDecryption)
		})
	}
}

func TestPKCS7Unpad(t *testing.T) {
	good := append(bytes.Repeat([]byte{'a'}, 12), 4, 4, 4, 4)
	out, err := pkcs7Unpad(good, BlockSize)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{'a'}, 12), out)

	for name, bad := range map[string][]byte{
		"zero pad":       append(bytes.Repeat([]byte{'a'}, 15), 0),
		"pad too large":  append(bytes.Repeat([]byte{'a'}, 15), 17),
		"inconsistent":   append(bytes.Repeat([]byte{'a'}, 12), 1, 4, 4, 4),
		"not a multiple": {1, 1, 1},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := pkcs7Unpad(bad, BlockSize)
			assert.ErrorIs(t, err, ErrDecryption)
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatLegacy, f)

	f, err = ParseFormat(" Salted ")
	require.NoError(t, err)
	assert.Equal(t, FormatSalted, f)

	_, err = ParseFormat("gcm")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = NewCipher("gcm", []byte("x"), 0)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestDestroy(t *testing.T) {
	key := DeriveKey([]byte("k"))
	c := NewLegacyCipher(key)
	c.Destroy()
	assert.Equal(t, make([]byte, KeySize), key)
}
