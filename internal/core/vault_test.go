package core

import (
	"errors"
	"testing"

	"github.com/illarion/spam/internal/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memFile is an in-memory FileProxy
type memFile struct {
	name     string
	exists   bool
	data     []byte
	writes   int
	readErr  error
	writeErr error
}

func (f *memFile) Exists() bool           { return f.exists }
func (f *memFile) IsEmpty() (bool, error) { return len(f.data) == 0, nil }
func (f *memFile) Name() string           { return f.name }

func (f *memFile) ReadAll() ([]byte, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return append([]byte(nil), f.data...), nil
}

func (f *memFile) WriteAll(data []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.data = append([]byte(nil), data...)
	f.exists = true
	f.writes++
	return nil
}

func (f *memFile) Touch() error {
	f.exists = true
	return nil
}

var testFormats = []VaultOptions{
	{Format: crypto.FormatLegacy},
	{Format: crypto.FormatSalted, Iterations: 1000},
}

func TestOpen_EmptyFileIsNewStore(t *testing.T) {
	file := &memFile{name: "empty.file", exists: true}

	v, err := Open(file, []byte("myPassword"), VaultOptions{})
	require.NoError(t, err)
	defer v.Close()

	assert.Zero(t, v.Store().Len())
	assert.Equal(t, StateLoaded, v.State())
	assert.Zero(t, file.writes)
}

func TestVault_SaveAndReopen(t *testing.T) {
	for _, opts := range testFormats {
		t.Run(string(opts.Format), func(t *testing.T) {
			file := &memFile{name: "secret.spam", exists: true}
			password := []byte("password")

			v, err := Open(file, password, opts)
			require.NoError(t, err)
			v.Store().Add("abc", "mySecret")
			v.Store().Add("my bank", "my bank secret access codes")
			assert.Equal(t, StateMutated, v.State())

			require.NoError(t, v.Save())
			assert.Equal(t, StateSaved, v.State())
			v.Close()

			assert.NotContains(t, string(file.data), "mySecret")

			reopened, err := Open(file, password, opts)
			require.NoError(t, err)
			defer reopened.Close()

			got, ok := reopened.Store().Get("abc")
			require.True(t, ok)
			assert.Equal(t, "mySecret", got)
			assert.Equal(t, []string{"abc", "my bank"}, reopened.Store().Keys())
		})
	}
}

func TestVault_SaveRepeatedly(t *testing.T) {
	file := &memFile{name: "f", exists: true}
	v, err := Open(file, []byte("pw"), VaultOptions{})
	require.NoError(t, err)
	defer v.Close()

	require.NoError(t, v.Save())
	v.Store().Add("a", "1")
	require.NoError(t, v.Save())
	assert.Equal(t, 2, file.writes)
}

func TestOpen_WrongPassword(t *testing.T) {
	file := &memFile{name: "f", exists: true}
	v, err := Create(&memFile{name: "new"}, []byte("right"), VaultOptions{})
	require.NoError(t, err)
	v.Store().Add("acct", "secret with enough text to span blocks")
	v.file = file
	require.NoError(t, v.Save())
	v.Close()

	for _, pw := range []string{"wrong", "Right", "right "} {
		reopened, err := Open(file, []byte(pw), VaultOptions{})
		if err != nil {
			assert.ErrorIs(t, err, ErrWrongPassword)
			assert.ErrorIs(t, err, crypto.ErrDecryption)
			continue
		}
		got, _ := reopened.Store().Get("acct")
		assert.NotEqual(t, "secret with enough text to span blocks", got)
	}
}

func TestOpen_Validation(t *testing.T) {
	_, err := Open(&memFile{name: "f", exists: true}, []byte("  "), VaultOptions{})
	assert.ErrorIs(t, err, ErrBlankPassword)

	_, err = Open(&memFile{name: "missing"}, []byte("pw"), VaultOptions{})
	assert.ErrorIs(t, err, ErrVaultNotFound)

	_, err = Open(&memFile{name: "f", exists: true}, []byte("pw"), VaultOptions{Format: "rot13"})
	assert.ErrorIs(t, err, crypto.ErrUnknownFormat)

	readErr := errors.New("disk on fire")
	_, err = Open(&memFile{name: "f", exists: true, data: []byte{1}, readErr: readErr}, []byte("pw"), VaultOptions{})
	assert.ErrorIs(t, err, readErr)
}

func TestCreate(t *testing.T) {
	file := &memFile{name: "new.spam"}

	v, err := Create(file, []byte("pw"), VaultOptions{})
	require.NoError(t, err)
	defer v.Close()

	assert.True(t, file.exists)
	assert.Len(t, file.data, crypto.BlockSize, "empty store is stored as one padding block")
	assert.Equal(t, StateSaved, v.State())

	_, err = Create(file, []byte("pw"), VaultOptions{})
	assert.ErrorIs(t, err, ErrVaultExists)
}

func TestSave_WriteError(t *testing.T) {
	writeErr := errors.New("read-only")
	file := &memFile{name: "f", exists: true, writeErr: writeErr}

	v, err := Open(file, []byte("pw"), VaultOptions{})
	require.NoError(t, err)
	defer v.Close()

	v.Store().Add("a", "1")
	assert.ErrorIs(t, v.Save(), writeErr)
	assert.Equal(t, StateMutated, v.State())
}

func TestUnlock_ReportsMalformedLines(t *testing.T) {
	c := crypto.NewLegacyCipher(crypto.DeriveKey([]byte("pw")))
	blob, err := c.Encrypt([]byte("good=1\nbroken\n=alsobroken\n"))
	require.NoError(t, err)

	store, malformed, err := Unlock(blob, c)
	require.NoError(t, err)
	assert.Equal(t, []string{"good"}, store.Keys())
	assert.Len(t, malformed, 2)
}

func TestOpen_UsesSuffixer(t *testing.T) {
	file := &memFile{name: "f", exists: true}
	v, err := Open(file, []byte("pw"), VaultOptions{Suffixer: fixedSuffix("z")})
	require.NoError(t, err)
	defer v.Close()

	v.Store().Add("a", "1")
	v.Store().Import([]byte("a=2\n"))
	assert.True(t, v.Store().Exists("a_z"))
}
