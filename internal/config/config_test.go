package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/illarion/spam/internal/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvFile, EnvFormat, EnvStateDir, EnvIterations} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", "/state")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	var c Config
	c.LoadDefaults()

	assert.Equal(t, DefaultFile, c.File)
	assert.Empty(t, c.Format)
	assert.Equal(t, filepath.Join("/state", "spam"), c.StateDir)
	assert.Equal(t, crypto.DefaultIters, c.Iterations)
}

func TestLoad_MissingDefaultFileIsFine(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultFile, cfg.File)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	path := writeTempJSON(t, map[string]any{
		"file":       "/json/vault.spam",
		"format":     "salted",
		"state_dir":  "/json/state",
		"iterations": 5000,
	})

	t.Run("json overrides defaults", func(t *testing.T) {
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "/json/vault.spam", cfg.File)
		assert.Equal(t, "salted", cfg.Format)
		assert.Equal(t, "/json/state", cfg.StateDir)
		assert.Equal(t, 5000, cfg.Iterations)
	})

	t.Run("env overrides json", func(t *testing.T) {
		t.Setenv(EnvFile, "/env/vault.spam")
		t.Setenv(EnvFormat, "legacy")
		t.Setenv(EnvIterations, "7000")

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "/env/vault.spam", cfg.File)
		assert.Equal(t, "legacy", cfg.Format)
		assert.Equal(t, "/json/state", cfg.StateDir)
		assert.Equal(t, 7000, cfg.Iterations)
	})
}

func TestLoad_DefaultLocation(t *testing.T) {
	clearEnv(t)
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "spam"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(xdg, "spam", "config.json"), []byte(`{"file":"/xdg.spam"}`), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/xdg.spam", cfg.File)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)

	t.Run("bad json", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		_, err := Load(bad)
		assert.Error(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Setenv(EnvFormat, "rot13")
		_, err := Load("")
		assert.ErrorIs(t, err, crypto.ErrUnknownFormat)
	})

	t.Run("bad iterations", func(t *testing.T) {
		t.Setenv(EnvIterations, "many")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("non-positive iterations", func(t *testing.T) {
		t.Setenv(EnvIterations, "0")
		_, err := Load("")
		assert.Error(t, err)
	})
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "vault.spam"), expandHome("~/vault.spam"))
	assert.Equal(t, "/abs/vault.spam", expandHome("/abs/vault.spam"))
	assert.Equal(t, "~user/x", expandHome("~user/x"))
}
