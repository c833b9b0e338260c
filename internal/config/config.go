package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/illarion/spam/internal/crypto"
)

const (
	DefaultFile = "passwords.spam"

	EnvFile       = "SPAM_FILE"
	EnvFormat     = "SPAM_FORMAT"
	EnvStateDir   = "SPAM_STATE_DIR"
	EnvIterations = "SPAM_ITERATIONS"
	EnvPassword   = "SPAM_PASSWORD"
)

// Config holds runtime settings for the spam CLI.
//
// Format "" means the format recorded in the vault registry is used,
// falling back to legacy for vaults spam has never seen.
type Config struct {
	File       string
	Format     string
	StateDir   string
	Iterations int
}

// JsonConfig is the on-disk shape of the config file
type JsonConfig struct {
	File       string `json:"file"`
	Format     string `json:"format"`
	StateDir   string `json:"state_dir"`
	Iterations int    `json:"iterations"`
}

// LoadDefaults populates c with defaults
func (c *Config) LoadDefaults() {
	c.File = DefaultFile
	c.Format = ""
	c.StateDir = defaultStateDir()
	c.Iterations = crypto.DefaultIters
}

// Load applies defaults, then the JSON file, then the environment. An
// empty path selects the default config location.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if err := cfg.LoadFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if err := cfg.LoadEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadFile overlays values present in a JSON file
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}

	if jc.File != "" {
		c.File = expandHome(jc.File)
	}
	if jc.Format != "" {
		c.Format = jc.Format
	}
	if jc.StateDir != "" {
		c.StateDir = expandHome(jc.StateDir)
	}
	if jc.Iterations != 0 {
		c.Iterations = jc.Iterations
	}
	return nil
}

// LoadEnv overlays values from SPAM_* variables
func (c *Config) LoadEnv() error {
	if v := os.Getenv(EnvFile); v != "" {
		c.File = expandHome(v)
	}
	if v := os.Getenv(EnvFormat); v != "" {
		c.Format = v
	}
	if v := os.Getenv(EnvStateDir); v != "" {
		c.StateDir = expandHome(v)
	}
	if v := os.Getenv(EnvIterations); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvIterations, err)
		}
		c.Iterations = n
	}
	return nil
}

// Validate checks the format name and iteration count
func (c *Config) Validate() error {
	if c.Format != "" {
		if _, err := crypto.ParseFormat(c.Format); err != nil {
			return err
		}
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", c.Iterations)
	}
	return nil
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "spam", "config.json")
}

func defaultStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "spam")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "spam")
	}
	return filepath.Join(home, ".local", "state", "spam")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
