// Package config loads runtime configuration for the spam CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file, $XDG_CONFIG_HOME/spam/config.json unless --config
//     names another one. A missing default file is not an error.
//  3. Environment: SPAM_FILE, SPAM_FORMAT, SPAM_STATE_DIR, SPAM_ITERATIONS.
//  4. Command-line flags, applied by the cmd package.
//
// # JSON schema
//
//	{
//	  "file": "~/secrets.spam",
//	  "format": "salted",
//	  "state_dir": "~/.local/state/spam",
//	  "iterations": 210000
//	}
//
// SPAM_PASSWORD is read by the cmd package, never stored here.
package config
