// Package config loads parley's TOML configuration with defaults and
// environment overrides.
//
// Configuration is read from ~/.parley/config.toml by default. A missing
// file yields the built-in defaults; a malformed file is an error.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the complete parley configuration.
type Config struct {
	// Server is the chat service base URL.
	Server string `toml:"server"`
	// TimeoutSeconds bounds each API request.
	TimeoutSeconds int `toml:"timeout_seconds"`
	// DebugLog is a file path for structured debug logs; empty disables them.
	DebugLog string `toml:"debug_log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server:         "http://localhost:8000",
		TimeoutSeconds: 30,
	}
}

// DefaultPath returns the default config file location under the user's home
// directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".parley", "config.toml")
}

// Load reads the config at path, applies the PARLEY_SERVER environment
// override, and validates the result. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Defaults apply.
	default:
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	if server := os.Getenv("PARLEY_SERVER"); server != "" {
		cfg.Server = server
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Timeout returns the request timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks the configuration for values that cannot work.
func (c Config) Validate() error {
	u, err := url.Parse(c.Server)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: invalid server URL %q", c.Server)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("config: unsupported server scheme %q", u.Scheme)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("config: timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	return nil
}
