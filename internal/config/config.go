// Package config loads taskwire client configuration. Values come from
// built-in defaults, then an optional TOML file, then TASKWIRE_* environment
// variables; later sources win.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultTimeout bounds a single request/response exchange.
const DefaultTimeout = 30 * time.Second

// DefaultDaemonBin is the daemon executable looked up on PATH when no
// override is configured.
const DefaultDaemonBin = "twd"

// Config represents client configuration.
type Config struct {
	// SocketPath overrides endpoint discovery entirely when set.
	SocketPath string `toml:"socket_path"`
	// Workspace is the ambient default workspace for dispatcher calls
	// that do not pass one explicitly.
	Workspace string `toml:"workspace"`
	// Actor is the identity tag attached to requests for audit trails.
	Actor string `toml:"actor"`
	// DaemonBin is the daemon executable used for autostart.
	DaemonBin string `toml:"daemon_bin"`
	// TimeoutSeconds bounds each protocol exchange.
	TimeoutSeconds int `toml:"timeout_seconds"`
	// DisableSocket prefers the fallback transport over the daemon socket.
	DisableSocket bool `toml:"disable_socket"`
	// LogLevel is one of debug, info, warn, error, none.
	LogLevel string `toml:"log_level"`
	// LogPath is the log file location; empty disables logging.
	LogPath string `toml:"log_path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DaemonBin:      DefaultDaemonBin,
		TimeoutSeconds: int(DefaultTimeout / time.Second),
		LogLevel:       "none",
	}
}

// Timeout returns the configured exchange timeout as a duration.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DefaultConfigPath returns the standard config file location.
func DefaultConfigPath() string {
	if configHome := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); configHome != "" {
		return filepath.Join(configHome, "taskwire", "config.toml")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "taskwire", "config.toml")
}

// Load builds the effective configuration: defaults, then the TOML file at
// path (DefaultConfigPath when empty; a missing file is not an error), then
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultConfigPath()
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TASKWIRE_SOCKET"); v != "" {
		c.SocketPath = v
	}
	if v := os.Getenv("TASKWIRE_WORKSPACE"); v != "" {
		c.Workspace = v
	}
	if v := os.Getenv("TASKWIRE_ACTOR"); v != "" {
		c.Actor = v
	}
	if v := os.Getenv("TASKWIRE_BIN"); v != "" {
		c.DaemonBin = v
	}
	if v := os.Getenv("TASKWIRE_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.TimeoutSeconds = secs
		}
	}
	if v := os.Getenv("TASKWIRE_NO_SOCKET"); v == "1" || strings.EqualFold(v, "true") {
		c.DisableSocket = true
	}
	if v := os.Getenv("TASKWIRE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("TASKWIRE_LOG_PATH"); v != "" {
		c.LogPath = v
	}
}

func (c *Config) validate() error {
	if c.SocketPath != "" {
		info, err := os.Stat(expandHome(c.SocketPath))
		if err != nil {
			return fmt.Errorf(
				"TASKWIRE_SOCKET points to %s, which does not exist.\n"+
					"Is the daemon running? Start it with: %s serve", c.SocketPath, c.DaemonBin)
		}
		if info.IsDir() {
			return fmt.Errorf("TASKWIRE_SOCKET points to a directory: %s", c.SocketPath)
		}
	}
	if c.Workspace != "" {
		info, err := os.Stat(c.Workspace)
		if err != nil || !info.IsDir() {
			return fmt.Errorf(
				"TASKWIRE_WORKSPACE points to %s, which is not a directory.\n"+
					"Set it to your project root or unset it to use discovery", c.Workspace)
		}
	}
	return nil
}

// expandHome expands a leading ~ to the user's home directory.
func expandHome(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
