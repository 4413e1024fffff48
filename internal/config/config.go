// Package config loads glasslink settings from YAML.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	LogLevel  string          `yaml:"log_level"`
	LogFile   string          `yaml:"log_file"`
	Adapter   AdapterConfig   `yaml:"adapter"`
	Handshake HandshakeConfig `yaml:"handshake"`
	Heartbeat HeartbeatConfig `yaml:"heartbeat"`
}

// AdapterConfig selects the local Bluetooth adapter.
type AdapterConfig struct {
	ID string `yaml:"id"` // BlueZ name, e.g. "hci0"
}

// HandshakeConfig bounds the connection handshake.
type HandshakeConfig struct {
	Timeout        time.Duration `yaml:"timeout"` // 0 disables
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// HeartbeatConfig supervises an established link.
type HeartbeatConfig struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "glasslink")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		LogLevel: "info",
		LogFile:  filepath.Join(home, ".local", "state", "glasslink", "glasslink.log"),
		Adapter:  AdapterConfig{ID: "hci0"},
		Handshake: HandshakeConfig{
			Timeout:        0,
			ConnectTimeout: 10 * time.Second,
		},
		Heartbeat: HeartbeatConfig{
			Interval: 2 * time.Second,
			Timeout:  6 * time.Second,
		},
	}
}

// Load reads and parses a YAML config file. Missing fields are filled
// with defaults. Tilde (~) in log_file is expanded to the user's home directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.LogFile = expandTilde(cfg.LogFile)

	return cfg, nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	if c.Adapter.ID == "" {
		return fmt.Errorf("adapter.id must not be empty")
	}

	if c.Handshake.Timeout < 0 {
		return fmt.Errorf("handshake.timeout must be >= 0, got %s", c.Handshake.Timeout)
	}
	if c.Handshake.ConnectTimeout <= 0 {
		return fmt.Errorf("handshake.connect_timeout must be > 0, got %s", c.Handshake.ConnectTimeout)
	}

	if c.Heartbeat.Interval <= 0 {
		return fmt.Errorf("heartbeat.interval must be > 0, got %s", c.Heartbeat.Interval)
	}
	if c.Heartbeat.Timeout <= c.Heartbeat.Interval {
		return fmt.Errorf("heartbeat.timeout (%s) must be greater than heartbeat.interval (%s)",
			c.Heartbeat.Timeout, c.Heartbeat.Interval)
	}

	return nil
}

// ParseLogLevel maps a log_level string to a slog.Level, defaulting to info.
func ParseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const defaultHeader = `# glasslink configuration
# Durations use Go syntax (500ms, 2s, 1m). handshake.timeout: 0s disables it.
`

// WriteDefault writes the default config to DefaultConfigPath if no file
// exists there yet. It returns the path written, or "" when a config was
// already present.
func WriteDefault() (string, error) {
	path := DefaultConfigPath()
	if _, err := os.Stat(path); err == nil {
		return "", nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return "", fmt.Errorf("encoding default config: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(defaultHeader), data...), 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}
	return path, nil
}

// expandTilde replaces a leading ~ with the user's home directory.
func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
