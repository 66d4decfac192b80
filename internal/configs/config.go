package configs

import (
	"fmt"
	"os"
	"time"
)

// Built-in defaults, used when neither a flag nor the config file sets a value.
const (
	DefaultRetention      = "7d"
	DefaultTimeoutSeconds = 30
)

type Config struct {
	Server   Server   `toml:"server"`
	Defaults Defaults `toml:"defaults"`
	History  History  `toml:"history"`
}

type Server struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	UserAgent      string `toml:"user_agent,omitempty"`
}

type Defaults struct {
	Retention     string `toml:"retention"`
	ConfirmReveal bool   `toml:"confirm_reveal"`
}

type History struct {
	Enabled bool `toml:"enabled"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Server: Server{
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Defaults: Defaults{
			Retention:     DefaultRetention,
			ConfirmReveal: true,
		},
		History: History{
			Enabled: true,
		},
	}
}

// Timeout returns the HTTP timeout, falling back to the default for
// non-positive values.
func (c *Config) Timeout() time.Duration {
	if c.Server.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// LoadConfig loads the config file at path. A missing file yields the
// defaults; keys absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(path, config); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.Defaults.Retention == "" {
		config.Defaults.Retention = DefaultRetention
	}

	return config, nil
}

// SaveConfig writes the config file at path, creating parent directories.
func SaveConfig(path string, config *Config) error {
	if err := SaveTOML(path, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// Load reads the config from the default location.
func Load() (*Config, error) {
	return LoadConfig(Settings.ConfigPath)
}
