// SPDX-FileCopyrightText: 2025 The Unipkg Authors
// SPDX-License-Identifier: EUPL-1.2

// Package config loads the user configuration file and resolves the XDG
// paths the program writes to.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Log levels accepted in the config file.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// ErrInvalidConfig is returned for a config file with unusable values.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the content of config.toml. Zero values mean "use the default".
type Config struct {
	DefaultManager   string   `toml:"default_manager"`
	LogLevel         string   `toml:"log_level"`
	LogFile          string   `toml:"log_file"`
	Timeout          Duration `toml:"timeout"`
	ElevationCommand string   `toml:"elevation_command"`
	Proxy            string   `toml:"proxy"`
	Managers         []string `toml:"managers"`
}

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: timeout %q: %w", ErrInvalidConfig, text, err)
	}

	d.Duration = parsed

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:         LevelInfo,
		LogFile:          DefaultLogFile(),
		ElevationCommand: "sudo",
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := Parse(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse decodes TOML data into cfg and validates the result. Keys absent
// from data keep their value in cfg.
func Parse(data []byte, cfg *Config) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.LogFile = ExpandPath(cfg.LogFile)

	return cfg.Validate()
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if !slices.Contains([]string{LevelDebug, LevelInfo, LevelWarn, LevelError}, c.LogLevel) {
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}

	if c.Timeout.Duration < 0 {
		return fmt.Errorf("%w: negative timeout", ErrInvalidConfig)
	}

	if c.ElevationCommand == "" {
		return fmt.Errorf("%w: empty elevation_command", ErrInvalidConfig)
	}

	return nil
}

// Encode renders cfg as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
