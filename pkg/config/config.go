// Package config loads cadence's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/stefanpenner/cadence/pkg/reorder"
	"github.com/stefanpenner/cadence/pkg/store"
	"github.com/stefanpenner/cadence/pkg/view"
)

// FileName is the config file inside the config directory.
const FileName = "config.toml"

// Config is the merged configuration.
type Config struct {
	DataDir   string  `toml:"data_dir"`
	LogLevel  string  `toml:"log_level"`
	OrderStep float64 `toml:"order_step"`

	View ViewConfig `toml:"view"`
	Sync SyncConfig `toml:"sync"`
}

// ViewConfig holds the CLI and TUI filter defaults.
type ViewConfig struct {
	Status        string `toml:"status"`
	Range         string `toml:"range"` // today, week or all
	ExcludeSystem bool   `toml:"exclude_system"`
}

// SyncConfig configures git sync of the data directory.
type SyncConfig struct {
	Remote      string `toml:"remote"`
	AuthorName  string `toml:"author_name"`
	AuthorEmail string `toml:"author_email"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:   store.DefaultDataDir(),
		LogLevel:  "info",
		OrderStep: reorder.DefaultStep,
		View: ViewConfig{
			Status:        string(view.StatusAll),
			Range:         "today",
			ExcludeSystem: true,
		},
		Sync: SyncConfig{
			AuthorName:  "cadence",
			AuthorEmail: "cadence@localhost",
		},
	}
}

// DefaultDir returns $XDG_CONFIG_HOME/cadence, falling back to ~/.config/cadence.
func DefaultDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, store.AppName)
}

// Load reads FileName from dir over the defaults. A missing file is not an
// error. CADENCE_DIR, when set, overrides data_dir.
func Load(dir string) (*Config, error) {
	cfg := Default()
	if dir != "" {
		data, err := os.ReadFile(filepath.Join(dir, FileName))
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", FileName, err)
			}
		}
	}
	if env := os.Getenv(store.EnvDataDir); env != "" {
		cfg.DataDir = env
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	if c.OrderStep <= 0 {
		return fmt.Errorf("order_step must be positive, got %v", c.OrderStep)
	}
	if _, err := view.ParseStatus(c.View.Status); err != nil {
		return fmt.Errorf("view.status: %w", err)
	}
	switch c.View.Range {
	case "", "today", "week", "all":
	default:
		return fmt.Errorf("view.range: invalid value %q (use today, week or all)", c.View.Range)
	}
	return nil
}

// Save writes c to dir/FileName, creating dir if needed.
func (c *Config) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, FileName), data, 0o600)
}
