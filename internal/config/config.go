// Package config handles user configuration loading and management.
package config

import (
	"math"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/philipparndt/gostl3mf/internal/logging"
	"github.com/philipparndt/gostl3mf/pkg/errors"
	"github.com/philipparndt/gostl3mf/pkg/layout"
)

// FileName is the config file name inside the config directory
const FileName = "config.toml"

// Config holds all user settings.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Output OutputConfig `toml:"output"`
	Log    LogConfig    `toml:"log"`
}

// LayoutConfig holds the default arrangement of copies.
type LayoutConfig struct {
	Mode          string  `toml:"mode"`
	SpacingFactor float64 `toml:"spacing_factor"`
	Columns       int     `toml:"columns"`
	Center        bool    `toml:"center"`
}

// OutputConfig holds what goes into written packages.
type OutputConfig struct {
	Metadata      bool `toml:"metadata"`
	Thumbnail     bool `toml:"thumbnail"`
	ThumbnailSize int  `toml:"thumbnail_size"`
	ShareMeshes   bool `toml:"share_meshes"`
	UUIDs         bool `toml:"uuids"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			Mode:          "grid",
			SpacingFactor: 1.1,
			Center:        true,
		},
		Output: OutputConfig{
			Metadata:      true,
			Thumbnail:     true,
			ThumbnailSize: 256,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Dir returns the user config directory, honoring XDG_CONFIG_HOME.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gostl3mf")
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "gostl3mf")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "gostl3mf")
}

// DefaultPath returns the config file used when none is given.
func DefaultPath() string {
	return filepath.Join(Dir(), FileName)
}

// Load reads the config at path on top of the defaults. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to read config").WithPath(path)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to parse config").WithPath(path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path, creating the parent directory if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to create config directory")
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to create config").WithPath(path)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to encode config").WithPath(path)
	}
	return f.Close()
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if _, err := c.LayoutSpec(); err != nil {
		return errors.Validation("invalid layout config: %s", errors.UserMessage(err))
	}
	if c.Output.ThumbnailSize <= 0 {
		return errors.Validation("thumbnail_size must be positive, got %d", c.Output.ThumbnailSize)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return errors.Validation("invalid log level %q", c.Log.Level)
	}
	return nil
}

// LayoutSpec converts the layout section into a layout.Spec.
func (c *Config) LayoutSpec() (layout.Spec, error) {
	mode, err := layout.ParseMode(c.Layout.Mode)
	if err != nil {
		return layout.Spec{}, err
	}
	sf := c.Layout.SpacingFactor
	if math.IsNaN(sf) || math.IsInf(sf, 0) || sf < 1.0 {
		return layout.Spec{}, errors.Layout("spacing_factor must be a finite number of at least 1.0, got %v", sf)
	}
	if c.Layout.Columns < 0 {
		return layout.Spec{}, errors.Layout("columns must not be negative, got %d", c.Layout.Columns)
	}
	return layout.Spec{
		Mode:          mode,
		Columns:       c.Layout.Columns,
		SpacingFactor: c.Layout.SpacingFactor,
		Center:        c.Layout.Center,
	}, nil
}
