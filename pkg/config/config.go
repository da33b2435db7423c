// Package config loads and saves the nodedesign settings file.
//
// Settings live in a TOML file under the XDG config directory
// (~/.config/nodedesign/config.toml unless XDG_CONFIG_HOME is set). A
// missing file yields the defaults; missing keys keep their defaults.
//
//	[layout]
//	spacing_factor = 1.5
//	tree_factor = 1.5
//
//	[history]
//	capacity = 50
//
//	[panel]
//	x = 20
//	y = 20
//	permanent = true
//
//	[server]
//	addr = ":8080"
//	redis_addr = ""
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/nodedesign/pkg/errors"
	"github.com/matzehuels/nodedesign/pkg/history"
	"github.com/matzehuels/nodedesign/pkg/layout"
	"github.com/matzehuels/nodedesign/pkg/panel"
)

const (
	appName  = "nodedesign"
	fileName = "config.toml"

	// DefaultAddr is the listen address of the HTTP API.
	DefaultAddr = ":8080"
)

// Config is the complete settings file.
type Config struct {
	Layout  Layout  `toml:"layout"`
	History History `toml:"history"`
	Panel   Panel   `toml:"panel"`
	Server  Server  `toml:"server"`
}

// Layout holds spacing factors.
type Layout struct {
	SpacingFactor float64 `toml:"spacing_factor"`
	TreeFactor    float64 `toml:"tree_factor"`
}

// History bounds the undo and redo stacks.
type History struct {
	Capacity int `toml:"capacity"`
}

// Panel is the saved toolbar position and mode.
type Panel struct {
	X         float64 `toml:"x"`
	Y         float64 `toml:"y"`
	Permanent bool    `toml:"permanent"`
}

// Server configures the HTTP API.
type Server struct {
	Addr      string `toml:"addr"`
	RedisAddr string `toml:"redis_addr"`
}

// Default returns the built-in settings.
func Default() Config {
	p := panel.DefaultState()
	return Config{
		Layout: Layout{
			SpacingFactor: layout.DefaultSpacingFactor,
			TreeFactor:    layout.DefaultTreeFactor,
		},
		History: History{Capacity: history.DefaultCapacity},
		Panel:   Panel{X: p.X, Y: p.Y, Permanent: p.Permanent},
		Server:  Server{Addr: DefaultAddr},
	}
}

// LayoutConfig converts the layout section for the engine.
func (c Config) LayoutConfig() layout.Config {
	return layout.Config{
		SpacingFactor: c.Layout.SpacingFactor,
		TreeFactor:    c.Layout.TreeFactor,
	}
}

// PanelState converts the panel section for the toolbar.
func (c Config) PanelState() panel.State {
	return panel.State{X: c.Panel.X, Y: c.Panel.Y, Permanent: c.Panel.Permanent}
}

// SetPanelState stores the toolbar state in the panel section.
func (c *Config) SetPanelState(s panel.State) {
	c.Panel = Panel{X: s.X, Y: s.Y, Permanent: s.Permanent}
}

// Validate rejects settings the engine cannot use.
func (c Config) Validate() error {
	if c.Layout.SpacingFactor < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "layout.spacing_factor must be at least 1, got %v", c.Layout.SpacingFactor)
	}
	if c.Layout.TreeFactor <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "layout.tree_factor must be positive, got %v", c.Layout.TreeFactor)
	}
	if c.History.Capacity < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "history.capacity must be at least 1, got %d", c.History.Capacity)
	}
	return nil
}

// Dir returns the config directory using XDG standard (~/.config/nodedesign/).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Path returns the default settings file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Load reads the settings at path on top of the defaults.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the settings to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// PanelPersister returns a toolbar callback that saves every state change
// into the settings file at path, leaving other sections untouched.
func PanelPersister(path string) func(panel.State) error {
	return func(s panel.State) error {
		cfg, err := Load(path)
		if err != nil {
			return err
		}
		cfg.SetPanelState(s)
		return Save(path, cfg)
	}
}
