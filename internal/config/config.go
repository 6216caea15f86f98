// Package config defines the Functor configuration format and helpers for
// loading or saving it to disk.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/edward-ap/functor/internal/curve"
)

const (
	// AppID is the stable application identifier used for config storage.
	AppID = "functor"
	// AppConfigSubdir is the OS-specific directory that holds the config file.
	AppConfigSubdir = "Functor"
	// AppConfigName is the JSON file stored on disk.
	AppConfigName = "config.json"
	// PresetFileName is the default preset document next to the config.
	PresetFileName = "presets.json"

	// DefaultWidth is the editor width when no persisted value exists.
	DefaultWidth = 800
	// DefaultHeight is the editor height when no persisted value exists.
	DefaultHeight = 610
	// MinWindowWidth keeps both preset lists and the curve view visible.
	MinWindowWidth = 600
	// MinWindowHeight keeps at least one list row and the toolbar visible.
	MinWindowHeight = 400

	// DefaultDemoPresets is how many demo presets each collection gets when no
	// preset file exists yet.
	DefaultDemoPresets = 12
	// MaxDemoPresets bounds the demo set to the slot range the editor offers.
	MaxDemoPresets = 36
)

// Config aggregates every user-facing preference persisted between sessions.
type Config struct {
	WindowW int `json:"windowW"`
	WindowH int `json:"windowH"`
	WindowX int `json:"windowX,omitempty"`
	WindowY int `json:"windowY,omitempty"`
	// WindowPosValid marks WindowX/WindowY as captured; (0,0) is a valid spot.
	WindowPosValid bool `json:"windowPosValid,omitempty"`

	LastMode      curve.Mode          `json:"lastMode"`
	LastIndex     int                 `json:"lastIndex"`
	DemoPresets   int                 `json:"demoPresets"`
	Interpolation curve.Interpolation `json:"interpolation"`
	PresetFile    string              `json:"presetFile,omitempty"`
	RemoteAddr    string              `json:"remoteAddr,omitempty"`
}

// ConfigDir resolves the writable directory that should contain the config file.
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppConfigSubdir), nil
}

// ConfigPath is a helper that returns the full path to config.json.
func ConfigPath() (string, error) {
	d, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, AppConfigName), nil
}

// Load reads the config from disk, applying defaults when values are missing
// or out of range.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := NewDefaultConfig()
			// Try saving an initial config, but still return defaults even if it fails.
			_ = cfg.Save()
			return cfg, nil
		}
		return nil, err
	}

	cfg := &Config{Interpolation: curve.Hermite}
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("config parse error: %w", err)
	}
	cfg.applyRuntimeDefaults()
	return cfg, nil
}

// Save persists the configuration to disk, creating directories as needed.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// AppID returns the stable identifier used by the GUI framework.
func (c *Config) AppID() string { return AppID }

// NewDefaultConfig builds an in-memory config populated with safe defaults.
func NewDefaultConfig() *Config {
	cfg := &Config{
		WindowW:       DefaultWidth,
		WindowH:       DefaultHeight,
		LastMode:      curve.Beat,
		DemoPresets:   DefaultDemoPresets,
		Interpolation: curve.Hermite,
	}
	cfg.applyRuntimeDefaults()
	return cfg
}

// applyRuntimeDefaults normalizes config values after a load or when defaults
// are constructed, ensuring the UI always receives sane inputs.
func (c *Config) applyRuntimeDefaults() {
	if c.WindowW == 0 {
		c.WindowW = DefaultWidth
	}
	if c.WindowW < MinWindowWidth {
		c.WindowW = MinWindowWidth
	}
	if c.WindowH == 0 {
		c.WindowH = DefaultHeight
	}
	if c.WindowH < MinWindowHeight {
		c.WindowH = MinWindowHeight
	}
	if !c.WindowPosValid && (c.WindowX != 0 || c.WindowY != 0) {
		c.WindowPosValid = true
	}
	if !c.LastMode.Valid() {
		c.LastMode = curve.Beat
	}
	if c.LastIndex < 0 {
		c.LastIndex = 0
	}
	if c.DemoPresets <= 0 || c.DemoPresets > MaxDemoPresets {
		c.DemoPresets = DefaultDemoPresets
	}
	if c.Interpolation < curve.Drop || c.Interpolation > curve.Hermite {
		c.Interpolation = curve.Hermite
	}
	if strings.TrimSpace(c.PresetFile) == "" {
		if dir, err := ConfigDir(); err == nil {
			c.PresetFile = filepath.Join(dir, PresetFileName)
		}
	}
	c.RemoteAddr = strings.TrimSpace(c.RemoteAddr)
}
