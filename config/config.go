// Package config loads nodecanvas settings from TOML.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds nodecanvas configuration.
type Config struct {
	View   ViewConfig   `toml:"view"`
	Canvas CanvasConfig `toml:"canvas"`
	Ports  PortsConfig  `toml:"ports"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// ViewConfig controls pan/zoom limits and the context menu.
type ViewConfig struct {
	ScaleMin        float64 `toml:"scale_min"`
	ScaleMax        float64 `toml:"scale_max"`
	TranslateExtent float64 `toml:"translate_extent"` // symmetric half-size of the pannable area
	ZoomMargin      float64 `toml:"zoom_margin"`
	MenuOffset      float64 `toml:"menu_offset"`
}

// CanvasConfig is the initial viewport size in pixels.
type CanvasConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// PortsConfig sizes node rows when no measured element exists.
type PortsConfig struct {
	Width  float64 `toml:"width"`
	Header float64 `toml:"header"`
	Row    float64 `toml:"row"`
	Socket float64 `toml:"socket"`
}

// ServerConfig controls the HTTP surface.
type ServerConfig struct {
	Port int `toml:"port"`
}

// LogConfig selects the log level: debug, info, warn, error or none.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		View: ViewConfig{
			ScaleMin:        0.1,
			ScaleMax:        1,
			TranslateExtent: 4096,
			ZoomMargin:      0.9,
			MenuOffset:      20,
		},
		Canvas: CanvasConfig{Width: 800, Height: 600},
		Ports:  PortsConfig{Width: 180, Header: 24, Row: 22, Socket: 14},
		Server: ServerConfig{Port: 8080},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads the config file on top of the defaults. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the view cannot honour.
func (c *Config) Validate() error {
	switch {
	case c.View.ScaleMin <= 0 || c.View.ScaleMax < c.View.ScaleMin:
		return fmt.Errorf("invalid scale extent [%g, %g]", c.View.ScaleMin, c.View.ScaleMax)
	case c.View.TranslateExtent <= 0:
		return fmt.Errorf("invalid translate extent %g", c.View.TranslateExtent)
	case c.View.ZoomMargin <= 0 || c.View.ZoomMargin > 1:
		return fmt.Errorf("zoom margin must be in (0, 1], got %g", c.View.ZoomMargin)
	case c.Canvas.Width <= 0 || c.Canvas.Height <= 0:
		return fmt.Errorf("invalid canvas size %gx%g", c.Canvas.Width, c.Canvas.Height)
	}
	return nil
}

// Save writes the config to path.
func Save(cfg *Config, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
