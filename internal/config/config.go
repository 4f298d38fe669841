// Package config loads window settings from defaults, an optional YAML file
// and environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Surface kinds.
const (
	SurfaceWebview = "webview"
	SurfaceBrowser = "browser"
)

// Config holds window configuration.
type Config struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Surface    string `yaml:"surface"`
	Addr       string `yaml:"addr"`
	Debug      bool   `yaml:"debug"`
	Stylesheet string `yaml:"stylesheet"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Title:   "Tissue",
		Width:   800,
		Height:  600,
		Surface: SurfaceWebview,
		Addr:    "127.0.0.1:0",
		Debug:   true,
	}
}

// FromEnv loads the file named by TISSUE_CONFIG, if any, and applies
// environment overrides.
func FromEnv() (Config, error) {
	return Load(os.Getenv("TISSUE_CONFIG"))
}

// Load reads path over the defaults and applies environment overrides. An
// empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TISSUE_TITLE"); v != "" {
		cfg.Title = v
	}
	if v := os.Getenv("TISSUE_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Width = n
		}
	}
	if v := os.Getenv("TISSUE_HEIGHT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Height = n
		}
	}
	if v := os.Getenv("TISSUE_SURFACE"); v != "" {
		cfg.Surface = v
	}
	if v := os.Getenv("TISSUE_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("TISSUE_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}
	if v := os.Getenv("TISSUE_STYLESHEET"); v != "" {
		cfg.Stylesheet = v
	}
}

// Validate checks that the configuration can open a window.
func (c Config) Validate() error {
	switch c.Surface {
	case SurfaceWebview, SurfaceBrowser:
	default:
		return fmt.Errorf("unknown surface %q (want %q or %q)", c.Surface, SurfaceWebview, SurfaceBrowser)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Width, c.Height)
	}
	return nil
}
