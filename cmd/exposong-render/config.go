package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds defaults for the render command. Flags override it.
type Config struct {
	Width       int      `yaml:"width"`
	Height      int      `yaml:"height"`
	DPI         float64  `yaml:"dpi"`
	Format      string   `yaml:"format"`
	JPEGQuality int      `yaml:"jpeg_quality"`
	FontDirs    []string `yaml:"font_dirs,omitempty"`
	ThemesDir   string   `yaml:"themes_dir,omitempty"`
	ImageDir    string   `yaml:"image_dir,omitempty"`
	ResourceDir string   `yaml:"resource_dir,omitempty"`
	LogLevel    string   `yaml:"log_level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Width:       800,
		Height:      600,
		DPI:         96,
		Format:      "png",
		JPEGQuality: 90,
		LogLevel:    "info",
	}
}

// LoadConfig reads a YAML config file. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	def := DefaultConfig()
	if cfg.Width <= 0 {
		cfg.Width = def.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = def.Height
	}
	if cfg.DPI <= 0 {
		cfg.DPI = def.DPI
	}
	if cfg.Format == "" {
		cfg.Format = def.Format
	}
	return cfg, nil
}

// SaveConfig writes cfg as YAML.
func SaveConfig(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
