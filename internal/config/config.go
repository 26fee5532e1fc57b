// Package config handles meshinfo configuration loading and management.
package config

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"
)

// Config holds all meshinfo settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Preview PreviewConfig `yaml:"preview"`
	Table   TableConfig   `yaml:"table"`
	Logging LoggingConfig `yaml:"logging"`
	Prefs   PrefsConfig   `yaml:"prefs"`
}

// WindowConfig holds desktop viewer settings.
type WindowConfig struct {
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
	VSync  bool `yaml:"vsync"`
}

// PreviewConfig holds preview rendering settings.
type PreviewConfig struct {
	Background string `yaml:"background"` // hex color behind the preview
	Width      int    `yaml:"width"`      // static preview size
	Height     int    `yaml:"height"`
	OutputDir  string `yaml:"output_dir"` // snapshot directory
}

// TableConfig holds vertex table settings.
type TableConfig struct {
	// Limit caps the rows of non-interactive output; zero prints all.
	Limit int `yaml:"limit"`
	// Select lists vertex rows selected on open.
	Select []int `yaml:"select"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// PrefsConfig locates the preference store.
type PrefsConfig struct {
	Path string `yaml:"path"` // empty uses prefs.yaml in ConfigDir
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1024,
			Height: 768,
			VSync:  true,
		},
		Preview: PreviewConfig{
			Background: "#313131",
			Width:      512,
			Height:     512,
		},
		Table: TableConfig{
			Limit: 50,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// BackgroundColor parses the preview background.
func (p PreviewConfig) BackgroundColor() (color.NRGBA, error) {
	c, err := colorful.Hex(p.Background)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parsing background %q: %w", p.Background, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// PrefsPath returns the preference file location.
func (c *Config) PrefsPath() string {
	if c.Prefs.Path != "" {
		return c.Prefs.Path
	}
	return filepath.Join(ConfigDir(), "prefs.yaml")
}
