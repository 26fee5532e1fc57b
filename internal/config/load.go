package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// EnvConfig names a config file used when -config is not given.
const EnvConfig = "MESHINFO_CONFIG"

// Load loads configuration with priority: defaults < file < flags, then
// validates the result.
func Load() (*Config, error) {
	cfg := Default()

	path := ConfigPath()
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	if err := applyFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file among
// $MESHINFO_CONFIG, ./meshinfo.yaml and <ConfigDir>/config.yaml.
func findConfigFile() string {
	candidates := []string{
		os.Getenv(EnvConfig),
		"meshinfo.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the meshinfo directory under the user config dir.
func ConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "meshinfo")
	}
	return filepath.Join(dir, "meshinfo")
}

// loadFromFile merges a YAML file into cfg. Unknown keys are rejected, and
// relative paths in the file are taken relative to the file itself.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	cfg.resolvePaths(filepath.Dir(path))
	return nil
}

func (c *Config) resolvePaths(base string) {
	for _, p := range []*string{&c.Preview.OutputDir, &c.Logging.LogFile, &c.Prefs.Path} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// Validate reports the first setting that meshinfo cannot run with.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Preview.Width <= 0 || c.Preview.Height <= 0 {
		return fmt.Errorf("preview size %dx%d must be positive", c.Preview.Width, c.Preview.Height)
	}
	if _, err := c.Preview.BackgroundColor(); err != nil {
		return err
	}
	if c.Table.Limit < 0 {
		return fmt.Errorf("table limit %d must not be negative", c.Table.Limit)
	}
	for _, row := range c.Table.Select {
		if row < 0 {
			return fmt.Errorf("selected row %d must not be negative", row)
		}
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging level: %w", err)
	}
	return nil
}
