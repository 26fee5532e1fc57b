package config

import (
	"image/color"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1024 {
		t.Errorf("expected width 1024, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 768 {
		t.Errorf("expected height 768, got %d", cfg.Window.Height)
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	if cfg.Preview.Width != 512 || cfg.Preview.Height != 512 {
		t.Errorf("expected 512x512 preview, got %dx%d", cfg.Preview.Width, cfg.Preview.Height)
	}
	bg, err := cfg.Preview.BackgroundColor()
	if err != nil {
		t.Fatalf("default background: %v", err)
	}
	if bg != (color.NRGBA{R: 49, G: 49, B: 49, A: 255}) {
		t.Errorf("expected background 49,49,49, got %v", bg)
	}

	if cfg.Table.Limit != 50 {
		t.Errorf("expected table limit 50, got %d", cfg.Table.Limit)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestBackgroundColor(t *testing.T) {
	tests := []struct {
		hex     string
		want    color.NRGBA
		wantErr bool
	}{
		{"#ff8000", color.NRGBA{R: 255, G: 128, B: 0, A: 255}, false},
		{"#000000", color.NRGBA{A: 255}, false},
		{"orange", color.NRGBA{}, true},
		{"", color.NRGBA{}, true},
	}
	for _, tt := range tests {
		got, err := PreviewConfig{Background: tt.hex}.BackgroundColor()
		if (err != nil) != tt.wantErr {
			t.Errorf("BackgroundColor(%q) error = %v, wantErr %v", tt.hex, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("BackgroundColor(%q) = %v, want %v", tt.hex, got, tt.want)
		}
	}
}

func TestPrefsPath(t *testing.T) {
	cfg := Default()
	if got, want := cfg.PrefsPath(), filepath.Join(ConfigDir(), "prefs.yaml"); got != want {
		t.Errorf("default prefs path = %s, want %s", got, want)
	}
	cfg.Prefs.Path = "/tmp/custom.yaml"
	if got := cfg.PrefsPath(); got != "/tmp/custom.yaml" {
		t.Errorf("prefs path = %s", got)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  vsync: false

preview:
  background: "#202830"
  width: 256
  output_dir: "shots"

table:
  limit: 10
  select: [1, 3]

logging:
  level: "debug"
  log_file: "meshinfo.log"

prefs:
  path: "prefs.yaml"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Preview.Background != "#202830" || cfg.Preview.OutputDir != filepath.Join(tmpDir, "shots") {
		t.Errorf("unexpected preview config %+v", cfg.Preview)
	}
	if cfg.Preview.Width != 256 {
		t.Errorf("expected preview width 256, got %d", cfg.Preview.Width)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Preview.Height != 512 {
		t.Errorf("expected preview height 512, got %d", cfg.Preview.Height)
	}
	if cfg.Table.Limit != 10 || !reflect.DeepEqual(cfg.Table.Select, []int{1, 3}) {
		t.Errorf("unexpected table config %+v", cfg.Table)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != filepath.Join(tmpDir, "meshinfo.log") {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
	if cfg.Prefs.Path != filepath.Join(tmpDir, "prefs.yaml") {
		t.Errorf("expected prefs path next to the config, got %s", cfg.Prefs.Path)
	}
}

func TestLoadFromFileKeepsAbsolutePaths(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	abs := filepath.Join(t.TempDir(), "shots")
	content := "preview:\n  output_dir: " + abs + "\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Preview.OutputDir != abs {
		t.Errorf("output dir = %s, want %s", cfg.Preview.OutputDir, abs)
	}
	if cfg.Prefs.Path != "" || cfg.Logging.LogFile != "" {
		t.Errorf("empty paths were resolved: %+v %+v", cfg.Prefs, cfg.Logging)
	}
}

func TestLoadFromFileUnknownKey(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  fullscreen: true\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error for unknown key, got nil")
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("empty config: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("empty file changed the defaults: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero window", func(c *Config) { c.Window.Width = 0 }, true},
		{"negative preview", func(c *Config) { c.Preview.Height = -1 }, true},
		{"bad background", func(c *Config) { c.Preview.Background = "teal" }, true},
		{"negative limit", func(c *Config) { c.Table.Limit = -5 }, true},
		{"negative row", func(c *Config) { c.Table.Select = []int{2, -1} }, true},
		{"unknown level", func(c *Config) { c.Logging.Level = "chatty" }, true},
		{"warn level", func(c *Config) { c.Logging.Level = "warn" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", tmpDir)
	t.Setenv(EnvConfig, "")

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "meshinfo.yaml"), []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path != "meshinfo.yaml" {
		t.Errorf("expected meshinfo.yaml in current directory, got %q", path)
	}

	envPath := filepath.Join(tmpDir, "env.yaml")
	if err := os.WriteFile(envPath, []byte("window:\n  width: 640\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	t.Setenv(EnvConfig, envPath)
	if path := findConfigFile(); path != envPath {
		t.Errorf("expected %s from %s, got %q", envPath, EnvConfig, path)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := Default()
	cfg.Preview.Background = "#102030"
	cfg.Table.Select = []int{4}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reloading saved config: %v", err)
	}
	if !reflect.DeepEqual(loaded, cfg) {
		t.Errorf("reloaded config = %+v, want %+v", loaded, cfg)
	}
}

func TestParseRows(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"0", []int{0}, false},
		{"3, 1,2", []int{3, 1, 2}, false},
		{"1,,2,", []int{1, 2}, false},
		{"a", nil, true},
		{"-1", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseRows(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRows(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseRows(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Preview.Width != 2560 {
					t.Errorf("expected width 2560, got %d and %d", cfg.Window.Width, cfg.Preview.Width)
				}
				if cfg.Window.Height != 1440 || cfg.Preview.Height != 1440 {
					t.Errorf("expected height 1440, got %d and %d", cfg.Window.Height, cfg.Preview.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "prefs flag",
			setup: func() { *flagPrefs = "/tmp/p.yaml" },
			verify: func(cfg *Config) {
				if cfg.PrefsPath() != "/tmp/p.yaml" {
					t.Errorf("expected prefs path /tmp/p.yaml, got %s", cfg.PrefsPath())
				}
			},
			teardown: func() { *flagPrefs = "" },
		},
		{
			name:  "select flag",
			setup: func() { *flagSelect = "2,0" },
			verify: func(cfg *Config) {
				if !reflect.DeepEqual(cfg.Table.Select, []int{2, 0}) {
					t.Errorf("expected selection [2 0], got %v", cfg.Table.Select)
				}
			},
			teardown: func() { *flagSelect = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			if err := applyFlags(cfg); err != nil {
				t.Fatalf("applyFlags failed: %v", err)
			}
			tt.verify(cfg)
		})
	}

	*flagSelect = "x"
	defer func() { *flagSelect = "" }()
	if err := applyFlags(Default()); err == nil {
		t.Error("expected error for an invalid selection")
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	// Height should be from file (900) since no flag override
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}
