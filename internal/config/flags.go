package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagWidth  = flag.Int("width", 0, "Window or preview width")
	flagHeight = flag.Int("height", 0, "Window or preview height")
	flagPrefs  = flag.String("prefs", "", "Path to the preference file")
	flagSelect = flag.String("select", "", "Comma-separated vertex rows to select")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
		cfg.Preview.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
		cfg.Preview.Height = *flagHeight
	}
	if *flagPrefs != "" {
		cfg.Prefs.Path = *flagPrefs
	}
	if *flagSelect != "" {
		rows, err := ParseRows(*flagSelect)
		if err != nil {
			return err
		}
		cfg.Table.Select = rows
	}
	return nil
}

// ParseRows parses a comma-separated list of row indices.
func ParseRows(s string) ([]int, error) {
	var rows []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid row %q in -select", field)
		}
		rows = append(rows, n)
	}
	return rows, nil
}
