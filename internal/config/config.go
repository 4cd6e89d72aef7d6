// Package config reads the pcf configuration file
// (~/.config/pcf/config.yaml by default).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPath overrides the default config file location.
const EnvPath = "PCF_CONFIG"

// Config holds defaults for the CLI. Empty strings and nil pointers mean
// "not set" so command-line flags can tell them apart from zero values.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Output is the default destination for commands that write a file.
	Output string `yaml:"output"`

	// Mmap selects memory-mapped reads for the loader.
	Mmap *bool `yaml:"mmap"`
}

// Path returns the config file location: $PCF_CONFIG when set, otherwise
// pcf/config.yaml under the user config directory. It returns "" when
// neither can be determined.
func Path() string {
	if p := strings.TrimSpace(os.Getenv(EnvPath)); p != "" {
		return filepath.Clean(p)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pcf", "config.yaml")
}

// Load reads the config file at path. A missing file (or an empty path)
// yields a zero Config; a file that exists but does not parse is an error.
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// UseMmap reports the configured mmap setting, falling back to def.
func (c Config) UseMmap(def bool) bool {
	if c.Mmap == nil {
		return def
	}
	return *c.Mmap
}
