package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if cfg.LogLevel != "" || cfg.Mmap != nil {
		t.Fatalf("expected zero config, got %+v", cfg)
	}

	if _, err := Load(""); err != nil {
		t.Fatalf("load empty path: %v", err)
	}
}

func TestLoadParsesFields(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "log_level: debug\nlog_format: json\noutput: out.pcf\nmmap: false\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" || cfg.Output != "out.pcf" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Mmap == nil || *cfg.Mmap {
		t.Fatalf("expected mmap=false, got %v", cfg.Mmap)
	}
	if cfg.UseMmap(true) {
		t.Fatalf("explicit false should override default")
	}
}

func TestLoadBadYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: [unterminated\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestUseMmapDefault(t *testing.T) {
	t.Parallel()

	if !(Config{}).UseMmap(true) {
		t.Fatalf("unset mmap should use default")
	}
}

func TestPathFromEnv(t *testing.T) {
	want := filepath.Join(t.TempDir(), "custom.yaml")
	t.Setenv(EnvPath, want)
	if got := Path(); got != want {
		t.Fatalf("Path: got %q want %q", got, want)
	}
}
