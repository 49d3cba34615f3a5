package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dshills/marktext/internal/config/watcher"
	"github.com/dshills/marktext/internal/logging"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.WordMatcher().Name() != "whitespace" {
		t.Errorf("default word matcher = %s", cfg.WordMatcher().Name())
	}
	if cfg.LogLevel() != logging.LevelInfo {
		t.Errorf("default log level = %v", cfg.LogLevel())
	}
	if got := cfg.StatusColor().Hex(); got != "#5f87af" {
		t.Errorf("default status color = %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
[engine]
maxUndoEntries = 10
wordMatcher = "alphanumeric"

[logging]
level = "debug"
file = "/tmp/marktext.log"

[editor]
tabWidth = 2
statusColor = "#102030"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.MaxUndoEntries != 10 || cfg.Engine.WordMatcher != "alphanumeric" {
		t.Errorf("engine = %+v", cfg.Engine)
	}
	if cfg.Engine.GapSize != Default().Engine.GapSize {
		t.Errorf("unset gapSize should keep its default, got %d", cfg.Engine.GapSize)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.File != "/tmp/marktext.log" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Editor.TabWidth != 2 || !cfg.Editor.ShowStatus {
		t.Errorf("editor = %+v", cfg.Editor)
	}
	if c := cfg.StatusColor(); c.R != 0x10 || c.G != 0x20 || c.B != 0x30 {
		t.Errorf("status color = %+v", c)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	writeFile(t, path, `
engine:
  gapSize: 32
editor:
  confirmQuit: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.GapSize != 32 {
		t.Errorf("gapSize = %d", cfg.Engine.GapSize)
	}
	if cfg.Editor.ConfirmQuit {
		t.Error("confirmQuit should be false")
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[logging]\nlevel = \"error\"\n")
	t.Setenv("MARKTEXT_LOG_LEVEL", "warn")
	t.Setenv("MARKTEXT_ENGINE_GAP_SIZE", "16")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("level = %q, want warn", cfg.Logging.Level)
	}
	if cfg.Engine.GapSize != 16 {
		t.Errorf("gapSize = %d, want 16", cfg.Engine.GapSize)
	}
}

func TestLoadEnvKeepsStringSettings(t *testing.T) {
	t.Setenv("MARKTEXT_LOG_FILE", "2024")
	t.Setenv("MARKTEXT_TAB_WIDTH", "8")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.File != "2024" {
		t.Errorf("log file = %q, want 2024", cfg.Logging.File)
	}
	if cfg.Editor.TabWidth != 8 {
		t.Errorf("tabWidth = %d, want 8", cfg.Editor.TabWidth)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.toml")
	writeFile(t, bad, "[engine\n")
	var perr *ParseError
	if _, err := Load(bad); !errors.As(err, &perr) {
		t.Errorf("expected ParseError, got %v", err)
	}

	invalid := filepath.Join(dir, "invalid.toml")
	writeFile(t, invalid, "[engine]\nwordMatcher = \"camel\"\n")
	_, err := Load(invalid)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path != "engine.wordMatcher" {
		t.Errorf("expected ValidationError for engine.wordMatcher, got %v", err)
	}
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("errors.Is(err, ErrValidationFailed) = false for %v", err)
	}

	wrongType := filepath.Join(dir, "type.toml")
	writeFile(t, wrongType, "[editor]\ntabWidth = \"wide\"\n")
	if _, err := Load(wrongType); err == nil {
		t.Error("expected error for a string tab width")
	}

	if _, err := Load(filepath.Join(dir, "config.ini")); err == nil {
		t.Error("expected error for an unsupported format")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		path   string
	}{
		{"gap size", func(c *Config) { c.Engine.GapSize = 0 }, "engine.gapSize"},
		{"undo entries", func(c *Config) { c.Engine.MaxUndoEntries = -1 }, "engine.maxUndoEntries"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"tab width", func(c *Config) { c.Editor.TabWidth = 40 }, "editor.tabWidth"},
		{"scroll margin", func(c *Config) { c.Editor.ScrollMargin = -2 }, "editor.scrollMargin"},
		{"status color", func(c *Config) { c.Editor.StatusColor = "teal" }, "editor.statusColor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			var verr *ValidationError
			if err := cfg.Validate(); !errors.As(err, &verr) || verr.Path != tt.path {
				t.Errorf("Validate() = %v, want error for %s", err, tt.path)
			}
		})
	}
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[logging]\nlevel = \"info\"\n")

	var latest atomic.Pointer[Config]
	r, err := Watch(path, func(cfg *Config, err error) {
		if err == nil {
			latest.Store(cfg)
		}
	}, watcher.WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer r.Close()

	if r.Path() != path {
		t.Errorf("Path() = %q", r.Path())
	}

	writeFile(t, path, "[logging]\nlevel = \"debug\"\n")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cfg := latest.Load(); cfg != nil && cfg.Logging.Level == "debug" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("config was not reloaded")
}
