// Package config provides marktext's settings.
//
// Settings come from three layers, later layers overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A TOML or YAML file, selected by extension
//  3. MARKTEXT_* environment variables
//
// A missing config file is not an error; the defaults apply.
//
// Basic usage:
//
//	cfg, err := config.Load("~/.config/marktext/config.toml")
//	if err != nil {
//	    // ParseError or ValidationError
//	}
//
// Live reload:
//
//	r, err := config.Watch(path, func(cfg *config.Config, err error) {
//	    // apply cfg
//	})
//	defer r.Close()
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/marktext/internal/config/loader"
	"github.com/dshills/marktext/internal/engine/gap"
	"github.com/dshills/marktext/internal/engine/history"
	"github.com/dshills/marktext/internal/engine/textobject"
	"github.com/dshills/marktext/internal/logging"
	"github.com/dshills/marktext/internal/renderer/backend"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "MARKTEXT_"

// stringSettings are the settings read verbatim from the environment.
var stringSettings = []string{
	"engine.wordMatcher",
	"logging.level",
	"logging.file",
	"editor.statusColor",
}

// Errors returned by configuration operations.
var (
	// ErrValidationFailed indicates a setting holds an unusable value.
	ErrValidationFailed = errors.New("validation failed")
)

// ParseError is returned when a config file cannot be parsed.
type ParseError = loader.ParseError

// ValidationError describes a validation failure for a setting.
type ValidationError struct {
	// Path is the setting path that failed validation.
	Path string
	// Value is the invalid value.
	Value any
	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Path, e.Value, e.Message)
}

// Unwrap makes errors.Is(err, ErrValidationFailed) hold.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// Config holds all settings.
type Config struct {
	Engine  EngineConfig  `toml:"engine" yaml:"engine"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Editor  EditorConfig  `toml:"editor" yaml:"editor"`
}

// EngineConfig configures text buffers.
type EngineConfig struct {
	// GapSize is the initial storage gap of a buffer.
	GapSize int `toml:"gapSize" yaml:"gapSize"`
	// MaxUndoEntries bounds the undo history of a buffer.
	MaxUndoEntries int `toml:"maxUndoEntries" yaml:"maxUndoEntries"`
	// WordMatcher names the word boundary strategy.
	WordMatcher string `toml:"wordMatcher" yaml:"wordMatcher"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"`
	// File is the log destination. Empty means the log is discarded.
	File string `toml:"file" yaml:"file"`
}

// EditorConfig configures views.
type EditorConfig struct {
	TabWidth   int  `toml:"tabWidth" yaml:"tabWidth"`
	ShowStatus bool `toml:"showStatus" yaml:"showStatus"`
	// ScrollMargin is the number of lines kept visible around the cursor.
	ScrollMargin int `toml:"scrollMargin" yaml:"scrollMargin"`
	// ConfirmQuit refuses to quit with unsaved changes unless forced.
	ConfirmQuit bool `toml:"confirmQuit" yaml:"confirmQuit"`
	// StatusColor is the status line background as "#rrggbb".
	StatusColor string `toml:"statusColor" yaml:"statusColor"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			GapSize:        gap.DefaultGapSize,
			MaxUndoEntries: history.DefaultMaxEntries,
			WordMatcher:    textobject.DefaultMatcher.Name(),
		},
		Logging: LoggingConfig{
			Level: logging.LevelInfo.String(),
		},
		Editor: EditorConfig{
			TabWidth:     4,
			ShowStatus:   true,
			ScrollMargin: 0,
			ConfirmQuit:  true,
			StatusColor:  "#5f87af",
		},
	}
}

// DefaultPath returns the user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "marktext", "config.toml")
}

// Load builds a Config from defaults, the file at path and the environment.
// An empty path skips the file layer.
func Load(path string) (*Config, error) {
	data := make(map[string]any)

	if path != "" {
		l, err := loader.ForPath(path)
		if err != nil {
			return nil, err
		}
		file, err := l.LoadFrom(path)
		if err != nil {
			return nil, err
		}
		data = loader.DeepMerge(data, file)
	}

	envLoader := loader.NewEnvLoader(EnvPrefix)
	envLoader.KeepStrings(stringSettings...)
	env, err := envLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}
	data = loader.DeepMerge(data, env)

	cfg := Default()
	if err := cfg.apply(data); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apply decodes a merged settings map over c. Keys missing from data keep
// their current values.
func (c *Config) apply(data map[string]any) error {
	if len(data) == 0 {
		return nil
	}
	raw, err := toml.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := toml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("decoding settings: %w", err)
	}
	return nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if c.Engine.GapSize < 1 {
		return &ValidationError{Path: "engine.gapSize", Value: c.Engine.GapSize, Message: "must be positive"}
	}
	if c.Engine.MaxUndoEntries < 1 {
		return &ValidationError{Path: "engine.maxUndoEntries", Value: c.Engine.MaxUndoEntries, Message: "must be positive"}
	}
	if _, err := textobject.MatcherByName(c.Engine.WordMatcher); err != nil {
		return &ValidationError{Path: "engine.wordMatcher", Value: c.Engine.WordMatcher, Message: err.Error()}
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return &ValidationError{Path: "logging.level", Value: c.Logging.Level, Message: "unknown level"}
	}
	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > 16 {
		return &ValidationError{Path: "editor.tabWidth", Value: c.Editor.TabWidth, Message: "must be between 1 and 16"}
	}
	if c.Editor.ScrollMargin < 0 {
		return &ValidationError{Path: "editor.scrollMargin", Value: c.Editor.ScrollMargin, Message: "must not be negative"}
	}
	if _, err := backend.ColorFromHex(c.Editor.StatusColor); err != nil {
		return &ValidationError{Path: "editor.statusColor", Value: c.Editor.StatusColor, Message: "must be a #rrggbb color"}
	}
	return nil
}

// WordMatcher returns the configured word boundary strategy.
func (c *Config) WordMatcher() textobject.EdgeMatcher {
	m, err := textobject.MatcherByName(c.Engine.WordMatcher)
	if err != nil {
		return textobject.DefaultMatcher
	}
	return m
}

// StatusColor returns the configured status line background.
func (c *Config) StatusColor() backend.Color {
	color, err := backend.ColorFromHex(c.Editor.StatusColor)
	if err != nil {
		return backend.ColorDefault
	}
	return color
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Logging.Level)
}
