package loader

import (
	"os"
	"strconv"
	"strings"
)

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "MARKTEXT_")
	mapping map[string]string // Env var -> config path
	raw     map[string]bool   // Config paths whose values stay strings
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "MARKTEXT_").
func NewEnvLoader(prefix string) *EnvLoader {
	return NewEnvLoaderWithMapping(prefix, DefaultEnvMapping(prefix))
}

// NewEnvLoaderWithMapping creates a loader with custom environment variable mappings.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	if mapping == nil {
		mapping = make(map[string]string)
	}
	return &EnvLoader{prefix: prefix, mapping: mapping, raw: make(map[string]bool)}
}

// KeepStrings marks config paths whose values are stored as read, without
// bool or number conversion.
func (l *EnvLoader) KeepStrings(paths ...string) {
	for _, p := range paths {
		l.raw[p] = true
	}
}

// DefaultEnvMapping returns the short variable names understood besides the
// generic SECTION_SETTING_NAME form.
func DefaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL":    "logging.level",
		prefix + "LOG_FILE":     "logging.file",
		prefix + "WORD_MATCHER": "engine.wordMatcher",
		prefix + "TAB_WIDTH":    "editor.tabWidth",
	}
}

// Load reads environment variables and returns a configuration map.
// Empty values are kept as empty strings.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}

		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		if l.raw[path] {
			SetPath(config, path, value)
			continue
		}
		SetPath(config, path, parseValue(value))
	}

	return config, nil
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	l.mapping[envVar] = configPath
}

// envToPath converts MARKTEXT_ENGINE_GAP_SIZE to engine.gapSize.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.TrimPrefix(env, l.prefix)
	section, setting, ok := strings.Cut(name, "_")
	if !ok || section == "" || setting == "" {
		return strings.ToLower(name)
	}

	words := strings.Split(strings.ToLower(setting), "_")
	var b strings.Builder
	b.WriteString(words[0])
	for _, w := range words[1:] {
		if w != "" {
			b.WriteString(strings.ToUpper(w[:1]) + w[1:])
		}
	}
	return strings.ToLower(section) + "." + b.String()
}

// parseValue converts s to a bool, integer or float when it looks like one.
// true/yes/on and false/no/off are booleans in any case; "1" and "0" are
// integers.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}
