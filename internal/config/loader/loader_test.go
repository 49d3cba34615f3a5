package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", `
[engine]
gapSize = 64
wordMatcher = "alphanumeric"

[logging]
level = "debug"
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/config.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if v, _ := GetPath(config, "engine.gapSize"); v != int64(64) {
		t.Errorf("engine.gapSize = %v (%T), want 64", v, v)
	}
	if v, _ := GetPath(config, "engine.wordMatcher"); v != "alphanumeric" {
		t.Errorf("engine.wordMatcher = %v", v)
	}
	if v, _ := GetPath(config, "logging.level"); v != "debug" {
		t.Errorf("logging.level = %v", v)
	}
}

func TestYAMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.yaml", `
engine:
  maxUndoEntries: 50
editor:
  tabWidth: 2
`)

	config, err := NewYAMLLoaderWithFS(memfs, "/config.yaml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v, _ := GetPath(config, "engine.maxUndoEntries"); v != 50 {
		t.Errorf("engine.maxUndoEntries = %v (%T), want 50", v, v)
	}
	if v, _ := GetPath(config, "editor.tabWidth"); v != 2 {
		t.Errorf("editor.tabWidth = %v", v)
	}
}

func TestLoadNonExistent(t *testing.T) {
	memfs := NewMemFS()
	for _, l := range []FileLoader{
		NewTOMLLoaderWithFS(memfs, "/missing.toml"),
		NewYAMLLoaderWithFS(memfs, "/missing.yaml"),
	} {
		config, err := l.Load()
		if err != nil {
			t.Errorf("missing file should not be an error: %v", err)
		}
		if config != nil {
			t.Errorf("expected nil config, got %v", config)
		}
	}
}

func TestLoadInvalid(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[engine\ngapSize = 1")
	memfs.AddFile("/bad.yaml", "engine: [unclosed")

	tests := []struct {
		name     string
		loader   FileLoader
		wantLine bool
	}{
		{"toml", NewTOMLLoaderWithFS(memfs, "/bad.toml"), true},
		{"yaml", NewYAMLLoaderWithFS(memfs, "/bad.yaml"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.loader.Load()
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if !strings.HasPrefix(perr.Path, "/bad.") {
				t.Errorf("ParseError.Path = %q", perr.Path)
			}
			if tt.wantLine && perr.Line == 0 {
				t.Errorf("expected a line number in %v", perr)
			}
		})
	}
}

func TestLoadFromReader(t *testing.T) {
	config, err := NewTOMLLoader("").LoadFromReader(strings.NewReader(`[editor]
tabWidth = 8`))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := GetPath(config, "editor.tabWidth"); v != int64(8) {
		t.Errorf("editor.tabWidth = %v", v)
	}

	if _, err := NewYAMLLoader("").LoadFromReader(strings.NewReader("- a\n- b\n")); err == nil {
		t.Error("a YAML list is not a config map")
	}
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"config.toml", "*loader.TOMLLoader"},
		{"config.YAML", "*loader.YAMLLoader"},
		{"config.yml", "*loader.YAMLLoader"},
	}
	for _, tt := range tests {
		l, err := ForPath(tt.path)
		if err != nil {
			t.Fatalf("ForPath(%q): %v", tt.path, err)
		}
		switch l.(type) {
		case *TOMLLoader:
			if tt.want != "*loader.TOMLLoader" {
				t.Errorf("ForPath(%q) = TOML loader", tt.path)
			}
		case *YAMLLoader:
			if tt.want != "*loader.YAMLLoader" {
				t.Errorf("ForPath(%q) = YAML loader", tt.path)
			}
		}
	}

	if _, err := ForPath("config.json"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"engine":  map[string]any{"gapSize": 64, "wordMatcher": "whitespace"},
		"logging": map[string]any{"level": "info"},
	}
	src := map[string]any{
		"engine":  map[string]any{"wordMatcher": "alphanumeric"},
		"logging": "replaced",
	}

	result := DeepMerge(dst, src)
	if v, _ := GetPath(result, "engine.gapSize"); v != 64 {
		t.Errorf("engine.gapSize lost: %v", v)
	}
	if v, _ := GetPath(result, "engine.wordMatcher"); v != "alphanumeric" {
		t.Errorf("engine.wordMatcher = %v", v)
	}
	if result["logging"] != "replaced" {
		t.Errorf("logging = %v", result["logging"])
	}

	if got := DeepMerge(nil, nil); got == nil || len(got) != 0 {
		t.Errorf("DeepMerge(nil, nil) = %v", got)
	}
}

func TestSetGetPath(t *testing.T) {
	m := make(map[string]any)
	SetPath(m, "a.b.c", 1)
	SetPath(m, "a.d", "x")

	if v, ok := GetPath(m, "a.b.c"); !ok || v != 1 {
		t.Errorf("a.b.c = %v, %v", v, ok)
	}
	if v, ok := GetPath(m, "a.d"); !ok || v != "x" {
		t.Errorf("a.d = %v, %v", v, ok)
	}
	if _, ok := GetPath(m, "a.d.e"); ok {
		t.Error("path through a scalar should not resolve")
	}
	if _, ok := GetPath(m, "missing"); ok {
		t.Error("missing path should not resolve")
	}
}
