package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestWatcher(t *testing.T, opts ...Option) *Watcher {
	t.Helper()
	w, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = w.Stop() })
	return w
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Operation(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestWatcher_WatchUnwatch(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatcher(t)

	a := filepath.Join(dir, "a.toml")
	b := filepath.Join(dir, "b.toml")
	if err := w.Watch(a); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if err := w.Watch(b); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if err := w.Watch(a); err != nil {
		t.Fatalf("Watch twice: %v", err)
	}
	if n := len(w.WatchedFiles()); n != 2 {
		t.Errorf("WatchedFiles() = %d, want 2", n)
	}

	if err := w.Unwatch(a); err != nil {
		t.Fatalf("Unwatch: %v", err)
	}
	if n := len(w.WatchedFiles()); n != 1 {
		t.Errorf("WatchedFiles() = %d, want 1", n)
	}
}

func TestWatcher_WatchMissingDir(t *testing.T) {
	w := newTestWatcher(t)
	if err := w.Watch(filepath.Join(t.TempDir(), "nope", "config.toml")); err == nil {
		t.Error("expected error for a missing directory")
	}
}

func TestWatcher_StartStop(t *testing.T) {
	w := newTestWatcher(t)

	w.Start()
	if !w.IsRunning() {
		t.Error("expected running after Start")
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
	if w.IsRunning() {
		t.Error("expected stopped after Stop")
	}
	if err := w.Watch("x.toml"); err != ErrWatcherClosed {
		t.Errorf("Watch after Stop = %v, want ErrWatcherClosed", err)
	}
}

func TestWatcher_DetectsFileModification(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("initial"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := newTestWatcher(t, WithDebounce(0))

	var mu sync.Mutex
	var events []Event
	w.OnChange(func(event Event) {
		mu.Lock()
		events = append(events, event)
		mu.Unlock()
	})
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}
	w.Start()

	if err := os.WriteFile(path, []byte("modified"), 0o644); err != nil {
		t.Fatal(err)
	}

	ok := waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(events) > 0
	})
	if !ok {
		t.Fatal("did not receive file change event")
	}

	mu.Lock()
	defer mu.Unlock()
	if events[0].Op != OpWrite {
		t.Errorf("event.Op = %v, want write", events[0].Op)
	}
	absPath, _ := filepath.Abs(path)
	if events[0].Path != absPath {
		t.Errorf("event.Path = %q, want %q", events[0].Path, absPath)
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatcher(t, WithDebounce(0))

	var count atomic.Int32
	w.OnChange(func(Event) { count.Add(1) })
	if err := w.Watch(filepath.Join(dir, "config.toml")); err != nil {
		t.Fatal(err)
	}
	w.Start()

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	if count.Load() != 0 {
		t.Errorf("got %d events for an unwatched file", count.Load())
	}
}

func TestWatcher_Debounce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	w := newTestWatcher(t, WithDebounce(80*time.Millisecond))

	var count atomic.Int32
	var last atomic.Value
	w.OnChange(func(event Event) {
		count.Add(1)
		last.Store(event.Op)
	})
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}
	w.Start()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte{byte('a' + i)}, 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if !waitFor(t, func() bool { return count.Load() > 0 }) {
		t.Fatal("no debounced event")
	}
	time.Sleep(200 * time.Millisecond)
	if n := count.Load(); n != 1 {
		t.Errorf("expected 1 coalesced event, got %d", n)
	}
	if op := last.Load(); op != OpCreate {
		t.Errorf("coalesced op = %v, want create", op)
	}
}

func TestWatcher_PanickingHandler(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	w := newTestWatcher(t, WithDebounce(0))

	var called atomic.Bool
	w.OnChange(func(Event) { panic("boom") })
	w.OnChange(func(Event) { called.Store(true) })
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}
	w.Start()

	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, called.Load) {
		t.Error("second handler not called after a panic")
	}
}
