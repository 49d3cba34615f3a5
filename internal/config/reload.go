package config

import (
	"time"

	"github.com/dshills/marktext/internal/config/watcher"
)

// ReloadFunc receives the reloaded settings, or the error that prevented
// reloading them. On error the previous settings stay in effect.
type ReloadFunc func(cfg *Config, err error)

// Reloader reloads a config file whenever it changes.
type Reloader struct {
	path string
	w    *watcher.Watcher
}

// Watch starts watching the config file at path and calls fn with the
// reloaded Config after each change. Removing the file reloads the defaults.
func Watch(path string, fn ReloadFunc, opts ...watcher.Option) (*Reloader, error) {
	if len(opts) == 0 {
		opts = []watcher.Option{watcher.WithDebounce(150 * time.Millisecond)}
	}
	w, err := watcher.New(opts...)
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return nil, err
	}

	r := &Reloader{path: path, w: w}
	w.OnChange(func(watcher.Event) {
		fn(Load(r.path))
	})
	w.Start()
	return r, nil
}

// Path returns the watched config file.
func (r *Reloader) Path() string {
	return r.path
}

// Close stops watching.
func (r *Reloader) Close() error {
	return r.w.Stop()
}
