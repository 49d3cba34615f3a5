// Package app provides the editor controller. It owns the open buffers and
// their views, maps keys to commands in a small modal scheme and draws the
// active view on a display backend.
package app

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/marktext/internal/config"
	"github.com/dshills/marktext/internal/engine/buffer"
	"github.com/dshills/marktext/internal/logging"
	"github.com/dshills/marktext/internal/renderer/backend"
)

// Application is the central coordinator of the editor.
type Application struct {
	mu sync.Mutex

	cfg     *config.Config
	logger  *logging.Logger
	backend backend.Backend

	// Buffer management
	views  map[uuid.UUID]*View
	order  []uuid.UUID
	active uuid.UUID

	// Input state
	mode        Mode
	normalKeys  Keymap
	insertKeys  Keymap
	count       int
	countTyped  bool
	pendingOp   rune
	quitPending bool

	message  string
	reloader *config.Reloader

	running  atomic.Bool
	stopping atomic.Bool
}

// Options configures the application.
type Options struct {
	// Config holds the settings. Defaults apply when nil.
	Config *config.Config

	// Logger receives diagnostics. Logging is discarded when nil.
	Logger *logging.Logger

	// Backend is the display surface.
	Backend backend.Backend
}

// New creates an Application with no buffers open.
func New(opts Options) (*Application, error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("%w: backend", ErrInvalidOption)
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Null()
	}

	return &Application{
		cfg:        cfg,
		logger:     logger.WithComponent("app"),
		backend:    opts.Backend,
		views:      make(map[uuid.UUID]*View),
		normalKeys: NormalKeymap(),
		insertKeys: InsertKeymap(),
	}, nil
}

// bufferOptions returns the options new buffers are created with.
func (app *Application) bufferOptions() []buffer.Option {
	return []buffer.Option{
		buffer.WithLogger(app.logger),
		buffer.WithGapSize(app.cfg.Engine.GapSize),
		buffer.WithMaxUndoEntries(app.cfg.Engine.MaxUndoEntries),
		buffer.WithWordMatcher(app.cfg.WordMatcher()),
	}
}

// add registers a buffer and makes it active.
func (app *Application) add(b *buffer.Buffer, name string) *View {
	v := newView(b, name)
	app.views[v.ID] = v
	app.order = append(app.order, v.ID)
	app.active = v.ID
	return v
}

// OpenFile opens path in a new buffer. A file that cannot be read opens
// as an empty buffer that saves to path.
func (app *Application) OpenFile(path string) uuid.UUID {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.add(buffer.Open(path, app.bufferOptions()...), "").ID
}

// OpenReader reads r to completion into a new buffer named name. The
// buffer has no path until one is set.
func (app *Application) OpenReader(name string, r io.Reader) (uuid.UUID, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	b, err := buffer.NewFromReader(r, app.bufferOptions()...)
	if err != nil {
		return uuid.Nil, NewOperationError("read", name, err)
	}
	return app.add(b, name).ID, nil
}

// NewScratch opens an empty buffer with no path.
func (app *Application) NewScratch() uuid.UUID {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.add(buffer.New(app.bufferOptions()...), "").ID
}

// Buffer returns the buffer with the given ID.
func (app *Application) Buffer(id uuid.UUID) (*buffer.Buffer, error) {
	app.mu.Lock()
	defer app.mu.Unlock()
	v, ok := app.views[id]
	if !ok {
		return nil, ErrBufferNotFound
	}
	return v.Buffer, nil
}

// BufferIDs returns the open buffers in the order they were opened.
func (app *Application) BufferIDs() []uuid.UUID {
	app.mu.Lock()
	defer app.mu.Unlock()
	return append([]uuid.UUID(nil), app.order...)
}

// SetActive makes the buffer with the given ID the active one.
func (app *Application) SetActive(id uuid.UUID) error {
	app.mu.Lock()
	defer app.mu.Unlock()
	if _, ok := app.views[id]; !ok {
		return ErrBufferNotFound
	}
	app.active = id
	return nil
}

// Active returns the active view.
func (app *Application) Active() (*View, error) {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.activeView()
}

func (app *Application) activeView() (*View, error) {
	v, ok := app.views[app.active]
	if !ok {
		return nil, ErrNoActiveBuffer
	}
	return v, nil
}

// Mode returns the current editing mode.
func (app *Application) Mode() Mode {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.mode
}

// Message returns the status message shown to the user.
func (app *Application) Message() string {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.message
}

// setMode switches modes. An insert session is a single undo step.
func (app *Application) setMode(v *View, mode Mode) {
	if app.mode == mode {
		return
	}
	switch mode {
	case ModeInsert:
		v.Buffer.BeginUndoGroup("insert")
		app.backend.SetCursorStyle(backend.CursorBar)
	case ModeNormal:
		v.Buffer.EndUndoGroup()
		app.backend.SetCursorStyle(backend.CursorBlock)
	}
	app.mode = mode
}

func (app *Application) setMessage(msg string) {
	app.message = msg
}

func (app *Application) hasDirty() bool {
	for _, v := range app.views {
		if v.Buffer.Dirty() {
			return true
		}
	}
	return false
}

// ApplyConfig switches to cfg. The log level, word matcher and undo limit
// apply to open buffers immediately; engine sizes apply to new buffers.
func (app *Application) ApplyConfig(cfg *config.Config) {
	app.mu.Lock()
	defer app.mu.Unlock()

	if cfg.Logging.File != app.cfg.Logging.File {
		app.logger.Info("log file change to %q applies after restart", cfg.Logging.File)
	}
	app.cfg = cfg
	app.logger.SetLevel(cfg.LogLevel())
	for _, v := range app.views {
		v.Buffer.SetWordMatcher(cfg.WordMatcher())
		v.Buffer.SetMaxUndoEntries(cfg.Engine.MaxUndoEntries)
	}
	app.logger.Info("config applied (word matcher %s, log level %s)", cfg.WordMatcher().Name(), cfg.LogLevel())
}

// WatchConfig reloads the config file at path whenever it changes. Reload
// errors keep the current settings and are shown in the status line.
func (app *Application) WatchConfig(path string) error {
	r, err := config.Watch(path, func(cfg *config.Config, err error) {
		if err != nil {
			app.logger.Warn("config reload: %v", err)
			app.mu.Lock()
			app.setMessage("config: " + err.Error())
			app.mu.Unlock()
		} else {
			app.ApplyConfig(cfg)
		}
		app.backend.PostEvent(backend.Event{Type: backend.EventInterrupt})
	})
	if err != nil {
		return NewOperationError("watch", path, err)
	}

	app.mu.Lock()
	app.reloader = r
	app.mu.Unlock()
	return nil
}

// HandleEvent processes one backend event. It returns ErrQuit when the
// application should exit.
func (app *Application) HandleEvent(ev backend.Event) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	switch ev.Type {
	case backend.EventKey:
		v, err := app.activeView()
		if err != nil {
			return err
		}
		app.message = ""
		return app.report(app.handleKey(v, ev))
	default:
		return nil
	}
}

// Run draws the active view and processes events until quit or Stop.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.backend.Init(); err != nil {
		return NewOperationError("init", "backend", err)
	}
	defer app.backend.Shutdown()

	app.mu.Lock()
	if len(app.views) == 0 {
		app.add(buffer.New(app.bufferOptions()...), "")
	}
	app.mu.Unlock()

	for !app.stopping.Load() {
		app.Draw()
		if err := app.HandleEvent(app.backend.PollEvent()); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
	}
	return nil
}

// Stop asks a running event loop to return.
func (app *Application) Stop() {
	app.stopping.Store(true)
	app.backend.PostEvent(backend.Event{Type: backend.EventInterrupt})
}

// Shutdown stops watching the config file.
func (app *Application) Shutdown() {
	app.mu.Lock()
	r := app.reloader
	app.reloader = nil
	app.mu.Unlock()

	if r != nil {
		if err := r.Close(); err != nil {
			app.logger.Warn("closing config watcher: %v", err)
		}
	}
}
