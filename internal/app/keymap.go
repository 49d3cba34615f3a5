package app

import (
	"errors"
	"unicode/utf8"

	"github.com/dshills/marktext/internal/engine/history"
	"github.com/dshills/marktext/internal/renderer/backend"
)

// Mode is the modal editing state.
type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
)

// String returns the mode name shown in the status line.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeInsert:
		return "INSERT"
	default:
		return "UNKNOWN"
	}
}

// Keymap binds keys to command names.
type Keymap struct {
	Keys  map[backend.Key]string
	Runes map[rune]string
}

// lookup returns the command bound to ev.
func (k Keymap) lookup(ev backend.Event) (string, bool) {
	if ev.Key == backend.KeyRune {
		name, ok := k.Runes[ev.Rune]
		return name, ok
	}
	name, ok := k.Keys[ev.Key]
	return name, ok
}

// globalKeys are bound in every mode.
var globalKeys = map[backend.Key]string{
	backend.KeyCtrlS:    "save",
	backend.KeyCtrlQ:    "quit",
	backend.KeyUp:       "move-up",
	backend.KeyDown:     "move-down",
	backend.KeyLeft:     "move-left",
	backend.KeyRight:    "move-right",
	backend.KeyHome:     "line-start",
	backend.KeyEnd:      "line-end",
	backend.KeyDelete:   "delete-char",
	backend.KeyPageUp:   "buffer-prev",
	backend.KeyPageDown: "buffer-next",
}

// NormalKeymap returns the default normal mode bindings.
func NormalKeymap() Keymap {
	return Keymap{
		Keys: merge(globalKeys, map[backend.Key]string{
			backend.KeyCtrlR:     "redo",
			backend.KeyCtrlZ:     "undo",
			backend.KeyBackspace: "move-left",
			backend.KeyEnter:     "move-down",
		}),
		Runes: map[rune]string{
			'h': "move-left",
			'l': "move-right",
			'k': "move-up",
			'j': "move-down",
			' ': "move-right",
			'w': "word-forward",
			'b': "word-backward",
			'0': "line-start",
			'$': "line-end",
			'g': "buffer-start",
			'G': "goto-line",
			'i': "insert-mode",
			'a': "append-mode",
			'o': "open-line",
			'x': "delete-char",
			'D': "delete-to-end",
			'u': "undo",
			']': "buffer-next",
			'[': "buffer-prev",
		},
	}
}

// InsertKeymap returns the default insert mode bindings. Unbound printable
// keys insert themselves.
func InsertKeymap() Keymap {
	return Keymap{
		Keys: merge(globalKeys, map[backend.Key]string{
			backend.KeyEscape:    "normal-mode",
			backend.KeyCtrlC:     "normal-mode",
			backend.KeyBackspace: "backspace",
		}),
		Runes: map[rune]string{},
	}
}

// operatorKeys are two-key sequences starting with an operator key.
var operatorKeys = map[rune]map[rune]string{
	'd': {
		'd': "delete-line",
		'w': "delete-word",
		'$': "delete-to-end",
	},
}

func merge(a, b map[backend.Key]string) map[backend.Key]string {
	out := make(map[backend.Key]string, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// handleKey routes a key event to a command, or inserts text in insert mode.
func (app *Application) handleKey(v *View, ev backend.Event) error {
	if app.mode == ModeInsert {
		return app.handleInsertKey(v, ev)
	}
	return app.handleNormalKey(v, ev)
}

func (app *Application) handleInsertKey(v *View, ev backend.Event) error {
	if name, ok := app.insertKeys.lookup(ev); ok {
		return app.execute(v, name, 1)
	}
	app.quitPending = false

	switch {
	case ev.Key == backend.KeyEnter:
		insertText(v, "\n")
	case ev.Key == backend.KeyTab:
		insertText(v, "\t")
	case ev.Key == backend.KeyRune && utf8.ValidRune(ev.Rune):
		insertText(v, string(ev.Rune))
	}
	return nil
}

func (app *Application) handleNormalKey(v *View, ev backend.Event) error {
	if ev.Key == backend.KeyRune {
		if pending := app.pendingOp; pending != 0 {
			app.pendingOp = 0
			name, ok := operatorKeys[pending][ev.Rune]
			if !ok {
				return app.resetCount(ErrUnknownCommand)
			}
			return app.execute(v, name, app.takeCount())
		}

		// Digits accumulate a count; a leading zero is line-start.
		if ev.Rune >= '0' && ev.Rune <= '9' && (ev.Rune != '0' || app.count > 0) {
			app.count = min(app.count*10+int(ev.Rune-'0'), 1_000_000)
			app.countTyped = true
			return nil
		}

		if _, ok := operatorKeys[ev.Rune]; ok {
			app.pendingOp = ev.Rune
			return nil
		}
	}

	name, ok := app.normalKeys.lookup(ev)
	if !ok {
		return app.resetCount(nil)
	}
	return app.execute(v, name, app.takeCount())
}

// takeCount returns the typed count, or 1, and clears it. countTyped stays
// set until the command has run.
func (app *Application) takeCount() int {
	n := max(app.count, 1)
	app.count = 0
	return n
}

func (app *Application) resetCount(err error) error {
	app.count = 0
	app.countTyped = false
	return err
}

// execute runs the named command. Panics in commands are recovered and
// reported as errors.
func (app *Application) execute(v *View, name string, count int) (err error) {
	defer func() {
		app.countTyped = false
		if r := recover(); r != nil {
			app.logger.Error("command %s panicked: %v", name, r)
			err = &RecoveredPanicError{Command: name, Value: r}
		}
	}()

	cmd, ok := commands[name]
	if !ok {
		return NewOperationError("run", name, ErrUnknownCommand)
	}
	if name != "quit" {
		app.quitPending = false
	}
	app.logger.Debug("%s x%d", name, count)
	return cmd(app, v, count)
}

// report turns a command error into feedback for the user. ErrQuit is
// passed through.
func (app *Application) report(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrQuit):
		return err
	case errors.Is(err, ErrNoMotion), errors.Is(err, ErrUnknownCommand):
		app.backend.Beep()
	case errors.Is(err, history.ErrNothingToUndo):
		app.setMessage("already at oldest change")
	case errors.Is(err, history.ErrNothingToRedo):
		app.setMessage("already at newest change")
	default:
		app.logger.Warn("%v", err)
		app.setMessage(err.Error())
	}
	return nil
}
