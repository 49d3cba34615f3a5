package app

import (
	"fmt"
	"math"
	"os"
	"sort"
	"unicode/utf8"

	"github.com/dshills/marktext/internal/engine/mark"
	"github.com/dshills/marktext/internal/engine/textobject"
)

// Command is a named editor action. count is the numeric prefix typed
// before the key, or 1 when none was typed.
type Command func(app *Application, v *View, count int) error

// direction builds a relative offset, textobject.Forward or Backward.
type direction func(n int, from mark.Mark) textobject.Offset

// commands maps command names to their actions.
var commands = map[string]Command{
	"move-left":     moveChar(-1),
	"move-right":    moveChar(1),
	"move-up":       moveLine(textobject.Backward),
	"move-down":     moveLine(textobject.Forward),
	"word-forward":  moveWord(textobject.Forward),
	"word-backward": moveWord(textobject.Backward),
	"line-start":    moveInLine(textobject.AnchorStart),
	"line-end":      moveInLine(textobject.AnchorEnd),
	"buffer-start":  bufferStart,
	"goto-line":     gotoLine,

	"insert-mode": insertMode,
	"append-mode": appendMode,
	"open-line":   openLine,
	"normal-mode": normalMode,

	"delete-char":   deleteChar,
	"backspace":     backspace,
	"delete-line":   deleteLine,
	"delete-word":   deleteWord,
	"delete-to-end": deleteToLineEnd,

	"undo": undo,
	"redo": redo,

	"buffer-next": cycleBuffer(1),
	"buffer-prev": cycleBuffer(-1),

	"save": save,
	"quit": quit,
}

// CommandNames returns the registered command names in sorted order.
func CommandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Motions

// moveChar moves the cursor count characters, stepping over whole UTF-8
// sequences. step is 1 for forward and -1 for backward.
func moveChar(step int) Command {
	return func(_ *Application, v *View, count int) error {
		off := v.CursorOffset()
		target := off
		for i := 0; i < count; i++ {
			if step < 0 {
				if target == 0 {
					break
				}
				target = runeStart(v, target)
				continue
			}
			if target >= v.Buffer.Len() {
				break
			}
			target += runeLen(v, target)
		}
		if target == off {
			return ErrNoMotion
		}
		return v.move(textobject.New(textobject.Char(), textobject.Absolute(target)))
	}
}

// moveLine keeps the cursor column, clamped to the target line. Moving past
// the first or last line is refused.
func moveLine(dir direction) Command {
	return func(_ *Application, v *View, count int) error {
		cur, ok := v.Cursor()
		if !ok {
			return ErrNoMotion
		}
		target := textobject.New(textobject.Line(textobject.AnchorSame), dir(count, cursorMark))
		pos, ok := v.Buffer.ObjectIndex(target)
		if !ok || pos.Line == cur.Line {
			return ErrNoMotion
		}
		return v.move(target)
	}
}

func moveWord(dir direction) Command {
	return func(_ *Application, v *View, count int) error {
		before := v.CursorOffset()
		obj := textobject.New(textobject.Word(textobject.AnchorStart), dir(count, cursorMark))
		if err := v.move(obj); err != nil {
			return err
		}
		if v.CursorOffset() == before {
			return ErrNoMotion
		}
		return nil
	}
}

func moveInLine(anchor textobject.Anchor) Command {
	return func(_ *Application, v *View, _ int) error {
		return v.move(textobject.New(textobject.Line(anchor), textobject.Forward(0, cursorMark)))
	}
}

func bufferStart(_ *Application, v *View, _ int) error {
	return v.move(textobject.New(textobject.Char(), textobject.Absolute(0)))
}

// gotoLine moves to the start of line count (1-based) when a count was
// typed, and to the end of the buffer otherwise.
func gotoLine(app *Application, v *View, count int) error {
	if app.countTyped {
		return v.move(textobject.New(textobject.Line(textobject.AnchorStart), textobject.Absolute(count-1)))
	}
	return v.move(textobject.New(textobject.Char(), textobject.Absolute(math.MaxInt)))
}

// Modes

func insertMode(app *Application, v *View, _ int) error {
	app.setMode(v, ModeInsert)
	return nil
}

func appendMode(app *Application, v *View, _ int) error {
	off := v.CursorOffset()
	if c, ok := v.Buffer.ByteAt(off); ok && c != '\n' {
		v.Buffer.SetMark(cursorMark, off+runeLen(v, off))
	}
	app.setMode(v, ModeInsert)
	return nil
}

func openLine(app *Application, v *View, _ int) error {
	if err := moveInLine(textobject.AnchorEnd)(app, v, 1); err != nil {
		return err
	}
	app.setMode(v, ModeInsert)
	insertText(v, "\n")
	return nil
}

func normalMode(app *Application, v *View, _ int) error {
	app.setMode(v, ModeNormal)
	return nil
}

// Edits

// insertText inserts s at the cursor and moves the cursor past it.
func insertText(v *View, s string) {
	off := v.CursorOffset()
	for i := 0; i < len(s); i++ {
		if !v.Buffer.InsertChar(cursorMark, s[i]) {
			return
		}
		off++
		v.Buffer.SetMark(cursorMark, off)
	}
}

// runeStart returns the offset of the UTF-8 sequence that ends just before
// off. off must be greater than zero. Invalid bytes count as one.
func runeStart(v *View, off int) int {
	for start := off - 1; start >= 0 && off-start <= utf8.UTFMax; start-- {
		c, _ := v.Buffer.ByteAt(start)
		if !utf8.RuneStart(c) {
			continue
		}
		if runeLen(v, start) == off-start {
			return start
		}
		break
	}
	return off - 1
}

// runeLen returns the length of the UTF-8 sequence starting at off. Invalid
// bytes count as one.
func runeLen(v *View, off int) int {
	var buf [utf8.UTFMax]byte
	n := 0
	for n < len(buf) {
		c, ok := v.Buffer.ByteAt(off + n)
		if !ok {
			break
		}
		buf[n] = c
		n++
	}
	_, size := utf8.DecodeRune(buf[:n])
	return max(size, 1)
}

// deleteChar removes count characters under and after the cursor without
// crossing the end of the line.
func deleteChar(_ *Application, v *View, count int) error {
	off := v.CursorOffset()
	end := off
	for i := 0; i < count; i++ {
		c, ok := v.Buffer.ByteAt(end)
		if !ok || c == '\n' {
			break
		}
		end += runeLen(v, end)
	}
	if end == off {
		return ErrNoMotion
	}
	v.Buffer.RemoveRange(off, end)
	return nil
}

// backspace removes the character before the cursor, joining lines at a
// line start.
func backspace(_ *Application, v *View, _ int) error {
	off := v.CursorOffset()
	if off == 0 {
		return ErrNoMotion
	}
	start := runeStart(v, off)
	v.Buffer.RemoveRange(start, off)
	v.Buffer.SetMark(cursorMark, start)
	return nil
}

// deleteLine removes count lines starting at the cursor line, including
// their newlines. The cursor lands on the start of the following line.
func deleteLine(_ *Application, v *View, count int) error {
	cur, ok := v.Cursor()
	if !ok {
		return ErrNoMotion
	}
	last := textobject.New(textobject.Line(textobject.AnchorEnd), textobject.Forward(count-1, cursorMark))
	end, ok := v.Buffer.ObjectIndex(last)
	if !ok {
		return ErrNoMotion
	}

	start, stop := cur.LineStart, end.Absolute
	if stop < v.Buffer.Len() {
		stop++
	} else if start > 0 {
		// The last line has no newline of its own; take the one before it.
		start--
	}
	if start == stop {
		return ErrNoMotion
	}

	v.Buffer.RemoveRange(start, stop)
	v.Buffer.SetMark(cursorMark, cur.LineStart)
	return v.move(textobject.New(textobject.Line(textobject.AnchorStart), textobject.Forward(0, cursorMark)))
}

func deleteWord(_ *Application, v *View, count int) error {
	obj := textobject.New(textobject.Word(textobject.AnchorStart), textobject.Forward(count, cursorMark))
	removed, ok := v.Buffer.RemoveFromMarkToObject(cursorMark, obj)
	if !ok || len(removed) == 0 {
		return ErrNoMotion
	}
	return nil
}

func deleteToLineEnd(_ *Application, v *View, _ int) error {
	obj := textobject.New(textobject.Line(textobject.AnchorEnd), textobject.Forward(0, cursorMark))
	removed, ok := v.Buffer.RemoveFromMarkToObject(cursorMark, obj)
	if !ok || len(removed) == 0 {
		return ErrNoMotion
	}
	return nil
}

// History

func undo(_ *Application, v *View, count int) error {
	return repeatHistory(v.Buffer.Undo, count)
}

func redo(_ *Application, v *View, count int) error {
	return repeatHistory(v.Buffer.Redo, count)
}

// repeatHistory runs step up to count times. Running out of history after
// the first step is not an error.
func repeatHistory(step func() error, count int) error {
	for i := 0; i < count; i++ {
		if err := step(); err != nil {
			if i > 0 {
				return nil
			}
			return err
		}
	}
	return nil
}

// Buffers and files

func cycleBuffer(step int) Command {
	return func(app *Application, v *View, count int) error {
		n := len(app.order)
		if n < 2 {
			return ErrNoMotion
		}
		app.setMode(v, ModeNormal)
		i := 0
		for j, id := range app.order {
			if id == app.active {
				i = j
				break
			}
		}
		i = ((i+step*count)%n + n) % n
		app.active = app.order[i]
		return nil
	}
}

func save(app *Application, v *View, _ int) error {
	path := v.Buffer.Path()
	if path == "" {
		return ErrNoFilePath
	}

	f, err := os.Create(path)
	if err != nil {
		return NewOperationError("save", path, err)
	}
	n, err := v.Buffer.WriteTo(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return NewOperationError("save", path, err)
	}

	v.Buffer.MarkClean()
	app.logger.Info("wrote %s (%d bytes)", path, n)
	app.setMessage(fmt.Sprintf("%q %d bytes written", v.Name(), n))
	return nil
}

// quit exits the application. With unsaved changes and ConfirmQuit set it
// refuses once; quitting again immediately forces the exit.
func quit(app *Application, _ *View, _ int) error {
	if app.cfg.Editor.ConfirmQuit && !app.quitPending && app.hasDirty() {
		app.quitPending = true
		return fmt.Errorf("%w (quit again to discard)", ErrUnsavedChanges)
	}
	return ErrQuit
}
