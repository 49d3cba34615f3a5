package app

import (
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dshills/marktext/internal/engine/buffer"
	"github.com/dshills/marktext/internal/engine/mark"
	"github.com/dshills/marktext/internal/engine/textobject"
)

// Marks owned by a view. Each buffer has a single view.
var (
	cursorMark  = mark.Cursor(0)
	displayMark = mark.DisplayMark(0)
)

// View is an open buffer with its editing state.
type View struct {
	// ID identifies the buffer within the application.
	ID uuid.UUID

	// Buffer holds the text and the view's marks.
	Buffer *buffer.Buffer

	// name is the display name used when the buffer has no path.
	name string
}

func newView(b *buffer.Buffer, name string) *View {
	b.SetMark(cursorMark, 0)
	b.SetMark(displayMark, 0)
	return &View{ID: uuid.New(), Buffer: b, name: name}
}

// Name returns the file name of the buffer, or its scratch name.
func (v *View) Name() string {
	if p := v.Buffer.Path(); p != "" {
		return filepath.Base(p)
	}
	if v.name != "" {
		return v.name
	}
	return "[No Name]"
}

// Cursor returns the cursor position.
func (v *View) Cursor() (mark.Position, bool) {
	return v.Buffer.MarkPosition(cursorMark)
}

// CursorOffset returns the cursor's byte offset.
func (v *View) CursorOffset() int {
	off, _ := v.Buffer.MarkIndex(cursorMark)
	return off
}

// TopLine returns the first displayed line.
func (v *View) TopLine() int {
	pos, _ := v.Buffer.MarkPosition(displayMark)
	return pos.Line
}

// move sets the cursor to the position obj resolves to.
func (v *View) move(obj textobject.TextObject) error {
	if !v.Buffer.SetMarkToObject(cursorMark, obj) {
		return ErrNoMotion
	}
	return nil
}

// scroll moves the display mark so the cursor line is visible with margin
// lines of context above and below it.
func (v *View) scroll(height, margin int) {
	if height <= 0 {
		return
	}
	margin = min(margin, (height-1)/2)

	// Edits can leave the display mark mid-line.
	v.Buffer.SetMarkToObject(displayMark,
		textobject.New(textobject.Line(textobject.AnchorStart), textobject.Forward(0, displayMark)))

	cur, ok := v.Cursor()
	if !ok {
		return
	}
	top := v.TopLine()

	switch {
	case cur.Line < top+margin:
		top = max(cur.Line-margin, 0)
	case cur.Line > top+height-1-margin:
		top = cur.Line - height + 1 + margin
	default:
		return
	}
	v.Buffer.SetMarkToObject(displayMark,
		textobject.New(textobject.Line(textobject.AnchorStart), textobject.Absolute(top)))
}
