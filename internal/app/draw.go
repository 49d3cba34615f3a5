package app

import (
	"fmt"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/dshills/marktext/internal/renderer/backend"
)

var (
	textStyle    = backend.DefaultStyle()
	controlStyle = backend.DefaultStyle().WithAttributes(backend.AttrDim)
)

// Draw renders the active view and the status line.
func (app *Application) Draw() {
	app.mu.Lock()
	defer app.mu.Unlock()

	app.backend.Clear()
	defer app.backend.Show()

	width, height := app.backend.Size()
	v, err := app.activeView()
	if err != nil || width <= 0 || height <= 0 {
		app.backend.HideCursor()
		return
	}

	textHeight := height
	if app.cfg.Editor.ShowStatus {
		textHeight--
	}
	v.scroll(textHeight, app.cfg.Editor.ScrollMargin)

	tabWidth := app.cfg.Editor.TabWidth
	var rows [][]byte
	if lines, ok := v.Buffer.LinesFrom(displayMark); ok {
		for line := range lines {
			if len(rows) >= textHeight {
				break
			}
			app.drawLine(len(rows), width, line)
			rows = append(rows, line)
		}
	}

	cur, ok := v.Cursor()
	if !ok {
		app.backend.HideCursor()
		return
	}
	col := 0
	if row := cur.Line - v.TopLine(); row >= 0 && row < len(rows) {
		col = displayColumn(rows[row], cur.Column(), tabWidth)
	}
	if app.cfg.Editor.ShowStatus {
		app.drawStatus(v, height-1, width, cur.Line, col)
	}

	row := cur.Line - v.TopLine()
	if row < 0 || row >= textHeight || col >= width {
		app.backend.HideCursor()
		return
	}
	app.backend.ShowCursor(col, row)
}

// drawLine draws one text line at row y, clipped to width.
func (app *Application) drawLine(y, width int, line []byte) {
	walkLine(line, app.cfg.Editor.TabWidth, func(_, col int, r rune, w int, control bool) bool {
		if col >= width {
			return false
		}
		style := textStyle
		if control {
			style = controlStyle
		}
		app.backend.SetCell(col, y, backend.Cell{Rune: r, Style: style})
		for i := 1; i < w && col+i < width; i++ {
			app.backend.SetCell(col+i, y, backend.Cell{Rune: ' ', Style: style})
		}
		return true
	})
}

// drawStatus draws the mode, buffer name, message and cursor location on
// row y.
func (app *Application) drawStatus(v *View, y, width, line, col int) {
	style := backend.Style{
		Foreground: backend.ColorDefault,
		Background: app.cfg.StatusColor(),
		Attributes: backend.AttrBold,
	}

	left := fmt.Sprintf(" %s  %s", app.mode, v.Name())
	if v.Buffer.Dirty() {
		left += " [+]"
	}
	if app.message != "" {
		left += "  " + app.message
	}
	right := fmt.Sprintf("%d:%d ", line+1, col+1)

	rightWidth := uniseg.StringWidth(right)
	left = truncate(left, max(width-rightWidth-1, 0))

	for x := 0; x < width; x++ {
		app.backend.SetCell(x, y, backend.Cell{Rune: ' ', Style: style})
	}
	drawString(app.backend, 0, y, left, style)
	if rightWidth < width {
		drawString(app.backend, width-rightWidth, y, right, style)
	}
}

// walkLine calls fn for each grapheme cluster of line with its byte offset,
// screen column, the rune to draw and its cell width. Tabs expand to the
// next multiple of tabWidth; control characters and invalid bytes draw as
// '?'. Walking stops when fn returns false.
func walkLine(line []byte, tabWidth int, fn func(off, col int, r rune, w int, control bool) bool) int {
	off, col, state := 0, 0, -1
	for len(line) > 0 {
		cluster, rest, w, newState := uniseg.FirstGraphemeCluster(line, state)
		state = newState

		r, size := utf8.DecodeRune(cluster)
		control := false
		switch {
		case r == '\t':
			r, w = ' ', tabWidth-col%tabWidth
		case r == utf8.RuneError && size <= 1, r < 0x20, r == 0x7f:
			r, w, control = '?', 1, true
		}
		w = max(w, 1)

		if !fn(off, col, r, w, control) {
			return col
		}
		off += len(cluster)
		col += w
		line = rest
	}
	return col
}

// displayColumn returns the screen column of byte offset byteCol in line.
func displayColumn(line []byte, byteCol, tabWidth int) int {
	found := -1
	end := walkLine(line, tabWidth, func(off, col int, _ rune, _ int, _ bool) bool {
		if off >= byteCol {
			found = col
			return false
		}
		return true
	})
	if found >= 0 {
		return found
	}
	return end
}

// truncate shortens s to at most width cells on grapheme boundaries.
func truncate(s string, width int) string {
	if uniseg.StringWidth(s) <= width {
		return s
	}
	out, used, state := 0, 0, -1
	rest := s
	for len(rest) > 0 {
		cluster, next, w, newState := uniseg.FirstGraphemeClusterInString(rest, state)
		if used+w > width {
			break
		}
		used += w
		out += len(cluster)
		rest, state = next, newState
	}
	return s[:out]
}

// drawString draws s starting at column x, one cell per grapheme cluster
// width.
func drawString(b backend.Backend, x, y int, s string, style backend.Style) {
	state := -1
	for len(s) > 0 {
		cluster, rest, w, newState := uniseg.FirstGraphemeClusterInString(s, state)
		r, _ := utf8.DecodeRuneInString(cluster)
		b.SetCell(x, y, backend.Cell{Rune: r, Style: style})
		x += max(w, 1)
		s, state = rest, newState
	}
}
