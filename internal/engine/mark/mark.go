// Package mark provides symbolic buffer positions and their resolution into
// absolute offsets with line metadata.
//
// A Mark is an identity, not a position. The Table maps each Mark to a
// cached Position, which is replaced whenever the mark is set again.
package mark

import "fmt"

// Kind discriminates the two families of marks.
type Kind uint8

const (
	// KindCursor is a numbered edit cursor.
	KindCursor Kind = iota
	// KindDisplay is a numbered display/scroll reference.
	KindDisplay
)

// String returns the name of the mark kind.
func (k Kind) String() string {
	switch k {
	case KindCursor:
		return "cursor"
	case KindDisplay:
		return "display"
	default:
		return "unknown"
	}
}

// Mark identifies a position tracked by a buffer. Marks are comparable and
// used as map keys.
type Mark struct {
	Kind  Kind
	Index int
}

// Cursor returns the mark for edit cursor n.
func Cursor(n int) Mark {
	return Mark{Kind: KindCursor, Index: n}
}

// DisplayMark returns the mark for display reference n.
func DisplayMark(n int) Mark {
	return Mark{Kind: KindDisplay, Index: n}
}

// String returns a human-readable representation of the mark.
func (m Mark) String() string {
	return fmt.Sprintf("%s(%d)", m.Kind, m.Index)
}

// Position is the resolved state of a mark.
type Position struct {
	Absolute  int // 0-based byte offset
	LineStart int // offset of the first byte of the line containing Absolute
	Line      int // 0-based line number
}

// Column returns the byte distance from the line start.
func (p Position) Column() int {
	return p.Absolute - p.LineStart
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("%d (%d:%d)", p.Absolute, p.Line, p.Column())
}

// Text is the read access a resolver needs from storage.
type Text interface {
	Len() int
	ByteAt(i int) (byte, bool)
}

// Resolve computes the Position of a raw offset.
//
// The offset is clamped to [0, text.Len()], where text.Len() is the virtual
// end-of-buffer slot. The line start is the nearest offset at or before the
// clamped offset that is 0 or follows a '\n'; Line counts the newlines
// before that line start.
func Resolve(offset int, text Text) (Position, bool) {
	if text == nil {
		return Position{}, false
	}
	offset = max(0, min(offset, text.Len()))

	lineStart := -1
	line := 0
	for i := offset; i >= 0; i-- {
		if i > 0 {
			if b, _ := text.ByteAt(i - 1); b != '\n' {
				continue
			}
		}
		if lineStart < 0 {
			lineStart = i
		} else {
			line++
		}
	}
	if lineStart < 0 {
		return Position{}, false
	}

	return Position{Absolute: offset, LineStart: lineStart, Line: line}, true
}
