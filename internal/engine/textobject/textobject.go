// Package textobject defines the addressing algebra used to describe
// navigation targets: a unit (char, line, word), an anchor within that unit,
// and an offset that is either relative to a mark or absolute.
//
//	// the start of the word three words after the cursor
//	textobject.New(textobject.Word(textobject.AnchorStart),
//		textobject.Forward(3, mark.Cursor(0)))
//
//	// the end of line 4 (0-based)
//	textobject.New(textobject.Line(textobject.AnchorEnd), textobject.Absolute(4))
package textobject

import (
	"fmt"

	"github.com/dshills/marktext/internal/engine/mark"
)

// Unit is the granularity of a text object.
type Unit uint8

const (
	UnitChar Unit = iota
	UnitLine
	UnitWord
)

// String returns the name of the unit.
func (u Unit) String() string {
	switch u {
	case UnitChar:
		return "char"
	case UnitLine:
		return "line"
	case UnitWord:
		return "word"
	default:
		return "unknown"
	}
}

// Anchor selects where within the target unit a position lands.
type Anchor uint8

const (
	// AnchorStart is the beginning of the target unit.
	AnchorStart Anchor = iota
	// AnchorEnd is the end of the target unit.
	AnchorEnd
	// AnchorSame keeps the source mark's column, clamped to the target line.
	AnchorSame
)

// String returns the name of the anchor.
func (a Anchor) String() string {
	switch a {
	case AnchorStart:
		return "start"
	case AnchorEnd:
		return "end"
	case AnchorSame:
		return "same"
	default:
		return "unknown"
	}
}

// Kind pairs a unit with an anchor. The anchor is ignored for UnitChar.
type Kind struct {
	Unit   Unit
	Anchor Anchor
}

// Char returns the character kind.
func Char() Kind {
	return Kind{Unit: UnitChar}
}

// Line returns the line kind with the given anchor.
func Line(anchor Anchor) Kind {
	return Kind{Unit: UnitLine, Anchor: anchor}
}

// Word returns the word kind with the given anchor.
func Word(anchor Anchor) Kind {
	return Kind{Unit: UnitWord, Anchor: anchor}
}

// WithAnchor returns a copy of k with the anchor replaced.
// Char kinds are returned unchanged.
func (k Kind) WithAnchor(anchor Anchor) Kind {
	if k.Unit == UnitChar {
		return k
	}
	k.Anchor = anchor
	return k
}

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	if k.Unit == UnitChar {
		return k.Unit.String()
	}
	return fmt.Sprintf("%s(%s)", k.Unit, k.Anchor)
}

// Direction says how an offset is counted.
type Direction uint8

const (
	DirForward Direction = iota
	DirBackward
	DirAbsolute
)

// String returns the name of the direction.
func (d Direction) String() string {
	switch d {
	case DirForward:
		return "forward"
	case DirBackward:
		return "backward"
	case DirAbsolute:
		return "absolute"
	default:
		return "unknown"
	}
}

// Offset counts units forward or backward from a mark, or from the start of
// the buffer. From is ignored for absolute offsets.
type Offset struct {
	Direction Direction
	Count     int
	From      mark.Mark
}

// Forward counts n units forward of m.
func Forward(n int, m mark.Mark) Offset {
	return Offset{Direction: DirForward, Count: n, From: m}
}

// Backward counts n units backward of m.
func Backward(n int, m mark.Mark) Offset {
	return Offset{Direction: DirBackward, Count: n, From: m}
}

// Absolute addresses unit n counted from the start of the buffer.
func Absolute(n int) Offset {
	return Offset{Direction: DirAbsolute, Count: n}
}

// IsRelative returns true if the offset is counted from a mark.
func (o Offset) IsRelative() bool {
	return o.Direction != DirAbsolute
}

// String returns a human-readable representation of the offset.
func (o Offset) String() string {
	if o.Direction == DirAbsolute {
		return fmt.Sprintf("absolute(%d)", o.Count)
	}
	return fmt.Sprintf("%s(%d, %s)", o.Direction, o.Count, o.From)
}

// TextObject is a navigation request.
type TextObject struct {
	Kind   Kind
	Offset Offset
}

// New creates a text object.
func New(kind Kind, offset Offset) TextObject {
	return TextObject{Kind: kind, Offset: offset}
}

// WithAnchor returns a copy of the object with its kind re-anchored.
func (o TextObject) WithAnchor(anchor Anchor) TextObject {
	o.Kind = o.Kind.WithAnchor(anchor)
	return o
}

// String returns a human-readable representation of the object.
func (o TextObject) String() string {
	return fmt.Sprintf("%s@%s", o.Kind, o.Offset)
}
