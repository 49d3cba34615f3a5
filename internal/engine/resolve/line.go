package resolve

import (
	"github.com/dshills/marktext/internal/engine/mark"
	"github.com/dshills/marktext/internal/engine/textobject"
)

// lineStart returns the offset of the first byte of the line containing off.
func (r *Resolver) lineStart(off int) int {
	return r.Text.LastIndexByte(off, '\n') + 1
}

// lineEnd returns the offset of the newline terminating the line that starts
// at or contains off, or the end slot for the last line.
func (r *Resolver) lineEnd(off int) int {
	if nl := r.Text.IndexByte(off, '\n'); nl >= 0 {
		return nl
	}
	return r.last()
}

// anchorInLine places a position inside the line starting at start.
func (r *Resolver) anchorInLine(anchor textobject.Anchor, start, column int) (mark.Position, bool) {
	end := r.lineEnd(start)
	switch anchor {
	case textobject.AnchorStart:
		return r.at(start)
	case textobject.AnchorEnd:
		return r.at(end)
	case textobject.AnchorSame:
		return r.at(min(start+column, end))
	default:
		r.unhandled(textobject.Line(anchor))
		return mark.Position{}, false
	}
}

func (r *Resolver) line(anchor textobject.Anchor, o textobject.Offset) (mark.Position, bool) {
	switch o.Direction {
	case textobject.DirForward:
		return r.lineForward(anchor, o)
	case textobject.DirBackward:
		return r.lineBackward(anchor, o)
	default:
		return r.lineAbsolute(anchor, count(o))
	}
}

// lineForward targets the line n lines below the source mark.
func (r *Resolver) lineForward(anchor textobject.Anchor, o textobject.Offset) (mark.Position, bool) {
	abs, ok := r.source(o)
	if !ok {
		return mark.Position{}, false
	}
	start := r.lineStart(abs)
	column := abs - start

	for i := 0; i < count(o); i++ {
		nl := r.Text.IndexByte(start, '\n')
		if nl < 0 {
			return r.at(r.last())
		}
		start = nl + 1
	}
	return r.anchorInLine(anchor, start, column)
}

// lineBackward targets the line n lines above the source mark. Zero lines
// back with AnchorSame resolves to the buffer start.
func (r *Resolver) lineBackward(anchor textobject.Anchor, o textobject.Offset) (mark.Position, bool) {
	abs, ok := r.source(o)
	if !ok {
		return mark.Position{}, false
	}
	if count(o) == 0 && anchor == textobject.AnchorSame {
		return r.at(0)
	}
	start := r.lineStart(abs)
	column := abs - start

	for i := 0; i < count(o); i++ {
		if start == 0 {
			return r.at(0)
		}
		start = r.lineStart(start - 1)
	}
	return r.anchorInLine(anchor, start, column)
}

// lineAbsolute targets 0-based line n. Lines past the end resolve to the end
// slot. There is no source column, so AnchorSame is not supported.
func (r *Resolver) lineAbsolute(anchor textobject.Anchor, n int) (mark.Position, bool) {
	if anchor != textobject.AnchorStart && anchor != textobject.AnchorEnd {
		r.unhandled(textobject.Line(anchor))
		return mark.Position{}, false
	}

	start := 0
	for i := 0; i < n; i++ {
		nl := r.Text.IndexByte(start, '\n')
		if nl < 0 {
			return r.at(r.last())
		}
		start = nl + 1
	}
	return r.anchorInLine(anchor, start, 0)
}
