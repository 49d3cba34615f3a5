package resolve

import (
	"github.com/dshills/marktext/internal/engine/mark"
	"github.com/dshills/marktext/internal/engine/textobject"
)

// isEdge reports whether a word starts at offset i (1 <= i < Len()).
func (r *Resolver) isEdge(i int) bool {
	return r.matcher().IsWordEdge(r.byteAt(i-1), r.byteAt(i))
}

// nextWord returns the offset of the nth word start after from.
func (r *Resolver) nextWord(from, n int) (int, bool) {
	if n == 0 {
		return from, true
	}
	found := 0
	for i := from + 1; i < r.Text.Len(); i++ {
		if r.isEdge(i) {
			found++
			if found == n {
				return i, true
			}
		}
	}
	return 0, false
}

// prevWord returns the offset of the nth word start before from.
func (r *Resolver) prevWord(from, n int) (int, bool) {
	if n == 0 {
		return from, true
	}
	found := 0
	for i := min(from, r.Text.Len()) - 1; i >= 1; i-- {
		if r.isEdge(i) {
			found++
			if found == n {
				return i, true
			}
		}
	}
	return 0, false
}

func (r *Resolver) word(anchor textobject.Anchor, o textobject.Offset) (mark.Position, bool) {
	if anchor != textobject.AnchorStart {
		r.unhandled(textobject.Word(anchor))
		return mark.Position{}, false
	}

	n := count(o)
	switch o.Direction {
	case textobject.DirForward:
		abs, ok := r.source(o)
		if !ok {
			return mark.Position{}, false
		}
		if off, ok := r.nextWord(abs, n); ok {
			return r.at(off)
		}
		return r.at(r.last())

	case textobject.DirBackward:
		abs, ok := r.source(o)
		if !ok {
			return mark.Position{}, false
		}
		if off, ok := r.prevWord(abs, n); ok {
			return r.at(off)
		}
		return r.at(0)

	default:
		// Word numbers are 1-based; word 1 is the buffer start.
		if off, ok := r.nextWord(0, max(n, 1)-1); ok {
			return r.at(off)
		}
		return r.at(r.last())
	}
}
