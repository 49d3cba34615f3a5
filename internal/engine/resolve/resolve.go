package resolve

import (
	"github.com/dshills/marktext/internal/engine/mark"
	"github.com/dshills/marktext/internal/engine/textobject"
	"github.com/dshills/marktext/internal/logging"
)

// Text is the read access the resolver needs from storage.
type Text interface {
	mark.Text
	// IndexByte returns the offset of the first c at or after from, or -1.
	IndexByte(from int, c byte) int
	// LastIndexByte returns the offset of the last c strictly before before, or -1.
	LastIndexByte(before int, c byte) int
}

// Resolver computes positions for text objects.
type Resolver struct {
	Text    Text
	Marks   *mark.Table
	Matcher textobject.EdgeMatcher
	Logger  *logging.Logger
}

// New creates a resolver over text and marks using the default word matcher.
func New(text Text, marks *mark.Table) *Resolver {
	return &Resolver{
		Text:    text,
		Marks:   marks,
		Matcher: textobject.DefaultMatcher,
		Logger:  logging.Null(),
	}
}

// Resolve returns the position addressed by obj.
func (r *Resolver) Resolve(obj textobject.TextObject) (mark.Position, bool) {
	switch obj.Kind.Unit {
	case textobject.UnitChar:
		return r.char(obj.Offset)
	case textobject.UnitLine:
		return r.line(obj.Kind.Anchor, obj.Offset)
	case textobject.UnitWord:
		return r.word(obj.Kind.Anchor, obj.Offset)
	default:
		r.unhandled(obj.Kind)
		return mark.Position{}, false
	}
}

// last returns the last valid offset, the virtual end slot.
func (r *Resolver) last() int {
	return r.Text.Len()
}

func (r *Resolver) at(offset int) (mark.Position, bool) {
	return mark.Resolve(offset, r.Text)
}

// source returns the current absolute offset of the mark an offset is
// counted from.
func (r *Resolver) source(o textobject.Offset) (int, bool) {
	if r.Marks == nil {
		return 0, false
	}
	pos, ok := r.Marks.Get(o.From)
	if !ok {
		return 0, false
	}
	return min(pos.Absolute, r.last()), true
}

func (r *Resolver) byteAt(i int) byte {
	b, _ := r.Text.ByteAt(i)
	return b
}

func (r *Resolver) matcher() textobject.EdgeMatcher {
	if r.Matcher == nil {
		return textobject.DefaultMatcher
	}
	return r.Matcher
}

func (r *Resolver) unhandled(kind textobject.Kind) {
	if r.Logger == nil {
		return
	}
	r.Logger.WithComponent("resolve").Warn("unhandled %s anchor: %s", kind.Unit, kind.Anchor)
}

// count normalizes a request count; negative counts mean zero.
func count(o textobject.Offset) int {
	return max(0, o.Count)
}

func (r *Resolver) char(o textobject.Offset) (mark.Position, bool) {
	n := count(o)
	switch o.Direction {
	case textobject.DirForward:
		abs, ok := r.source(o)
		if !ok {
			return mark.Position{}, false
		}
		return r.at(min(abs+n, r.last()))

	case textobject.DirBackward:
		abs, ok := r.source(o)
		if !ok || abs < n {
			return mark.Position{}, false
		}
		return r.at(abs - n)

	default:
		return r.at(n)
	}
}
