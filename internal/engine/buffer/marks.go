package buffer

import (
	"github.com/dshills/marktext/internal/engine/mark"
	"github.com/dshills/marktext/internal/engine/textobject"
)

// SetMark places m at offset. Offsets past the end are clamped to the
// end-of-buffer slot.
func (b *Buffer) SetMark(m mark.Mark, offset int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.marks.Set(m, offset, b.text)
}

// MarkPosition returns the resolved position of m.
func (b *Buffer) MarkPosition(m mark.Mark) (mark.Position, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.marks.Get(m)
}

// MarkDisplayCoords returns the column and line number of m.
func (b *Buffer) MarkDisplayCoords(m mark.Mark) (column, line int, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.marks.DisplayCoords(m)
}

// MarkIndex returns the absolute offset of m.
func (b *Buffer) MarkIndex(m mark.Mark) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pos, ok := b.marks.Get(m)
	if !ok || pos.Absolute > b.text.Len() {
		return 0, false
	}
	return pos.Absolute, true
}

// ObjectIndex resolves obj to a position without moving any mark.
func (b *Buffer) ObjectIndex(obj textobject.TextObject) (mark.Position, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.resolver.Resolve(obj)
}

// SetMarkToObject moves m to the position obj resolves to. The mark is left
// unchanged if obj does not resolve.
func (b *Buffer) SetMarkToObject(m mark.Mark, obj textobject.TextObject) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	pos, ok := b.resolver.Resolve(obj)
	if !ok {
		return false
	}
	return b.marks.Set(m, pos.Absolute, b.text)
}
