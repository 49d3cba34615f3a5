package buffer

import (
	"iter"

	"github.com/dshills/marktext/internal/engine/mark"
)

// LinesFrom returns the lines of the buffer starting at the position of m.
// The first line starts at the mark itself, which may be mid-line. Each line
// is a copy without its terminating newline; a trailing newline does not
// produce an extra empty line.
//
// The sequence can be ranged over more than once. It ends early if the
// buffer is modified after LinesFrom returned. It reports false if m is
// unset.
func (b *Buffer) LinesFrom(m mark.Mark) (iter.Seq[[]byte], bool) {
	b.mu.Lock()
	pos, ok := b.marks.Get(m)
	rev := b.revision
	b.mu.Unlock()

	if !ok {
		return nil, false
	}
	return b.linesAt(pos.Absolute, rev), true
}

// Lines returns all lines of the buffer.
func (b *Buffer) Lines() iter.Seq[[]byte] {
	b.mu.Lock()
	rev := b.revision
	b.mu.Unlock()
	return b.linesAt(0, rev)
}

func (b *Buffer) linesAt(from int, rev uint64) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		offset := from
		for {
			line, next, ok := b.nextLine(offset, rev)
			if !ok || !yield(line) {
				return
			}
			offset = next
		}
	}
}

// nextLine returns the line starting at offset and the offset after it.
func (b *Buffer) nextLine(offset int, rev uint64) ([]byte, int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.text.Len()
	if b.revision != rev || offset >= n {
		return nil, 0, false
	}
	end := b.text.IndexByte(offset, '\n')
	if end < 0 {
		return b.text.Slice(offset, n), n, true
	}
	return b.text.Slice(offset, end), end + 1, true
}
