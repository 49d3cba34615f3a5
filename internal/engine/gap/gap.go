package gap

import "errors"

// ErrOffsetOutOfRange indicates an offset is outside the valid buffer range.
var ErrOffsetOutOfRange = errors.New("offset out of range")

// DefaultGapSize is the gap allocated for a new buffer.
const DefaultGapSize = 128

// GapBuffer stores bytes with a movable gap between gapStart and gapEnd.
type GapBuffer struct {
	buf      []byte
	gapStart int
	gapEnd   int
	minGap   int
}

// New creates an empty GapBuffer with the given initial gap size.
func New(gapSize int) *GapBuffer {
	if gapSize < 1 {
		gapSize = DefaultGapSize
	}
	return &GapBuffer{
		buf:    make([]byte, gapSize),
		gapEnd: gapSize,
		minGap: gapSize,
	}
}

// FromBytes creates a GapBuffer holding a copy of data, with the gap at the end.
func FromBytes(data []byte, gapSize int) *GapBuffer {
	g := New(gapSize)
	g.buf = make([]byte, len(data)+g.minGap)
	copy(g.buf, data)
	g.gapStart = len(data)
	g.gapEnd = len(g.buf)
	return g
}

// Len returns the number of stored bytes.
func (g *GapBuffer) Len() int {
	return len(g.buf) - (g.gapEnd - g.gapStart)
}

// IsEmpty returns true if the buffer holds no bytes.
func (g *GapBuffer) IsEmpty() bool {
	return g.Len() == 0
}

// ByteAt returns the byte at offset i.
func (g *GapBuffer) ByteAt(i int) (byte, bool) {
	if i < 0 || i >= g.Len() {
		return 0, false
	}
	return g.at(i), true
}

// at reads a logical offset without bounds checking.
func (g *GapBuffer) at(i int) byte {
	if i < g.gapStart {
		return g.buf[i]
	}
	return g.buf[g.gapEnd+(i-g.gapStart)]
}

// InsertByte inserts b at offset i, shifting later content right.
func (g *GapBuffer) InsertByte(i int, b byte) error {
	if i < 0 || i > g.Len() {
		return ErrOffsetOutOfRange
	}
	g.moveGap(i)
	g.ensureGap(1)
	g.buf[g.gapStart] = b
	g.gapStart++
	return nil
}

// Insert inserts data at offset i.
func (g *GapBuffer) Insert(i int, data []byte) error {
	if i < 0 || i > g.Len() {
		return ErrOffsetOutOfRange
	}
	if len(data) == 0 {
		return nil
	}
	g.moveGap(i)
	g.ensureGap(len(data))
	copy(g.buf[g.gapStart:], data)
	g.gapStart += len(data)
	return nil
}

// RemoveByte removes and returns the byte at offset i.
// Returns false if i is out of range.
func (g *GapBuffer) RemoveByte(i int) (byte, bool) {
	if i < 0 || i >= g.Len() {
		return 0, false
	}
	g.moveGap(i)
	b := g.buf[g.gapEnd]
	g.gapEnd++
	return b, true
}

// Slice returns a copy of the bytes in [start, end), clamped to the content.
func (g *GapBuffer) Slice(start, end int) []byte {
	if start < 0 {
		start = 0
	}
	if end > g.Len() {
		end = g.Len()
	}
	if start >= end {
		return []byte{}
	}
	out := make([]byte, 0, end-start)
	if start < g.gapStart {
		out = append(out, g.buf[start:min(end, g.gapStart)]...)
	}
	if end > g.gapStart {
		from := max(start, g.gapStart) - g.gapStart + g.gapEnd
		to := end - g.gapStart + g.gapEnd
		out = append(out, g.buf[from:to]...)
	}
	return out
}

// Bytes returns a copy of the full content.
func (g *GapBuffer) Bytes() []byte {
	return g.Slice(0, g.Len())
}

// String returns the content as a string.
func (g *GapBuffer) String() string {
	return string(g.Bytes())
}

// IndexByte returns the offset of the first c at or after from, or -1.
func (g *GapBuffer) IndexByte(from int, c byte) int {
	if from < 0 {
		from = 0
	}
	for i := from; i < g.Len(); i++ {
		if g.at(i) == c {
			return i
		}
	}
	return -1
}

// LastIndexByte returns the offset of the last c strictly before before, or -1.
func (g *GapBuffer) LastIndexByte(before int, c byte) int {
	if before > g.Len() {
		before = g.Len()
	}
	for i := before - 1; i >= 0; i-- {
		if g.at(i) == c {
			return i
		}
	}
	return -1
}

// ensureGap grows the backing slice so the gap holds at least n bytes.
func (g *GapBuffer) ensureGap(n int) {
	if g.gapEnd-g.gapStart >= n {
		return
	}
	newCap := len(g.buf)*2 + n + g.minGap
	newBuf := make([]byte, newCap)
	copy(newBuf, g.buf[:g.gapStart])
	suffix := len(g.buf) - g.gapEnd
	copy(newBuf[newCap-suffix:], g.buf[g.gapEnd:])
	g.gapEnd = newCap - suffix
	g.buf = newBuf
}

// moveGap moves the gap so that gapStart == pos.
func (g *GapBuffer) moveGap(pos int) {
	switch {
	case pos < g.gapStart:
		d := g.gapStart - pos
		copy(g.buf[g.gapEnd-d:g.gapEnd], g.buf[pos:g.gapStart])
		g.gapStart -= d
		g.gapEnd -= d
	case pos > g.gapStart:
		d := pos - g.gapStart
		copy(g.buf[g.gapStart:g.gapStart+d], g.buf[g.gapEnd:g.gapEnd+d])
		g.gapStart += d
		g.gapEnd += d
	}
}
