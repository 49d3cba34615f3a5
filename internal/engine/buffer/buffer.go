package buffer

import (
	"io"
	"os"
	"sync"

	"github.com/dshills/marktext/internal/engine/gap"
	"github.com/dshills/marktext/internal/engine/history"
	"github.com/dshills/marktext/internal/engine/mark"
	"github.com/dshills/marktext/internal/engine/resolve"
	"github.com/dshills/marktext/internal/engine/textobject"
	"github.com/dshills/marktext/internal/logging"
)

// Buffer is an editable byte buffer with marks and undo history.
type Buffer struct {
	mu sync.Mutex

	text     *gap.GapBuffer
	marks    *mark.Table
	resolver *resolve.Resolver
	log      *history.Log

	logger  *logging.Logger
	matcher textobject.EdgeMatcher
	gapSize int
	maxUndo int

	path     string
	dirty    bool
	revision uint64
}

// New creates an empty buffer.
func New(opts ...Option) *Buffer {
	return build(nil, opts)
}

// NewFromString creates a buffer holding s.
func NewFromString(s string, opts ...Option) *Buffer {
	return build([]byte(s), opts)
}

// NewFromReader creates a buffer from everything r produces.
func NewFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return build(data, opts), nil
}

// Open creates a buffer from the file at path. If the file cannot be read
// the buffer starts empty; the failure is logged and the path is kept so a
// later save creates the file.
func Open(path string, opts ...Option) *Buffer {
	opts = append(opts, WithPath(path))

	data, err := os.ReadFile(path)
	if err != nil {
		b := build(nil, opts)
		if os.IsNotExist(err) {
			b.logger.Info("new file %s", path)
		} else {
			b.logger.Warn("open %s: %v", path, err)
		}
		return b
	}
	return build(data, opts)
}

func build(data []byte, opts []Option) *Buffer {
	b := defaults()
	for _, opt := range opts {
		opt(b)
	}

	b.text = gap.FromBytes(data, b.gapSize)
	b.marks = mark.NewTable()
	b.log = history.NewLog(b.maxUndo)
	b.resolver = resolve.New(b.text, b.marks)
	b.resolver.Matcher = b.matcher
	b.resolver.Logger = b.logger
	b.logger = b.logger.WithComponent("buffer")
	return b
}

// mutated updates the bookkeeping shared by every content change.
// Must be called with the lock held.
func (b *Buffer) mutated() {
	b.dirty = true
	b.revision++
	b.marks.Refresh(b.text)
}

// Read Operations

// Len returns the number of content bytes. Len is also the offset of the
// end-of-buffer slot.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text.Len()
}

// Text returns the full content as a string.
func (b *Buffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text.String()
}

// ByteAt returns the byte at offset i. It reports false for the end slot
// and offsets outside the content.
func (b *Buffer) ByteAt(i int) (byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text.ByteAt(i)
}

// Bytes returns a copy of the full content.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text.Bytes()
}

// WriteTo writes the content to w.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	data := b.Bytes()
	n, err := w.Write(data)
	return int64(n), err
}

// Path returns the file path the buffer was opened from, if any.
func (b *Buffer) Path() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.path
}

// SetPath changes the file path associated with the buffer.
func (b *Buffer) SetPath(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.path = path
}

// Dirty returns true if the content changed since creation or the last
// MarkClean. Undo and redo count as changes.
func (b *Buffer) Dirty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dirty
}

// MarkClean clears the dirty flag, typically after the content was saved.
func (b *Buffer) MarkClean() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dirty = false
}

// Revision returns a counter incremented by every content change.
func (b *Buffer) Revision() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revision
}

// SetWordMatcher changes the strategy used for word objects.
func (b *Buffer) SetWordMatcher(m textobject.EdgeMatcher) {
	if m == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.matcher = m
	b.resolver.Matcher = m
}

// WordMatcher returns the active word boundary strategy.
func (b *Buffer) WordMatcher() textobject.EdgeMatcher {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.matcher
}

// SetMaxUndoEntries changes how many undo transactions are kept.
func (b *Buffer) SetMaxUndoEntries(n int) {
	b.log.SetMaxEntries(n)
}
