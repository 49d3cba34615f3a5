package buffer

import (
	"github.com/dshills/marktext/internal/engine/history"
	"github.com/dshills/marktext/internal/engine/textobject"
	"github.com/dshills/marktext/internal/logging"
)

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithLogger sets the logger used for buffer and resolver diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(b *Buffer) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithMaxUndoEntries limits the number of undo transactions kept.
func WithMaxUndoEntries(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.maxUndo = n
		}
	}
}

// WithWordMatcher sets the strategy used to find word boundaries.
func WithWordMatcher(m textobject.EdgeMatcher) Option {
	return func(b *Buffer) {
		if m != nil {
			b.matcher = m
		}
	}
}

// WithGapSize sets the initial and minimum gap of the storage.
func WithGapSize(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.gapSize = n
		}
	}
}

// WithPath records the file the buffer content belongs to.
func WithPath(path string) Option {
	return func(b *Buffer) {
		b.path = path
	}
}

func defaults() *Buffer {
	return &Buffer{
		logger:  logging.Null(),
		maxUndo: history.DefaultMaxEntries,
		matcher: textobject.DefaultMatcher,
	}
}
