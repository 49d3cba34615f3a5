package buffer

import (
	"github.com/dshills/marktext/internal/engine/history"
	"github.com/dshills/marktext/internal/engine/mark"
	"github.com/dshills/marktext/internal/engine/textobject"
)

// Write Operations

// InsertChar inserts c at the position of m. Nothing happens if m is unset.
// The mark itself does not move.
func (b *Buffer) InsertChar(m mark.Mark, c byte) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	pos, ok := b.marks.Get(m)
	if !ok {
		return false
	}
	if err := b.text.InsertByte(pos.Absolute, c); err != nil {
		b.logger.Warn("insert at %d: %v", pos.Absolute, err)
		return false
	}

	tx := b.log.Start("insert")
	tx.Record(history.Insert(pos.Absolute, c))
	b.log.Commit(tx)
	b.mutated()
	return true
}

// RemoveRange removes the bytes in [start, end) and returns them in their
// original order. The range is clamped to the content; an empty range
// removes nothing and records nothing.
func (b *Buffer) RemoveRange(start, end int) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.removeRangeLocked(start, end)
}

func (b *Buffer) removeRangeLocked(start, end int) []byte {
	start = max(start, 0)
	end = min(end, b.text.Len())
	if start >= end {
		return nil
	}

	// Remove from the end so the offsets of bytes not yet removed hold.
	tx := b.log.Start("remove")
	removed := make([]byte, end-start)
	for i := end - 1; i >= start; i-- {
		c, ok := b.text.RemoveByte(i)
		if !ok {
			continue
		}
		tx.Record(history.Remove(i, c))
		removed[i-start] = c
	}

	b.log.Commit(tx)
	b.mutated()
	return removed
}

// RemoveObject removes the span between the Start and End anchored
// resolutions of obj. It reports false if either endpoint does not resolve.
func (b *Buffer) RemoveObject(obj textobject.TextObject) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	start, ok := b.resolver.Resolve(obj.WithAnchor(textobject.AnchorStart))
	if !ok {
		return nil, false
	}
	end, ok := b.resolver.Resolve(obj.WithAnchor(textobject.AnchorEnd))
	if !ok {
		return nil, false
	}

	lo, hi := min(start.Absolute, end.Absolute), max(start.Absolute, end.Absolute)
	return b.removeRangeLocked(lo, hi), true
}

// RemoveFromMarkToObject removes the span between m and the position obj
// resolves to, whichever comes first.
func (b *Buffer) RemoveFromMarkToObject(m mark.Mark, obj textobject.TextObject) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	from, ok := b.marks.Get(m)
	if !ok {
		return nil, false
	}
	to, ok := b.resolver.Resolve(obj)
	if !ok {
		return nil, false
	}

	lo, hi := min(from.Absolute, to.Absolute), max(from.Absolute, to.Absolute)
	return b.removeRangeLocked(lo, hi), true
}

// Undo History

// Undo reverts the most recent transaction.
// Returns history.ErrNothingToUndo if there is nothing to undo.
func (b *Buffer) Undo() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	tx, err := b.log.Undo(b.text)
	if err != nil {
		return err
	}
	b.mutated()
	b.logger.Debug("undo %s (%d changes)", tx.Description, tx.Len())
	return nil
}

// Redo re-applies the most recently undone transaction.
// Returns history.ErrNothingToRedo if there is nothing to redo.
func (b *Buffer) Redo() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	tx, err := b.log.Redo(b.text)
	if err != nil {
		return err
	}
	b.mutated()
	b.logger.Debug("redo %s (%d changes)", tx.Description, tx.Len())
	return nil
}

// CanUndo returns true if there is something to undo.
func (b *Buffer) CanUndo() bool {
	return b.log.CanUndo()
}

// CanRedo returns true if there is something to redo.
func (b *Buffer) CanRedo() bool {
	return b.log.CanRedo()
}

// BeginUndoGroup starts merging edits into a single undo unit.
func (b *Buffer) BeginUndoGroup(name string) {
	b.log.BeginGroup(name)
}

// EndUndoGroup closes the current undo group.
func (b *Buffer) EndUndoGroup() {
	b.log.EndGroup()
}

// UndoHistory returns info about the undoable transactions, oldest first.
func (b *Buffer) UndoHistory() []history.Info {
	return b.log.UndoInfo()
}

// RedoHistory returns info about the redoable transactions, oldest first.
func (b *Buffer) RedoHistory() []history.Info {
	return b.log.RedoInfo()
}

// PeekUndo returns a copy of the transaction Undo would revert.
func (b *Buffer) PeekUndo() (*history.Transaction, bool) {
	return b.log.PeekUndo()
}

// PeekRedo returns a copy of the transaction Redo would re-apply.
func (b *Buffer) PeekRedo() (*history.Transaction, bool) {
	return b.log.PeekRedo()
}
