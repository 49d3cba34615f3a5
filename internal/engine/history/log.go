package history

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries bounds the undo stack when no limit is given.
const DefaultMaxEntries = 1000

// Info provides read-only info about a transaction.
type Info struct {
	ID          uuid.UUID
	Description string
	Timestamp   time.Time
	Changes     int
	BytesDelta  int
}

func infoOf(tx *Transaction) Info {
	return Info{
		ID:          tx.ID,
		Description: tx.Description,
		Timestamp:   tx.Timestamp,
		Changes:     tx.Len(),
		BytesDelta:  tx.BytesDelta(),
	}
}

// Log manages the undo and redo stacks of a buffer.
type Log struct {
	mu sync.Mutex

	undoStack []*Transaction
	redoStack []*Transaction

	// Grouping state
	grouping bool
	group    *Transaction

	maxEntries int
}

// NewLog creates an empty log keeping at most maxEntries undo transactions.
func NewLog(maxEntries int) *Log {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Log{maxEntries: maxEntries}
}

// Start begins a new transaction. It is not part of the history until
// passed to Commit.
func (l *Log) Start(description string) *Transaction {
	return NewTransaction(description)
}

// Commit pushes tx onto the undo stack and clears the redo stack.
// Empty transactions are ignored. While grouping, the changes are
// appended to the open group instead.
func (l *Log) Commit(tx *Transaction) {
	if tx == nil || tx.IsEmpty() {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.redoStack = nil

	if l.grouping {
		if l.group == nil {
			l.group = NewTransaction(tx.Description)
		}
		l.group.Changes = append(l.group.Changes, tx.Changes...)
		return
	}

	l.pushLocked(tx)
}

// pushLocked adds a transaction without acquiring the lock.
func (l *Log) pushLocked(tx *Transaction) {
	l.undoStack = append(l.undoStack, tx)

	if len(l.undoStack) > l.maxEntries {
		excess := len(l.undoStack) - l.maxEntries
		l.undoStack = l.undoStack[excess:]
	}
}

// Undo pops the most recent transaction, applies its inverse to s and moves
// it to the redo stack. An open group is closed first.
func (l *Log) Undo(s Storage) (*Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.endGroupLocked()

	if len(l.undoStack) == 0 {
		return nil, ErrNothingToUndo
	}

	tx := l.undoStack[len(l.undoStack)-1]
	if err := replay(s, tx.Inverse()); err != nil {
		return nil, err
	}

	l.undoStack = l.undoStack[:len(l.undoStack)-1]
	l.redoStack = append(l.redoStack, tx)
	return tx, nil
}

// Redo pops the most recently undone transaction, re-applies its changes to
// s in recorded order and moves it back to the undo stack.
func (l *Log) Redo(s Storage) (*Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.redoStack) == 0 {
		return nil, ErrNothingToRedo
	}

	tx := l.redoStack[len(l.redoStack)-1]
	if err := replay(s, tx.Changes); err != nil {
		return nil, err
	}

	l.redoStack = l.redoStack[:len(l.redoStack)-1]
	l.pushLocked(tx)
	return tx, nil
}

// CanUndo returns true if undo is available.
func (l *Log) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.undoStack) > 0 || (l.group != nil && !l.group.IsEmpty())
}

// CanRedo returns true if redo is available.
func (l *Log) CanRedo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.redoStack) > 0
}

// UndoCount returns the number of transactions that can be undone.
func (l *Log) UndoCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.undoStack)
}

// RedoCount returns the number of transactions that can be redone.
func (l *Log) RedoCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.redoStack)
}

// BeginGroup starts merging committed transactions into one undo unit.
// Nested calls are ignored.
func (l *Log) BeginGroup(description string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.grouping {
		return
	}
	l.grouping = true
	l.group = NewTransaction(description)
}

// EndGroup closes the open group and pushes it as a single transaction.
func (l *Log) EndGroup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.endGroupLocked()
}

func (l *Log) endGroupLocked() {
	if !l.grouping {
		return
	}
	l.grouping = false
	group := l.group
	l.group = nil

	if group != nil && !group.IsEmpty() {
		l.pushLocked(group)
	}
}

// IsGrouping returns true if a group is open.
func (l *Log) IsGrouping() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.grouping
}

// Clear removes all undo/redo history.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.undoStack = nil
	l.redoStack = nil
	l.grouping = false
	l.group = nil
}

// PeekUndo returns a copy of the next transaction to undo.
func (l *Log) PeekUndo() (*Transaction, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.undoStack) == 0 {
		return nil, false
	}
	return l.undoStack[len(l.undoStack)-1].Clone(), true
}

// PeekRedo returns a copy of the next transaction to redo.
func (l *Log) PeekRedo() (*Transaction, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.redoStack) == 0 {
		return nil, false
	}
	return l.redoStack[len(l.redoStack)-1].Clone(), true
}

// UndoInfo returns info about the undo stack, oldest first.
func (l *Log) UndoInfo() []Info {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]Info, len(l.undoStack))
	for i, tx := range l.undoStack {
		result[i] = infoOf(tx)
	}
	return result
}

// RedoInfo returns info about the redo stack, oldest first.
func (l *Log) RedoInfo() []Info {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]Info, len(l.redoStack))
	for i, tx := range l.redoStack {
		result[i] = infoOf(tx)
	}
	return result
}

// SetMaxEntries changes the maximum number of undo entries.
// If the current stack is larger, oldest entries are removed.
func (l *Log) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.maxEntries = max
	if len(l.undoStack) > max {
		excess := len(l.undoStack) - max
		l.undoStack = l.undoStack[excess:]
	}
}

// MaxEntries returns the maximum number of undo entries.
func (l *Log) MaxEntries() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.maxEntries
}
