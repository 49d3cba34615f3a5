package history

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Errors returned while replaying changes.
var (
	ErrReplayFailed   = errors.New("change could not be applied to storage")
	ErrReplayMismatch = errors.New("removed byte does not match recorded change")
)

// Storage is the mutable byte sequence changes are replayed against.
type Storage interface {
	InsertByte(offset int, b byte) error
	RemoveByte(offset int) (byte, bool)
}

// Op is the kind of a primitive change.
type Op uint8

const (
	OpInsert Op = iota
	OpRemove
)

// String returns the name of the operation.
func (op Op) String() string {
	switch op {
	case OpInsert:
		return "insert"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Change is a single-byte insertion or removal at an offset.
type Change struct {
	Op     Op
	Offset int
	Byte   byte
}

// Insert creates a change inserting b at offset.
func Insert(offset int, b byte) Change {
	return Change{Op: OpInsert, Offset: offset, Byte: b}
}

// Remove creates a change removing b from offset.
func Remove(offset int, b byte) Change {
	return Change{Op: OpRemove, Offset: offset, Byte: b}
}

// Invert returns the change that undoes c.
func (c Change) Invert() Change {
	if c.Op == OpInsert {
		return Remove(c.Offset, c.Byte)
	}
	return Insert(c.Offset, c.Byte)
}

// Apply performs the change against s.
func (c Change) Apply(s Storage) error {
	switch c.Op {
	case OpInsert:
		if err := s.InsertByte(c.Offset, c.Byte); err != nil {
			return fmt.Errorf("%v: %w", c, err)
		}
		return nil
	case OpRemove:
		b, ok := s.RemoveByte(c.Offset)
		if !ok {
			return fmt.Errorf("%v: %w", c, ErrReplayFailed)
		}
		if b != c.Byte {
			// Put the unexpected byte back before reporting.
			_ = s.InsertByte(c.Offset, b)
			return fmt.Errorf("%v: got %q: %w", c, b, ErrReplayMismatch)
		}
		return nil
	default:
		return fmt.Errorf("%v: %w", c, ErrReplayFailed)
	}
}

// String returns a human-readable representation of the change.
func (c Change) String() string {
	return fmt.Sprintf("%s(%d, %q)", c.Op, c.Offset, c.Byte)
}

// Transaction is the ordered list of changes produced by one logical edit.
type Transaction struct {
	ID          uuid.UUID
	Description string
	Changes     []Change
	Timestamp   time.Time
}

// NewTransaction creates an empty transaction.
func NewTransaction(description string) *Transaction {
	return &Transaction{
		ID:          uuid.New(),
		Description: description,
		Timestamp:   time.Now(),
	}
}

// Record appends a change.
func (tx *Transaction) Record(c Change) {
	tx.Changes = append(tx.Changes, c)
}

// Len returns the number of changes.
func (tx *Transaction) Len() int {
	return len(tx.Changes)
}

// IsEmpty returns true if the transaction records no changes.
func (tx *Transaction) IsEmpty() bool {
	return len(tx.Changes) == 0
}

// BytesDelta returns the change in content length caused by the transaction.
func (tx *Transaction) BytesDelta() int {
	delta := 0
	for _, c := range tx.Changes {
		if c.Op == OpInsert {
			delta++
		} else {
			delta--
		}
	}
	return delta
}

// Inverse returns the changes that undo tx, in the order they must be applied.
func (tx *Transaction) Inverse() []Change {
	inv := make([]Change, len(tx.Changes))
	for i, c := range tx.Changes {
		inv[len(tx.Changes)-1-i] = c.Invert()
	}
	return inv
}

// Clone creates a deep copy of the transaction.
func (tx *Transaction) Clone() *Transaction {
	clone := *tx
	clone.Changes = make([]Change, len(tx.Changes))
	copy(clone.Changes, tx.Changes)
	return &clone
}

// replay applies changes in order. If one fails, the changes already applied
// are rolled back so storage is left as it was.
func replay(s Storage, changes []Change) error {
	for i, c := range changes {
		if err := c.Apply(s); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = changes[j].Invert().Apply(s)
			}
			return err
		}
	}
	return nil
}
