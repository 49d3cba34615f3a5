// Package history provides the edit log behind undo and redo.
//
// Every mutation of a buffer is recorded as a Transaction: an ordered list
// of single-byte Changes (Insert or Remove at an offset). Replaying a
// transaction's changes in order against storage reproduces the edit;
// undo replays the byte-exact inverse in reverse order.
//
// # Log
//
// The Log keeps two stacks:
//
//	log := history.NewLog(1000) // Max 1000 undo entries
//
//	tx := log.Start("insert")
//	tx.Record(history.Insert(0, 'X'))
//	log.Commit(tx)
//
//	log.Undo(storage) // applies Remove(0, 'X')
//	log.Redo(storage) // applies Insert(0, 'X') again
//
// Committing a transaction clears the redo stack (linear history).
//
// # Grouping
//
// Several committed transactions can be merged into one undo unit:
//
//	log.BeginGroup("insert session")
//	// ... several commits ...
//	log.EndGroup()
package history
