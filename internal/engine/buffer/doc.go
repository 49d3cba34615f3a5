// Package buffer provides the editable text buffer used by editor views.
//
// A Buffer composes a gap buffer for storage, a mark table for symbolic
// positions, a resolver for text objects and an edit log for undo and redo.
//
// Basic usage:
//
//	buf := buffer.NewFromString("hello\nworld\n")
//	cur := mark.Cursor(0)
//
//	buf.SetMark(cur, 0)
//	buf.InsertChar(cur, 'X') // "Xhello\nworld\n"
//	buf.Undo()               // "hello\nworld\n"
//
//	// Move the cursor to the end of the line
//	eol := textobject.New(textobject.Line(textobject.AnchorEnd), textobject.Forward(0, cur))
//	buf.SetMarkToObject(cur, eol)
//
// Offsets are byte offsets. The valid positions of a buffer with n content
// bytes are 0 through n inclusive; offset n is the end-of-buffer slot.
//
// Thread Safety:
//
// All Buffer methods are safe for concurrent use. Every read and write
// holds the buffer's mutex for the duration of the call. LinesFrom takes
// the lock once per produced line.
package buffer
