// Package gap provides a byte-oriented gap buffer used as the storage layer
// of the editor engine.
//
// A gap buffer keeps its content in a single slice with an unused region (the
// gap) positioned at the most recent edit point. Inserting or removing bytes
// at the gap is O(1); moving the gap costs O(distance moved). Edits in an
// editor cluster around the cursor, so most operations stay cheap.
//
// Offsets are byte offsets in [0, Len()]. Len() is the number of stored
// bytes; the engine layers a virtual end-of-buffer slot on top of it.
//
// GapBuffer is not safe for concurrent use. The buffer package serializes
// access to it.
package gap
