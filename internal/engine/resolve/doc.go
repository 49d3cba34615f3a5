// Package resolve turns text objects into concrete buffer positions.
//
// A Resolver reads storage and the mark table; it never mutates either.
// Every position it returns is fully resolved: Absolute lies in
// [0, Len()] and LineStart/Line describe the line containing it.
//
// Resolution rules:
//
//   - Char: Forward clamps to the end slot, Backward fails when it would
//     pass offset 0, Absolute clamps into the buffer.
//   - Line: the target line is counted from the source mark's line (or from
//     line 0 for Absolute). Start lands on the first byte of the line, End on
//     its terminating newline (or the end slot for the last line), Same on
//     the source column clamped to the line end. Relative requests that run
//     past the first or last line land on offset 0 or the end slot.
//     Absolute does not support Same.
//   - Word: a word starts wherever the configured EdgeMatcher reports an
//     edge between two adjacent bytes. Only AnchorStart is supported.
//     Requests that run out of words land on offset 0 or the end slot.
//
// Unsupported anchors are reported through the logger and resolve to
// nothing.
package resolve
