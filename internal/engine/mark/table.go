package mark

// Table maps marks to their resolved positions.
// A mark without an entry is unset. Table is not safe for concurrent use.
type Table struct {
	entries map[Mark]Position
}

// NewTable creates an empty mark table.
func NewTable() *Table {
	return &Table{entries: make(map[Mark]Position)}
}

// Set resolves offset against text and stores it for m, replacing any
// existing entry. The request is dropped if the offset cannot be resolved.
func (t *Table) Set(m Mark, offset int, text Text) bool {
	pos, ok := Resolve(offset, text)
	if !ok {
		return false
	}
	t.entries[m] = pos
	return true
}

// Get returns the cached position of m.
func (t *Table) Get(m Mark) (Position, bool) {
	pos, ok := t.entries[m]
	return pos, ok
}

// Len returns the number of set marks.
func (t *Table) Len() int {
	return len(t.entries)
}

// Marks returns the set marks in no particular order.
func (t *Table) Marks() []Mark {
	marks := make([]Mark, 0, len(t.entries))
	for m := range t.entries {
		marks = append(marks, m)
	}
	return marks
}

// Refresh re-resolves every entry at its current absolute offset so the
// cached line metadata matches the current content. Offsets past the end
// are clamped to the end slot.
func (t *Table) Refresh(text Text) {
	for m, pos := range t.entries {
		if fresh, ok := Resolve(pos.Absolute, text); ok {
			t.entries[m] = fresh
		}
	}
}

// DisplayCoords returns the (column, line) of m.
func (t *Table) DisplayCoords(m Mark) (column, line int, ok bool) {
	pos, ok := t.entries[m]
	if !ok {
		return 0, 0, false
	}
	return pos.Column(), pos.Line, true
}
