package archive

import "fmt"

// Entry describes one named payload inside an archive: where its bytes live
// in the data file and the opaque per-entry flags word carried alongside.
type Entry struct {
	Name   string
	Offset uint32
	Size   uint32
	Flags  uint32
}

// Table is the ordered entry table of one archive. Order is significant: it
// mirrors the on-disk info table and drives the data-file layout. Tables are
// never mutated in place; a rebuild always authors a fresh one.
type Table struct {
	Entries []Entry
}

// NewTable constructs a table from entries in their on-disk order.
func NewTable(entries []Entry) *Table {
	return &Table{Entries: entries}
}

// Validate checks the table's structural invariants against the declared
// data-file length: unique names, non-decreasing offsets, non-overlapping
// extents, and every extent within dataLen. The first offending entry is
// reported by index and name.
func (t *Table) Validate(dataLen uint32) error {
	seen := make(map[string]int, len(t.Entries))

	for i, e := range t.Entries {
		if prev, ok := seen[e.Name]; ok {
			return fmt.Errorf("%w: entry %d %q duplicates entry %d", ErrMalformedTable, i, e.Name, prev)
		}
		seen[e.Name] = i

		end := uint64(e.Offset) + uint64(e.Size)
		if end > uint64(dataLen) {
			return fmt.Errorf("%w: entry %d %q extends to %d past data length %d",
				ErrMalformedTable, i, e.Name, end, dataLen)
		}

		if i > 0 {
			p := t.Entries[i-1]
			if e.Offset < p.Offset {
				return fmt.Errorf("%w: entry %d %q offset %d decreases below entry %d offset %d",
					ErrMalformedTable, i, e.Name, e.Offset, i-1, p.Offset)
			}
			if e.Offset < p.Offset+p.Size {
				return fmt.Errorf("%w: entry %d %q at [%d,%d) overlaps entry %d %q at [%d,%d)",
					ErrMalformedTable, i, e.Name, e.Offset, end, i-1, p.Name, p.Offset, p.Offset+p.Size)
			}
		}
	}

	return nil
}

// Lookup returns the entry with the given name.
func (t *Table) Lookup(name string) (*Entry, error) {
	for i := range t.Entries {
		if t.Entries[i].Name == name {
			return &t.Entries[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}
