package archive

import (
	"bytes"
	"fmt"
)

// DataAlignment is the byte boundary every payload starts on in the data
// file. Game archives place each resource on a 4-byte boundary; padding up
// to the next boundary is zero-filled.
const DataAlignment = 4

// Payload pairs an entry name with its raw bytes and the opaque flags word
// that travels with it through extract and rebuild.
type Payload struct {
	Name  string
	Flags uint32
	Data  []byte
}

// ReadAll slices every entry's payload out of the data buffer. Extents are
// re-checked against the actual buffer length here because the table was
// validated against the *declared* data length, which only now meets the
// real file.
func ReadAll(dataBytes []byte, table *Table) (map[string][]byte, error) {
	payloads := make(map[string][]byte, len(table.Entries))

	for i, e := range table.Entries {
		end := uint64(e.Offset) + uint64(e.Size)
		if end > uint64(len(dataBytes)) {
			return nil, fmt.Errorf("%w: entry %d %q extends to %d but data file has %d bytes",
				ErrOutOfBounds, i, e.Name, end, len(dataBytes))
		}
		payloads[e.Name] = dataBytes[e.Offset:end]
	}

	return payloads, nil
}

// WriteAll concatenates payloads in order, zero-padding after each one so the
// next starts on an alignment boundary, and authors the entry table that
// describes the resulting layout. This is the only place offsets are
// computed; the same input always yields the same bytes.
func WriteAll(payloads []Payload, alignment uint32) ([]byte, *Table) {
	var buf bytes.Buffer
	entries := make([]Entry, len(payloads))

	for i, p := range payloads {
		entries[i] = Entry{
			Name:   p.Name,
			Offset: uint32(buf.Len()),
			Size:   uint32(len(p.Data)),
			Flags:  p.Flags,
		}
		buf.Write(p.Data)

		if pad := padding(uint32(len(p.Data)), alignment); pad > 0 {
			buf.Write(make([]byte, pad))
		}
	}

	return buf.Bytes(), NewTable(entries)
}

// padding returns the zero-fill needed after a payload of the given size so
// the next offset is a multiple of alignment.
func padding(size, alignment uint32) uint32 {
	if alignment <= 1 {
		return 0
	}
	return (alignment - size%alignment) % alignment
}
