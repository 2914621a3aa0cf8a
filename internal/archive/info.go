package archive

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// Info file layout, little-endian throughout:
//
//	u32 entryCount
//	entryCount descriptors of 16 bytes each:
//	    u32 namePtr   relative to the string pool base
//	    u32 offset    into the data file
//	    u32 flags     opaque, passed through unchanged
//	    u32 size      payload byte length
//	string pool: NUL-terminated names, pool base = 4 + 16*entryCount
const (
	infoHeaderSize     = 4
	infoDescriptorSize = 16
)

// ParseInfo decodes an info file into an entry table, preserving on-disk
// descriptor order. dataLen is the length of the companion data file and is
// used to validate entry extents.
func ParseInfo(infoData []byte, dataLen uint32) (*Table, error) {
	if len(infoData) < infoHeaderSize {
		return nil, fmt.Errorf("%w: got %d bytes, need at least %d for the entry count",
			ErrTruncatedInfo, len(infoData), infoHeaderSize)
	}

	count := binary.LittleEndian.Uint32(infoData)
	poolBase := uint64(infoHeaderSize) + uint64(count)*infoDescriptorSize
	if poolBase > uint64(len(infoData)) {
		return nil, fmt.Errorf("%w: %d entries need %d bytes of descriptors, got %d",
			ErrTruncatedInfo, count, poolBase, len(infoData))
	}

	pool := infoData[poolBase:]
	entries := make([]Entry, count)
	p := infoHeaderSize
	for i := range entries {
		namePtr := binary.LittleEndian.Uint32(infoData[p:])
		entries[i] = Entry{
			Offset: binary.LittleEndian.Uint32(infoData[p+4:]),
			Flags:  binary.LittleEndian.Uint32(infoData[p+8:]),
			Size:   binary.LittleEndian.Uint32(infoData[p+12:]),
		}
		p += infoDescriptorSize

		name, err := poolString(pool, namePtr)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries[i].Name = name
	}

	table := NewTable(entries)
	if err := table.Validate(dataLen); err != nil {
		return nil, err
	}

	return table, nil
}

// SerializeInfo encodes an entry table back into info-file bytes. The same
// table always produces the same bytes: names land in the string pool in
// descriptor order.
func SerializeInfo(table *Table) ([]byte, error) {
	var buf bytes.Buffer
	var pool bytes.Buffer

	var scratch [4]byte
	writeU32 := func(v uint32) {
		binary.LittleEndian.PutUint32(scratch[:], v)
		buf.Write(scratch[:])
	}

	writeU32(uint32(len(table.Entries)))

	for i, e := range table.Entries {
		if !utf8.ValidString(e.Name) {
			return nil, fmt.Errorf("%w: entry %d name is not valid utf-8", ErrNameEncoding, i)
		}
		if bytes.IndexByte([]byte(e.Name), 0) >= 0 {
			return nil, fmt.Errorf("%w: entry %d %q contains a NUL byte", ErrNameEncoding, i, e.Name)
		}

		writeU32(uint32(pool.Len()))
		writeU32(e.Offset)
		writeU32(e.Flags)
		writeU32(e.Size)

		pool.WriteString(e.Name)
		pool.WriteByte(0)
	}

	buf.Write(pool.Bytes())
	return buf.Bytes(), nil
}

// poolString reads the NUL-terminated name at ptr within the string pool. A
// name running to the end of the pool without a terminator is accepted, same
// as the original format readers.
func poolString(pool []byte, ptr uint32) (string, error) {
	if uint64(ptr) > uint64(len(pool)) {
		return "", fmt.Errorf("%w: name pointer %d exceeds string pool length %d",
			ErrTruncatedInfo, ptr, len(pool))
	}

	s := pool[ptr:]
	if i := bytes.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return string(s), nil
}
