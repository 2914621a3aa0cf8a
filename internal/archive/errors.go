package archive

import "errors"

// Sentinel errors surfaced by the container codec. Callers match them with
// errors.Is; the wrapped message carries the entry index and/or name.
var (
	// ErrTruncatedInfo means the info file is shorter than its declared
	// entry count requires.
	ErrTruncatedInfo = errors.New("truncated info file")

	// ErrMalformedTable means the entry table violates a structural
	// invariant: duplicate names, decreasing offsets, overlapping extents,
	// or an extent past the end of the data file.
	ErrMalformedTable = errors.New("malformed entry table")

	// ErrOutOfBounds means an entry's extent exceeds the actual data
	// buffer, regardless of what the info table declared.
	ErrOutOfBounds = errors.New("entry extent out of bounds")

	// ErrNotFound means no entry with the requested name exists.
	ErrNotFound = errors.New("entry not found")

	// ErrNameEncoding means an entry name cannot be stored in the info
	// file's NUL-terminated string pool.
	ErrNameEncoding = errors.New("unencodable entry name")
)
