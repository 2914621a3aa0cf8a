package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/texarc/texarc/internal/archive"
)

// ErrMissingPayload means the manifest references a payload file that does
// not exist in the payload directory.
var ErrMissingPayload = errors.New("missing payload file")

// Store binds a manifest to the directory holding one payload file per
// entry. Files are named after the entry plus a fixed extension.
type Store struct {
	Dir string
	Ext string
}

// NewStore returns a payload store rooted at dir using the given file
// extension (including the leading dot).
func NewStore(dir, ext string) *Store {
	return &Store{Dir: dir, Ext: ext}
}

// Path returns the payload file path for an entry name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.Dir, name+s.Ext)
}

// WritePayloads writes one file per manifest record, in record order.
func (s *Store) WritePayloads(m *Manifest, payloads map[string][]byte) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("creating payload directory: %w", err)
	}

	for i, r := range m.Records {
		data, ok := payloads[r.Name]
		if !ok {
			return fmt.Errorf("%w: entry %d %q has no payload bytes", archive.ErrNotFound, i, r.Name)
		}
		if err := os.WriteFile(s.Path(r.Name), data, 0644); err != nil {
			return fmt.Errorf("writing payload %q: %w", r.Name, err)
		}
	}

	return nil
}

// ReadPayloads reads every record's payload file back, preserving manifest
// order. Sizes come from the files themselves, so entries resized on disk
// are picked up without the user touching the manifest.
func (s *Store) ReadPayloads(m *Manifest) ([]archive.Payload, error) {
	payloads := make([]archive.Payload, len(m.Records))

	for i, r := range m.Records {
		path := s.Path(r.Name)
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: entry %d %q expects %s", ErrMissingPayload, i, r.Name, path)
			}
			return nil, fmt.Errorf("reading payload %q: %w", r.Name, err)
		}
		payloads[i] = archive.Payload{
			Name:  r.Name,
			Flags: r.Flags,
			Data:  data,
		}
	}

	return payloads, nil
}
