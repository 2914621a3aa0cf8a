package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/texarc/texarc/internal/archive"
)

// Record is one manifest line: the user-editable description of an archive
// entry. Offsets never appear here; they are recomputed on rebuild.
type Record struct {
	Name  string `yaml:"name"`
	Size  uint32 `yaml:"size"`
	Flags uint32 `yaml:"flags"`
}

// Manifest is the ordered, human-editable intermediate between an extracted
// archive and a rebuilt one. Record order mirrors entry-table order and
// determines data-file layout on rebuild.
type Manifest struct {
	Records []Record
}

// FromTable converts an entry table into manifest records, preserving order.
func FromTable(table *archive.Table) *Manifest {
	records := make([]Record, len(table.Entries))
	for i, e := range table.Entries {
		records[i] = Record{
			Name:  e.Name,
			Size:  e.Size,
			Flags: e.Flags,
		}
	}
	return &Manifest{Records: records}
}

// Encode renders the manifest as a YAML document.
func (m *Manifest) Encode() ([]byte, error) {
	data, err := yaml.Marshal(m.Records)
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return data, nil
}

// Decode parses a YAML manifest document.
func Decode(data []byte) (*Manifest, error) {
	var records []Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return &Manifest{Records: records}, nil
}
