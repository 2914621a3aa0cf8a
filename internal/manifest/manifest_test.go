package manifest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texarc/texarc/internal/archive"
	"github.com/texarc/texarc/internal/manifest"
)

func TestFromTablePreservesOrder(t *testing.T) {
	table := archive.NewTable([]archive.Entry{
		{Name: "zeta", Offset: 0, Size: 4, Flags: 1},
		{Name: "alpha", Offset: 4, Size: 8, Flags: 0},
	})

	m := manifest.FromTable(table)
	require.Len(t, m.Records, 2)
	assert.Equal(t, manifest.Record{Name: "zeta", Size: 4, Flags: 1}, m.Records[0])
	assert.Equal(t, manifest.Record{Name: "alpha", Size: 8, Flags: 0}, m.Records[1])
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := &manifest.Manifest{Records: []manifest.Record{
		{Name: "effect_tex", Size: 64, Flags: 1},
		{Name: "menu_tex", Size: 32, Flags: 0},
	}}

	data, err := m.Encode()
	require.NoError(t, err)

	decoded, err := manifest.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, m.Records, decoded.Records)
}

func TestDecodeHandEditedDocument(t *testing.T) {
	doc := `
- name: effect_tex
  size: 64
  flags: 1
- name: added_by_user
  size: 0
  flags: 0
`
	m, err := manifest.Decode([]byte(doc))
	require.NoError(t, err)
	require.Len(t, m.Records, 2)
	assert.Equal(t, "added_by_user", m.Records[1].Name)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := manifest.Decode([]byte("{not yaml: ["))
	assert.Error(t, err)
}
