package blz_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texarc/texarc/internal/blz"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{
			name: "constant bytes",
			data: bytes.Repeat([]byte{0xAA}, 256),
		},
		{
			name: "repeating pattern",
			data: bytes.Repeat([]byte("abcdefgh"), 64),
		},
		{
			name: "texture-like runs",
			data: append(bytes.Repeat([]byte{0x00}, 512), bytes.Repeat([]byte{0xFF, 0x00, 0xFF, 0x80}, 128)...),
		},
		{
			name: "text with repetition",
			data: bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 20),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := blz.Encode(tt.data)
			require.NoError(t, err)
			assert.Less(t, len(encoded), len(tt.data), "container should be smaller than the input")
			assert.Zero(t, len(encoded)%4, "container length must be a multiple of 4")

			decoded, err := blz.Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.data, decoded)
		})
	}
}

func TestEncodeDeterministic(t *testing.T) {
	data := bytes.Repeat([]byte("payload"), 100)

	first, err := blz.Encode(data)
	require.NoError(t, err)
	second, err := blz.Encode(data)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEncodeLeavesInputUntouched(t *testing.T) {
	data := bytes.Repeat([]byte{1, 2, 3, 4}, 64)
	snapshot := append([]byte(nil), data...)

	_, err := blz.Encode(data)
	require.NoError(t, err)
	assert.Equal(t, snapshot, data)
}

func TestEncodeNotCompressible(t *testing.T) {
	_, err := blz.Encode([]byte("0123456789abcdef"))
	assert.ErrorIs(t, err, blz.ErrNotCompressible)

	_, err = blz.Encode(nil)
	assert.ErrorIs(t, err, blz.ErrNotCompressible)
}

func TestDecodeRejectsBadContainers(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{
			name:  "length not a multiple of 4",
			input: make([]byte, 10),
		},
		{
			name:  "too small",
			input: make([]byte, 4),
		},
		{
			name: "zero size increase",
			// Valid length but an uncoded footer.
			input: make([]byte, 16),
		},
		{
			name: "bad header length",
			input: func() []byte {
				b := make([]byte, 16)
				b[len(b)-5] = 0x40
				b[len(b)-4] = 1
				return b
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := blz.Decode(tt.input)
			assert.Error(t, err)
		})
	}
}
