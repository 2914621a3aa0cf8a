package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSiblingPath(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		oldSuffix string
		newSuffix string
		want      string
	}{
		{
			name:      "data file to info file",
			input:     filepath.Join("game", "EUR_en.bin"),
			oldSuffix: ".bin",
			newSuffix: "_info.bin",
			want:      filepath.Join("game", "EUR_en_info.bin"),
		},
		{
			name:      "data file to manifest",
			input:     "EUR_en.bin",
			oldSuffix: ".bin",
			newSuffix: "_tex.yaml",
			want:      "EUR_en_tex.yaml",
		},
		{
			name:      "manifest to payload directory",
			input:     "EUR_en_tex.yaml",
			oldSuffix: ".yaml",
			newSuffix: "",
			want:      "EUR_en_tex",
		},
		{
			name:      "manifest back to data file",
			input:     "EUR_en_tex.yaml",
			oldSuffix: "_tex.yaml",
			newSuffix: ".bin",
			want:      "EUR_en.bin",
		},
		{
			name:      "suffix absent appends",
			input:     "archive",
			oldSuffix: ".bin",
			newSuffix: "_info.bin",
			want:      "archive_info.bin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, siblingPath(tt.input, tt.oldSuffix, tt.newSuffix))
		})
	}
}

func TestInfoPathFor(t *testing.T) {
	assert.Equal(t, "EUR_en_info.bin", infoPathFor("EUR_en.bin"))
}

func TestPayloadExt(t *testing.T) {
	assert.Equal(t, ".bcrez", payloadExt(false))
	assert.Equal(t, ".bcres", payloadExt(true))
}
