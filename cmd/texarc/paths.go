package main

import (
	"path/filepath"
	"strings"
)

// Companion-file naming convention: an archive 'X.bin' travels with its
// table 'X_info.bin', extracts to 'X_tex.yaml' plus directory 'X_tex/', and
// rebuilds back into the same pair.
const (
	infoSuffix     = "_info.bin"
	manifestSuffix = "_tex.yaml"

	rawExt        = ".bcrez"
	decompressExt = ".bcres"
)

// siblingPath derives a path next to input by swapping a filename suffix.
// If the filename does not end on oldSuffix, newSuffix is appended instead.
func siblingPath(input, oldSuffix, newSuffix string) string {
	dir := filepath.Dir(input)
	name := filepath.Base(input)
	name = strings.TrimSuffix(name, oldSuffix) + newSuffix
	return filepath.Join(dir, name)
}

// infoPathFor returns the companion info-file path for a data file.
func infoPathFor(dataPath string) string {
	return siblingPath(dataPath, ".bin", infoSuffix)
}

// payloadExt returns the extracted resource extension. Decompressed
// resources are written as .bcres so a directory's state is self-describing.
func payloadExt(decompress bool) string {
	if decompress {
		return decompressExt
	}
	return rawExt
}
