// Package format maps measurement file extensions to the integer format
// codes understood by the Aud_OpenGetFile entry point.
//
// The default table was recovered from the shipped host application; code 0
// tells the library to auto-detect the format itself. Two extensions may
// share a code when they are the same format family on disk (.frd and .zma
// are both CLIO frequency text).
package format

import (
	"path/filepath"
	"strings"
)

// AutoDetect is the format code that asks the library to sniff the file
// itself. It is the resolver's answer for every unknown extension.
const AutoDetect int32 = 0

// Table maps lowercase extensions (including the leading dot) to format codes.
type Table map[string]int32

// Default returns the built-in extension table.
func Default() Table {
	return Table{
		".etm": 1,  // measurement, time domain
		".efr": 2,  // measurement, frequency response
		".emd": 3,  // measurement, metadata
		".etx": 5,  // measurement, text export
		".wav": 9,  // Microsoft WAVE
		".tim": 10, // MLSSA time data
		".frq": 11, // MLSSA frequency data
		".dat": 12, // Monkey Forest data
		".spk": 13, // Monkey Forest speaker
		".frd": 24, // CLIO frequency text
		".zma": 24, // CLIO frequency text (impedance)
	}
}

// Merge overlays entries from overrides onto the table, normalizing keys to
// lowercase and ensuring the leading dot. Existing entries are replaced,
// everything else is kept.
func (t Table) Merge(overrides map[string]int32) Table {
	for ext, code := range overrides {
		key := strings.ToLower(ext)
		if !strings.HasPrefix(key, ".") {
			key = "." + key
		}
		t[key] = code
	}
	return t
}

// Resolve returns the format code for a file path. The extension match is
// case-insensitive. Unknown or missing extensions resolve to AutoDetect;
// this is a valid outcome, never an error.
func (t Table) Resolve(path string) int32 {
	ext := strings.ToLower(filepath.Ext(path))
	if code, ok := t[ext]; ok {
		return code
	}
	return AutoDetect
}

// Resolve looks up path in the default table.
func Resolve(path string) int32 {
	return Default().Resolve(path)
}
