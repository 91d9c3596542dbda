package dll

import "unicode/utf16"

// WideString encodes s as a NUL-terminated UTF-16 sequence, the string
// representation the target ABI expects for file paths.
func WideString(s string) []uint16 {
	encoded := utf16.Encode([]rune(s))
	return append(encoded, 0)
}
