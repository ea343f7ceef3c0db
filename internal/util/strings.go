package util

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ToValidUTF8 ensures a string is valid UTF-8.
// ERP exports are frequently Windows-1252 or Latin-1 encoded; when the input
// is not valid UTF-8 it is decoded as Windows-1252, which keeps characters
// like ç, ã, é and the euro sign intact instead of replacing them.
func ToValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	decoded, err := charmap.Windows1252.NewDecoder().String(s)
	if err == nil {
		return decoded
	}

	// Latin-1 maps 1:1 to Unicode codepoints 0-255
	runes := make([]rune, len(s))
	for i := 0; i < len(s); i++ {
		runes[i] = rune(s[i])
	}
	return string(runes)
}

// CleanCell trims whitespace and a leading byte order mark from a text cell
// and repairs its encoding.
func CleanCell(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.TrimSpace(ToValidUTF8(s))
}
