package textnorm

import (
	"strings"
	"unicode/utf8"
)

// junk reports runes that upstream markup leaks into verse text: C0 controls other than tab and
// line breaks, DEL, C1 controls and the replacement rune left by invalid UTF-8
func junk(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return false
	case r < 0x20 || r == 0x7F:
		return true
	case r >= 0x80 && r <= 0x9F:
		return true
	}
	return r == utf8.RuneError
}

// Sanitize drops junk runes and returns s itself when there are none
func Sanitize(s string) string {
	if strings.IndexFunc(s, junk) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if junk(r) {
			return -1
		}
		return r
	}, s)
}
