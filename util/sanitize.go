package util

import (
	"strings"
	"unicode"
)

// SanitizeEnvValue cleans a value read from the environment or a .env file:
// surrounding whitespace and one pair of matching quotes are removed, and
// control characters (a stray \r from CRLF files) are dropped.
func SanitizeEnvValue(s string) string {
	s = strings.TrimSpace(s)
	if n := len(s); n >= 2 && (s[0] == '"' || s[0] == '\'') && s[n-1] == s[0] {
		s = s[1 : n-1]
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
