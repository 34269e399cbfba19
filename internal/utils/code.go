package utils

import "strings"

// School codes are short human-entered identifiers (e.g. "SPRING24").
// They are stored and compared uppercase; 4-12 ASCII letters/digits.
const (
	codeMinLen = 4
	codeMaxLen = 12
)

// NormalizeSchoolCode uppercases and trims a user-entered code.
func NormalizeSchoolCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ValidSchoolCode reports whether a normalized code is well-formed.
func ValidSchoolCode(code string) bool {
	if len(code) < codeMinLen || len(code) > codeMaxLen {
		return false
	}
	for i := 0; i < len(code); i++ {
		ch := code[i]
		if (ch < 'A' || ch > 'Z') && (ch < '0' || ch > '9') {
			return false
		}
	}
	return true
}
