package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// LineBreak is the only delimiter that also closes a document.
const LineBreak = '\n'

// IsDelimiter reports whether r separates words. Every Unicode space
// counts, so the streaming and line-based readers agree on word boundaries.
func IsDelimiter(r rune) bool {
	return unicode.IsSpace(r)
}

// Fields splits a line into words on delimiter runs. Invalid UTF-8 bytes
// become U+FFFD one byte at a time, as a rune-at-a-time reader sees them.
func Fields(line string) []string {
	return strings.FieldsFunc(ValidUTF8(line), IsDelimiter)
}

// ValidUTF8 replaces each invalid byte of s with U+FFFD.
func ValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		b.WriteRune(r)
	}
	return b.String()
}
