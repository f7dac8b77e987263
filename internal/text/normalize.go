package text

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrEmptyText is returned when the input text is empty or whitespace-only.
var ErrEmptyText = errors.New("text is empty")

// Normalization forms accepted by ParseForm.
const (
	FormNone = ""
	FormNFC  = "nfc"
	FormNFD  = "nfd"
	FormNFKC = "nfkc"
	FormNFKD = "nfkd"
)

// Normalizer rewrites a single word into a canonical Unicode form.
// The zero value leaves words untouched.
type Normalizer struct {
	form norm.Form
	on   bool
}

// ParseForm returns a Normalizer for the given case-insensitive form name.
// An empty name (or "none") disables normalization.
func ParseForm(raw string) (Normalizer, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case FormNone, "none":
		return Normalizer{}, nil
	case FormNFC:
		return Normalizer{form: norm.NFC, on: true}, nil
	case FormNFD:
		return Normalizer{form: norm.NFD, on: true}, nil
	case FormNFKC:
		return Normalizer{form: norm.NFKC, on: true}, nil
	case FormNFKD:
		return Normalizer{form: norm.NFKD, on: true}, nil
	default:
		return Normalizer{}, fmt.Errorf("unknown normalization form %q (want nfc|nfd|nfkc|nfkd|none)", raw)
	}
}

// Enabled reports whether the normalizer changes its input at all.
func (n Normalizer) Enabled() bool { return n.on }

// Word returns w in the normalizer's form. Words already in that form are
// returned without allocation.
func (n Normalizer) Word(w string) string {
	if !n.on || n.form.IsNormalString(w) {
		return w
	}
	return n.form.String(w)
}

// AppendWords appends the normalized form of w to dst, split again on the
// delimiter set. Compatibility forms can turn one rune into a space and a
// combining mark (U+00A8 becomes U+0020 U+0308), so one input word may yield
// several words.
func (n Normalizer) AppendWords(dst []string, w string) []string {
	nw := n.Word(w)
	if nw == w {
		return append(dst, w)
	}
	if strings.IndexFunc(nw, IsDelimiter) < 0 {
		return append(dst, nw)
	}
	return append(dst, strings.FieldsFunc(nw, IsDelimiter)...)
}

// Normalize prepares raw request text for line splitting.
// It trims surrounding whitespace, normalizes line endings to \n,
// and rejects empty or whitespace-only input.
func Normalize(s string) (string, error) {
	// Normalize line endings: CRLF → LF, then bare CR → LF.
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	s = strings.TrimSpace(s)

	if s == "" {
		return "", ErrEmptyText
	}

	return s, nil
}
