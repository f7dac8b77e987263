package config

import (
	"fmt"
	"strings"

	"github.com/example/go-wordvocab/internal/text"
)

// NormalizeForm canonicalizes a Unicode normalization form name. Empty and
// "none" both mean words are used as read.
func NormalizeForm(raw string) (string, error) {
	form := strings.ToLower(strings.TrimSpace(raw))
	if form == "none" {
		form = ""
	}
	if _, err := text.ParseForm(form); err != nil {
		return "", fmt.Errorf(
			"invalid normalize form %q (expected %s|%s|%s|%s|none)",
			raw,
			text.FormNFC,
			text.FormNFD,
			text.FormNFKC,
			text.FormNFKD,
		)
	}
	return form, nil
}
