package domain

import (
	"fmt"
	"strings"
)

// BuildKey concatenates type, name and title into the composite key that
// identifies a posting across runs. Fresh observations and loaded snapshot
// rows must be keyed through this same function, otherwise historical and
// fresh keys diverge and every posting shows up as both new and deleted.
func BuildKey(mediaType MediaType, name, title string) (string, error) {
	if mediaType == "" || name == "" || title == "" {
		return "", fmt.Errorf("identity requires type, name and title (type=%q name=%q title=%q)", mediaType, name, title)
	}
	return string(mediaType) + name + title, nil
}

// NameFromTitle derives a publication name from a posting title shaped like
// "Call for Papers: Some Publication": everything after the first colon,
// trimmed. Returns empty when the title carries no colon.
func NameFromTitle(title string) string {
	if _, rest, found := strings.Cut(title, ":"); found {
		return strings.TrimSpace(rest)
	}
	return ""
}

// SanitizeSummary replaces every character outside the printable ASCII set
// with a single space. ASCII whitespace survives.
func SanitizeSummary(text string) string {
	return strings.Map(func(r rune) rune {
		if r >= 0x20 && r < 0x7f {
			return r
		}
		switch r {
		case '\t', '\n', '\v', '\f', '\r':
			return r
		}
		return ' '
	}, text)
}
