package text

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold applies Unicode case folding so titles and search terms compare
// case-insensitively beyond ASCII.
func Fold(s string) string {
	if s == "" {
		return s
	}
	return cases.Fold().String(norm.NFC.String(s))
}

// ContainsFolded reports whether folded haystack contains folded needle.
func ContainsFolded(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}
