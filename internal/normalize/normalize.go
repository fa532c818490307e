// Package normalize provides utilities for normalizing and sanitizing user-supplied text.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
)

// Clean removes null bytes and trims surrounding whitespace.
func Clean(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// Fold returns a caseless form of s for comparisons and prefix matching.
// "Мука" and "МУКА" both fold to "мука".
func Fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// HasFoldedPrefix reports whether s starts with prefix, ignoring case.
func HasFoldedPrefix(s, prefix string) bool {
	return strings.HasPrefix(Fold(s), Fold(prefix))
}
