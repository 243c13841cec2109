package common

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	// Trailing store numbers and reference codes on bank descriptions,
	// e.g. "STARBUCKS #1234" or "SHELL OIL 5739201".
	trailingRef = regexp.MustCompile(`\s*(#\s*\d+|\d{4,}|\*[A-Z0-9]+)\s*$`)
)

// CollapseSpaces trims s and reduces internal whitespace runs to one space.
func CollapseSpaces(s string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// StripReference removes trailing store numbers and reference codes.
func StripReference(s string) string {
	out := CollapseSpaces(s)
	for {
		next := trailingRef.ReplaceAllString(out, "")
		if next == out {
			return out
		}
		out = next
	}
}
