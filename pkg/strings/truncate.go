// Package strings holds small text helpers for terminal output.
package strings

import (
	"strings"
)

// DefaultMaxLen is the width used for one-line messages such as failure
// reasons printed after a pull.
const DefaultMaxLen = 72

// minLen leaves room for one character plus "...".
const minLen = 4

// OneLine collapses all whitespace runs (newlines included) to single spaces
// and cuts the result to maxLen runes, ending it with "..." when cut.
func OneLine(s string, maxLen int) string {
	if maxLen < minLen {
		maxLen = minLen
	}
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
