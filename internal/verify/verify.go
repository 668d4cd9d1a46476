// Package verify normalizes security answers for storage and later
// side-by-side reading by an administrator. Answers are never compared
// automatically; claim adjudication is a human judgment.
package verify

import (
	"strings"
	"unicode/utf8"
)

// Answer length bounds, in runes.
const (
	MinAnswerLen = 3
	MaxAnswerLen = 200
)

// Normalize trims surrounding whitespace and lower-cases the answer.
// Idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidLength reports whether an answer is within the accepted bounds.
// Callers pass the normalized answer, so the bound matches what is stored.
func ValidLength(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= MinAnswerLen && n <= MaxAnswerLen
}
