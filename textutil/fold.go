package textutil

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the Unicode case-folded form of s for case-insensitive comparison.
// The Caser is built per call so concurrent callers never share transformer state.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// FoldCompat applies NFKC so full-width forms
// become their ASCII equivalents.
func FoldCompat(s string) string {
	return norm.NFKC.String(s)
}
