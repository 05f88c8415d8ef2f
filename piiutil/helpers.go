package piiutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// visibleDigits is how many trailing digits of a phone stay readable.
func visibleDigits(total int) int {
	if total <= 4 {
		return 1
	}
	return 4
}

// maskMiddle keeps the first and last rune and stars the rest. Two-rune
// values keep only the first rune.
func maskMiddle(s string) string {
	n := utf8.RuneCountInString(s)
	if n <= 1 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for _, r := range s {
		if i == 0 || (i == n-1 && n > 2) {
			b.WriteRune(r)
		} else {
			b.WriteByte('*')
		}
		i++
	}
	return b.String()
}

// maskDigits stars every digit except the trailing visibleDigits ones and
// leaves other runes alone. ok is false when s holds no digit.
func maskDigits(s string) (masked string, ok bool) {
	total := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			total++
		}
	}
	if total == 0 {
		return s, false
	}

	hide := total - visibleDigits(total)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if hide > 0 && unicode.IsDigit(r) {
			b.WriteByte('*')
			hide--
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), true
}
