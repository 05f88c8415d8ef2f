package textutil

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var ErrInvalidText = errors.New("invalid text")

// CanonicalizeLine returns s as one printable line of at most maxRunes runes
// with surrounding space trimmed and inner whitespace runs collapsed to a
// single space. Line breaks, control or format characters and invalid UTF-8
// are rejected with an error wrapping ErrInvalidText.
func CanonicalizeLine(s string, maxRunes int) (string, error) {
	if maxRunes <= 0 {
		return "", fmt.Errorf("%w: limit %d", ErrInvalidText, maxRunes)
	}
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("%w: not utf-8", ErrInvalidText)
	}
	if i := strings.IndexFunc(s, rejectedRune); i >= 0 {
		r, _ := utf8.DecodeRuneInString(s[i:])
		return "", fmt.Errorf("%w: %U at byte %d", ErrInvalidText, r, i)
	}

	out := strings.Join(strings.Fields(s), " ")
	switch n := utf8.RuneCountInString(out); {
	case n == 0:
		return "", fmt.Errorf("%w: empty", ErrInvalidText)
	case n > maxRunes:
		return "", fmt.Errorf("%w: %d runes, limit %d", ErrInvalidText, n, maxRunes)
	}
	return out, nil
}

func rejectedRune(r rune) bool {
	switch r {
	case '\n', '\r', '\u0085', '\u2028', '\u2029':
		return true
	}
	if unicode.IsSpace(r) {
		return false
	}
	return unicode.IsControl(r) || unicode.In(r, unicode.Cf)
}
