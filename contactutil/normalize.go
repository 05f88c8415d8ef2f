package contactutil

import (
	"strings"
	"unicode"
)

const profileScheme = "https://"

// NormalizeEmail trims surrounding whitespace and keeps the address exactly
// as captured. Case is preserved on purpose: the local-part may be
// case-sensitive on the receiving server.
func NormalizeEmail(s string) string {
	return strings.TrimSpace(s)
}

// NormalizePhone removes whitespace and hyphen characters from a captured
// phone token. Digits, '+', parentheses and any other symbol are kept as typed;
// no E.164 reformatting is attempted.
//
// Examples:
//
//	"+20-100-123-4567" -> "+201001234567"
//	"(555) 123 4567"   -> "(555)1234567"
//	"020.7946.0958"    -> "020.7946.0958"
func NormalizePhone(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.Is(unicode.Hyphen, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CanonicalProfileURL rewrites a profile path such as "LinkedIn.com/in/Jane"
// into "https://linkedin.com/in/jane". Any scheme and a leading "www." are
// dropped before the https scheme is applied. Applying it to its own output is
// a no-op.
func CanonicalProfileURL(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	s = strings.ToLower(s)
	s = strings.TrimPrefix(s, "www.")
	s = strings.TrimRight(s, "/")
	if s == "" {
		return ""
	}
	return profileScheme + s
}
