package contact

import (
	"regexp"
	"strings"

	"github.com/vortex-fintech/go-contact/contactutil"
	"github.com/vortex-fintech/go-contact/textutil"
)

// Patterns run on Go's RE2 engine, so matching is linear in the input length.
// Quantifiers are bounded regardless, to keep candidates realistic.
var (
	// The top-level segment is the longest 2-6 letter run, so text glued on
	// after an address ("x@a.comPhone") still yields a match.
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._-]{1,256}@(?:[A-Za-z0-9-]{1,63}\.){1,8}[A-Za-z]{2,6}`)

	// Optional "+" or "00", a 1-4 digit leading group (optionally in parentheses),
	// then 1-5 groups of 2-4 digits separated by at most two of " .-".
	phonePattern = regexp.MustCompile(`(?:\+|00)?\(?\d{1,4}\)?(?:[ .\-]{0,2}\(?\d{2,4}\)?){1,5}`)

	// A 19xx/20xx group followed by a space, as in "2024 0100 123 4567".
	leadingYear = regexp.MustCompile(`^(?:19|20)\d{2} +`)

	profilePattern = regexp.MustCompile(`(?i)linkedin\.com/in/[A-Za-z0-9-]{1,100}`)
)

const (
	minPhoneDigits = 9
	maxPhoneDigits = 15
)

type emailRecognizer struct{}

// EmailRecognizer captures the first local-part@domain.tld token, case preserved.
func EmailRecognizer() Recognizer { return emailRecognizer{} }

func (emailRecognizer) Field() Field { return FieldEmail }

func (emailRecognizer) Recognize(text string) (string, bool) {
	for _, loc := range emailPattern.FindAllStringIndex(text, -1) {
		// A local part longer than the pattern allows matches from its middle;
		// such a tail is not an address.
		if loc[0] > 0 && isLocalPartByte(text[loc[0]-1]) {
			continue
		}
		return contactutil.NormalizeEmail(text[loc[0]:loc[1]]), true
	}
	return "", false
}

func isLocalPartByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', isASCIIDigit(b):
		return true
	}
	return b == '.' || b == '_' || b == '-'
}

type phoneRecognizer struct{}

// PhoneRecognizer captures the first phone-shaped token holding 9-15 digits and
// strips its whitespace and hyphens.
func PhoneRecognizer() Recognizer { return phoneRecognizer{} }

func (phoneRecognizer) Field() Field { return FieldPhone }

func (phoneRecognizer) Recognize(text string) (string, bool) {
	for _, loc := range phonePattern.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if gluedToWord(text, start) {
			continue
		}
		candidate := text[start:end]
		if n := countDigits(candidate); n < minPhoneDigits || n > maxPhoneDigits {
			continue
		}
		return contactutil.NormalizePhone(dropLeadingYear(candidate)), true
	}
	return "", false
}

// dropLeadingYear strips a year that the pattern absorbed in front of a number,
// unless what remains is too short to be a phone on its own.
func dropLeadingYear(candidate string) string {
	loc := leadingYear.FindStringIndex(candidate)
	if loc == nil {
		return candidate
	}
	if rest := candidate[loc[1]:]; countDigits(rest) >= minPhoneDigits {
		return rest
	}
	return candidate
}

// gluedToWord reports whether a candidate starting with a digit continues an
// alphanumeric token, as in "ID12345678901".
func gluedToWord(text string, start int) bool {
	if start == 0 || !isASCIIDigit(text[start]) {
		return false
	}
	prev := text[start-1]
	return isASCIIDigit(prev) || (prev|0x20 >= 'a' && prev|0x20 <= 'z')
}

func countDigits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if isASCIIDigit(s[i]) {
			n++
		}
	}
	return n
}

func isASCIIDigit(b byte) bool { return b >= '0' && b <= '9' }

type websiteRecognizer struct{}

// WebsiteRecognizer captures a linkedin.com/in/<handle> path in any case and
// rewrites it to https://linkedin.com/in/<handle>. Other URLs are ignored.
func WebsiteRecognizer() Recognizer { return websiteRecognizer{} }

func (websiteRecognizer) Field() Field { return FieldWebsite }

func (websiteRecognizer) Recognize(text string) (string, bool) {
	m := profilePattern.FindString(text)
	if m == "" {
		return "", false
	}
	return contactutil.CanonicalProfileURL(m), true
}

type jobTitleRecognizer struct {
	titles []string
	folded []string
}

// JobTitleRecognizer checks titles in order and returns the first one found
// anywhere in the text, ignoring case. Order is precedence: list specific
// titles before the general ones they contain.
func JobTitleRecognizer(titles []string) (Recognizer, error) {
	clean, err := canonicalVocabulary(titles)
	if err != nil {
		return nil, err
	}
	r := jobTitleRecognizer{titles: clean, folded: make([]string, len(clean))}
	for i, t := range clean {
		r.folded[i] = textutil.Fold(t)
	}
	return r, nil
}

func (jobTitleRecognizer) Field() Field { return FieldJobTitle }

func (r jobTitleRecognizer) Recognize(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	folded := textutil.Fold(text)
	for i, t := range r.folded {
		if strings.Contains(folded, t) {
			return r.titles[i], true
		}
	}
	return "", false
}
