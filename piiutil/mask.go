package piiutil

import "strings"

const profilePathMarker = "/in/"

// MaskEmail masks the local-part of an e-mail while keeping its first and last
// character and the whole domain.
//
//	"moustafa@example.com" -> "m******a@example.com"
//	"ab@example.com"       -> "a*@example.com"
//	"u@example.com"        -> "u@example.com"
//	"weird"                -> "w***d"
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}

	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return maskMiddle(email)
	}
	return maskMiddle(email[:at]) + email[at:]
}

// MaskPhone keeps the last 4 digits (or the last one for very short values)
// and every formatting symbol.
//
//	"+201001234567" -> "+********4567"
//	"(555)1234567"  -> "(***)***4567"
//	"+1234"         -> "+***4"
func MaskPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	if masked, ok := maskDigits(phone); ok {
		return masked
	}
	return maskMiddle(phone)
}

// MaskProfileURL keeps the profile host and path prefix and masks the handle.
//
//	"https://linkedin.com/in/moustafa" -> "https://linkedin.com/in/m******a"
func MaskProfileURL(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return ""
	}

	i := strings.Index(u, profilePathMarker)
	if i < 0 {
		return maskMiddle(u)
	}
	cut := i + len(profilePathMarker)
	return u[:cut] + maskMiddle(u[cut:])
}

// MaskName masks every word of a personal name independently.
//
//	"Moustafa Ahmed" -> "M******a A***d"
func MaskName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = maskMiddle(w)
	}
	return strings.Join(words, " ")
}
