// Package hash derives stable identifiers from tuples of strings.
package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	gohash "hash"
)

// Strings returns the hex SHA-256 of the parts. Each part is length
// prefixed, so ("a\x1Fb", "c") and ("a", "b\x1Fc") differ.
func Strings(parts ...string) string {
	return sum(sha256.New(), parts)
}

// HMACStrings is Strings keyed with HMAC-SHA256. An empty secret falls back
// to Strings.
func HMACStrings(secret []byte, parts ...string) string {
	if len(secret) == 0 {
		return Strings(parts...)
	}
	return sum(hmac.New(sha256.New, secret), parts)
}

func sum(h gohash.Hash, parts []string) string {
	var n [binary.MaxVarintLen64]byte
	h.Write(n[:binary.PutUvarint(n[:], uint64(len(parts)))])
	for _, p := range parts {
		h.Write(n[:binary.PutUvarint(n[:], uint64(len(p)))])
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}
