package otp

import (
	"encoding/base32"
	"strings"
)

var secretReplacer = strings.NewReplacer(" ", "", "-", "", "_", "")

// SanitizeSecret strips the separators people paste into secrets: spaces,
// hyphens and underscores.
func SanitizeSecret(secret string) string {
	return secretReplacer.Replace(secret)
}

// DecodeSecret returns the key bytes for a TOTP secret.
//
// The sanitized secret is decoded as base32 (case-insensitive, padding
// optional). When that fails the sanitized string itself is used as the key.
// Some services hand out secrets that are not valid base32 yet work in other
// authenticators this way, so the fallback must stay.
func DecodeSecret(secret string) []byte {
	s := SanitizeSecret(secret)

	if key, ok := decodeBase32(s); ok {
		return key
	}

	return []byte(s)
}

// EncodeSecret returns the canonical unpadded base32 form of key.
func EncodeSecret(key []byte) string {
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(key)
}

func decodeBase32(s string) ([]byte, bool) {
	s = strings.ToUpper(strings.TrimRight(s, "="))
	if n := len(s) % 8; n != 0 {
		s += strings.Repeat("=", 8-n)
	}

	key, err := base32.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, false
	}
	return key, true
}
