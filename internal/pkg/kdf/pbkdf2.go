package kdf

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2SHA256 derives a KeyLength-byte key with PBKDF2-HMAC-SHA256.
func PBKDF2SHA256(password, salt []byte, iterations int) []byte {
	return pbkdf2.Key(password, salt, iterations, KeyLength, sha256.New)
}
