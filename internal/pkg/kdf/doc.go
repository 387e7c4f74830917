// Package kdf wraps the password-based key derivation functions used by
// backup envelopes: scrypt, Argon2id and PBKDF2-HMAC-SHA256.
//
// Parameters come from the container being opened and are never tuned down;
// the functions only reject values the underlying primitive cannot accept.
package kdf
