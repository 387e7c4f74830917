// Package aead provides AES-256-GCM helpers.
//
// Encrypt/Decrypt bind every ciphertext to a domain Tag and prepend the random
// nonce. OpenGCM and OpenGCMDetached decrypt third-party containers that carry
// their own nonce and tag.
package aead
