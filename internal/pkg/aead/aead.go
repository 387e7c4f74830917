package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
)

// Ciphertext format (binary):
// [0..11]  12-byte nonce
// [12..]   gcm.Seal output (ciphertext + 16-byte tag)
const (
	NonceSize = 12
	TagSize   = 16
	KeySize   = 32
)

var (
	// ErrInvalidKeyLength indicates the key length is invalid.
	ErrInvalidKeyLength = errors.New("aead: invalid key length")
	// ErrCiphertextTooShort indicates a truncated ciphertext.
	ErrCiphertextTooShort = errors.New("aead: ciphertext too short")
	// ErrDecryptFailed indicates decryption failure.
	ErrDecryptFailed = errors.New("aead: decrypt failed")
)

// GenerateKey returns KeySize random bytes suitable for Encrypt.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("aead: key generation failed: %w", err)
	}
	return key, nil
}

// Encrypt encrypts plaintext with AES-256-GCM, binding the result to tag via AAD.
func Encrypt(plaintext, key []byte, tag Tag) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("aead: nonce generation failed: %w", err)
	}

	out := make([]byte, NonceSize, NonceSize+len(plaintext)+TagSize)
	copy(out, nonce)

	return gcm.Seal(out, nonce, plaintext, tagAAD(tag)), nil
}

// Decrypt decrypts ciphertext produced by Encrypt, requiring the same tag.
func Decrypt(ciphertext, key []byte, tag Tag) ([]byte, error) {
	if len(ciphertext) < NonceSize {
		return nil, ErrCiphertextTooShort
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plain, err := gcm.Open(nil, ciphertext[:NonceSize], ciphertext[NonceSize:], tagAAD(tag))
	if err != nil {
		// do not leak whether it was "wrong tag" vs "wrong key" vs "tampered".
		return nil, ErrDecryptFailed
	}
	return plain, nil
}

// OpenGCM decrypts sealed (ciphertext with the 16-byte tag appended) with an
// explicit nonce and empty associated data.
func OpenGCM(key, nonce, sealed []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, fmt.Errorf("aead: invalid nonce length %d (want %d)", len(nonce), gcm.NonceSize())
	}
	if len(sealed) < TagSize {
		return nil, ErrCiphertextTooShort
	}

	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plain, nil
}

// OpenGCMDetached is OpenGCM for formats that carry the tag separately from
// the ciphertext.
func OpenGCMDetached(key, nonce, ciphertext, tag []byte) ([]byte, error) {
	if len(tag) != TagSize {
		return nil, fmt.Errorf("aead: invalid tag length %d (want %d)", len(tag), TagSize)
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	return OpenGCM(key, nonce, sealed)
}

// Zero overwrites b with zeros. Callers use it to wipe keys after use.
func Zero(b []byte) {
	clear(b)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("aead: invalid key length %d (want %d for AES-256): %w", len(key), KeySize, ErrInvalidKeyLength)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aead: aes init failed: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("aead: gcm init failed: %w", err)
	}
	return gcm, nil
}

// tagAAD encodes the tag into a fixed-length byte slice for GCM AAD.
func tagAAD(t Tag) []byte {
	sum := sha256.Sum256([]byte("domain=" + string(t) + "\n"))
	return sum[:]
}
