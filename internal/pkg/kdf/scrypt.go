package kdf

import (
	"fmt"
	"math/bits"

	"golang.org/x/crypto/scrypt"
)

// Scrypt derives a KeyLength-byte key. n is the CPU/memory cost and must be a
// power of two greater than one.
func Scrypt(password, salt []byte, n, r, p int) ([]byte, error) {
	if n <= 1 || bits.OnesCount(uint(n)) != 1 {
		return nil, fmt.Errorf("%w: scrypt N=%d is not a power of two", ErrInvalidParams, n)
	}
	if r < 1 || p < 1 {
		return nil, fmt.Errorf("%w: scrypt r=%d p=%d", ErrInvalidParams, r, p)
	}

	key, err := scrypt.Key(password, salt, n, r, p, KeyLength)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return key, nil
}
