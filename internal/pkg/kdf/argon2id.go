package kdf

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// ErrInvalidParams indicates KDF parameters that cannot be used.
var ErrInvalidParams = errors.New("kdf: invalid parameters")

// KeyLength is the derived key size used by every envelope in this module.
const KeyLength = 32

// Argon2Params describes an Argon2id derivation.
type Argon2Params struct {
	// Memory is the memory cost in KiB.
	Memory uint32
	// Iterations is the time cost.
	Iterations uint32
	// Parallelism is the number of lanes.
	Parallelism uint8
}

// DefaultArgon2Params returns the parameters used for password-protected exports.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:      19 * 1024, // 19 MiB
		Iterations:  2,
		Parallelism: 1,
	}
}

// Validate reports whether p can be used with argon2.IDKey.
func (p Argon2Params) Validate() error {
	if p.Iterations < 1 {
		return fmt.Errorf("%w: argon2id iterations must be at least 1", ErrInvalidParams)
	}
	if p.Parallelism < 1 {
		return fmt.Errorf("%w: argon2id parallelism must be at least 1", ErrInvalidParams)
	}
	if p.Memory < 8*uint32(p.Parallelism) {
		return fmt.Errorf("%w: argon2id memory %d KiB below minimum", ErrInvalidParams, p.Memory)
	}
	return nil
}

// Argon2id derives a KeyLength-byte key from password and salt.
func Argon2id(password, salt []byte, p Argon2Params) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return argon2.IDKey(password, salt, p.Iterations, p.Memory, p.Parallelism, KeyLength), nil
}

// NewSalt returns n random bytes.
func NewSalt(n int) ([]byte, error) {
	salt := make([]byte, n)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}
