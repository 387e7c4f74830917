package kdf

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPBKDF2SHA256(t *testing.T) {
	got := PBKDF2SHA256([]byte("passwd"), []byte("salt"), 1)
	assert.Equal(t, "55ac046e56e3089fec1691c22544b605f94185216dde0465e68b9d57c20dacbc", hex.EncodeToString(got))
}

func TestScrypt(t *testing.T) {
	got, err := Scrypt([]byte("password"), []byte("NaCl"), 1024, 8, 16)
	require.NoError(t, err)
	assert.Equal(t, "fdbabe1c9d3472007856e7190d01e9fe7c6ad7cbc8237830e77376634b373162", hex.EncodeToString(got))
}

func TestScrypt_InvalidParams(t *testing.T) {
	tests := []struct {
		name    string
		n, r, p int
	}{
		{name: "n not power of two", n: 1000, r: 8, p: 1},
		{name: "n one", n: 1, r: 8, p: 1},
		{name: "n zero", n: 0, r: 8, p: 1},
		{name: "r zero", n: 1024, r: 0, p: 1},
		{name: "p zero", n: 1024, r: 8, p: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Scrypt([]byte("pw"), []byte("salt"), tt.n, tt.r, tt.p)
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}

func TestArgon2id(t *testing.T) {
	params := Argon2Params{Memory: 64, Iterations: 1, Parallelism: 1}

	a, err := Argon2id([]byte("pw"), []byte("0123456789abcdef"), params)
	require.NoError(t, err)
	require.Len(t, a, KeyLength)

	b, err := Argon2id([]byte("pw"), []byte("0123456789abcdef"), params)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Argon2id([]byte("pw"), []byte("fedcba9876543210"), params)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	_, err = Argon2id([]byte("pw"), []byte("salt"), Argon2Params{Memory: 4, Iterations: 1, Parallelism: 1})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = Argon2id([]byte("pw"), []byte("salt"), Argon2Params{Memory: 64, Iterations: 0, Parallelism: 1})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestDefaultArgon2Params(t *testing.T) {
	p := DefaultArgon2Params()
	assert.Equal(t, uint32(19456), p.Memory)
	assert.Equal(t, uint32(2), p.Iterations)
	assert.Equal(t, uint8(1), p.Parallelism)
	assert.NoError(t, p.Validate())
}

func TestNewSalt(t *testing.T) {
	a, err := NewSalt(16)
	require.NoError(t, err)
	b, err := NewSalt(16)
	require.NoError(t, err)
	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
}
