package secretstream

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/poly1305"
)

const (
	KeySize    = chacha20.KeySize
	HeaderSize = 24
	// ABytes is the per-message overhead: one tag byte plus a Poly1305 MAC.
	ABytes = 1 + poly1305.TagSize
)

// Message tags.
const (
	TagMessage byte = 0x00
	TagPush    byte = 0x01
	TagRekey   byte = 0x02
	TagFinal   byte = TagPush | TagRekey
)

var (
	ErrInvalidKey     = errors.New("secretstream: invalid key length")
	ErrInvalidHeader  = errors.New("secretstream: invalid header length")
	ErrTooShort       = errors.New("secretstream: ciphertext too short")
	ErrAuthentication = errors.New("secretstream: message authentication failed")
	ErrUnexpectedTag  = errors.New("secretstream: unexpected message tag")
)

// NewHeader returns a random stream header.
func NewHeader() ([]byte, error) {
	header := make([]byte, HeaderSize)
	if _, err := rand.Read(header); err != nil {
		return nil, fmt.Errorf("failed to generate header: %w", err)
	}
	return header, nil
}

// Open authenticates and decrypts the first message of a stream. The message
// tag must be TagMessage or TagFinal.
func Open(key, header, ciphertext []byte) ([]byte, byte, error) {
	if len(ciphertext) < ABytes {
		return nil, 0, ErrTooShort
	}

	s, err := newState(key, header)
	if err != nil {
		return nil, 0, err
	}

	mlen := len(ciphertext) - ABytes
	c := ciphertext[1 : 1+mlen]
	mac := ciphertext[1+mlen:]

	block := make([]byte, 64)
	block[0] = ciphertext[0]
	s.stream.XORKeyStream(block, block)
	tag := block[0]
	block[0] = ciphertext[0]

	if !s.verify(block, c, mac) {
		return nil, 0, ErrAuthentication
	}
	if tag != TagMessage && tag != TagFinal {
		return nil, tag, fmt.Errorf("%w: %d", ErrUnexpectedTag, tag)
	}

	plaintext := make([]byte, mlen)
	s.stream.XORKeyStream(plaintext, c)

	return plaintext, tag, nil
}

// Seal encrypts plaintext as the first message of a stream started with
// header.
func Seal(key, header, plaintext []byte, tag byte) ([]byte, error) {
	if tag != TagMessage && tag != TagFinal {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedTag, tag)
	}

	s, err := newState(key, header)
	if err != nil {
		return nil, err
	}

	out := make([]byte, ABytes+len(plaintext))

	block := make([]byte, 64)
	block[0] = tag
	s.stream.XORKeyStream(block, block)
	out[0] = block[0]

	c := out[1 : 1+len(plaintext)]
	s.stream.XORKeyStream(c, plaintext)

	copy(out[1+len(plaintext):], s.sum(block, c))

	return out, nil
}

type state struct {
	stream  *chacha20.Cipher
	polyKey [32]byte
}

func newState(key, header []byte) (*state, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	if len(header) != HeaderSize {
		return nil, ErrInvalidHeader
	}

	subKey, err := chacha20.HChaCha20(key, header[:16])
	if err != nil {
		return nil, fmt.Errorf("secretstream: derive subkey: %w", err)
	}

	nonce := make([]byte, chacha20.NonceSize)
	binary.LittleEndian.PutUint32(nonce, 1)
	copy(nonce[4:], header[16:])

	stream, err := chacha20.NewUnauthenticatedCipher(subKey, nonce)
	if err != nil {
		return nil, fmt.Errorf("secretstream: init cipher: %w", err)
	}

	s := &state{stream: stream}

	// Block 0 of the keystream is the one-time Poly1305 key.
	first := make([]byte, 64)
	stream.XORKeyStream(first, first)
	copy(s.polyKey[:], first)

	return s, nil
}

func (s *state) mac(block, c []byte) *poly1305.MAC {
	h := poly1305.New(&s.polyKey)
	_, _ = h.Write(block)
	_, _ = h.Write(c)

	var pad [16]byte
	_, _ = h.Write(pad[:(0x10-len(block)+len(c))&0xf])

	var lengths [16]byte
	binary.LittleEndian.PutUint64(lengths[8:], uint64(len(block)+len(c)))
	_, _ = h.Write(lengths[:])

	return h
}

func (s *state) sum(block, c []byte) []byte {
	return s.mac(block, c).Sum(nil)
}

func (s *state) verify(block, c, expected []byte) bool {
	return s.mac(block, c).Verify(expected)
}
