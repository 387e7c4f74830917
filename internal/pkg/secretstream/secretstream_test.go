package secretstream

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedKey() []byte {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func fixedHeader() []byte {
	header := make([]byte, HeaderSize)
	for i := range header {
		header[i] = byte(100 + i)
	}
	return header
}

const (
	katPlaintext  = "otpauth://totp/Acme:alice?secret=JBSWY3DPEHPK3PXP&issuer=Acme"
	katCiphertext = "XDNuxicbZ94G4eY078SIKgo7MtFp2lKeFzFl3um/3l8jd24QI7m5HLAFumMP1fvF0hNIBXeDfXea3L1Amsry+v1r7lRzOBp6+cfZmwdy"
	// "hello" sealed with TagPush under the same key and header.
	katPushCiphertext = "XjR/2ioBnMwlyogclzAFillKnzb+XQ=="
)

func TestOpen_KnownAnswer(t *testing.T) {
	ct, err := base64.StdEncoding.DecodeString(katCiphertext)
	require.NoError(t, err)

	plaintext, tag, err := Open(fixedKey(), fixedHeader(), ct)
	require.NoError(t, err)
	assert.Equal(t, TagFinal, tag)
	assert.Equal(t, katPlaintext, string(plaintext))
}

func TestSeal_KnownAnswer(t *testing.T) {
	ct, err := Seal(fixedKey(), fixedHeader(), []byte(katPlaintext), TagFinal)
	require.NoError(t, err)
	assert.Equal(t, katCiphertext, base64.StdEncoding.EncodeToString(ct))
}

func TestSealOpen_RoundTrip(t *testing.T) {
	header, err := NewHeader()
	require.NoError(t, err)

	for _, msg := range []string{"", "x", "exactly sixteen!", "a longer message spanning more than one keystream block of sixty four bytes"} {
		ct, err := Seal(fixedKey(), header, []byte(msg), TagMessage)
		require.NoError(t, err)
		assert.Len(t, ct, len(msg)+ABytes)

		got, tag, err := Open(fixedKey(), header, ct)
		require.NoError(t, err)
		assert.Equal(t, TagMessage, tag)
		assert.Equal(t, msg, string(got))
	}
}

func TestOpen_Failures(t *testing.T) {
	ct, err := base64.StdEncoding.DecodeString(katCiphertext)
	require.NoError(t, err)

	t.Run("wrong key", func(t *testing.T) {
		key := fixedKey()
		key[0] ^= 0xff
		_, _, err := Open(key, fixedHeader(), ct)
		assert.ErrorIs(t, err, ErrAuthentication)
	})

	t.Run("tampered body", func(t *testing.T) {
		bad := append([]byte(nil), ct...)
		bad[5] ^= 0x01
		_, _, err := Open(fixedKey(), fixedHeader(), bad)
		assert.ErrorIs(t, err, ErrAuthentication)
	})

	t.Run("tampered tag byte", func(t *testing.T) {
		bad := append([]byte(nil), ct...)
		bad[0] ^= 0x01
		_, _, err := Open(fixedKey(), fixedHeader(), bad)
		assert.ErrorIs(t, err, ErrAuthentication)
	})

	t.Run("too short", func(t *testing.T) {
		_, _, err := Open(fixedKey(), fixedHeader(), ct[:ABytes-1])
		assert.ErrorIs(t, err, ErrTooShort)
	})

	t.Run("bad header", func(t *testing.T) {
		_, _, err := Open(fixedKey(), fixedHeader()[:10], ct)
		assert.ErrorIs(t, err, ErrInvalidHeader)
	})

	t.Run("bad key", func(t *testing.T) {
		_, _, err := Open(fixedKey()[:16], fixedHeader(), ct)
		assert.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("push tag", func(t *testing.T) {
		push, err := base64.StdEncoding.DecodeString(katPushCiphertext)
		require.NoError(t, err)
		_, tag, err := Open(fixedKey(), fixedHeader(), push)
		assert.ErrorIs(t, err, ErrUnexpectedTag)
		assert.Equal(t, TagPush, tag)
	})
}

func TestSeal_RejectsStreamingTags(t *testing.T) {
	_, err := Seal(fixedKey(), fixedHeader(), []byte("x"), TagRekey)
	assert.ErrorIs(t, err, ErrUnexpectedTag)
}
