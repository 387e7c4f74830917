package goerror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("unexpected EOF")

	tests := []struct {
		name     string
		err      error
		sentinel error
		errType  Type
		code     Code
	}{
		{"malformed", NewMalformed("invalid json", cause), ErrMalformed, TypeMalformed, CodeInvalidFormat},
		{"malformed without cause", NewMalformed("invalid json", nil), ErrMalformed, TypeMalformed, CodeInvalidFormat},
		{"invalid input", NewInvalidInput(cause), ErrMalformed, TypeMalformed, CodeInvalidFormat},
		{"decrypt", NewDecryptFailed("payload"), ErrDecryptFailed, TypeCrypto, CodeDecryptFailed},
		{"wrong password", NewWrongPassword(), ErrWrongPassword, TypeCrypto, CodeWrongPassword},
		{"unsupported", NewUnsupported("hotp"), ErrUnsupported, TypeUnsupported, CodeUnsupported},
		{"missing password", NewMissingPassword(), ErrMissingPassword, TypePassword, CodeMissingPassword},
		{"password not needed", NewPasswordNotNeeded(), ErrPasswordNotNeeded, TypePassword, CodePasswordNotNeeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.Equal(t, tt.errType, TypeOf(tt.err))
			assert.Equal(t, tt.code, CodeOf(tt.err))

			wrapped := fmt.Errorf("import: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
			assert.Equal(t, tt.code, CodeOf(wrapped))
		})
	}

	assert.ErrorIs(t, NewMalformed("invalid json", cause), cause)
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "invalid json: malformed input", NewMalformed("invalid json", nil).Error())
	assert.Equal(t, "wrong password", NewWrongPassword().Error())
	assert.Equal(t, "hotp: unsupported", NewUnsupported("hotp").Error())
}

func TestCodeOf_PlainError(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	assert.Equal(t, TypeServer, TypeOf(errors.New("boom")))
	assert.Equal(t, CodeInternal, CodeOf(NewServer(errors.New("boom"))))
}
