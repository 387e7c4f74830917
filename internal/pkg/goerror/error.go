package goerror

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed indicates input that cannot be parsed (bad container, URI or binary framing).
	ErrMalformed = errors.New("malformed input")

	// ErrDecryptFailed indicates that authenticated decryption failed.
	ErrDecryptFailed = errors.New("decryption failed")

	// ErrWrongPassword indicates that the supplied password does not open the container.
	ErrWrongPassword = errors.New("wrong password")

	// ErrMissingPassword indicates an encrypted container was given without a password.
	ErrMissingPassword = errors.New("password required for encrypted content")

	// ErrPasswordNotNeeded indicates a password was given for an unencrypted container.
	ErrPasswordNotNeeded = errors.New("password provided for unencrypted content")

	// ErrUnsupported indicates a feature, record kind or parameter that is not supported.
	ErrUnsupported = errors.New("unsupported")
)

// Type classifies errors into high-level buckets used by the application.
type Type int

const (
	// TypeServer represents internal failures.
	TypeServer Type = iota
	// TypeMalformed represents input that could not be parsed.
	TypeMalformed
	// TypeCrypto represents authentication or decryption failures.
	TypeCrypto
	// TypeUnsupported represents features or values that are not supported.
	TypeUnsupported
	// TypePassword represents a missing or extraneous password.
	TypePassword
)

// String returns the string representation of the error type.
func (t Type) String() string {
	switch t {
	case TypeMalformed:
		return "ERROR_TYPE_MALFORMED"
	case TypeCrypto:
		return "ERROR_TYPE_CRYPTO"
	case TypeUnsupported:
		return "ERROR_TYPE_UNSUPPORTED"
	case TypePassword:
		return "ERROR_TYPE_PASSWORD"
	case TypeServer:
		return "ERROR_TYPE_SERVER"
	default:
		return "ERROR_TYPE_UNKNOWN"
	}
}

// Code is a stable identifier callers can switch on.
type Code int

const (
	// CodeInternal represents an internal or unspecified error.
	CodeInternal Code = iota
	// CodeInvalidFormat indicates malformed input.
	CodeInvalidFormat
	// CodeDecryptFailed indicates a generic decryption failure.
	CodeDecryptFailed
	// CodeWrongPassword indicates the password does not open the container.
	CodeWrongPassword
	// CodeUnsupported indicates an unsupported feature or value.
	CodeUnsupported
	// CodeMissingPassword indicates a required password was not supplied.
	CodeMissingPassword
	// CodePasswordNotNeeded indicates a password was supplied but not expected.
	CodePasswordNotNeeded
)

// String returns the string representation of the error code.
func (c Code) String() string {
	switch c {
	case CodeInvalidFormat:
		return "ERROR_CODE_INVALID_FORMAT"
	case CodeDecryptFailed:
		return "ERROR_CODE_DECRYPT_FAILED"
	case CodeWrongPassword:
		return "ERROR_CODE_WRONG_PASSWORD"
	case CodeUnsupported:
		return "ERROR_CODE_UNSUPPORTED"
	case CodeMissingPassword:
		return "ERROR_CODE_MISSING_PASSWORD"
	case CodePasswordNotNeeded:
		return "ERROR_CODE_PASSWORD_NOT_NEEDED"
	default:
		return "ERROR_CODE_INTERNAL"
	}
}

// Error is a structured error used across the application.
//
// It wraps an underlying error (usually one of the sentinels above) while
// carrying a human readable message, a high-level type and a stable code.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	default:
		return "Unknown error"
	}
}

// String returns a verbose representation of the error for debugging/logging.
func (e *Error) String() string {
	return fmt.Sprintf(
		"Error Type: %s, Code: %s, Message: %s, Underlying Error: %v",
		e.errType.String(),
		e.code.String(),
		e.msg,
		e.err,
	)
}

// Msg returns the message, if set.
func (e *Error) Msg() string {
	return e.msg
}

// Type returns the high-level error type.
func (e *Error) Type() Type {
	return e.errType
}

// Code returns the stable error code.
func (e *Error) Code() Code {
	return e.code
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.err
}

func new(err error, msg string, et Type, code Code) error {
	return &Error{err: err, msg: msg, errType: et, code: code}
}

// NewServer creates an internal error wrapping err.
func NewServer(err error) error {
	return new(err, "internal error", TypeServer, CodeInternal)
}

// NewMalformed creates a malformed-input error. When cause is not nil both
// ErrMalformed and cause remain reachable through errors.Is.
func NewMalformed(msg string, cause error) error {
	err := ErrMalformed
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrMalformed, cause)
	}
	return new(err, msg, TypeMalformed, CodeInvalidFormat)
}

// NewInvalidInput creates a malformed-input error for caller supplied values
// that fail validation.
func NewInvalidInput(err error) error {
	return new(fmt.Errorf("%w: %w", ErrMalformed, err), "invalid input", TypeMalformed, CodeInvalidFormat)
}

// NewDecryptFailed creates a generic cryptographic failure.
func NewDecryptFailed(msg string) error {
	return new(ErrDecryptFailed, msg, TypeCrypto, CodeDecryptFailed)
}

// NewWrongPassword creates a wrong-password failure.
func NewWrongPassword() error {
	return new(ErrWrongPassword, "", TypeCrypto, CodeWrongPassword)
}

// NewUnsupported creates an unsupported-feature error.
func NewUnsupported(msg string) error {
	return new(ErrUnsupported, msg, TypeUnsupported, CodeUnsupported)
}

// NewMissingPassword creates a missing-password failure.
func NewMissingPassword() error {
	return new(ErrMissingPassword, "", TypePassword, CodeMissingPassword)
}

// NewPasswordNotNeeded creates an extraneous-password failure.
func NewPasswordNotNeeded() error {
	return new(ErrPasswordNotNeeded, "", TypePassword, CodePasswordNotNeeded)
}

// CodeOf returns the Code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.code
	}
	return CodeInternal
}

// TypeOf returns the Type of the first *Error in err's chain, or TypeServer.
func TypeOf(err error) Type {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.errType
	}
	return TypeServer
}
