package otp

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

const (
	DefaultDigits = 6
	DefaultPeriod = 30

	MaxDigits = 10

	SteamDigits = 5
	SteamPeriod = 30
)

var (
	ErrInvalidDigits    = errors.New("otp: digits must be between 1 and 10")
	ErrInvalidPeriod    = errors.New("otp: period must be greater than zero")
	ErrInvalidAlgorithm = errors.New("otp: unsupported algorithm")
	ErrEmptySecret      = errors.New("otp: empty secret")
	ErrBeforeEpoch      = errors.New("otp: time before unix epoch")
)

// Algorithm is the HMAC hash used for TOTP.
type Algorithm = otp.Algorithm

const (
	AlgorithmSHA1   = otp.AlgorithmSHA1
	AlgorithmSHA256 = otp.AlgorithmSHA256
	AlgorithmSHA512 = otp.AlgorithmSHA512
)

// Params configures TOTP generation.
type Params struct {
	Algorithm Algorithm
	Digits    uint8
	Period    uint16
}

// DefaultParams returns SHA1, 6 digits and a 30 second period.
func DefaultParams() Params {
	return Params{Algorithm: AlgorithmSHA1, Digits: DefaultDigits, Period: DefaultPeriod}
}

// Validate reports whether p can be used for generation.
func (p Params) Validate() error {
	if p.Digits < 1 || p.Digits > MaxDigits {
		return fmt.Errorf("%w: got %d", ErrInvalidDigits, p.Digits)
	}
	if p.Period == 0 {
		return ErrInvalidPeriod
	}
	switch p.Algorithm {
	case AlgorithmSHA1, AlgorithmSHA256, AlgorithmSHA512:
	default:
		return ErrInvalidAlgorithm
	}
	return nil
}

// Pair holds the code for the current period and the one after it.
type Pair struct {
	Current    string
	Next       string
	ValidUntil time.Time
}

// TOTP returns the code for secret at the given time.
func TOTP(secret string, p Params, at time.Time) (string, error) {
	key, counter, err := totpInput(secret, p, at)
	if err != nil {
		return "", err
	}

	return generate(key, counter, p.Digits, p.Algorithm, otp.EncoderDefault)
}

// TOTPPair returns the codes at and one period after at.
func TOTPPair(secret string, p Params, at time.Time) (Pair, error) {
	key, counter, err := totpInput(secret, p, at)
	if err != nil {
		return Pair{}, err
	}

	current, err := generate(key, counter, p.Digits, p.Algorithm, otp.EncoderDefault)
	if err != nil {
		return Pair{}, err
	}
	next, err := generate(key, counter+1, p.Digits, p.Algorithm, otp.EncoderDefault)
	if err != nil {
		return Pair{}, err
	}

	return Pair{
		Current:    current,
		Next:       next,
		ValidUntil: time.Unix(int64(counter+1)*int64(p.Period), 0),
	}, nil
}

// Verify checks a user supplied code against the window of skew periods on
// either side of at. Comparison is constant time.
func Verify(code, secret string, p Params, at time.Time, skew uint) bool {
	key, counter, err := totpInput(secret, p, at)
	if err != nil {
		return false
	}

	opts := hotp.ValidateOpts{Digits: otp.Digits(p.Digits), Algorithm: p.Algorithm}

	for i := -int64(skew); i <= int64(skew); i++ {
		c := int64(counter) + i
		if c < 0 {
			continue
		}
		if ok, err := hotp.ValidateCustom(code, uint64(c), key, opts); err == nil && ok {
			return true
		}
	}

	return false
}

// Steam returns the Steam Guard code for the raw secret bytes at the given time.
func Steam(secret []byte, at time.Time) (string, error) {
	key, counter, err := steamInput(secret, at)
	if err != nil {
		return "", err
	}

	return generate(key, counter, SteamDigits, otp.AlgorithmSHA1, otp.EncoderSteam)
}

// VerifySteam is Verify for Steam Guard codes. Letters are compared without
// regard to case.
func VerifySteam(code string, secret []byte, at time.Time, skew uint) bool {
	key, counter, err := steamInput(secret, at)
	if err != nil {
		return false
	}

	opts := hotp.ValidateOpts{Digits: SteamDigits, Algorithm: otp.AlgorithmSHA1, Encoder: otp.EncoderSteam}
	code = strings.ToUpper(strings.TrimSpace(code))

	for i := -int64(skew); i <= int64(skew); i++ {
		c := int64(counter) + i
		if c < 0 {
			continue
		}
		if ok, err := hotp.ValidateCustom(code, uint64(c), key, opts); err == nil && ok {
			return true
		}
	}

	return false
}

// SteamPair returns the Steam Guard codes at and 30 seconds after at.
func SteamPair(secret []byte, at time.Time) (Pair, error) {
	key, counter, err := steamInput(secret, at)
	if err != nil {
		return Pair{}, err
	}

	current, err := generate(key, counter, SteamDigits, otp.AlgorithmSHA1, otp.EncoderSteam)
	if err != nil {
		return Pair{}, err
	}
	next, err := generate(key, counter+1, SteamDigits, otp.AlgorithmSHA1, otp.EncoderSteam)
	if err != nil {
		return Pair{}, err
	}

	return Pair{
		Current:    current,
		Next:       next,
		ValidUntil: time.UnixMilli(int64(counter+1) * SteamPeriod * 1000),
	}, nil
}

func totpInput(secret string, p Params, at time.Time) (string, uint64, error) {
	if err := p.Validate(); err != nil {
		return "", 0, err
	}

	raw := DecodeSecret(secret)
	if len(raw) == 0 {
		return "", 0, ErrEmptySecret
	}

	unix := at.Unix()
	if unix < 0 {
		return "", 0, ErrBeforeEpoch
	}

	return EncodeSecret(raw), uint64(unix) / uint64(p.Period), nil
}

func steamInput(secret []byte, at time.Time) (string, uint64, error) {
	if len(secret) == 0 {
		return "", 0, ErrEmptySecret
	}

	ms := at.UnixMilli()
	if ms < 0 {
		return "", 0, ErrBeforeEpoch
	}

	return EncodeSecret(secret), uint64(ms) / (SteamPeriod * 1000), nil
}

func generate(key string, counter uint64, digits uint8, alg otp.Algorithm, enc otp.Encoder) (string, error) {
	code, err := hotp.GenerateCodeCustom(key, counter, hotp.ValidateOpts{
		Digits:    otp.Digits(digits),
		Algorithm: alg,
		Encoder:   enc,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	return code, nil
}
