package entity

import "github.com/shandysiswandi/otpkit/internal/pkg/otp"

type TotpContent struct {
	Label  string
	Secret string
	Issuer string

	Algorithm Algorithm
	Digits    uint8
	Period    uint16
}

// NewTotpContent returns a TOTP content with SHA1, 6 digits and 30 seconds.
func NewTotpContent(secret, issuer, label string) TotpContent {
	return TotpContent{
		Label:     label,
		Secret:    secret,
		Issuer:    issuer,
		Algorithm: AlgorithmSHA1,
		Digits:    otp.DefaultDigits,
		Period:    otp.DefaultPeriod,
	}
}

func (TotpContent) Type() EntryType { return EntryTypeTotp }

func (TotpContent) content() {}

func (t TotpContent) Params() otp.Params {
	return otp.Params{
		Algorithm: t.Algorithm.OTP(),
		Digits:    t.Digits,
		Period:    t.Period,
	}
}

// Validate checks the generation parameters. The secret is not checked for
// base32 validity.
func (t TotpContent) Validate() error {
	if otp.SanitizeSecret(t.Secret) == "" {
		return ErrMissingSecret
	}
	if !t.Algorithm.IsKnown() {
		return ErrUnsupportedAlgorithm
	}
	if t.Digits < 1 || t.Digits > otp.MaxDigits {
		return ErrInvalidDigits
	}
	if t.Period == 0 {
		return ErrInvalidPeriod
	}
	return nil
}
