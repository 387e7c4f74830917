package entity

import (
	"fmt"
	"strings"

	"github.com/shandysiswandi/otpkit/internal/pkg/otp"
)

type Algorithm uint8

const (
	// AlgorithmSHA1 is the zero value and the default for TOTP entries.
	AlgorithmSHA1 Algorithm = iota
	AlgorithmSHA256
	AlgorithmSHA512
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmSHA1:
		return "SHA1"
	case AlgorithmSHA256:
		return "SHA256"
	case AlgorithmSHA512:
		return "SHA512"
	default:
		return fmt.Sprintf("Algorithm(%d)", a)
	}
}

func (a Algorithm) IsKnown() bool {
	return a <= AlgorithmSHA512
}

// OTP returns the generator algorithm.
func (a Algorithm) OTP() otp.Algorithm {
	switch a {
	case AlgorithmSHA256:
		return otp.AlgorithmSHA256
	case AlgorithmSHA512:
		return otp.AlgorithmSHA512
	default:
		return otp.AlgorithmSHA1
	}
}

// ParseAlgorithm accepts SHA1, SHA256 and SHA512 in any case, with or without
// a hyphen ("sha-256"). An empty string is SHA1.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "")) {
	case "", "SHA1":
		return AlgorithmSHA1, nil
	case "SHA256":
		return AlgorithmSHA256, nil
	case "SHA512":
		return AlgorithmSHA512, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, s)
	}
}
