package entity

import (
	"fmt"
	"time"

	"github.com/shandysiswandi/otpkit/internal/pkg/otp"
)

// GenerateCode returns the current and next code for c at the given time.
func GenerateCode(c Content, at time.Time) (otp.Pair, error) {
	switch v := c.(type) {
	case TotpContent:
		return otp.TOTPPair(v.Secret, v.Params(), at)
	case SteamContent:
		return otp.SteamPair(v.Secret, at)
	case nil:
		return otp.Pair{}, ErrMissingContent
	default:
		panic(fmt.Sprintf("entity: unhandled content %T", c))
	}
}
