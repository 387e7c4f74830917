package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/otpkit/internal/authenticator/entity"
	"github.com/shandysiswandi/otpkit/internal/pkg/goerror"
	"github.com/shandysiswandi/otpkit/internal/pkg/otp"
)

type VerifyInput struct {
	Entry entity.Entry
	Code  string
	// At defaults to the clock's current time.
	At time.Time
}

// Verify checks a code typed by a user. The accepted window is otp.verify_skew
// periods on either side of At.
func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (bool, error) {
	_, span := s.startSpan(ctx, "Verify")
	defer span.End()

	at := in.At
	if at.IsZero() {
		at = s.clock.Now()
	}
	skew := s.cfg.GetUint("otp.verify_skew")

	switch c := in.Entry.Content.(type) {
	case entity.TotpContent:
		if err := c.Validate(); err != nil {
			return false, goerror.NewInvalidInput(err)
		}
		return otp.Verify(in.Code, c.Secret, c.Params(), at, skew), nil
	case entity.SteamContent:
		return otp.VerifySteam(in.Code, c.Secret, at, skew), nil
	default:
		return false, goerror.NewInvalidInput(entity.ErrMissingContent)
	}
}
