package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shandysiswandi/otpkit/internal/authenticator/entity"
	"github.com/shandysiswandi/otpkit/internal/pkg/goerror"
	"github.com/shandysiswandi/otpkit/internal/pkg/otp"
)

type CodesInput struct {
	Entries []entity.Entry
	// At defaults to the clock's current time.
	At time.Time
}

type Code struct {
	EntryID string
	Type    entity.EntryType
	Name    string
	Issuer  string
	otp.Pair
}

// Codes returns the current and next code of every entry, in input order.
func (s *Usecase) Codes(ctx context.Context, in CodesInput) ([]Code, error) {
	ctx, span := s.startSpan(ctx, "Codes")
	defer span.End()

	at := in.At
	if at.IsZero() {
		at = s.clock.Now()
	}

	codes := make([]Code, 0, len(in.Entries))
	for _, e := range in.Entries {
		pair, err := entity.GenerateCode(e.Content, at)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to generate code", "entry_id", e.ID, "error", err)
			return nil, goerror.NewMalformed(fmt.Sprintf("entry %s", e.ID), err)
		}

		codes = append(codes, Code{
			EntryID: e.ID,
			Type:    e.Type(),
			Name:    e.Name(),
			Issuer:  e.Issuer(),
			Pair:    pair,
		})
	}

	return codes, nil
}
