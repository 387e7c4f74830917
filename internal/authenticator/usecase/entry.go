package usecase

import (
	"context"

	"github.com/samber/lo"
	"github.com/shandysiswandi/otpkit/internal/authenticator/entity"
	"github.com/shandysiswandi/otpkit/internal/pkg/goerror"
	"github.com/shandysiswandi/otpkit/internal/pkg/otp"
)

type NewTotpEntryInput struct {
	Secret    string `json:"secret" validate:"otpsecret"`
	Issuer    string `json:"issuer" validate:"max=255"`
	Label     string `json:"label" validate:"max=255"`
	Algorithm string `json:"algorithm" validate:"otpalgorithm"`
	Digits    int    `json:"digits" validate:"min=0,max=10"`
	Period    int    `json:"period" validate:"min=0,max=65535"`
	Note      string `json:"note"`
}

// NewTotpEntry creates an entry with a new id. Zero digits and period take the
// defaults.
func (s *Usecase) NewTotpEntry(ctx context.Context, in NewTotpEntryInput) (*entity.Entry, error) {
	ctx, span := s.startSpan(ctx, "NewTotpEntry")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	alg, err := entity.ParseAlgorithm(in.Algorithm)
	if err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	content := entity.TotpContent{
		Label:     in.Label,
		Secret:    in.Secret,
		Issuer:    in.Issuer,
		Algorithm: alg,
		Digits:    uint8(lo.CoalesceOrEmpty(in.Digits, otp.DefaultDigits)),
		Period:    uint16(lo.CoalesceOrEmpty(in.Period, otp.DefaultPeriod)),
	}

	return s.newEntry(ctx, content, in.Note)
}

type NewSteamEntryInput struct {
	// Secret is standard base64.
	Secret string `json:"secret" validate:"required,base64"`
	Name   string `json:"name" validate:"max=255"`
	Note   string `json:"note"`
}

func (s *Usecase) NewSteamEntry(ctx context.Context, in NewSteamEntryInput) (*entity.Entry, error) {
	ctx, span := s.startSpan(ctx, "NewSteamEntry")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	content, err := entity.NewSteamContent(in.Secret, in.Name)
	if err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	return s.newEntry(ctx, content, in.Note)
}

type NewEntryFromURIInput struct {
	URI  string `json:"uri" validate:"required"`
	Note string `json:"note"`
}

// NewEntryFromURI creates an entry from an otpauth:// or steam:// URI.
func (s *Usecase) NewEntryFromURI(ctx context.Context, in NewEntryFromURIInput) (*entity.Entry, error) {
	ctx, span := s.startSpan(ctx, "NewEntryFromURI")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	content, err := entity.ParseURI(in.URI)
	if err != nil {
		return nil, goerror.NewMalformed("invalid otp uri", err)
	}

	return s.newEntry(ctx, content, in.Note)
}

func (s *Usecase) newEntry(ctx context.Context, content entity.Content, note string) (*entity.Entry, error) {
	if totp, ok := content.(entity.TotpContent); ok {
		if err := totp.Validate(); err != nil {
			return nil, goerror.NewInvalidInput(err)
		}
	}

	e, err := entity.NewEntry(s.uuid.Generate(), content, note)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create entry", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &e, nil
}
