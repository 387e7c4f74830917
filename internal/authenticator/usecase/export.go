package usecase

import (
	"context"

	"github.com/shandysiswandi/otpkit/internal/authenticator/entity"
	"github.com/shandysiswandi/otpkit/internal/pkg/goerror"
)

type ExportInput struct {
	Entries []entity.Entry
	// Password selects the encrypted export when not empty.
	Password string
}

func (s *Usecase) Export(ctx context.Context, in ExportInput) ([]byte, error) {
	ctx, span := s.startSpan(ctx, "Export")
	defer span.End()

	var (
		data []byte
		err  error
	)
	if in.Password != "" {
		data, err = entity.ExportEntriesEncrypted(in.Entries, in.Password)
	} else {
		data, err = entity.ExportEntries(in.Entries)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to export entries", "error", err)
		return nil, goerror.NewMalformed("failed to export entries", err)
	}

	return data, nil
}
