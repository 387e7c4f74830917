package usecase

import (
	"context"

	"github.com/shandysiswandi/otpkit/internal/authenticator/importer"
)

type ImportInput struct {
	Format   string
	Data     []byte
	Password string
}

// Import converts a third-party or native backup into entries. Records that
// could not be converted are listed in the outcome, not returned as an error.
func (s *Usecase) Import(ctx context.Context, in ImportInput) (*importer.Outcome, error) {
	ctx, span := s.startSpan(ctx, "Import")
	defer span.End()

	format, err := importer.ParseFormat(in.Format)
	if err != nil {
		return nil, err
	}

	out, err := s.importer.Import(ctx, importer.Input{Format: format, Data: in.Data, Password: in.Password})
	if err != nil {
		return nil, err
	}

	if len(out.Errors) > 0 {
		s.logger.WarnContext(ctx, "import finished with skipped records",
			"format", format, "entries", len(out.Entries), "skipped", len(out.Errors))
	}

	return out, nil
}
