package usecase

import (
	"context"
	"errors"

	"github.com/shandysiswandi/otpkit/internal/authenticator/entity"
	"github.com/shandysiswandi/otpkit/internal/pkg/aead"
	"github.com/shandysiswandi/otpkit/internal/pkg/goerror"
)

// SealEntry encrypts the binary form of an entry for storage or sync. The
// key is 32 bytes and stays owned by the caller.
func (s *Usecase) SealEntry(ctx context.Context, e entity.Entry, key []byte) ([]byte, error) {
	ctx, span := s.startSpan(ctx, "SealEntry")
	defer span.End()

	plain, err := e.MarshalBinary()
	if err != nil {
		return nil, goerror.NewMalformed("invalid entry", err)
	}
	defer aead.Zero(plain)

	ct, err := aead.Encrypt(plain, key, aead.TagEntry)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to encrypt entry", "entry_id", e.ID, "error", err)
		if errors.Is(err, aead.ErrInvalidKeyLength) {
			return nil, goerror.NewInvalidInput(err)
		}
		return nil, goerror.NewServer(err)
	}

	return ct, nil
}

// OpenEntry reverses SealEntry.
func (s *Usecase) OpenEntry(ctx context.Context, sealed, key []byte) (*entity.Entry, error) {
	_, span := s.startSpan(ctx, "OpenEntry")
	defer span.End()

	plain, err := aead.Decrypt(sealed, key, aead.TagEntry)
	switch {
	case errors.Is(err, aead.ErrInvalidKeyLength):
		return nil, goerror.NewInvalidInput(err)
	case err != nil:
		return nil, goerror.NewDecryptFailed("failed to open entry")
	}
	defer aead.Zero(plain)

	var e entity.Entry
	if err := e.UnmarshalBinary(plain); err != nil {
		return nil, goerror.NewMalformed("invalid entry encoding", err)
	}

	return &e, nil
}
