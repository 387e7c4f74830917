package importer

import (
	"context"
	"errors"

	"github.com/shandysiswandi/otpkit/internal/authenticator/entity"
	"github.com/shandysiswandi/otpkit/internal/pkg/aead"
	"github.com/shandysiswandi/otpkit/internal/pkg/goerror"
	"github.com/shandysiswandi/otpkit/internal/pkg/uid"
)

// importNative reads this module's own export. Entry ids are kept so a
// re-import of an export lines up with the entries it came from.
func (im *Importer) importNative(ctx context.Context, c *collector, data []byte, password string) error {
	encrypted := entity.IsEncryptedExport(data)
	if err := checkPassword(encrypted, password); err != nil {
		return err
	}

	plain := data
	if encrypted {
		var err error
		plain, err = entity.DecryptExport(data, password)
		if err != nil {
			return nativeError(err)
		}
	}

	file, err := entity.DecodeExport(plain)
	if err != nil {
		return nativeError(err)
	}

	decodeRecords(ctx, c, file.Entries, func(i int, x entity.ExportedEntry) {
		e, err := x.Entry()
		if err != nil {
			c.fail(ctx, i, "", err)
			return
		}

		c.addWithID(uid.Normalize(e.ID), e.Content, e.Note)
	})

	return nil
}

func nativeError(err error) error {
	switch {
	case errors.Is(err, aead.ErrDecryptFailed):
		return goerror.NewWrongPassword()
	case errors.Is(err, entity.ErrUnsupportedVersion):
		return goerror.NewUnsupported(err.Error())
	default:
		return goerror.NewMalformed("invalid export", err)
	}
}
