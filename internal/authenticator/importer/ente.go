package importer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"github.com/shandysiswandi/otpkit/internal/authenticator/entity"
	"github.com/shandysiswandi/otpkit/internal/pkg/aead"
	"github.com/shandysiswandi/otpkit/internal/pkg/goerror"
	"github.com/shandysiswandi/otpkit/internal/pkg/kdf"
	"github.com/shandysiswandi/otpkit/internal/pkg/secretstream"
)

type (
	enteFile struct {
		Version         int           `json:"version"`
		KDFParams       enteKDFParams `json:"kdfParams"`
		EncryptedData   string        `json:"encryptedData"`
		EncryptionNonce string        `json:"encryptionNonce"`
	}

	enteKDFParams struct {
		MemLimit uint64 `json:"memLimit"`
		OpsLimit uint32 `json:"opsLimit"`
		Salt     string `json:"salt"`
	}
)

// importEnte reads an encrypted Ente export, or the plain export which is
// one otpauth URI per line.
func (im *Importer) importEnte(ctx context.Context, c *collector, data []byte, password string) error {
	trimmed := bytes.TrimSpace(data)
	encrypted := len(trimmed) > 0 && trimmed[0] == '{'

	if err := checkPassword(encrypted, password); err != nil {
		return err
	}

	if encrypted {
		plain, err := decryptEnte(trimmed, password)
		if err != nil {
			return err
		}
		trimmed = plain
	}

	importURILines(ctx, c, trimmed)
	return nil
}

// importURILines adds one entry per non-blank line. Labels of the form
// "issuer:label" lose their prefix in entity.ParseURI.
func importURILines(ctx context.Context, c *collector, data []byte) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	index := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		content, err := entity.ParseURI(line)
		if err != nil {
			c.fail(ctx, index, "", err)
		} else {
			c.add(content, "")
		}
		index++
	}
}

func decryptEnte(data []byte, password string) ([]byte, error) {
	var file enteFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, goerror.NewMalformed("invalid ente backup", err)
	}

	salt, err := base64.StdEncoding.DecodeString(file.KDFParams.Salt)
	if err != nil {
		return nil, goerror.NewMalformed("ente salt is not base64", err)
	}
	ct, err := base64.StdEncoding.DecodeString(file.EncryptedData)
	if err != nil {
		return nil, goerror.NewMalformed("ente data is not base64", err)
	}
	header, err := base64.StdEncoding.DecodeString(file.EncryptionNonce)
	if err != nil {
		return nil, goerror.NewMalformed("ente nonce is not base64", err)
	}
	if len(header) != secretstream.HeaderSize {
		return nil, goerror.NewMalformed("ente nonce must be 24 bytes", nil)
	}

	key, err := kdf.Argon2id([]byte(password), salt, kdf.Argon2Params{
		Memory:      uint32(file.KDFParams.MemLimit / 1024),
		Iterations:  file.KDFParams.OpsLimit,
		Parallelism: 1,
	})
	if err != nil {
		return nil, goerror.NewMalformed("ente backup has invalid kdf parameters", err)
	}
	defer aead.Zero(key)

	plain, _, err := secretstream.Open(key, header, ct)
	switch {
	case errors.Is(err, secretstream.ErrAuthentication):
		return nil, goerror.NewWrongPassword()
	case err != nil:
		return nil, goerror.NewMalformed("invalid ente ciphertext", err)
	}

	return plain, nil
}
