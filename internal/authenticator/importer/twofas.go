package importer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/samber/lo"
	"github.com/shandysiswandi/otpkit/internal/authenticator/entity"
	"github.com/shandysiswandi/otpkit/internal/pkg/aead"
	"github.com/shandysiswandi/otpkit/internal/pkg/goerror"
	"github.com/shandysiswandi/otpkit/internal/pkg/kdf"
	"github.com/shandysiswandi/otpkit/internal/pkg/otp"
)

// twoFASIterations is fixed by the 2FAS backup format.
const twoFASIterations = 10000

type (
	twoFASFile struct {
		SchemaVersion     int               `json:"schemaVersion"`
		Services          []json.RawMessage `json:"services"`
		ServicesEncrypted string            `json:"servicesEncrypted"`
	}

	twoFASService struct {
		Name   string    `json:"name"`
		Secret string    `json:"secret"`
		OTP    twoFASOTP `json:"otp"`
	}

	twoFASOTP struct {
		Link      string `json:"link"`
		Label     string `json:"label"`
		Account   string `json:"account"`
		Issuer    string `json:"issuer"`
		Digits    int    `json:"digits" validate:"min=0,max=10"`
		Period    int    `json:"period" validate:"min=0,max=65535"`
		Algorithm string `json:"algorithm"`
		TokenType string `json:"tokenType"`
	}

	// twoFASRecord is what gets validated when a TOTP is assembled from
	// discrete fields.
	twoFASRecord struct {
		Secret    string `json:"secret" validate:"otpsecret"`
		Algorithm string `json:"algorithm" validate:"otpalgorithm"`
		OTP       twoFASOTP
	}
)

func (im *Importer) importTwoFAS(ctx context.Context, c *collector, data []byte, password string) error {
	var file twoFASFile
	if err := json.Unmarshal(data, &file); err != nil {
		return goerror.NewMalformed("invalid 2fas backup", err)
	}

	encrypted := file.ServicesEncrypted != ""
	if err := checkPassword(encrypted, password); err != nil {
		return err
	}

	services := file.Services
	if encrypted {
		plain, err := decryptTwoFAS(file.ServicesEncrypted, password)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(plain, &services); err != nil {
			return goerror.NewMalformed("invalid 2fas services", err)
		}
	}

	decodeRecords(ctx, c, services, func(i int, s twoFASService) {
		content, err := im.twoFASContent(s)
		if err != nil {
			c.fail(ctx, i, lo.CoalesceOrEmpty(s.Name, s.OTP.Issuer, s.OTP.Account), err)
			return
		}
		c.add(content, "")
	})

	return nil
}

func (im *Importer) twoFASContent(s twoFASService) (entity.Content, error) {
	kind := strings.ToUpper(lo.CoalesceOrEmpty(strings.TrimSpace(s.OTP.TokenType), "TOTP"))
	label := lo.CoalesceOrEmpty(s.OTP.Label, s.OTP.Account)

	switch kind {
	case "STEAM":
		return entity.NewSteamContentFromBase32(s.Secret, lo.CoalesceOrEmpty(label, s.Name))
	case "TOTP":
	default:
		return nil, errUnsupportedKind(kind)
	}

	if s.OTP.Link != "" {
		content, err := entity.ParseURI(s.OTP.Link)
		if err != nil {
			return nil, err
		}
		if totp, ok := content.(entity.TotpContent); ok && label != "" {
			totp.Label = label
			return totp, nil
		}
		return content, nil
	}

	rec := twoFASRecord{Secret: s.Secret, Algorithm: s.OTP.Algorithm, OTP: s.OTP}
	if err := im.validator.Validate(rec); err != nil {
		return nil, err
	}

	alg, err := entity.ParseAlgorithm(s.OTP.Algorithm)
	if err != nil {
		return nil, err
	}

	return entity.TotpContent{
		Label:     label,
		Secret:    s.Secret,
		Issuer:    lo.CoalesceOrEmpty(s.OTP.Issuer, s.Name),
		Algorithm: alg,
		Digits:    uint8(lo.CoalesceOrEmpty(s.OTP.Digits, otp.DefaultDigits)),
		Period:    uint16(lo.CoalesceOrEmpty(s.OTP.Period, otp.DefaultPeriod)),
	}, nil
}

// decryptTwoFAS opens "base64(ciphertext||tag):base64(salt):base64(iv)".
func decryptTwoFAS(blob, password string) ([]byte, error) {
	parts := strings.Split(blob, ":")
	if len(parts) < 3 {
		return nil, goerror.NewMalformed("2fas servicesEncrypted must have three parts", nil)
	}

	decoded := make([][]byte, 3)
	for i, part := range parts[:3] {
		b, err := base64.StdEncoding.DecodeString(part)
		if err != nil {
			return nil, goerror.NewMalformed("2fas servicesEncrypted is not base64", err)
		}
		decoded[i] = b
	}
	sealed, salt, iv := decoded[0], decoded[1], decoded[2]

	if len(iv) != aead.NonceSize {
		return nil, goerror.NewMalformed("2fas iv must be 12 bytes", nil)
	}

	key := kdf.PBKDF2SHA256([]byte(password), salt, twoFASIterations)
	defer aead.Zero(key)

	plain, err := aead.OpenGCM(key, iv, sealed)
	if err != nil {
		return nil, goerror.NewWrongPassword()
	}

	return plain, nil
}
