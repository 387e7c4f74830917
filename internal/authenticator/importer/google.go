package importer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/shandysiswandi/otpkit/internal/authenticator/entity"
	"github.com/shandysiswandi/otpkit/internal/pkg/goerror"
	"github.com/shandysiswandi/otpkit/internal/pkg/otp"
	"google.golang.org/protobuf/encoding/protowire"
)

const migrationScheme = "otpauth-migration"

// Field numbers of the Google Authenticator migration payload:
//
//	message MigrationPayload { repeated OtpParameters otp_parameters = 1; ... }
//	message OtpParameters {
//	  bytes secret = 1; string name = 2; string issuer = 3;
//	  Algorithm algorithm = 4; DigitCount digits = 5; OtpType type = 6;
//	  int64 counter = 7;
//	}
const (
	fieldPayloadParameters protowire.Number = 1

	fieldParamSecret    protowire.Number = 1
	fieldParamName      protowire.Number = 2
	fieldParamIssuer    protowire.Number = 3
	fieldParamAlgorithm protowire.Number = 4
	fieldParamDigits    protowire.Number = 5
	fieldParamType      protowire.Number = 6
)

const (
	migrationAlgorithmSHA1   = 1
	migrationAlgorithmSHA256 = 2
	migrationAlgorithmSHA512 = 3

	migrationDigitsSix   = 1
	migrationDigitsEight = 2

	migrationTypeHOTP = 1
	migrationTypeTOTP = 2
)

type migrationParameters struct {
	Secret    []byte
	Name      string
	Issuer    string
	Algorithm uint64
	Digits    uint64
	Type      uint64
}

// importGoogle reads one or more otpauth-migration URIs, one per line.
func (im *Importer) importGoogle(ctx context.Context, c *collector, data []byte, password string) error {
	if err := checkPassword(false, password); err != nil {
		return err
	}

	var params []migrationParameters

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		payload, err := migrationPayload(line)
		if err != nil {
			return err
		}

		batch, err := decodeMigrationPayload(payload)
		if err != nil {
			return goerror.NewMalformed("invalid migration payload", err)
		}
		params = append(params, batch...)
	}
	if err := scanner.Err(); err != nil {
		return goerror.NewMalformed("failed to read migration data", err)
	}
	if len(params) == 0 && len(bytes.TrimSpace(data)) == 0 {
		return goerror.NewMalformed("no migration uri found", nil)
	}

	for i, p := range params {
		content, err := migrationContent(p)
		if err != nil {
			c.fail(ctx, i, p.Name, err)
			continue
		}
		c.add(content, "")
	}

	return nil
}

func migrationPayload(line string) ([]byte, error) {
	u, err := url.Parse(line)
	if err != nil {
		return nil, goerror.NewMalformed("invalid migration uri", err)
	}
	if !strings.EqualFold(u.Scheme, migrationScheme) {
		return nil, goerror.NewMalformed(fmt.Sprintf("unexpected scheme %q", u.Scheme), nil)
	}

	// Query parsing turns '+' into ' '; the payload is standard base64.
	raw := strings.ReplaceAll(u.Query().Get("data"), " ", "+")
	if raw == "" {
		return nil, goerror.NewMalformed("migration uri has no data", nil)
	}

	payload, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		payload, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(raw, "="))
	}
	if err != nil {
		return nil, goerror.NewMalformed("migration data is not base64", err)
	}

	return payload, nil
}

func decodeMigrationPayload(b []byte) ([]migrationParameters, error) {
	var out []migrationParameters

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]

		if num == fieldPayloadParameters && typ == protowire.BytesType {
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			p, err := decodeMigrationParameters(v)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
			b = b[n:]
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
	}

	return out, nil
}

func decodeMigrationParameters(b []byte) (migrationParameters, error) {
	var p migrationParameters

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return p, protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case typ == protowire.BytesType && (num == fieldParamSecret || num == fieldParamName || num == fieldParamIssuer):
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return p, protowire.ParseError(n)
			}
			switch num {
			case fieldParamSecret:
				p.Secret = append([]byte(nil), v...)
			case fieldParamName:
				p.Name = string(v)
			default:
				p.Issuer = string(v)
			}
			b = b[n:]
		case typ == protowire.VarintType && (num == fieldParamAlgorithm || num == fieldParamDigits || num == fieldParamType):
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return p, protowire.ParseError(n)
			}
			switch num {
			case fieldParamAlgorithm:
				p.Algorithm = v
			case fieldParamDigits:
				p.Digits = v
			default:
				p.Type = v
			}
			b = b[n:]
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return p, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}

	return p, nil
}

// migrationContent maps one record. The period is always 30 seconds; the
// payload has no field for it.
func migrationContent(p migrationParameters) (entity.Content, error) {
	switch p.Type {
	case migrationTypeTOTP:
	case migrationTypeHOTP:
		return nil, errUnsupportedKind("hotp")
	default:
		return nil, fmt.Errorf("%w: otp type %d", goerror.ErrUnsupported, p.Type)
	}

	var alg entity.Algorithm
	switch p.Algorithm {
	case migrationAlgorithmSHA1:
		alg = entity.AlgorithmSHA1
	case migrationAlgorithmSHA256:
		alg = entity.AlgorithmSHA256
	case migrationAlgorithmSHA512:
		alg = entity.AlgorithmSHA512
	default:
		return nil, fmt.Errorf("%w: algorithm %d", entity.ErrUnsupportedAlgorithm, p.Algorithm)
	}

	digits := uint8(otp.DefaultDigits)
	switch p.Digits {
	case 0, migrationDigitsSix:
	case migrationDigitsEight:
		digits = 8
	default:
		return nil, fmt.Errorf("%w: digit count %d", entity.ErrInvalidDigits, p.Digits)
	}

	if len(p.Secret) == 0 {
		return nil, entity.ErrMissingSecret
	}

	issuer, label := "", strings.TrimSpace(p.Name)
	if before, after, ok := strings.Cut(p.Name, ":"); ok {
		issuer, label = strings.TrimSpace(before), strings.TrimSpace(after)
	}
	if v := strings.TrimSpace(p.Issuer); v != "" {
		issuer = v
	}

	return entity.TotpContent{
		Label:     label,
		Secret:    otp.EncodeSecret(p.Secret),
		Issuer:    issuer,
		Algorithm: alg,
		Digits:    digits,
		Period:    otp.DefaultPeriod,
	}, nil
}
