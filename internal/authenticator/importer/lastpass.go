package importer

import (
	"context"
	"encoding/json"

	"github.com/samber/lo"
	"github.com/shandysiswandi/otpkit/internal/authenticator/entity"
	"github.com/shandysiswandi/otpkit/internal/pkg/goerror"
	"github.com/shandysiswandi/otpkit/internal/pkg/otp"
)

type (
	lastPassFile struct {
		Version  int               `json:"version"`
		Accounts []json.RawMessage `json:"accounts"`
	}

	lastPassAccount struct {
		IssuerName         string `json:"issuerName"`
		OriginalIssuerName string `json:"originalIssuerName"`
		UserName           string `json:"userName"`
		OriginalUserName   string `json:"originalUserName"`
		Secret             string `json:"secret" validate:"otpsecret"`
		TimeStep           int    `json:"timeStep" validate:"min=0,max=65535"`
		Digits             int    `json:"digits" validate:"min=0,max=10"`
		Algorithm          string `json:"algorithm" validate:"otpalgorithm"`
	}
)

func (im *Importer) importLastPass(ctx context.Context, c *collector, data []byte, password string) error {
	var file lastPassFile
	if err := json.Unmarshal(data, &file); err != nil {
		return goerror.NewMalformed("invalid lastpass export", err)
	}
	if err := checkPassword(false, password); err != nil {
		return err
	}

	decodeRecords(ctx, c, file.Accounts, func(i int, a lastPassAccount) {
		content, err := im.lastPassContent(a)
		if err != nil {
			c.fail(ctx, i, lo.CoalesceOrEmpty(a.IssuerName, a.OriginalIssuerName, a.UserName), err)
			return
		}
		c.add(content, "")
	})

	return nil
}

func (im *Importer) lastPassContent(a lastPassAccount) (entity.Content, error) {
	if err := im.validator.Validate(a); err != nil {
		return nil, err
	}

	alg, err := entity.ParseAlgorithm(a.Algorithm)
	if err != nil {
		return nil, err
	}

	return entity.TotpContent{
		Label:     lo.CoalesceOrEmpty(a.UserName, a.OriginalUserName),
		Secret:    a.Secret,
		Issuer:    lo.CoalesceOrEmpty(a.IssuerName, a.OriginalIssuerName),
		Algorithm: alg,
		Digits:    uint8(lo.CoalesceOrEmpty(a.Digits, otp.DefaultDigits)),
		Period:    uint16(lo.CoalesceOrEmpty(a.TimeStep, otp.DefaultPeriod)),
	}, nil
}
