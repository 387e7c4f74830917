package importer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shandysiswandi/otpkit/internal/authenticator/entity"
	"github.com/shandysiswandi/otpkit/internal/pkg/aead"
	"github.com/shandysiswandi/otpkit/internal/pkg/goerror"
	"github.com/shandysiswandi/otpkit/internal/pkg/kdf"
	"github.com/shandysiswandi/otpkit/internal/pkg/otp"
)

// aegisSlotPassword is the slot type protected by a user password. Raw (0)
// and biometric (2) slots cannot be opened here.
const aegisSlotPassword = 1

var errAegisSlotLocked = errors.New("aegis slot does not open with this password")

type (
	aegisFile struct {
		Version int             `json:"version"`
		Header  aegisHeader     `json:"header"`
		DB      json.RawMessage `json:"db"`
	}

	aegisHeader struct {
		Slots  []aegisSlot     `json:"slots"`
		Params *aegisKeyParams `json:"params"`
	}

	aegisSlot struct {
		Type      int            `json:"type"`
		UUID      string         `json:"uuid"`
		Key       string         `json:"key"`
		KeyParams aegisKeyParams `json:"key_params"`
		N         int            `json:"n"`
		R         int            `json:"r"`
		P         int            `json:"p"`
		Salt      string         `json:"salt"`
	}

	aegisKeyParams struct {
		Nonce string `json:"nonce"`
		Tag   string `json:"tag"`
	}

	aegisDB struct {
		Version int               `json:"version"`
		Entries []json.RawMessage `json:"entries"`
	}

	aegisEntry struct {
		Type   string    `json:"type" validate:"required"`
		UUID   string    `json:"uuid"`
		Name   string    `json:"name"`
		Issuer string    `json:"issuer"`
		Note   string    `json:"note"`
		Info   aegisInfo `json:"info"`
	}

	aegisInfo struct {
		Secret string `json:"secret" validate:"otpsecret"`
		Algo   string `json:"algo" validate:"otpalgorithm"`
		Digits int    `json:"digits" validate:"min=0,max=10"`
		Period int    `json:"period" validate:"min=0,max=65535"`
	}
)

func (im *Importer) importAegis(ctx context.Context, c *collector, data []byte, password string) error {
	var file aegisFile
	if err := json.Unmarshal(data, &file); err != nil {
		return goerror.NewMalformed("invalid aegis backup", err)
	}

	db := bytes.TrimSpace(file.DB)
	if len(db) == 0 || bytes.Equal(db, []byte("null")) {
		return goerror.NewMalformed("aegis backup has no db", nil)
	}

	encrypted := db[0] == '"'
	if err := checkPassword(encrypted, password); err != nil {
		return err
	}

	if encrypted {
		plain, err := decryptAegis(file, password)
		if err != nil {
			return err
		}
		db = plain
	}

	var vault aegisDB
	if err := json.Unmarshal(db, &vault); err != nil {
		return goerror.NewMalformed("invalid aegis vault", err)
	}

	decodeRecords(ctx, c, vault.Entries, func(i int, e aegisEntry) {
		content, err := im.aegisContent(e)
		if err != nil {
			c.fail(ctx, i, lo.CoalesceOrEmpty(e.Name, e.Issuer), err)
			return
		}
		c.add(content, e.Note)
	})

	return nil
}

func (im *Importer) aegisContent(e aegisEntry) (entity.Content, error) {
	kind := strings.ToLower(strings.TrimSpace(e.Type))
	if kind != "totp" && kind != "steam" {
		return nil, errUnsupportedKind(lo.CoalesceOrEmpty(kind, "untyped"))
	}

	if err := im.validator.Validate(e); err != nil {
		return nil, err
	}

	if kind == "steam" {
		return entity.NewSteamContentFromBase32(e.Info.Secret, lo.CoalesceOrEmpty(e.Name, e.Issuer))
	}

	alg, err := entity.ParseAlgorithm(e.Info.Algo)
	if err != nil {
		return nil, err
	}

	return entity.TotpContent{
		Label:     e.Name,
		Secret:    e.Info.Secret,
		Issuer:    e.Issuer,
		Algorithm: alg,
		Digits:    uint8(lo.CoalesceOrEmpty(e.Info.Digits, otp.DefaultDigits)),
		Period:    uint16(lo.CoalesceOrEmpty(e.Info.Period, otp.DefaultPeriod)),
	}, nil
}

// decryptAegis opens the first password slot that accepts password and uses
// its master key on the vault.
func decryptAegis(file aegisFile, password string) ([]byte, error) {
	var payload string
	if err := json.Unmarshal(file.DB, &payload); err != nil {
		return nil, goerror.NewMalformed("invalid aegis db", err)
	}
	if file.Header.Params == nil {
		return nil, goerror.NewMalformed("aegis backup has no vault parameters", nil)
	}

	slots := lo.Filter(file.Header.Slots, func(s aegisSlot, _ int) bool {
		return s.Type == aegisSlotPassword
	})
	if len(slots) == 0 {
		return nil, goerror.NewUnsupported("aegis backup has no password slot")
	}

	var master []byte
	for _, slot := range slots {
		key, err := openAegisSlot(slot, password)
		if errors.Is(err, errAegisSlotLocked) {
			continue
		}
		if err != nil {
			return nil, err
		}
		master = key
		break
	}
	if master == nil {
		return nil, goerror.NewWrongPassword()
	}
	defer aead.Zero(master)

	ct, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, goerror.NewMalformed("aegis db is not base64", err)
	}
	nonce, tag, err := decodeAegisParams(*file.Header.Params)
	if err != nil {
		return nil, err
	}

	plain, err := aead.OpenGCMDetached(master, nonce, ct, tag)
	if err != nil {
		return nil, goerror.NewDecryptFailed("aegis vault does not match its master key")
	}

	return plain, nil
}

func openAegisSlot(slot aegisSlot, password string) ([]byte, error) {
	salt, err := hex.DecodeString(slot.Salt)
	if err != nil {
		return nil, goerror.NewMalformed("aegis slot salt is not hex", err)
	}
	wrapped, err := hex.DecodeString(slot.Key)
	if err != nil {
		return nil, goerror.NewMalformed("aegis slot key is not hex", err)
	}
	nonce, tag, err := decodeAegisParams(slot.KeyParams)
	if err != nil {
		return nil, err
	}

	derived, err := kdf.Scrypt([]byte(password), salt, slot.N, slot.R, slot.P)
	if err != nil {
		return nil, goerror.NewMalformed(fmt.Sprintf("aegis slot %s has invalid scrypt parameters", slot.UUID), err)
	}
	defer aead.Zero(derived)

	master, err := aead.OpenGCMDetached(derived, nonce, wrapped, tag)
	if err != nil {
		return nil, errAegisSlotLocked
	}

	return master, nil
}

func decodeAegisParams(p aegisKeyParams) (nonce, tag []byte, err error) {
	nonce, err = hex.DecodeString(p.Nonce)
	if err != nil || len(nonce) != aead.NonceSize {
		return nil, nil, goerror.NewMalformed("aegis nonce must be 12 hex bytes", err)
	}
	tag, err = hex.DecodeString(p.Tag)
	if err != nil || len(tag) != aead.TagSize {
		return nil, nil, goerror.NewMalformed("aegis tag must be 16 hex bytes", err)
	}
	return nonce, tag, nil
}
