package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/shandysiswandi/otpkit/internal/authenticator/entity"
	"github.com/shandysiswandi/otpkit/internal/pkg/goerror"
)

type (
	bitwardenFile struct {
		Encrypted bool              `json:"encrypted"`
		Items     []json.RawMessage `json:"items"`
	}

	bitwardenItem struct {
		Name  string          `json:"name"`
		Notes *string         `json:"notes"`
		Login *bitwardenLogin `json:"login"`
	}

	bitwardenLogin struct {
		Username *string `json:"username"`
		TOTP     *string `json:"totp"`
	}

	// bitwardenRecord is the common shape of JSON items and CSV rows. index
	// is the zero based position in the source.
	bitwardenRecord struct {
		index     int
		Name      string
		Username  string
		Notes     string
		TOTP      string
		// truncated marks a CSV row that ends before the login_totp column.
		truncated bool
	}
)

func (im *Importer) importBitwardenJSON(ctx context.Context, c *collector, data []byte, password string) error {
	var file bitwardenFile
	if err := json.Unmarshal(data, &file); err != nil {
		return goerror.NewMalformed("invalid bitwarden export", err)
	}
	if file.Encrypted {
		return goerror.NewUnsupported("encrypted bitwarden exports")
	}
	if err := checkPassword(false, password); err != nil {
		return err
	}

	decodeRecords(ctx, c, file.Items, func(i int, item bitwardenItem) {
		if item.Login == nil {
			return
		}
		addBitwardenRecord(ctx, c, bitwardenRecord{
			index:    i,
			Name:     item.Name,
			Username: lo.FromPtr(item.Login.Username),
			Notes:    lo.FromPtr(item.Notes),
			TOTP:     strings.TrimSpace(lo.FromPtr(item.Login.TOTP)),
		})
	})

	return nil
}

func (im *Importer) importBitwardenCSV(ctx context.Context, c *collector, data []byte, password string) error {
	if err := checkPassword(false, password); err != nil {
		return err
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return goerror.NewMalformed("invalid bitwarden csv header", err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}

	totpCol, ok := columns["login_totp"]
	if !ok {
		return goerror.NewMalformed("bitwarden csv has no login_totp column", nil)
	}

	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	for i := 0; ; i++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return goerror.NewMalformed("invalid bitwarden csv", err)
		}
		if totpCol >= len(row) {
			addBitwardenRecord(ctx, c, bitwardenRecord{index: i, Name: field(row, "name"), truncated: true})
			continue
		}

		addBitwardenRecord(ctx, c, bitwardenRecord{
			index:    i,
			Name:     field(row, "name"),
			Username: field(row, "login_username"),
			Notes:    field(row, "notes"),
			TOTP:     field(row, "login_totp"),
		})
	}

	return nil
}

// addBitwardenRecord converts a record with a TOTP value. Items without one
// are ordinary logins and are skipped silently.
func addBitwardenRecord(ctx context.Context, c *collector, rec bitwardenRecord) {
	if rec.TOTP == "" && !rec.truncated {
		return
	}

	content, err := bitwardenContent(rec)
	if err != nil {
		c.fail(ctx, rec.index, rec.Name, err)
		return
	}
	c.add(content, rec.Notes)
}

func bitwardenContent(rec bitwardenRecord) (entity.Content, error) {
	if rec.truncated {
		return nil, goerror.NewMalformed("row is missing the login_totp column", nil)
	}

	if !strings.Contains(rec.TOTP, "://") {
		// A bare secret.
		content := entity.NewTotpContent(rec.TOTP, rec.Name, rec.Username)
		if err := content.Validate(); err != nil {
			return nil, err
		}
		return content, nil
	}

	content, err := entity.ParseURI(rec.TOTP)
	if err != nil {
		return nil, err
	}

	switch v := content.(type) {
	case entity.TotpContent:
		v.Issuer = lo.CoalesceOrEmpty(v.Issuer, rec.Name)
		v.Label = lo.CoalesceOrEmpty(v.Label, rec.Username, rec.Name)
		return v, nil
	case entity.SteamContent:
		v.Name = lo.CoalesceOrEmpty(v.Name, rec.Name)
		return v, nil
	default:
		return content, nil
	}
}
