package entity

import (
	"encoding/base32"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/shandysiswandi/otpkit/internal/pkg/otp"
)

type SteamContent struct {
	Secret []byte
	Name   string
}

// NewSteamContent decodes a standard base64 secret.
func NewSteamContent(secret, name string) (SteamContent, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(secret))
	if err != nil {
		return SteamContent{}, fmt.Errorf("%w: steam secret is not base64", ErrInvalidSecret)
	}
	if len(raw) == 0 {
		return SteamContent{}, ErrMissingSecret
	}

	return SteamContent{Secret: raw, Name: name}, nil
}

func (SteamContent) Type() EntryType { return EntryTypeSteam }

func (SteamContent) content() {}

// SecretBase64 is the external form of the secret.
func (s SteamContent) SecretBase64() string {
	return base64.StdEncoding.EncodeToString(s.Secret)
}

func decodeBase32(s string) ([]byte, error) {
	s = strings.ToUpper(strings.TrimRight(s, "="))
	raw, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(s)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// NewSteamContentFromBase32 decodes a base32 secret, the form used in URIs
// and most third-party backups.
func NewSteamContentFromBase32(secret, name string) (SteamContent, error) {
	s := otp.SanitizeSecret(secret)
	if s == "" {
		return SteamContent{}, ErrMissingSecret
	}

	raw, err := decodeBase32(s)
	if err != nil {
		return SteamContent{}, fmt.Errorf("%w: steam secret is not base32", ErrInvalidSecret)
	}

	return SteamContent{Secret: raw, Name: name}, nil
}
