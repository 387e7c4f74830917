package entity

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shandysiswandi/otpkit/internal/pkg/otp"
)

const (
	schemeOTPAuth = "otpauth"
	schemeSteam   = "steam"

	typeTOTP  = "totp"
	typeHOTP  = "hotp"
	typeSteam = "steam"
)

// ParseURI parses an otpauth:// or steam:// URI into its content.
//
// A label of the form "issuer:label" has the prefix removed; the issuer
// query parameter takes precedence over the prefix and, when the path starts
// with it, is stripped as a whole so issuers may contain colons. The label is
// kept verbatim. HOTP URIs return
// ErrUnsupportedURI.
func ParseURI(raw string) (Content, error) {
	raw = strings.TrimSpace(raw)

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURI, err)
	}

	switch strings.ToLower(u.Scheme) {
	case schemeSteam:
		// steam://<base32 secret>
		return parseSteam(u.Host+strings.TrimPrefix(u.Path, "/"), "")
	case schemeOTPAuth:
	case "":
		return nil, fmt.Errorf("%w: missing scheme", ErrInvalidURI)
	default:
		return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedURI, u.Scheme)
	}

	query := u.Query()
	prefix, label := splitLabel(strings.TrimPrefix(u.Path, "/"), query.Get("issuer"))

	switch strings.ToLower(u.Host) {
	case typeTOTP:
		if strings.EqualFold(query.Get("encoder"), typeSteam) {
			return parseSteam(query.Get("secret"), steamName(prefix, label))
		}
		return parseTOTP(query, prefix, label)
	case typeSteam:
		return parseSteam(query.Get("secret"), steamName(prefix, label))
	case typeHOTP:
		return nil, fmt.Errorf("%w: hotp is not supported", ErrUnsupportedURI)
	default:
		return nil, fmt.Errorf("%w: type %q", ErrUnsupportedURI, u.Host)
	}
}

func parseTOTP(query url.Values, prefix, label string) (Content, error) {
	secret := query.Get("secret")
	if otp.SanitizeSecret(secret) == "" {
		return nil, ErrMissingSecret
	}

	content := NewTotpContent(secret, prefix, label)
	if issuer := query.Get("issuer"); issuer != "" {
		content.Issuer = issuer
	}

	alg, err := ParseAlgorithm(query.Get("algorithm"))
	if err != nil {
		return nil, err
	}
	content.Algorithm = alg

	if v := query.Get("digits"); v != "" {
		digits, err := strconv.ParseUint(v, 10, 8)
		if err != nil || digits < 1 || digits > otp.MaxDigits {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDigits, v)
		}
		content.Digits = uint8(digits)
	}

	if v := query.Get("period"); v != "" {
		period, err := strconv.ParseUint(v, 10, 16)
		if err != nil || period == 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPeriod, v)
		}
		content.Period = uint16(period)
	}

	return content, nil
}

func parseSteam(secret, name string) (Content, error) {
	content, err := NewSteamContentFromBase32(secret, name)
	if err != nil {
		return nil, err
	}
	return content, nil
}

func steamName(prefix, label string) string {
	if label != "" {
		return label
	}
	return prefix
}

// splitLabel separates an "issuer:label" path into its parts. A known issuer
// is cut as a whole; otherwise the first colon separates them.
func splitLabel(path, issuer string) (prefix, label string) {
	if issuer != "" {
		if rest, ok := strings.CutPrefix(path, issuer+":"); ok {
			return issuer, rest
		}
	}
	if before, after, ok := strings.Cut(path, ":"); ok {
		return strings.TrimSpace(before), after
	}
	return "", path
}

// URI returns the canonical otpauth URI of c.
func URI(c Content) string {
	switch v := c.(type) {
	case TotpContent:
		return totpURI(v)
	case SteamContent:
		return steamURI(v)
	default:
		panic(fmt.Sprintf("entity: unhandled content %T", c))
	}
}

func totpURI(c TotpContent) string {
	query := url.Values{}
	query.Set("secret", otp.SanitizeSecret(c.Secret))
	if c.Issuer != "" {
		query.Set("issuer", c.Issuer)
	}
	query.Set("algorithm", c.Algorithm.String())
	query.Set("digits", strconv.Itoa(int(c.Digits)))
	query.Set("period", strconv.Itoa(int(c.Period)))

	u := url.URL{
		Scheme:   schemeOTPAuth,
		Host:     typeTOTP,
		Path:     "/" + joinLabel(c.Issuer, c.Label),
		RawQuery: query.Encode(),
	}
	return u.String()
}

func steamURI(c SteamContent) string {
	query := url.Values{}
	query.Set("secret", otp.EncodeSecret(c.Secret))

	u := url.URL{
		Scheme:   schemeOTPAuth,
		Host:     typeSteam,
		Path:     "/" + joinLabel("", c.Name),
		RawQuery: query.Encode(),
	}
	return u.String()
}

// joinLabel is the inverse of splitLabel. A colon inside a label without an
// issuer is protected by an empty prefix.
func joinLabel(issuer, label string) string {
	if issuer != "" {
		return issuer + ":" + label
	}
	if strings.Contains(label, ":") {
		return ":" + label
	}
	return label
}
