package otp

import (
	"testing"
	"time"

	"github.com/pquerna/otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	rfcSHA1Secret   = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"
	rfcSHA256Secret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQGEZA===="
	rfcSHA512Secret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQGEZDGNA="
)

func TestTOTP_RFC6238(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		alg    otp.Algorithm
		at     int64
		want   string
	}{
		{name: "sha1 t=59", secret: rfcSHA1Secret, alg: otp.AlgorithmSHA1, at: 59, want: "94287082"},
		{name: "sha1 t=1111111109", secret: rfcSHA1Secret, alg: otp.AlgorithmSHA1, at: 1111111109, want: "07081804"},
		{name: "sha256 t=59", secret: rfcSHA256Secret, alg: otp.AlgorithmSHA256, at: 59, want: "46119246"},
		{name: "sha256 t=1111111109", secret: rfcSHA256Secret, alg: otp.AlgorithmSHA256, at: 1111111109, want: "68084774"},
		{name: "sha512 t=59", secret: rfcSHA512Secret, alg: otp.AlgorithmSHA512, at: 59, want: "90693936"},
		{name: "sha512 t=1111111109", secret: rfcSHA512Secret, alg: otp.AlgorithmSHA512, at: 1111111109, want: "25091201"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TOTP(tt.secret, Params{Algorithm: tt.alg, Digits: 8, Period: 30}, time.Unix(tt.at, 0))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTOTP_SecretLeniency(t *testing.T) {
	at := time.Unix(1700000000, 0)
	want := "324550"

	for _, secret := range []string{
		"JBSWY3DPEHPK3PXP",
		"jbswy3dpehpk3pxp",
		"JBSW Y3DP EHPK 3PXP",
		"JBSW-Y3DP_EHPK-3PXP",
	} {
		got, err := TOTP(secret, DefaultParams(), at)
		require.NoError(t, err, secret)
		assert.Equal(t, want, got, secret)
	}
}

func TestTOTP_LiteralFallback(t *testing.T) {
	got, err := TOTP("not-base32_1!", DefaultParams(), time.Unix(59, 0))
	require.NoError(t, err)
	assert.Equal(t, "107031", got)

	assert.Equal(t, []byte("notbase321!"), DecodeSecret("not-base32_1!"))
}

func TestTOTP_DigitWidth(t *testing.T) {
	at := time.Unix(1700000000, 0)

	for digits := uint8(1); digits <= MaxDigits; digits++ {
		got, err := TOTP("JBSWY3DPEHPK3PXP", Params{Algorithm: otp.AlgorithmSHA1, Digits: digits, Period: 30}, at)
		require.NoError(t, err)
		assert.Len(t, got, int(digits))
	}

	got, err := TOTP("JBSWY3DPEHPK3PXP", Params{Algorithm: otp.AlgorithmSHA1, Digits: 10, Period: 30}, at)
	require.NoError(t, err)
	assert.Equal(t, "1802324550", got)

	got, err = TOTP("JBSWY3DPEHPK3PXP", Params{Algorithm: otp.AlgorithmSHA1, Digits: 1, Period: 30}, at)
	require.NoError(t, err)
	assert.Equal(t, "0", got)
}

func TestTOTP_InvalidParams(t *testing.T) {
	at := time.Unix(1700000000, 0)

	_, err := TOTP("JBSWY3DPEHPK3PXP", Params{Algorithm: otp.AlgorithmSHA1, Digits: 0, Period: 30}, at)
	assert.ErrorIs(t, err, ErrInvalidDigits)

	_, err = TOTP("JBSWY3DPEHPK3PXP", Params{Algorithm: otp.AlgorithmSHA1, Digits: 11, Period: 30}, at)
	assert.ErrorIs(t, err, ErrInvalidDigits)

	_, err = TOTP("JBSWY3DPEHPK3PXP", Params{Algorithm: otp.AlgorithmSHA1, Digits: 6, Period: 0}, at)
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = TOTP("JBSWY3DPEHPK3PXP", Params{Algorithm: otp.AlgorithmMD5, Digits: 6, Period: 30}, at)
	assert.ErrorIs(t, err, ErrInvalidAlgorithm)

	_, err = TOTP(" - ", DefaultParams(), at)
	assert.ErrorIs(t, err, ErrEmptySecret)

	_, err = TOTP("JBSWY3DPEHPK3PXP", DefaultParams(), time.Unix(-1, 0))
	assert.ErrorIs(t, err, ErrBeforeEpoch)
}

func TestTOTPPair(t *testing.T) {
	at := time.Unix(1700000000, 0)

	pair, err := TOTPPair("JBSWY3DPEHPK3PXP", DefaultParams(), at)
	require.NoError(t, err)
	assert.Equal(t, "324550", pair.Current)
	assert.Equal(t, "367665", pair.Next)
	assert.NotEqual(t, pair.Current, pair.Next)
	assert.Equal(t, int64(1700000010), pair.ValidUntil.Unix())

	next, err := TOTP("JBSWY3DPEHPK3PXP", DefaultParams(), at.Add(30*time.Second))
	require.NoError(t, err)
	assert.Equal(t, pair.Next, next)
}

func TestTOTP_CustomPeriod(t *testing.T) {
	got, err := TOTP("JBSWY3DPEHPK3PXP", Params{Algorithm: otp.AlgorithmSHA1, Digits: 6, Period: 60}, time.Unix(1700000000, 0))
	require.NoError(t, err)
	assert.Equal(t, "508648", got)
}

func TestVerify(t *testing.T) {
	at := time.Unix(1700000000, 0)
	p := DefaultParams()

	assert.True(t, Verify("324550", "JBSWY3DPEHPK3PXP", p, at, 0))
	assert.False(t, Verify("367665", "JBSWY3DPEHPK3PXP", p, at, 0))
	assert.True(t, Verify("367665", "JBSWY3DPEHPK3PXP", p, at, 1))
	assert.True(t, Verify("324550", "JBSWY3DPEHPK3PXP", p, at.Add(30*time.Second), 1))
	assert.False(t, Verify("000000", "JBSWY3DPEHPK3PXP", p, at, 1))
	assert.False(t, Verify("32455", "JBSWY3DPEHPK3PXP", p, at, 1))
	assert.False(t, Verify("324550", "", p, at, 1))
	assert.True(t, Verify("107031", "not-base32_1!", p, time.Unix(59, 0), 0))
}

func TestSteam(t *testing.T) {
	// Expected codes come from a separate HMAC-SHA1 computation: counter is
	// unix seconds / 30, dynamic truncation, then five base-26 digits over
	// the Steam alphabet. 1737960861 is in milliseconds, so counter 1931.
	secret := []byte("steam-guard-test-secret!")

	got, err := Steam(secret, time.UnixMilli(1737960861))
	require.NoError(t, err)
	assert.Equal(t, "4WJ27", got)

	got, err = Steam(secret, time.UnixMilli(1700000000000))
	require.NoError(t, err)
	assert.Equal(t, "G7J4P", got)

	for _, c := range got {
		assert.Contains(t, "23456789BCDFGHJKMNPQRTVWXY", string(c))
	}

	_, err = Steam(nil, time.UnixMilli(1700000000000))
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestSteamPair(t *testing.T) {
	pair, err := SteamPair([]byte("steam-guard-test-secret!"), time.UnixMilli(1700000000000))
	require.NoError(t, err)
	assert.Equal(t, "G7J4P", pair.Current)
	assert.Equal(t, "BQDHQ", pair.Next)
	assert.Equal(t, int64(1700000010000), pair.ValidUntil.UnixMilli())
}

func TestVerifySteam(t *testing.T) {
	secret := []byte("steam-guard-test-secret!")
	at := time.UnixMilli(1700000000000)

	assert.True(t, VerifySteam("G7J4P", secret, at, 0))
	assert.True(t, VerifySteam(" g7j4p ", secret, at, 0))
	assert.False(t, VerifySteam("BQDHQ", secret, at, 0))
	assert.True(t, VerifySteam("BQDHQ", secret, at, 1))
	assert.False(t, VerifySteam("G7J4", secret, at, 1))
	assert.False(t, VerifySteam("G7J4P", nil, at, 1))
}

func TestEncodeSecret(t *testing.T) {
	assert.Equal(t, "JBSWY3DPEHPK3PXP", EncodeSecret(DecodeSecret("JBSWY3DPEHPK3PXP")))
	assert.Equal(t, "ON2GKYLNFVTXKYLSMQWXIZLTOQWXGZLDOJSXIII", EncodeSecret([]byte("steam-guard-test-secret!")))
	assert.Equal(t, "JBSWY3DPEHPK3PXP", SanitizeSecret("JBSW Y3DP-EHPK_3PXP"))
}
