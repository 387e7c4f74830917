package importer

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/shandysiswandi/otpkit/internal/authenticator/entity"
	"github.com/shandysiswandi/otpkit/internal/pkg/aead"
	"github.com/shandysiswandi/otpkit/internal/pkg/goerror"
	"github.com/shandysiswandi/otpkit/internal/pkg/kdf"
	"github.com/stretchr/testify/assert"
)

const twoFASServices = `[
	{"name":"Acme","secret":"JBSWY3DPEHPK3PXP","otp":{"account":"alice","digits":6,"period":30,"algorithm":"SHA1","tokenType":"TOTP"}},
	{"name":"Linked","secret":"JBSWY3DPEHPK3PXP","otp":{"link":"otpauth://totp/Linked:bob?secret=JBSWY3DPEHPK3PXP&issuer=Linked&digits=8","label":"robert","tokenType":"TOTP"}},
	{"name":"Steam","secret":"ON2GKYLNFVTXKYLSMQWXIZLTOQWXGZLDOJSXIII","otp":{"account":"gaben","tokenType":"STEAM"}},
	{"name":"Counter","secret":"JBSWY3DPEHPK3PXP","otp":{"tokenType":"HOTP","counter":4}},
	{"name":"Empty","secret":"","otp":{"tokenType":"TOTP"}},
	{"name":"Legacy","secret":"JBSWY3DPEHPK3PXP","otp":{"issuer":"Legacy Inc","period":60}}
]`

func twoFASEncrypted(t *testing.T, password, services string) twoFASFile {
	t.Helper()

	salt := bytes.Repeat([]byte{0x09}, 256)
	iv := bytes.Repeat([]byte{0x03}, aead.NonceSize)
	key := kdf.PBKDF2SHA256([]byte(password), salt, twoFASIterations)

	sealed := sealGCM(t, key, iv, []byte(services))

	return twoFASFile{
		SchemaVersion: 4,
		ServicesEncrypted: strings.Join([]string{
			base64.StdEncoding.EncodeToString(sealed),
			base64.StdEncoding.EncodeToString(salt),
			base64.StdEncoding.EncodeToString(iv),
		}, ":"),
	}
}

func TestImportTwoFAS_Plain(t *testing.T) {
	out := mustImport(t, FormatTwoFAS, []byte(`{"schemaVersion":4,"services":`+twoFASServices+`}`), "")

	linked := totp("robert", "Linked")
	linked.Digits = 8
	legacy := totp("", "Legacy Inc")
	legacy.Period = 60

	assert.Equal(t, []entity.Content{totp("alice", "Acme"), linked, steam("gaben"), legacy}, contents(out))
	assert.Equal(t, []string{"2fas entry #4 (Counter)", "2fas entry #5 (Empty)"}, errorContexts(out))
	assert.Equal(t, "unsupported: hotp entries", out.Errors[0].Message)
}

func TestImportTwoFAS_Encrypted(t *testing.T) {
	plain := mustImport(t, FormatTwoFAS, []byte(`{"schemaVersion":4,"services":`+twoFASServices+`}`), "")
	data := marshal(t, twoFASEncrypted(t, "test", twoFASServices))

	out := mustImport(t, FormatTwoFAS, data, "test")
	assert.Equal(t, plain, out)

	_, err := runImport(t, FormatTwoFAS, data, "wrong")
	assert.Equal(t, goerror.CodeWrongPassword, goerror.CodeOf(err))

	_, err = runImport(t, FormatTwoFAS, data, "")
	assert.Equal(t, goerror.CodeMissingPassword, goerror.CodeOf(err))
}

func TestImportTwoFAS_Malformed(t *testing.T) {
	for _, blob := range []string{"only:two", "!!:AAAA:AAAA", "AAAA:AAAA:AAAA"} {
		data := marshal(t, twoFASFile{SchemaVersion: 4, ServicesEncrypted: blob})
		_, err := runImport(t, FormatTwoFAS, data, "test")
		assert.Equal(t, goerror.CodeInvalidFormat, goerror.CodeOf(err), blob)
	}

	_, err := runImport(t, FormatTwoFAS, []byte(`[]`), "")
	assert.Equal(t, goerror.CodeInvalidFormat, goerror.CodeOf(err))
}
