package importer

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/shandysiswandi/otpkit/internal/authenticator/entity"
	"github.com/shandysiswandi/otpkit/internal/pkg/aead"
	"github.com/shandysiswandi/otpkit/internal/pkg/goerror"
	"github.com/shandysiswandi/otpkit/internal/pkg/kdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aegisVault = `{"version":2,"entries":[
	{"type":"totp","uuid":"a1","name":"alice","issuer":"Acme","note":"work","info":{"secret":"JBSWY3DPEHPK3PXP","algo":"SHA256","digits":8,"period":60}},
	{"type":"steam","uuid":"a2","name":"gaben","issuer":"Steam","note":"","info":{"secret":"ON2GKYLNFVTXKYLSMQWXIZLTOQWXGZLDOJSXIII","algo":"SHA1","digits":5,"period":30}},
	{"type":"hotp","uuid":"a3","name":"counter","issuer":"Old","info":{"secret":"JBSWY3DPEHPK3PXP","algo":"SHA1","digits":6,"counter":3}},
	{"type":"totp","uuid":"a4","name":"blank","issuer":"Bad","info":{"secret":"  ","algo":"SHA1","digits":6,"period":30}},
	{"type":"totp","uuid":"a5","name":"md5","issuer":"Bad","info":{"secret":"JBSWY3DPEHPK3PXP","algo":"MD5","digits":6,"period":30}},
	{"type":"totp","uuid":"a6","name":"","issuer":"Defaults","info":{"secret":"JBSWY3DPEHPK3PXP"}}
]}`

func aegisPlain() []byte {
	return []byte(`{"version":1,"header":{"slots":null,"params":null},"db":` + aegisVault + `}`)
}

// aegisEncrypted wraps one master key in a password slot per password, after
// a biometric slot that must be ignored.
func aegisEncrypted(t *testing.T, vault string, passwords ...string) aegisFile {
	t.Helper()

	master := bytes.Repeat([]byte{0x42}, aead.KeySize)
	salt := bytes.Repeat([]byte{0x07}, 32)

	slots := []aegisSlot{{Type: 2, UUID: "biometric"}}
	for i, pw := range passwords {
		derived, err := kdf.Scrypt([]byte(pw), salt, 1024, 8, 1)
		require.NoError(t, err)

		nonce := bytes.Repeat([]byte{byte(i + 1)}, aead.NonceSize)
		sealed := sealGCM(t, derived, nonce, master)
		cut := len(sealed) - aead.TagSize

		slots = append(slots, aegisSlot{
			Type: aegisSlotPassword,
			UUID: "password",
			Key:  hex.EncodeToString(sealed[:cut]),
			KeyParams: aegisKeyParams{
				Nonce: hex.EncodeToString(nonce),
				Tag:   hex.EncodeToString(sealed[cut:]),
			},
			N:    1024,
			R:    8,
			P:    1,
			Salt: hex.EncodeToString(salt),
		})
	}

	nonce := bytes.Repeat([]byte{0x99}, aead.NonceSize)
	sealed := sealGCM(t, master, nonce, []byte(vault))
	cut := len(sealed) - aead.TagSize

	db, err := json.Marshal(base64.StdEncoding.EncodeToString(sealed[:cut]))
	require.NoError(t, err)

	return aegisFile{
		Version: 1,
		Header: aegisHeader{
			Slots: slots,
			Params: &aegisKeyParams{
				Nonce: hex.EncodeToString(nonce),
				Tag:   hex.EncodeToString(sealed[cut:]),
			},
		},
		DB: db,
	}
}

func marshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestImportAegis_Plain(t *testing.T) {
	out := mustImport(t, FormatAegis, aegisPlain(), "")

	assert.Equal(t, []entity.Content{
		entity.TotpContent{
			Label:     "alice",
			Secret:    testSecret,
			Issuer:    "Acme",
			Algorithm: entity.AlgorithmSHA256,
			Digits:    8,
			Period:    60,
		},
		steam("gaben"),
		totp("", "Defaults"),
	}, contents(out))
	assert.Equal(t, "work", out.Entries[0].Note)
	assert.Equal(t, []string{"id-1", "id-2", "id-3"}, []string{out.Entries[0].ID, out.Entries[1].ID, out.Entries[2].ID})

	assert.Equal(t, []string{
		"aegis entry #3 (counter)",
		"aegis entry #4 (blank)",
		"aegis entry #5 (md5)",
	}, errorContexts(out))
	assert.Equal(t, "unsupported: hotp entries", out.Errors[0].Message)
	assert.Contains(t, out.Errors[1].Message, "secret")
	assert.Contains(t, out.Errors[2].Message, "algo")
}

func TestImportAegis_Encrypted(t *testing.T) {
	plain := mustImport(t, FormatAegis, aegisPlain(), "")
	data := marshal(t, aegisEncrypted(t, aegisVault, "other", "test"))

	out := mustImport(t, FormatAegis, data, "test")
	assert.Equal(t, plain, out)

	out = mustImport(t, FormatAegis, data, "other")
	assert.Equal(t, plain, out)
}

func TestImportAegis_EncryptedFailures(t *testing.T) {
	data := marshal(t, aegisEncrypted(t, aegisVault, "test"))

	_, err := runImport(t, FormatAegis, data, "wrong")
	assert.Equal(t, goerror.CodeWrongPassword, goerror.CodeOf(err))

	_, err = runImport(t, FormatAegis, data, "")
	assert.Equal(t, goerror.CodeMissingPassword, goerror.CodeOf(err))

	noSlot := aegisEncrypted(t, aegisVault)
	_, err = runImport(t, FormatAegis, marshal(t, noSlot), "test")
	assert.Equal(t, goerror.CodeUnsupported, goerror.CodeOf(err))

	tampered := aegisEncrypted(t, aegisVault, "test")
	tampered.Header.Params.Tag = hex.EncodeToString(make([]byte, aead.TagSize))
	_, err = runImport(t, FormatAegis, marshal(t, tampered), "test")
	assert.Equal(t, goerror.CodeDecryptFailed, goerror.CodeOf(err))

	badParams := aegisEncrypted(t, aegisVault, "test")
	badParams.Header.Slots[1].N = 1000
	_, err = runImport(t, FormatAegis, marshal(t, badParams), "test")
	assert.Equal(t, goerror.CodeInvalidFormat, goerror.CodeOf(err))
}

func TestImportAegis_Malformed(t *testing.T) {
	for _, data := range []string{
		`not json`,
		`{"version":1,"header":{}}`,
		`{"version":1,"header":{},"db":null}`,
		`{"version":1,"header":{},"db":{"entries":"nope"}}`,
	} {
		_, err := runImport(t, FormatAegis, []byte(data), "")
		assert.Equal(t, goerror.CodeInvalidFormat, goerror.CodeOf(err), data)
	}
}
