package importer

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/shandysiswandi/otpkit/internal/authenticator/entity"
	"github.com/shandysiswandi/otpkit/internal/pkg/goerror"
	"github.com/shandysiswandi/otpkit/internal/pkg/kdf"
	"github.com/shandysiswandi/otpkit/internal/pkg/secretstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const enteLines = "otpauth://totp/Acme:alice?secret=JBSWY3DPEHPK3PXP&issuer=Acme\n" +
	"\n" +
	"   \n" +
	"otpauth://totp/Steam:gaben?secret=ON2GKYLNFVTXKYLSMQWXIZLTOQWXGZLDOJSXIII&encoder=steam\n" +
	"otpauth://hotp/Old:counter?secret=JBSWY3DPEHPK3PXP&counter=3\n" +
	"not a uri\n"

func enteEncrypted(t *testing.T, password, plain string) enteFile {
	t.Helper()

	salt := bytes.Repeat([]byte{0x05}, 16)
	key, err := kdf.Argon2id([]byte(password), salt, kdf.Argon2Params{Memory: 64, Iterations: 1, Parallelism: 1})
	require.NoError(t, err)

	header, err := secretstream.NewHeader()
	require.NoError(t, err)

	ct, err := secretstream.Seal(key, header, []byte(plain), secretstream.TagFinal)
	require.NoError(t, err)

	return enteFile{
		Version: 1,
		KDFParams: enteKDFParams{
			MemLimit: 64 * 1024,
			OpsLimit: 1,
			Salt:     base64.StdEncoding.EncodeToString(salt),
		},
		EncryptedData:   base64.StdEncoding.EncodeToString(ct),
		EncryptionNonce: base64.StdEncoding.EncodeToString(header),
	}
}

func TestImportEnte_Plain(t *testing.T) {
	out := mustImport(t, FormatEnte, []byte(enteLines), "")

	assert.Equal(t, []entity.Content{totp("alice", "Acme"), steam("gaben")}, contents(out))
	assert.Equal(t, []string{"ente entry #3", "ente entry #4"}, errorContexts(out))
	assert.Contains(t, out.Errors[0].Message, "hotp")
	assert.Contains(t, out.Errors[1].Message, "invalid uri")
}

func TestImportEnte_Encrypted(t *testing.T) {
	plain := mustImport(t, FormatEnte, []byte(enteLines), "")
	data := marshal(t, enteEncrypted(t, "test", enteLines))

	out := mustImport(t, FormatEnte, data, "test")
	assert.Equal(t, plain, out)

	_, err := runImport(t, FormatEnte, data, "wrong")
	assert.Equal(t, goerror.CodeWrongPassword, goerror.CodeOf(err))

	_, err = runImport(t, FormatEnte, data, "")
	assert.Equal(t, goerror.CodeMissingPassword, goerror.CodeOf(err))
}

func TestImportEnte_Malformed(t *testing.T) {
	badNonce := enteEncrypted(t, "test", enteLines)
	badNonce.EncryptionNonce = base64.StdEncoding.EncodeToString([]byte("short"))
	_, err := runImport(t, FormatEnte, marshal(t, badNonce), "test")
	assert.Equal(t, goerror.CodeInvalidFormat, goerror.CodeOf(err))

	badKDF := enteEncrypted(t, "test", enteLines)
	badKDF.KDFParams.OpsLimit = 0
	_, err = runImport(t, FormatEnte, marshal(t, badKDF), "test")
	assert.Equal(t, goerror.CodeInvalidFormat, goerror.CodeOf(err))

	_, err = runImport(t, FormatEnte, []byte("{not json"), "test")
	assert.Equal(t, goerror.CodeInvalidFormat, goerror.CodeOf(err))
}
