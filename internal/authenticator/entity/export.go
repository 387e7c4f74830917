package entity

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/shandysiswandi/otpkit/internal/pkg/aead"
	"github.com/shandysiswandi/otpkit/internal/pkg/kdf"
)

// ExportVersion is the only export version understood by ImportEntries.
const ExportVersion = 1

const exportSaltSize = 16

// ExportFile is the plain JSON export.
type ExportFile struct {
	Version int             `json:"version"`
	Entries []ExportedEntry `json:"entries"`
}

type ExportedEntry struct {
	ID      string          `json:"id"`
	Content ExportedContent `json:"content"`
	Note    *string         `json:"note"`
}

type ExportedContent struct {
	URI       string    `json:"uri"`
	EntryType EntryType `json:"entry_type"`
}

// EncryptedExportFile wraps an ExportFile encrypted with a password.
type EncryptedExportFile struct {
	Version int    `json:"version"`
	Salt    string `json:"salt"`
	Content string `json:"content"`
}

// Entry converts the exported form back into an entry.
func (x ExportedEntry) Entry() (Entry, error) {
	content, err := ParseURI(x.Content.URI)
	if err != nil {
		return Entry{}, err
	}

	switch x.Content.EntryType {
	case EntryTypeTotp, EntryTypeSteam:
		if content.Type() != x.Content.EntryType {
			return Entry{}, fmt.Errorf("%w: %s entry holds a %s uri", ErrInvalidExport, x.Content.EntryType, content.Type())
		}
	default:
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownEntryType, x.Content.EntryType)
	}

	note := ""
	if x.Note != nil {
		note = *x.Note
	}

	return NewEntry(x.ID, content, note)
}

func exportEntry(e Entry) (ExportedEntry, error) {
	if e.ID == "" {
		return ExportedEntry{}, ErrMissingID
	}
	if e.Content == nil {
		return ExportedEntry{}, ErrMissingContent
	}

	var note *string
	if e.Note != "" {
		note = &e.Note
	}

	return ExportedEntry{
		ID:      e.ID,
		Content: ExportedContent{URI: URI(e.Content), EntryType: e.Content.Type()},
		Note:    note,
	}, nil
}

// ExportEntries serializes entries as a version 1 JSON export.
func ExportEntries(entries []Entry) ([]byte, error) {
	file := ExportFile{Version: ExportVersion, Entries: make([]ExportedEntry, 0, len(entries))}

	for _, e := range entries {
		x, err := exportEntry(e)
		if err != nil {
			return nil, err
		}
		file.Entries = append(file.Entries, x)
	}

	return marshalJSON(file)
}

// RawExportFile is an export whose entries are still undecoded, so each one
// can fail on its own.
type RawExportFile struct {
	Version int               `json:"version"`
	Entries []json.RawMessage `json:"entries"`
}

// DecodeExport parses the outer structure of a plain export and checks its
// version. Entries are not decoded.
func DecodeExport(data []byte) (*RawExportFile, error) {
	var file RawExportFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExport, err)
	}
	if file.Version != ExportVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, file.Version)
	}

	return &file, nil
}

// ImportEntries parses a plain export. Any invalid entry fails the call.
func ImportEntries(data []byte) ([]Entry, error) {
	file, err := DecodeExport(data)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(file.Entries))
	for i, raw := range file.Entries {
		var x ExportedEntry
		if err := json.Unmarshal(raw, &x); err != nil {
			return nil, fmt.Errorf("entry %d: %w: %w", i, ErrInvalidExport, err)
		}
		e, err := x.Entry()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries = append(entries, e)
	}

	return entries, nil
}

// ExportEntriesEncrypted exports entries and encrypts the JSON with a key
// derived from password by Argon2id.
func ExportEntriesEncrypted(entries []Entry, password string) ([]byte, error) {
	plain, err := ExportEntries(entries)
	if err != nil {
		return nil, err
	}

	salt, err := kdf.NewSalt(exportSaltSize)
	if err != nil {
		return nil, err
	}

	key, err := kdf.Argon2id([]byte(password), salt, kdf.DefaultArgon2Params())
	if err != nil {
		return nil, err
	}
	defer aead.Zero(key)

	ct, err := aead.Encrypt(plain, key, aead.TagExport)
	if err != nil {
		return nil, err
	}

	return marshalJSON(EncryptedExportFile{
		Version: ExportVersion,
		Salt:    base64.StdEncoding.EncodeToString(salt),
		Content: base64.StdEncoding.EncodeToString(ct),
	})
}

// DecryptExport returns the plain export JSON inside an encrypted export.
// A wrong password surfaces as aead.ErrDecryptFailed.
func DecryptExport(data []byte, password string) ([]byte, error) {
	var file EncryptedExportFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExport, err)
	}
	if file.Version != ExportVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, file.Version)
	}

	salt, err := base64.StdEncoding.DecodeString(file.Salt)
	if err != nil {
		return nil, fmt.Errorf("%w: salt: %w", ErrInvalidExport, err)
	}
	ct, err := base64.StdEncoding.DecodeString(file.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: content: %w", ErrInvalidExport, err)
	}

	key, err := kdf.Argon2id([]byte(password), salt, kdf.DefaultArgon2Params())
	if err != nil {
		return nil, err
	}
	defer aead.Zero(key)

	return aead.Decrypt(ct, key, aead.TagExport)
}

// ImportEntriesEncrypted decrypts and parses an encrypted export.
func ImportEntriesEncrypted(data []byte, password string) ([]Entry, error) {
	plain, err := DecryptExport(data, password)
	if err != nil {
		return nil, err
	}

	return ImportEntries(plain)
}

// IsEncryptedExport reports whether data looks like an encrypted export.
func IsEncryptedExport(data []byte) bool {
	var head struct {
		Salt    *string          `json:"salt"`
		Content *string          `json:"content"`
		Entries *json.RawMessage `json:"entries"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return false
	}

	return head.Salt != nil && head.Content != nil && head.Entries == nil
}

// marshalJSON keeps '&' in URIs unescaped.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
