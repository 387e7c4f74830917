package aead

// Tag is a domain-separation label mixed into the associated data, so that
// ciphertext produced for one purpose cannot be opened as another.
type Tag string

const (
	// TagEntry scopes encryption to a single stored entry.
	TagEntry Tag = "entry"
	// TagExport scopes encryption to a password-protected export.
	TagExport Tag = "export"
)
