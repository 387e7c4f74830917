package entity

import "errors"

var (
	ErrInvalidURI           = errors.New("entity: invalid uri")
	ErrUnsupportedURI       = errors.New("entity: unsupported uri")
	ErrMissingSecret        = errors.New("entity: missing secret")
	ErrInvalidSecret        = errors.New("entity: invalid secret")
	ErrUnsupportedAlgorithm = errors.New("entity: unsupported algorithm")
	ErrInvalidDigits        = errors.New("entity: invalid digits")
	ErrInvalidPeriod        = errors.New("entity: invalid period")
	ErrMissingID            = errors.New("entity: missing id")
	ErrMissingContent       = errors.New("entity: missing content")
	ErrInvalidEncoding      = errors.New("entity: invalid binary encoding")
	ErrUnsupportedVersion   = errors.New("entity: unsupported export version")
	ErrInvalidExport        = errors.New("entity: invalid export")
	ErrUnknownEntryType     = errors.New("entity: unknown entry type")
)
