package entity

import (
	"bytes"
	"fmt"
)

type EntryType string

const (
	EntryTypeTotp  EntryType = "Totp"
	EntryTypeSteam EntryType = "Steam"
)

// Content is implemented by TotpContent and SteamContent only.
type Content interface {
	Type() EntryType
	content()
}

// Entry is a stored credential. ID is assigned once when the entry is
// created and is the join key for sync and ordering.
type Entry struct {
	ID      string
	Content Content
	Note    string
}

func NewEntry(id string, content Content, note string) (Entry, error) {
	if id == "" {
		return Entry{}, ErrMissingID
	}
	if content == nil {
		return Entry{}, ErrMissingContent
	}

	return Entry{ID: id, Content: content, Note: note}, nil
}

func (e Entry) Type() EntryType {
	if e.Content == nil {
		return ""
	}
	return e.Content.Type()
}

// Name is the label shown to users.
func (e Entry) Name() string {
	switch c := e.Content.(type) {
	case TotpContent:
		return c.Label
	case SteamContent:
		return c.Name
	default:
		return ""
	}
}

// Issuer is empty for Steam entries.
func (e Entry) Issuer() string {
	if c, ok := e.Content.(TotpContent); ok {
		return c.Issuer
	}
	return ""
}

func (e Entry) Equal(o Entry) bool {
	return e.ID == o.ID && e.Note == o.Note && ContentEqual(e.Content, o.Content)
}

// ContentEqual compares two contents field by field.
func ContentEqual(a, b Content) bool {
	switch x := a.(type) {
	case TotpContent:
		y, ok := b.(TotpContent)
		return ok && x == y
	case SteamContent:
		y, ok := b.(SteamContent)
		return ok && x.Name == y.Name && bytes.Equal(x.Secret, y.Secret)
	case nil:
		return b == nil
	default:
		panic(fmt.Sprintf("entity: unhandled content %T", a))
	}
}
