package entity

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the binary entry encoding. The payload is protobuf wire
// format:
//
//	message Entry {
//	  string id = 1;
//	  oneof content {
//	    Totp totp = 2;   // message Totp { string uri = 1; }
//	    Steam steam = 3; // message Steam { string uri = 1; }
//	  }
//	  string note = 4;
//	}
const (
	fieldEntryID    protowire.Number = 1
	fieldEntryTotp  protowire.Number = 2
	fieldEntrySteam protowire.Number = 3
	fieldEntryNote  protowire.Number = 4

	fieldContentURI protowire.Number = 1
)

// MarshalBinary encodes the entry for storage and sync payloads.
func (e Entry) MarshalBinary() ([]byte, error) {
	if e.ID == "" {
		return nil, ErrMissingID
	}

	var field protowire.Number
	switch e.Content.(type) {
	case TotpContent:
		field = fieldEntryTotp
	case SteamContent:
		field = fieldEntrySteam
	case nil:
		return nil, ErrMissingContent
	default:
		panic(fmt.Sprintf("entity: unhandled content %T", e.Content))
	}

	var content []byte
	content = protowire.AppendTag(content, fieldContentURI, protowire.BytesType)
	content = protowire.AppendString(content, URI(e.Content))

	var b []byte
	b = protowire.AppendTag(b, fieldEntryID, protowire.BytesType)
	b = protowire.AppendString(b, e.ID)
	b = protowire.AppendTag(b, field, protowire.BytesType)
	b = protowire.AppendBytes(b, content)
	if e.Note != "" {
		b = protowire.AppendTag(b, fieldEntryNote, protowire.BytesType)
		b = protowire.AppendString(b, e.Note)
	}

	return b, nil
}

// UnmarshalBinary decodes an entry produced by MarshalBinary. Unknown fields
// are skipped.
func (e *Entry) UnmarshalBinary(data []byte) error {
	var (
		out      Entry
		contents int
	)

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("%w: %w", ErrInvalidEncoding, protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case num == fieldEntryID && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return fmt.Errorf("%w: id: %w", ErrInvalidEncoding, protowire.ParseError(n))
			}
			out.ID = v
			data = data[n:]
		case (num == fieldEntryTotp || num == fieldEntrySteam) && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return fmt.Errorf("%w: content: %w", ErrInvalidEncoding, protowire.ParseError(n))
			}
			content, err := unmarshalContent(num, v)
			if err != nil {
				return err
			}
			out.Content = content
			contents++
			data = data[n:]
		case num == fieldEntryNote && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return fmt.Errorf("%w: note: %w", ErrInvalidEncoding, protowire.ParseError(n))
			}
			out.Note = v
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return fmt.Errorf("%w: field %d: %w", ErrInvalidEncoding, num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}

	if out.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEncoding, ErrMissingID)
	}
	if contents != 1 {
		return fmt.Errorf("%w: expected exactly one content, got %d", ErrInvalidEncoding, contents)
	}

	*e = out
	return nil
}

func unmarshalContent(field protowire.Number, data []byte) (Content, error) {
	var uri string

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("%w: %w", ErrInvalidEncoding, protowire.ParseError(n))
		}
		data = data[n:]

		if num == fieldContentURI && typ == protowire.BytesType {
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return nil, fmt.Errorf("%w: uri: %w", ErrInvalidEncoding, protowire.ParseError(n))
			}
			uri = v
			data = data[n:]
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, data)
		if n < 0 {
			return nil, fmt.Errorf("%w: %w", ErrInvalidEncoding, protowire.ParseError(n))
		}
		data = data[n:]
	}

	content, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	want := EntryTypeTotp
	if field == fieldEntrySteam {
		want = EntryTypeSteam
	}
	if content.Type() != want {
		return nil, fmt.Errorf("%w: %s field holds a %s uri", ErrInvalidEncoding, want, content.Type())
	}

	return content, nil
}
