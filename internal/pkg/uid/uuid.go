package uid

import (
	"strings"

	"github.com/google/uuid"
)

// UUID generates entry identifiers. Version 7 is preferred so ids sort by
// creation time; version 4 is used if the v7 source fails.
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new UUID string.
func (*UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Normalize returns the canonical lower-case form of a UUID, or s unchanged
// when it is not a UUID. Imported ids from other apps are kept verbatim.
func Normalize(s string) string {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return s
	}
	return id.String()
}
