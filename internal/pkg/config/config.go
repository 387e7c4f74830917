package config

import (
	"io"
	"time"
)

// Config reads typed values by dotted key ("log.level"). Missing keys return
// the zero value.
type Config interface {
	io.Closer

	GetBool(key string) bool
	GetInt(key string) int
	GetUint(key string) uint
	GetFloat64(key string) float64
	GetString(key string) string

	// GetDuration accepts Go duration strings ("30s") or integer seconds.
	GetDuration(key string) time.Duration

	// GetArray accepts a list or a comma separated string.
	GetArray(key string) []string
}
