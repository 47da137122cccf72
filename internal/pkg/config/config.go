package config

import (
	"io"
	"time"
)

// TimeConfig reads integer settings and scales them to a duration unit.
type TimeConfig interface {
	// GetSecond returns the value for key as a number of seconds.
	GetSecond(key string) time.Duration
	// GetMinute returns the value for key as a number of minutes.
	GetMinute(key string) time.Duration
	// GetHour returns the value for key as a number of hours.
	GetHour(key string) time.Duration
}

// Config is the read-only view of application settings.
//
// Missing keys yield the zero value of the requested type unless a default
// was registered for them.
type Config interface {
	io.Closer
	TimeConfig

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetUint16(key string) uint16
	GetFloat64(key string) float64

	// GetBinary returns the base64-decoded value for key, or nil.
	GetBinary(key string) []byte

	// GetArray splits a comma separated value and drops empty elements.
	GetArray(key string) []string
}
