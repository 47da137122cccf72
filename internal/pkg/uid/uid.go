// Package uid generates identifiers: snowflake numbers for stored records
// and UUIDv7 strings for correlation ids, token ids and archive keys.
package uid

// NumberID generates sortable 64-bit identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates opaque string identifiers.
type StringID interface {
	Generate() string
}
