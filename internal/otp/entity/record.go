package entity

import "time"

// Record is one issued code. Records are never rewritten except for the
// single used=false to used=true transition.
type Record struct {
	ID         int64
	Identifier string
	CodeHash   string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	Used       bool
	UsedAt     *time.Time
}

// Valid reports whether the record can still be consumed at now.
func (r Record) Valid(now time.Time) bool {
	return !r.Used && r.ExpiresAt.After(now)
}

// Status is the lifecycle state shown on the admin attempts view.
type Status string

const (
	StatusPending  Status = "pending"
	StatusConsumed Status = "consumed"
	StatusExpired  Status = "expired"
)

func (r Record) Status(now time.Time) Status {
	switch {
	case r.Used:
		return StatusConsumed
	case !r.ExpiresAt.After(now):
		return StatusExpired
	default:
		return StatusPending
	}
}
