package inbound

import (
	"time"

	"github.com/shandysiswandi/mediflow/internal/pkg/storage"
)

type Attempt struct {
	ID         string     `json:"id"`
	Identifier string     `json:"identifier"`
	Status     string     `json:"status" example:"pending"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	UsedAt     *time.Time `json:"used_at,omitempty"`
}

type ListAttemptsResponse struct {
	Attempts []Attempt `json:"attempts"`
	limit    int32
}

func (r ListAttemptsResponse) Meta() map[string]any {
	return map[string]any{"count": len(r.Attempts), "limit": r.limit}
}

type ListArchivesResponse struct {
	Bucket  string               `json:"bucket"`
	Objects []storage.ObjectInfo `json:"objects"`
}
