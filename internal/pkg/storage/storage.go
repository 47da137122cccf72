// Package storage writes and lists objects in S3, MinIO or Google Cloud
// Storage. The OTP janitor archives purged records through it.
package storage

import (
	"context"
	"io"
	"time"
)

// Storage is the object store used for audit archives.
type Storage interface {
	io.Closer
	PutObject(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error)
	// ListObjects returns at most limit objects under prefix. A limit of 0
	// means no limit.
	ListObjects(ctx context.Context, bucket, prefix string, limit int) ([]ObjectInfo, error)
}

type PutOptions struct {
	// Size is -1 when unknown.
	Size        int64
	ContentType string
	Metadata    map[string]string
}

type ObjectInfo struct {
	Bucket    string    `json:"bucket"`
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	ETag      string    `json:"etag,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
