package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shandysiswandi/mediflow/internal/otp/entity"
	"github.com/shandysiswandi/mediflow/internal/pkg/goerror"
	"github.com/shandysiswandi/mediflow/internal/pkg/storage"
)

const archivePrefix = "otp-records/"

type PurgeOutput struct {
	Before     time.Time
	Archived   int
	ArchiveKey string
	Deleted    int64
}

// archiveLine is one NDJSON line. Code hashes are left out of the archive.
type archiveLine struct {
	ID         int64      `json:"id,string"`
	Identifier string     `json:"identifier"`
	Used       bool       `json:"used"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	UsedAt     *time.Time `json:"used_at,omitempty"`
}

// PurgeExpired deletes records older than the retention horizon. When an
// archive bucket is configured they are written to object storage first, and
// nothing is deleted if the upload fails.
func (s *Usecase) PurgeExpired(ctx context.Context) (*PurgeOutput, error) {
	ctx, span := s.startSpan(ctx, "PurgeExpired")
	defer span.End()

	out := &PurgeOutput{Before: s.clock.Now().Add(-s.retention())}

	if bucket := s.cfg.GetString("otp.janitor.archive_bucket"); s.storage != nil && bucket != "" {
		archived, key, err := s.archive(ctx, bucket, out.Before)
		if err != nil {
			return nil, err
		}
		out.Archived, out.ArchiveKey = archived, key
	}

	deleted, err := s.repoStore.DeleteCreatedBefore(ctx, out.Before)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete created before", "before", out.Before, "error", err)
		return nil, goerror.NewServer(err)
	}
	out.Deleted = deleted

	if out.Deleted > 0 {
		slog.InfoContext(ctx, "otp records purged", "before", out.Before, "deleted", out.Deleted, "archived", out.Archived)
	}

	return out, nil
}

func (s *Usecase) archive(ctx context.Context, bucket string, before time.Time) (int, string, error) {
	batch := s.cfg.GetInt32("otp.janitor.batch_size")
	if batch <= 0 {
		batch = 500
	}

	var (
		buf     bytes.Buffer
		afterID int64
		count   int
	)
	enc := json.NewEncoder(&buf)

	for {
		records, err := s.repoStore.ListCreatedBefore(ctx, before, afterID, batch)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo list created before", "before", before, "after_id", afterID, "error", err)
			return 0, "", goerror.NewServer(err)
		}

		for _, r := range records {
			if err := enc.Encode(toArchiveLine(r)); err != nil {
				slog.ErrorContext(ctx, "failed to encode archive line", "record_id", r.ID, "error", err)
				return 0, "", goerror.NewServer(err)
			}
			afterID = r.ID
		}
		count += len(records)

		if len(records) < int(batch) {
			break
		}
	}

	if count == 0 {
		return 0, "", nil
	}

	key := fmt.Sprintf("%s%s/%s.ndjson", archivePrefix, before.UTC().Format("2006/01/02"), s.uuid.Generate())
	_, err := s.storage.PutObject(ctx, bucket, key, &buf, storage.PutOptions{
		Size:        int64(buf.Len()),
		ContentType: "application/x-ndjson",
		Metadata: map[string]string{
			"records": strconv.Itoa(count),
			"before":  before.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to put archive object", "bucket", bucket, "key", key, "error", err)
		return 0, "", goerror.NewServer(err)
	}

	return count, key, nil
}

func toArchiveLine(r entity.Record) archiveLine {
	return archiveLine{
		ID:         r.ID,
		Identifier: r.Identifier,
		Used:       r.Used,
		CreatedAt:  r.CreatedAt,
		ExpiresAt:  r.ExpiresAt,
		UsedAt:     r.UsedAt,
	}
}
