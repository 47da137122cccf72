package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/mediflow/internal/pkg/goerror"
	"github.com/shandysiswandi/mediflow/internal/pkg/storage"
)

type ListArchivesInput struct {
	Limit int32 `validate:"gte=0,lte=100"`
}

type ListArchivesOutput struct {
	Bucket  string
	Objects []storage.ObjectInfo
}

// ListArchives lists the NDJSON archives written by PurgeExpired.
func (s *Usecase) ListArchives(ctx context.Context, in ListArchivesInput) (*ListArchivesOutput, error) {
	ctx, span := s.startSpan(ctx, "ListArchives")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	bucket := s.cfg.GetString("otp.janitor.archive_bucket")
	if s.storage == nil || bucket == "" {
		return nil, goerror.NewBusiness("Archive storage is not configured", goerror.CodeUnavailable)
	}

	limit := in.Limit
	if limit == 0 {
		limit = min(s.cfg.GetInt32("otp.admin.list_limit"), maxListLimit)
	}

	objects, err := s.storage.ListObjects(ctx, bucket, archivePrefix, int(limit))
	if err != nil {
		slog.ErrorContext(ctx, "failed to list archive objects", "bucket", bucket, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ListArchivesOutput{Bucket: bucket, Objects: objects}, nil
}
