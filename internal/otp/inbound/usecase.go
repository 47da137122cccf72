package inbound

import (
	"context"

	"github.com/shandysiswandi/mediflow/internal/otp/usecase"
)

type ucJanitor interface {
	PurgeExpired(ctx context.Context) (*usecase.PurgeOutput, error)
}

type uc interface {
	ucJanitor

	ListAttempts(ctx context.Context, in usecase.ListAttemptsInput) (*usecase.ListAttemptsOutput, error)
	ListArchives(ctx context.Context, in usecase.ListArchivesInput) (*usecase.ListArchivesOutput, error)
}
