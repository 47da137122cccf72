package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/mediflow/internal/otp/entity"
	"github.com/shandysiswandi/mediflow/internal/pkg/goerror"
)

const maxListLimit = 100

type ListAttemptsInput struct {
	Identifier string `validate:"required,identifier"`
	Limit      int32  `validate:"gte=0,lte=100"`
}

// Attempt is the admin view of a record. The code hash is never exposed.
type Attempt struct {
	ID         int64
	Identifier string
	Status     entity.Status
	CreatedAt  time.Time
	ExpiresAt  time.Time
	UsedAt     *time.Time
}

type ListAttemptsOutput struct {
	Attempts []Attempt
	Limit    int32
}

func (s *Usecase) ListAttempts(ctx context.Context, in ListAttemptsInput) (*ListAttemptsOutput, error) {
	ctx, span := s.startSpan(ctx, "ListAttempts")
	defer span.End()

	in.Identifier = normalizeIdentifier(in.Identifier)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if in.Limit == 0 {
		in.Limit = min(s.cfg.GetInt32("otp.admin.list_limit"), maxListLimit)
	}

	records, err := s.repoStore.ListRecent(ctx, in.Identifier, in.Limit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list recent", "identifier", in.Identifier, "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()

	return &ListAttemptsOutput{
		Limit: in.Limit,
		Attempts: lo.Map(records, func(r entity.Record, _ int) Attempt {
			return Attempt{
				ID:         r.ID,
				Identifier: r.Identifier,
				Status:     r.Status(now),
				CreatedAt:  r.CreatedAt,
				ExpiresAt:  r.ExpiresAt,
				UsedAt:     r.UsedAt,
			}
		}),
	}, nil
}
