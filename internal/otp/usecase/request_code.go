package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/mediflow/internal/otp/entity"
	"github.com/shandysiswandi/mediflow/internal/pkg/goerror"
)

type RequestCodeInput struct {
	Identifier string `validate:"required,identifier"`
}

type RequestCodeOutput struct {
	Throttled bool
	ExpiresAt time.Time
}

// RequestCode issues a new code for the identifier unless the throttle
// refuses it. A refused request returns Throttled and no error.
func (s *Usecase) RequestCode(ctx context.Context, in RequestCodeInput) (*RequestCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "RequestCode")
	defer span.End()

	in.Identifier = normalizeIdentifier(in.Identifier)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	now := s.clock.Now()

	throttled, err := s.isThrottled(ctx, in.Identifier, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo count created since", "identifier", in.Identifier, "error", err)
		return nil, goerror.NewServer(err)
	}
	if throttled {
		s.metrics.Throttled(ctx)
		slog.WarnContext(ctx, "otp request throttled", "identifier", in.Identifier)
		return &RequestCodeOutput{Throttled: true}, nil
	}

	code, err := s.generator.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "identifier", in.Identifier, "error", err)
		return nil, goerror.NewServer(err)
	}

	codeHash, err := s.hmac.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "identifier", in.Identifier, "error", err)
		return nil, goerror.NewServer(err)
	}

	rec := entity.Record{
		ID:         s.uid.Generate(),
		Identifier: in.Identifier,
		CodeHash:   string(codeHash),
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.expiry()),
	}

	if err := s.repoStore.CreateRecord(ctx, rec); err != nil {
		slog.ErrorContext(ctx, "failed to repo create record", "identifier", in.Identifier, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoNotifier.Send(ctx, in.Identifier, code); err != nil {
		slog.ErrorContext(ctx, "failed to repo notifier send", "identifier", in.Identifier, "record_id", rec.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.metrics.Issued(ctx)

	return &RequestCodeOutput{ExpiresAt: rec.ExpiresAt}, nil
}
