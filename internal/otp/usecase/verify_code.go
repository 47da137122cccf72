package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/mediflow/internal/otp/entity"
	"github.com/shandysiswandi/mediflow/internal/pkg/goerror"
	"github.com/shandysiswandi/mediflow/internal/pkg/validator"
)

type VerifyCodeInput struct {
	Identifier string `validate:"required,identifier"`
	// Code is checked by VerifyCode itself so a malformed code is rejected
	// like any other wrong code.
	Code string
}

type VerifyCodeOutput struct {
	Consumed bool
	Reason   string
	Record   *entity.Record
}

func rejected() *VerifyCodeOutput {
	return &VerifyCodeOutput{Reason: entity.ReasonInvalidOrExpired}
}

// VerifyCode consumes the newest valid record matching identifier and code.
// Consumption is a compare-and-set in the store, so of two concurrent calls
// with the same code at most one sees Consumed.
func (s *Usecase) VerifyCode(ctx context.Context, in VerifyCodeInput) (*VerifyCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyCode")
	defer span.End()

	in.Identifier = normalizeIdentifier(in.Identifier)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if !validator.IsOTPCode(in.Code) {
		s.metrics.Verified(ctx, entity.OutcomeMalformed)
		return rejected(), nil
	}

	codeHash, err := s.hmac.Hash(in.Code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "identifier", in.Identifier, "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()

	rec, err := s.repoStore.FindValid(ctx, in.Identifier, string(codeHash), now)
	if errors.Is(err, goerror.ErrNotFound) {
		s.metrics.Verified(ctx, entity.OutcomeRejected)
		slog.WarnContext(ctx, "otp record not found", "identifier", in.Identifier)
		return rejected(), nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo find valid", "identifier", in.Identifier, "error", err)
		return nil, goerror.NewServer(err)
	}

	ok, err := s.repoStore.MarkUsed(ctx, rec.ID, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo mark used", "record_id", rec.ID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !ok {
		s.metrics.Verified(ctx, entity.OutcomeRaceLost)
		slog.WarnContext(ctx, "otp record consumed concurrently", "record_id", rec.ID)
		return rejected(), nil
	}

	rec.Used = true
	rec.UsedAt = &now
	s.metrics.Verified(ctx, entity.OutcomeConsumed)

	return &VerifyCodeOutput{Consumed: true, Record: rec}, nil
}
