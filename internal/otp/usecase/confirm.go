package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/mediflow/internal/pkg/goerror"
)

type ConfirmRecentVerificationInput struct {
	Identifier string `validate:"required,identifier"`
}

// ConfirmRecentVerification reports whether a code for identifier created
// within the last expiry period has been consumed. Registration uses it as
// proof of ownership without asking for another code.
func (s *Usecase) ConfirmRecentVerification(ctx context.Context, in ConfirmRecentVerificationInput) (bool, error) {
	ctx, span := s.startSpan(ctx, "ConfirmRecentVerification")
	defer span.End()

	in.Identifier = normalizeIdentifier(in.Identifier)
	if err := s.validator.Validate(in); err != nil {
		return false, goerror.NewInvalidInput(err)
	}

	since := s.clock.Now().Add(-s.expiry())

	ok, err := s.repoStore.HasVerifiedSince(ctx, in.Identifier, since)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo has verified since", "identifier", in.Identifier, "error", err)
		return false, goerror.NewServer(err)
	}

	return ok, nil
}
