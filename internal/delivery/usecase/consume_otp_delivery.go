package usecase

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/shandysiswandi/mediflow/internal/otp/outbound/notify"
	"github.com/shandysiswandi/mediflow/internal/pkg/otp"
	"github.com/shandysiswandi/mediflow/internal/pkg/validator"
)

type ConsumeOTPDeliveryInput struct {
	Identifier string    `validate:"required,identifier"`
	Code       string    `validate:"required,otpcode"`
	ExpiresAt  time.Time `validate:"required"`
}

// ConsumeOTPDelivery hands a queued code to its final channel. Malformed and
// already expired events are dropped; channel failures are returned so the
// broker redelivers.
func (s *Usecase) ConsumeOTPDelivery(ctx context.Context, in ConsumeOTPDeliveryInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeOTPDelivery")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "identifier", in.Identifier, "error", err)
		return nil
	}

	ttl := in.ExpiresAt.Sub(s.clock.Now())
	if ttl <= 0 {
		slog.WarnContext(ctx, "otp expired before delivery", "identifier", in.Identifier, "masked_code", otp.Mask(in.Code))
		return nil
	}

	if validator.IsEmail(in.Identifier) {
		minutes := int(math.Ceil(ttl.Minutes()))
		if err := s.repoMail.Send(ctx, notify.BuildMail(in.Identifier, in.Code, minutes)); err != nil {
			slog.ErrorContext(ctx, "failed to repo mail send", "identifier", in.Identifier, "error", err)
			return err
		}
		slog.InfoContext(ctx, "otp delivered", "channel", "mail", "identifier", in.Identifier, "masked_code", otp.Mask(in.Code))
		return nil
	}

	if err := s.repoSMS.SendOTP(ctx, in.Identifier, in.Code, ttl); err != nil {
		slog.ErrorContext(ctx, "failed to repo sms send otp", "identifier", in.Identifier, "error", err)
		return err
	}

	return nil
}
