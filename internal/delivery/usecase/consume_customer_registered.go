package usecase

import (
	"context"
	"log/slog"
)

type ConsumeCustomerRegisteredInput struct {
	CustomerID int64  `validate:"required,gt=0"`
	Phone      string `validate:"required,phone10"`
	Name       string `validate:"required"`
}

func (s *Usecase) ConsumeCustomerRegistered(ctx context.Context, in ConsumeCustomerRegisteredInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeCustomerRegistered")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "customer_id", in.CustomerID, "error", err)
		return nil
	}

	text := "Welcome to Mediflow, " + in.Name + "! Your medicines are a tap away."
	if err := s.repoSMS.SendText(ctx, in.Phone, text); err != nil {
		slog.ErrorContext(ctx, "failed to repo sms send text", "customer_id", in.CustomerID, "error", err)
		return err
	}

	return nil
}
