package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/mediflow/internal/customer/entity"
	otpusecase "github.com/shandysiswandi/mediflow/internal/otp/usecase"
	"github.com/shandysiswandi/mediflow/internal/pkg/goerror"
	"github.com/shandysiswandi/mediflow/internal/pkg/validator"
)

type VerifyInput struct {
	Phone string
	OTP   string
}

type VerifyOutput struct {
	IsNewUser   bool
	Customer    *entity.Customer
	AccessToken string
}

// Verify consumes the code and tells the caller whether the phone belongs to
// an existing customer. Existing customers get an access token; new ones must
// register first.
func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (*VerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()

	in.Phone = strings.TrimSpace(in.Phone)
	in.OTP = strings.TrimSpace(in.OTP)

	if in.Phone == "" || in.OTP == "" {
		return nil, goerror.NewInvalidFormat("Phone and OTP are required.")
	}
	if !validator.IsPhone10(in.Phone) {
		return nil, goerror.NewInvalidFormat("Valid 10-digit phone number required.")
	}

	out, err := s.otp.VerifyCode(ctx, otpusecase.VerifyCodeInput{Identifier: in.Phone, Code: in.OTP})
	if err != nil {
		return nil, err
	}
	if !out.Consumed {
		slog.WarnContext(ctx, "otp verification rejected", "phone", in.Phone, "reason", out.Reason)
		return nil, goerror.NewBusiness("Invalid or expired OTP.", goerror.CodeInvalidFormat)
	}

	customer, err := s.repoDB.GetCustomerByPhone(ctx, in.Phone)
	if errors.Is(err, goerror.ErrNotFound) {
		return &VerifyOutput{IsNewUser: true}, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get customer by phone", "phone", in.Phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	token, err := s.jwt.Generate(customer.ID, customer.Phone)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access token", "customer_id", customer.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &VerifyOutput{Customer: customer, AccessToken: token}, nil
}
