package usecase

import (
	"context"
	"strings"
	"time"

	otpusecase "github.com/shandysiswandi/mediflow/internal/otp/usecase"
	"github.com/shandysiswandi/mediflow/internal/pkg/goerror"
	"github.com/shandysiswandi/mediflow/internal/pkg/validator"
)

type SendOTPInput struct {
	Phone string
}

type SendOTPOutput struct {
	ExpiresAt time.Time
}

func (s *Usecase) SendOTP(ctx context.Context, in SendOTPInput) (*SendOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "SendOTP")
	defer span.End()

	in.Phone = strings.TrimSpace(in.Phone)
	if !validator.IsPhone10(in.Phone) {
		return nil, goerror.NewInvalidFormat("Valid 10-digit phone number required.")
	}

	out, err := s.otp.RequestCode(ctx, otpusecase.RequestCodeInput{Identifier: in.Phone})
	if err != nil {
		return nil, err
	}
	if out.Throttled {
		return nil, goerror.NewBusiness("Too many OTP requests. Please try again later.", goerror.CodeTooManyRequest)
	}

	return &SendOTPOutput{ExpiresAt: out.ExpiresAt}, nil
}
