package inbound

import (
	"context"

	"github.com/shandysiswandi/mediflow/internal/customer/entity"
	"github.com/shandysiswandi/mediflow/internal/customer/usecase"
)

type uc interface {
	SendOTP(ctx context.Context, in usecase.SendOTPInput) (*usecase.SendOTPOutput, error)
	Verify(ctx context.Context, in usecase.VerifyInput) (*usecase.VerifyOutput, error)
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error)
	Me(ctx context.Context) (*entity.Customer, error)
}
