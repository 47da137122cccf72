package inbound

import (
	"context"

	"github.com/shandysiswandi/mediflow/internal/delivery/usecase"
)

type uc interface {
	ConsumeOTPDelivery(ctx context.Context, in usecase.ConsumeOTPDeliveryInput) error
	ConsumeCustomerRegistered(ctx context.Context, in usecase.ConsumeCustomerRegisteredInput) error
}
