package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/mediflow/internal/customer/entity"
	"github.com/shandysiswandi/mediflow/internal/pkg/goerror"
	"github.com/shandysiswandi/mediflow/internal/pkg/jwt"
)

func (s *Usecase) Me(ctx context.Context) (*entity.Customer, error) {
	ctx, span := s.startSpan(ctx, "Me")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	customer, err := s.repoDB.GetCustomerByID(ctx, clm.CustomerID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Customer not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get customer by id", "customer_id", clm.CustomerID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return customer, nil
}
