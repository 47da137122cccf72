package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/mediflow/internal/customer/entity"
	otpusecase "github.com/shandysiswandi/mediflow/internal/otp/usecase"
	"github.com/shandysiswandi/mediflow/internal/pkg/goerror"
	"github.com/shandysiswandi/mediflow/internal/pkg/idempotency"
)

type RegisterInput struct {
	Phone  string `validate:"required,phone10"`
	Name   string `validate:"required,min=2,max=100,alphaspace"`
	Age    int16  `validate:"required,gte=1,lte=120"`
	Gender string `validate:"required,oneof=male female other"`
}

type RegisterOutput struct {
	Customer    *entity.Customer
	AccessToken string
}

var errDuplicatePhone = goerror.NewBusiness("User with this phone number already exists.", goerror.CodeConflict)

// Register creates the customer for a phone whose code was consumed within
// the last expiry period. Concurrent registrations of one phone run once.
func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Phone = strings.TrimSpace(in.Phone)
	in.Name = strings.TrimSpace(in.Name)
	in.Gender = strings.ToLower(strings.TrimSpace(in.Gender))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	var out *RegisterOutput
	err := s.idempotency.Exec(ctx, "customer:register:"+in.Phone, func(ctx context.Context) error {
		var err error
		out, err = s.register(ctx, in)
		return err
	}, idempotency.WithRetryFailed(), idempotency.WithLockDuration(s.cfg.GetSecond("customer.register_lock_seconds")))

	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, idempotency.ErrAlreadyInProgress):
		return nil, goerror.NewBusiness("Registration already in progress.", goerror.CodeConflict)
	case errors.Is(err, idempotency.ErrAlreadyCompleted):
		return nil, errDuplicatePhone
	}

	var gErr *goerror.Error
	if errors.As(err, &gErr) {
		return nil, err
	}
	if out != nil {
		slog.WarnContext(ctx, "failed to mark registration completed", "customer_id", out.Customer.ID, "error", err)
		return out, nil
	}

	slog.ErrorContext(ctx, "failed to exec idempotent registration", "phone", in.Phone, "error", err)
	return nil, goerror.NewServer(err)
}

func (s *Usecase) register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	verified, err := s.otp.ConfirmRecentVerification(ctx, otpusecase.ConfirmRecentVerificationInput{Identifier: in.Phone})
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, goerror.NewBusiness("Phone number not verified. Please complete OTP verification first.", goerror.CodeForbidden)
	}

	_, err = s.repoDB.GetCustomerByPhone(ctx, in.Phone)
	if err == nil {
		return nil, errDuplicatePhone
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get customer by phone", "phone", in.Phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	customer := entity.Customer{
		ID:        s.uid.Generate(),
		Phone:     in.Phone,
		Name:      in.Name,
		Age:       in.Age,
		Gender:    entity.Gender(in.Gender),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.repoDB.CreateCustomer(ctx, customer)
	if errors.Is(err, goerror.ErrConflict) {
		return nil, errDuplicatePhone
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create customer", "phone", in.Phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	token, err := s.jwt.Generate(customer.ID, customer.Phone)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access token", "customer_id", customer.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishCustomerRegistered(ctx, CustomerRegisteredEvent{
		CustomerID: customer.ID,
		Phone:      customer.Phone,
		Name:       customer.Name,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish customer registered", "customer_id", customer.ID, "error", err)
	}

	return &RegisterOutput{Customer: &customer, AccessToken: token}, nil
}
