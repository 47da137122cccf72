package usecase

import (
	"context"

	"github.com/shandysiswandi/mediflow/internal/customer/entity"
	otpusecase "github.com/shandysiswandi/mediflow/internal/otp/usecase"
	"github.com/shandysiswandi/mediflow/internal/pkg/clock"
	"github.com/shandysiswandi/mediflow/internal/pkg/config"
	"github.com/shandysiswandi/mediflow/internal/pkg/idempotency"
	"github.com/shandysiswandi/mediflow/internal/pkg/instrument"
	"github.com/shandysiswandi/mediflow/internal/pkg/jwt"
	"github.com/shandysiswandi/mediflow/internal/pkg/uid"
	"github.com/shandysiswandi/mediflow/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	GetCustomerByPhone(ctx context.Context, phone string) (*entity.Customer, error)
	GetCustomerByID(ctx context.Context, id int64) (*entity.Customer, error)
	CreateCustomer(ctx context.Context, c entity.Customer) error
}

type repoMessaging interface {
	PublishCustomerRegistered(ctx context.Context, msg CustomerRegisteredEvent) error
}

type otpCore interface {
	RequestCode(ctx context.Context, in otpusecase.RequestCodeInput) (*otpusecase.RequestCodeOutput, error)
	VerifyCode(ctx context.Context, in otpusecase.VerifyCodeInput) (*otpusecase.VerifyCodeOutput, error)
	ConfirmRecentVerification(ctx context.Context, in otpusecase.ConfirmRecentVerificationInput) (bool, error)
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	otp           otpCore
	idempotency   idempotency.Idempotency
	jwt           jwt.JWT
	validator     validator.Validator
	uid           uid.NumberID
	clock         clock.Clocker
	cfg           config.Config
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	OTP           otpCore
	Idempotency   idempotency.Idempotency
	JWT           jwt.JWT
	Validator     validator.Validator
	UID           uid.NumberID
	Clock         clock.Clocker
	Config        config.Config
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		otp:           dep.OTP,
		idempotency:   dep.Idempotency,
		jwt:           dep.JWT,
		validator:     dep.Validator,
		uid:           dep.UID,
		clock:         dep.Clock,
		cfg:           dep.Config,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("customer.usecase").Start(ctx, name)
}
