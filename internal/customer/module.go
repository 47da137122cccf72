package customer

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/mediflow/internal/customer/inbound"
	"github.com/shandysiswandi/mediflow/internal/customer/outbound/db"
	"github.com/shandysiswandi/mediflow/internal/customer/outbound/mq"
	"github.com/shandysiswandi/mediflow/internal/customer/usecase"
	otpusecase "github.com/shandysiswandi/mediflow/internal/otp/usecase"
	"github.com/shandysiswandi/mediflow/internal/pkg/clock"
	"github.com/shandysiswandi/mediflow/internal/pkg/config"
	"github.com/shandysiswandi/mediflow/internal/pkg/idempotency"
	"github.com/shandysiswandi/mediflow/internal/pkg/instrument"
	"github.com/shandysiswandi/mediflow/internal/pkg/jwt"
	"github.com/shandysiswandi/mediflow/internal/pkg/messaging"
	"github.com/shandysiswandi/mediflow/internal/pkg/ratelimit"
	"github.com/shandysiswandi/mediflow/internal/pkg/router"
	"github.com/shandysiswandi/mediflow/internal/pkg/uid"
	"github.com/shandysiswandi/mediflow/internal/pkg/validator"
)

type Dependency struct {
	DBConn      *pgxpool.Pool              `validate:"required"`
	CacheConn   *redis.Client              `validate:"required"`
	Router      *router.Router             `validate:"required"`
	OTP         *otpusecase.Usecase        `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Messaging   messaging.Messaging        `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
	JWT         jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:        db.NewDB(dep.DBConn, dep.Instrument),
		RepoMessaging: mq.NewMessaging(dep.Messaging, dep.Instrument),
		OTP:           dep.OTP,
		Idempotency:   dep.Idempotency,
		JWT:           dep.JWT,
		Validator:     dep.Validator,
		UID:           dep.UID,
		Clock:         dep.Clock,
		Config:        dep.Config,
		Instrument:    dep.Instrument,
	})

	limiter := ratelimit.NewRedis(dep.CacheConn, "ratelimit:auth:",
		dep.Config.GetInt("ratelimit.auth.limit"),
		dep.Config.GetMinute("ratelimit.auth.period_minutes"),
	)

	inbound.RegisterHTTPEndpoint(dep.Router, uc, router.RateLimit(limiter))

	return nil
}
