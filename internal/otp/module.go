package otp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/mediflow/internal/otp/inbound"
	"github.com/shandysiswandi/mediflow/internal/otp/outbound/db"
	"github.com/shandysiswandi/mediflow/internal/otp/outbound/docdb"
	"github.com/shandysiswandi/mediflow/internal/otp/outbound/notify"
	"github.com/shandysiswandi/mediflow/internal/otp/usecase"
	"github.com/shandysiswandi/mediflow/internal/pkg/clock"
	"github.com/shandysiswandi/mediflow/internal/pkg/config"
	"github.com/shandysiswandi/mediflow/internal/pkg/goroutine"
	"github.com/shandysiswandi/mediflow/internal/pkg/hash"
	"github.com/shandysiswandi/mediflow/internal/pkg/instrument"
	"github.com/shandysiswandi/mediflow/internal/pkg/mail"
	"github.com/shandysiswandi/mediflow/internal/pkg/messaging"
	pkgotp "github.com/shandysiswandi/mediflow/internal/pkg/otp"
	"github.com/shandysiswandi/mediflow/internal/pkg/router"
	"github.com/shandysiswandi/mediflow/internal/pkg/storage"
	"github.com/shandysiswandi/mediflow/internal/pkg/uid"
	"github.com/shandysiswandi/mediflow/internal/pkg/validator"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
)

var ErrStoreUnavailable = errors.New("otp: selected record store is not connected")

type Dependency struct {
	Ctx        context.Context            `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Generator  *pkgotp.Generator          `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`

	// DBConn or MongoDB backs the record store, per otp.store.driver.
	DBConn  *pgxpool.Pool
	MongoDB *mongo.Database

	// Optional by delivery driver and archive settings.
	Messaging messaging.Messaging
	Mail      mail.Mail
	Storage   storage.Storage
}

// New wires the OTP module and returns its usecase for the customer module.
func New(dep Dependency) (*usecase.Usecase, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	notifier, err := notify.New(dep.Config.GetString("otp.delivery.driver"), notify.Dependency{
		Mail:       dep.Mail,
		Publisher:  dep.Messaging,
		Config:     dep.Config,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	})
	if err != nil {
		return nil, err
	}

	metrics, err := instrument.NewOTPMetrics(dep.Instrument)
	if err != nil {
		return nil, err
	}

	ucDep := usecase.Dependency{
		RepoNotifier: notifier,
		Generator:    dep.Generator,
		HMAC:         dep.HMAC,
		UID:          dep.UID,
		UUID:         dep.UUID,
		Clock:        dep.Clock,
		Validator:    dep.Validator,
		Config:       dep.Config,
		Storage:      dep.Storage,
		Instrument:   dep.Instrument,
		Metrics:      metrics,
	}

	switch driver := strings.ToLower(dep.Config.GetString("otp.store.driver")); driver {
	case "", StoreDriverPostgres:
		if dep.DBConn == nil {
			return nil, fmt.Errorf("%w: %s", ErrStoreUnavailable, StoreDriverPostgres)
		}
		ucDep.RepoStore = db.NewDB(dep.DBConn, dep.Instrument)

	case StoreDriverMongo:
		if dep.MongoDB == nil {
			return nil, fmt.Errorf("%w: %s", ErrStoreUnavailable, StoreDriverMongo)
		}
		docStore := docdb.NewDocDB(dep.MongoDB, dep.Instrument)
		if err := docStore.EnsureIndexes(dep.Ctx, Retention(dep.Config)); err != nil {
			return nil, err
		}
		ucDep.RepoStore = docStore

	default:
		return nil, fmt.Errorf("otp: unknown store driver %q", driver)
	}

	uc := usecase.New(ucDep)

	inbound.RegisterHTTPEndpoint(dep.Router, uc, router.AdminAllowlist(dep.Config.GetArray("admin.phones")))
	inbound.RegisterJanitor(dep.Ctx, dep.Config, dep.Goroutine, dep.UUID, uc)

	return uc, nil
}

// Retention is how long a record must be kept: the longer of the throttle
// window and the expiry.
func Retention(cfg config.Config) time.Duration {
	return max(cfg.GetHour("otp.throttle.window_hours"), cfg.GetMinute("otp.expiry_minutes"))
}
