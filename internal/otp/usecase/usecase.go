package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shandysiswandi/mediflow/internal/otp/entity"
	"github.com/shandysiswandi/mediflow/internal/pkg/clock"
	"github.com/shandysiswandi/mediflow/internal/pkg/config"
	"github.com/shandysiswandi/mediflow/internal/pkg/hash"
	"github.com/shandysiswandi/mediflow/internal/pkg/instrument"
	"github.com/shandysiswandi/mediflow/internal/pkg/storage"
	"github.com/shandysiswandi/mediflow/internal/pkg/uid"
	"github.com/shandysiswandi/mediflow/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoStore interface {
	CreateRecord(ctx context.Context, rec entity.Record) error
	CountCreatedSince(ctx context.Context, identifier string, since time.Time) (int64, error)
	FindValid(ctx context.Context, identifier, codeHash string, now time.Time) (*entity.Record, error)
	MarkUsed(ctx context.Context, id int64, now time.Time) (bool, error)
	HasVerifiedSince(ctx context.Context, identifier string, since time.Time) (bool, error)
	ListRecent(ctx context.Context, identifier string, limit int32) ([]entity.Record, error)
	ListCreatedBefore(ctx context.Context, before time.Time, afterID int64, limit int32) ([]entity.Record, error)
	DeleteCreatedBefore(ctx context.Context, before time.Time) (int64, error)
}

type repoNotifier interface {
	Send(ctx context.Context, identifier, code string) error
}

type codeGenerator interface {
	Generate() (string, error)
}

type Usecase struct {
	repoStore    repoStore
	repoNotifier repoNotifier
	generator    codeGenerator
	hmac         hash.Hash
	uid          uid.NumberID
	uuid         uid.StringID
	clock        clock.Clocker
	validator    validator.Validator
	cfg          config.Config
	storage      storage.Storage
	ins          instrument.Instrumentation
	metrics      *instrument.OTPMetrics
}

type Dependency struct {
	RepoStore    repoStore
	RepoNotifier repoNotifier
	Generator    codeGenerator
	HMAC         hash.Hash
	UID          uid.NumberID
	UUID         uid.StringID
	Clock        clock.Clocker
	Validator    validator.Validator
	Config       config.Config
	// Storage is nil when archiving is disabled.
	Storage    storage.Storage
	Instrument instrument.Instrumentation
	Metrics    *instrument.OTPMetrics
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoStore:    dep.RepoStore,
		repoNotifier: dep.RepoNotifier,
		generator:    dep.Generator,
		hmac:         dep.HMAC,
		uid:          dep.UID,
		uuid:         dep.UUID,
		clock:        dep.Clock,
		validator:    dep.Validator,
		cfg:          dep.Config,
		storage:      dep.Storage,
		ins:          dep.Instrument,
		metrics:      dep.Metrics,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otp.usecase").Start(ctx, name)
}

func (s *Usecase) expiry() time.Duration {
	return s.cfg.GetMinute("otp.expiry_minutes")
}

// retention is how long a record must survive: long enough to count toward
// the throttle window and to be verified.
func (s *Usecase) retention() time.Duration {
	return max(s.cfg.GetHour("otp.throttle.window_hours"), s.expiry())
}

// normalizeIdentifier trims the identifier and lowercases email addresses so
// "A@x.io" and "a@x.io " share one throttle bucket.
func normalizeIdentifier(identifier string) string {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return strings.ToLower(identifier)
	}
	return identifier
}
