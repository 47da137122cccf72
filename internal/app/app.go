package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	otpusecase "github.com/shandysiswandi/mediflow/internal/otp/usecase"
	"github.com/shandysiswandi/mediflow/internal/pkg/clock"
	"github.com/shandysiswandi/mediflow/internal/pkg/config"
	"github.com/shandysiswandi/mediflow/internal/pkg/goroutine"
	"github.com/shandysiswandi/mediflow/internal/pkg/hash"
	"github.com/shandysiswandi/mediflow/internal/pkg/idempotency"
	"github.com/shandysiswandi/mediflow/internal/pkg/instrument"
	"github.com/shandysiswandi/mediflow/internal/pkg/jwt"
	"github.com/shandysiswandi/mediflow/internal/pkg/mail"
	"github.com/shandysiswandi/mediflow/internal/pkg/messaging"
	"github.com/shandysiswandi/mediflow/internal/pkg/otp"
	"github.com/shandysiswandi/mediflow/internal/pkg/router"
	"github.com/shandysiswandi/mediflow/internal/pkg/storage"
	"github.com/shandysiswandi/mediflow/internal/pkg/uid"
	"github.com/shandysiswandi/mediflow/internal/pkg/validator"
	"go.mongodb.org/mongo-driver/mongo"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	uid       uid.NumberID
	uuid      uid.StringID
	otpGen    *otp.Generator
	jwt       jwt.JWT

	// resources
	dbConn      *pgxpool.Pool
	cacheConn   *redis.Client
	mongoClient *mongo.Client
	mongoDB     *mongo.Database
	idemp       idempotency.Idempotency
	mail        mail.Mail
	messaging   messaging.Messaging
	storage     storage.Storage

	// modules
	otpCore *otpusecase.Usecase

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initDocumentStore()
	app.initMail()
	app.initStorage()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
