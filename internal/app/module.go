package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/mediflow/internal/customer"
	"github.com/shandysiswandi/mediflow/internal/delivery"
	"github.com/shandysiswandi/mediflow/internal/otp"
)

func (a *App) initModules() {
	otpCore, err := otp.New(otp.Dependency{
		Ctx:        a.ctx,
		Router:     a.router,
		Goroutine:  a.goroutine,
		Config:     a.config,
		Instrument: a.ins,
		Generator:  a.otpGen,
		HMAC:       a.hmac,
		UID:        a.uid,
		UUID:       a.uuid,
		Clock:      a.clock,
		Validator:  a.validator,
		DBConn:     a.dbConn,
		MongoDB:    a.mongoDB,
		Messaging:  a.messaging,
		Mail:       a.mail,
		Storage:    a.storage,
	})
	if err != nil {
		slog.Error("failed to init module otp", "error", err)
		os.Exit(1)
	}
	a.otpCore = otpCore

	if a.config.GetBool("modules.customer.enabled") {
		if err := customer.New(customer.Dependency{
			DBConn:      a.dbConn,
			CacheConn:   a.cacheConn,
			Router:      a.router,
			OTP:         a.otpCore,
			Idempotency: a.idemp,
			Messaging:   a.messaging,
			Config:      a.config,
			Instrument:  a.ins,
			UID:         a.uid,
			Clock:       a.clock,
			Validator:   a.validator,
			JWT:         a.jwt,
		}); err != nil {
			slog.Error("failed to init module customer", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.delivery.enabled") {
		if err := delivery.New(delivery.Dependency{
			Ctx:        a.ctx,
			Messaging:  a.messaging,
			Mail:       a.mail,
			Config:     a.config,
			Instrument: a.ins,
			UUID:       a.uuid,
			Clock:      a.clock,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module delivery", "error", err)
			os.Exit(1)
		}
	}
}
