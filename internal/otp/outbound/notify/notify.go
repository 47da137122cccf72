// Package notify delivers issued codes out of band. Every driver logs the
// code masked; only the payload sent to the user carries it in full.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shandysiswandi/mediflow/internal/pkg/clock"
	"github.com/shandysiswandi/mediflow/internal/pkg/config"
	"github.com/shandysiswandi/mediflow/internal/pkg/instrument"
	"github.com/shandysiswandi/mediflow/internal/pkg/mail"
	"github.com/shandysiswandi/mediflow/internal/pkg/messaging"
)

const (
	DriverConsole = "console"
	DriverMail    = "mail"
	DriverBroker  = "broker"
)

var (
	ErrUnknownDriver           = errors.New("notify: unknown driver")
	ErrUnsupportedIdentifier   = errors.New("notify: identifier not supported by this channel")
	ErrMissingDriverDependency = errors.New("notify: driver dependency is missing")
)

type Notifier interface {
	Send(ctx context.Context, identifier, code string) error
}

type Dependency struct {
	Mail       mail.Mail
	Publisher  messaging.Publisher
	Config     config.Config
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

// New returns the notifier selected by driver.
func New(driver string, dep Dependency) (Notifier, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverConsole:
		return NewConsole(nil), nil
	case DriverMail:
		if dep.Mail == nil {
			return nil, fmt.Errorf("%w: mail", ErrMissingDriverDependency)
		}
		return NewMail(dep.Mail, dep.Config, dep.Instrument), nil
	case DriverBroker:
		if dep.Publisher == nil {
			return nil, fmt.Errorf("%w: messaging", ErrMissingDriverDependency)
		}
		return NewBroker(dep.Publisher, dep.Config, dep.Clock, dep.Instrument), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
