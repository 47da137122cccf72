package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shandysiswandi/mediflow/internal/pkg/config"
	"github.com/shandysiswandi/mediflow/internal/pkg/instrument"
	"github.com/shandysiswandi/mediflow/internal/pkg/mail"
	"github.com/shandysiswandi/mediflow/internal/pkg/otp"
	"github.com/shandysiswandi/mediflow/internal/pkg/validator"
	"go.opentelemetry.io/otel/codes"
)

const mailSubject = "Your Mediflow verification code"

// Mail sends the code by email. Phone identifiers are refused.
type Mail struct {
	client mail.Mail
	cfg    config.Config
	ins    instrument.Instrumentation
}

func NewMail(client mail.Mail, cfg config.Config, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, cfg: cfg, ins: ins}
}

func (m *Mail) Send(ctx context.Context, identifier, code string) error {
	ctx, span := m.ins.Tracer("otp.outbound.notify").Start(ctx, "Mail.Send")
	defer span.End()

	if !validator.IsEmail(identifier) {
		span.SetStatus(codes.Error, ErrUnsupportedIdentifier.Error())
		return ErrUnsupportedIdentifier
	}

	msg := BuildMail(identifier, code, int(m.cfg.GetMinute("otp.expiry_minutes").Minutes()))
	if err := m.client.Send(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	slog.InfoContext(ctx, "otp delivered", "channel", DriverMail, "identifier", identifier, "masked_code", otp.Mask(code))
	return nil
}

// BuildMail renders the code email. The delivery worker sends the same
// message for broker events.
func BuildMail(to, code string, expiryMinutes int) mail.Message {
	return mail.Message{
		To:       []string{to},
		Subject:  mailSubject,
		TextBody: fmt.Sprintf("Your Mediflow verification code is %s. It expires in %d minutes. Do not share it with anyone.", code, expiryMinutes),
		HTMLBody: fmt.Sprintf("<p>Your Mediflow verification code is <strong>%s</strong>.</p><p>It expires in %d minutes. Do not share it with anyone.</p>", code, expiryMinutes),
	}
}
