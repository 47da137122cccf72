// Package sms is the SMS gateway used by the delivery worker. The only
// gateway so far writes the message to the structured log with the code
// masked.
package sms

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shandysiswandi/mediflow/internal/pkg/instrument"
	"github.com/shandysiswandi/mediflow/internal/pkg/otp"
)

type Log struct {
	logger *slog.Logger
	ins    instrument.Instrumentation
}

// NewLog writes to logger, or to slog.Default when logger is nil.
func NewLog(logger *slog.Logger, ins instrument.Instrumentation) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger, ins: ins}
}

func (l *Log) SendOTP(ctx context.Context, phone, code string, ttl time.Duration) error {
	ctx, span := l.ins.Tracer("delivery.outbound.sms").Start(ctx, "SendOTP")
	defer span.End()

	text := fmt.Sprintf("%s is your Mediflow verification code. Valid for %d minutes.", otp.Mask(code), int(ttl.Round(time.Minute).Minutes()))
	l.logger.InfoContext(ctx, "sms dispatched", "channel", "sms", "to", phone, "text", text, "masked_code", otp.Mask(code))
	return nil
}

func (l *Log) SendText(ctx context.Context, phone, text string) error {
	ctx, span := l.ins.Tracer("delivery.outbound.sms").Start(ctx, "SendText")
	defer span.End()

	l.logger.InfoContext(ctx, "sms dispatched", "channel", "sms", "to", phone, "text", text)
	return nil
}
