package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/mediflow/internal/pkg/clock"
	"github.com/shandysiswandi/mediflow/internal/pkg/config"
	"github.com/shandysiswandi/mediflow/internal/pkg/instrument"
	"github.com/shandysiswandi/mediflow/internal/pkg/messaging"
	"github.com/shandysiswandi/mediflow/internal/pkg/otp"
	"github.com/shandysiswandi/mediflow/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

// Broker publishes the code to the delivery topic. The delivery worker picks
// the final channel.
type Broker struct {
	client messaging.Publisher
	cfg    config.Config
	clock  clock.Clocker
	ins    instrument.Instrumentation
}

func NewBroker(client messaging.Publisher, cfg config.Config, clk clock.Clocker, ins instrument.Instrumentation) *Broker {
	return &Broker{client: client, cfg: cfg, clock: clk, ins: ins}
}

func (b *Broker) Send(ctx context.Context, identifier, code string) error {
	ctx, span := b.ins.Tracer("otp.outbound.notify").Start(ctx, "Broker.Send")
	defer span.End()

	body, err := json.Marshal(event.OTPDeliveryMessage{
		Identifier: identifier,
		Code:       code,
		ExpiresAt:  b.clock.Now().Add(b.cfg.GetMinute("otp.expiry_minutes")),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := b.client.Publish(ctx, event.OTPDeliveryDestination, messaging.OutgoingMessage{
		Body:    body,
		Key:     []byte(identifier),
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	slog.InfoContext(ctx, "otp queued for delivery", "channel", DriverBroker, "identifier", identifier, "masked_code", otp.Mask(code))
	return nil
}
