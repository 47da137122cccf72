package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/mediflow/internal/delivery/usecase"
	"github.com/shandysiswandi/mediflow/internal/pkg/instrument"
	"github.com/shandysiswandi/mediflow/internal/pkg/messaging"
	"github.com/shandysiswandi/mediflow/internal/pkg/uid"
	"github.com/shandysiswandi/mediflow/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, msg messaging.Message) context.Context {
	if cID := messaging.HeaderValue(msg, keyOfCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// OTPDelivery never logs the raw body: it carries the plain code.
func (h *MQHandler) OTPDelivery(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("delivery.inbound.mq").Start(ctx, "OTPDelivery")
	defer span.End()

	var payload event.OTPDeliveryMessage
	if err := json.Unmarshal(msg.Body(), &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of otp delivery", "topic", msg.Topic(), "error", err)
		return nil
	}

	slog.InfoContext(ctx, "consume: otp delivery", "identifier", payload.Identifier)

	if err := h.uc.ConsumeOTPDelivery(ctx, usecase.ConsumeOTPDeliveryInput{
		Identifier: payload.Identifier,
		Code:       payload.Code,
		ExpiresAt:  payload.ExpiresAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume otp delivery", "identifier", payload.Identifier, "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) CustomerRegistered(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("delivery.inbound.mq").Start(ctx, "CustomerRegistered")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: customer registered", "msg_body", string(body))

	var payload event.CustomerRegisteredMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of customer registered", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeCustomerRegistered(ctx, usecase.ConsumeCustomerRegisteredInput{
		CustomerID: payload.CustomerID,
		Phone:      payload.Phone,
		Name:       payload.Name,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume customer registered", "customer_id", payload.CustomerID, "error", err)
		return err
	}

	return nil
}
