package mq

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/shandysiswandi/mediflow/internal/customer/usecase"
	"github.com/shandysiswandi/mediflow/internal/pkg/instrument"
	"github.com/shandysiswandi/mediflow/internal/pkg/messaging"
	"github.com/shandysiswandi/mediflow/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishCustomerRegistered(ctx context.Context, msg usecase.CustomerRegisteredEvent) error {
	ctx, span := m.ins.Tracer("customer.outbound.mq").Start(ctx, "PublishCustomerRegistered")
	defer span.End()

	body, err := json.Marshal(event.CustomerRegisteredMessage{
		CustomerID: msg.CustomerID,
		Phone:      msg.Phone,
		Name:       msg.Name,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.CustomerRegisteredDestination, messaging.OutgoingMessage{
		Body:    body,
		Key:     []byte(strconv.FormatInt(msg.CustomerID, 10)),
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
