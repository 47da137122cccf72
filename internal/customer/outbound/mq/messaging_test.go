package mq

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/mediflow/internal/customer/usecase"
	"github.com/shandysiswandi/mediflow/internal/pkg/instrument"
	"github.com/shandysiswandi/mediflow/internal/pkg/messaging"
	"github.com/shandysiswandi/mediflow/internal/shared/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessaging_PublishCustomerRegistered(t *testing.T) {
	broker := messaging.NewMemory()
	got := make(chan messaging.Message, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = broker.Consume(ctx, event.CustomerRegisteredDestination, func(_ context.Context, msg messaging.Message) error {
			got <- msg
			return nil
		}, messaging.WithAutoAck(true))
	}()
	require.Eventually(t, func() bool { return broker.Subscribed(event.CustomerRegisteredDestination) }, time.Second, 5*time.Millisecond)

	pub := NewMessaging(broker, instrument.NewNoop())
	pctx := instrument.SetCorrelationID(context.Background(), "cid-42")
	require.NoError(t, pub.PublishCustomerRegistered(pctx, usecase.CustomerRegisteredEvent{
		CustomerID: 1001,
		Phone:      "9876543210",
		Name:       "Asha Rao",
	}))

	select {
	case msg := <-got:
		assert.JSONEq(t, `{"customer_id":"1001","phone":"9876543210","name":"Asha Rao"}`, string(msg.Body()))
		assert.Equal(t, "cid-42", messaging.HeaderValue(msg, keyOfCorrelationID))
		assert.Equal(t, []byte("1001"), msg.Key())
	case <-time.After(time.Second):
		t.Fatal("event not published")
	}
}
