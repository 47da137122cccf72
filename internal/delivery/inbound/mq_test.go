package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/mediflow/internal/delivery/usecase"
	"github.com/shandysiswandi/mediflow/internal/pkg/config"
	"github.com/shandysiswandi/mediflow/internal/pkg/goroutine"
	"github.com/shandysiswandi/mediflow/internal/pkg/instrument"
	"github.com/shandysiswandi/mediflow/internal/pkg/messaging"
	"github.com/shandysiswandi/mediflow/internal/shared/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsecase struct {
	mu         sync.Mutex
	deliveries []usecase.ConsumeOTPDeliveryInput
	registered []usecase.ConsumeCustomerRegisteredInput
	cIDs       []string
	err        error
}

func (s *stubUsecase) ConsumeOTPDelivery(ctx context.Context, in usecase.ConsumeOTPDeliveryInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveries = append(s.deliveries, in)
	s.cIDs = append(s.cIDs, instrument.GetCorrelationID(ctx))
	return s.err
}

func (s *stubUsecase) ConsumeCustomerRegistered(ctx context.Context, in usecase.ConsumeCustomerRegisteredInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registered = append(s.registered, in)
	s.cIDs = append(s.cIDs, instrument.GetCorrelationID(ctx))
	return s.err
}

func (s *stubUsecase) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deliveries), len(s.registered)
}

type fixedID string

func (f fixedID) Generate() string { return string(f) }

type stubMessage struct {
	messaging.Message
	body    []byte
	headers []messaging.Header
}

func (m stubMessage) Body() []byte                { return m.body }
func (m stubMessage) Headers() []messaging.Header { return m.headers }
func (m stubMessage) Topic() string               { return event.OTPDeliveryDestination }

func TestRegisterMQConsumer(t *testing.T) {
	cfg, err := config.NewViperFromBytes("yaml", []byte(
		"modules:\n  delivery:\n    consumer_names: otp_delivery_dispatch,customer_registered_welcome\n"))
	require.NoError(t, err)

	broker := messaging.NewMemory()
	routine := goroutine.NewManager(4)
	uc := &stubUsecase{}

	ctx, cancel := context.WithCancel(context.Background())
	RegisterMQConsumer(ctx, cfg, routine, broker, fixedID("cid-generated"), uc, instrument.NewNoop())

	require.Eventually(t, func() bool {
		return broker.Subscribed(event.OTPDeliveryDestination) && broker.Subscribed(event.CustomerRegisteredDestination)
	}, time.Second, 5*time.Millisecond)

	expires := time.Date(2026, 3, 1, 9, 5, 0, 0, time.UTC)
	body, err := json.Marshal(event.OTPDeliveryMessage{Identifier: "9876543210", Code: "482913", ExpiresAt: expires})
	require.NoError(t, err)
	_, err = broker.Publish(ctx, event.OTPDeliveryDestination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte("cid-upstream")}},
	})
	require.NoError(t, err)

	_, err = broker.Publish(ctx, event.CustomerRegisteredDestination, messaging.OutgoingMessage{
		Body: []byte(`{"customer_id":"1001","phone":"9876543210","name":"Asha Rao"}`),
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		d, r := uc.counts()
		return d == 1 && r == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, routine.Wait())

	assert.Equal(t, usecase.ConsumeOTPDeliveryInput{Identifier: "9876543210", Code: "482913", ExpiresAt: expires}, uc.deliveries[0])
	assert.Equal(t, usecase.ConsumeCustomerRegisteredInput{CustomerID: 1001, Phone: "9876543210", Name: "Asha Rao"}, uc.registered[0])
	assert.ElementsMatch(t, []string{"cid-upstream", "cid-generated"}, uc.cIDs)
}

func TestRegisterMQConsumer_DisabledByConfig(t *testing.T) {
	cfg, err := config.NewViperFromBytes("yaml", []byte("modules: {}"))
	require.NoError(t, err)

	broker := messaging.NewMemory()
	routine := goroutine.NewManager(4)

	RegisterMQConsumer(context.Background(), cfg, routine, broker, fixedID("cid"), &stubUsecase{}, instrument.NewNoop())
	require.NoError(t, routine.Wait())

	assert.False(t, broker.Subscribed(event.OTPDeliveryDestination))
}

func TestMQHandler_OTPDelivery(t *testing.T) {
	uc := &stubUsecase{}
	h := &MQHandler{uc: uc, uuid: fixedID("cid"), ins: instrument.NewNoop()}

	// unparsable bodies are dropped
	require.NoError(t, h.OTPDelivery(context.Background(), stubMessage{body: []byte("{")}))
	d, _ := uc.counts()
	assert.Zero(t, d)

	uc.err = errors.New("smtp down")
	err := h.OTPDelivery(context.Background(), stubMessage{body: []byte(`{"identifier":"a@b.io","code":"482913"}`)})
	assert.ErrorIs(t, err, uc.err)
}
