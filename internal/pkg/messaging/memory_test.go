package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startConsumer(t *testing.T, m *Memory, topic string, handler Handler) (stop func()) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Consume(ctx, topic, handler, WithAutoAck(true)) }()

	require.Eventually(t, func() bool { return m.Subscribed(topic) }, time.Second, 5*time.Millisecond)

	return func() {
		cancel()
		assert.ErrorIs(t, <-done, context.Canceled)
	}
}

func TestMemory_PublishConsume(t *testing.T) {
	m := NewMemory()
	got := make(chan Message, 1)

	stop := startConsumer(t, m, "otp_delivery", func(_ context.Context, msg Message) error {
		got <- msg
		return nil
	})
	defer stop()

	_, err := m.Publish(context.Background(), "otp_delivery", OutgoingMessage{
		Body:    []byte(`{"identifier":"a@b.co"}`),
		Headers: []Header{{Key: "cID", Value: []byte("cid-1")}},
	})
	require.NoError(t, err)

	select {
	case msg := <-got:
		assert.JSONEq(t, `{"identifier":"a@b.co"}`, string(msg.Body()))
		assert.Equal(t, "cid-1", HeaderValue(msg, "cID"))
		assert.Equal(t, "otp_delivery", msg.Topic())
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}
}

func TestMemory_NackRedelivers(t *testing.T) {
	m := NewMemory()

	var mu sync.Mutex
	attempts := 0
	delivered := make(chan struct{})

	stop := startConsumer(t, m, "t", func(context.Context, Message) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts == 1 {
			return errors.New("transient")
		}
		close(delivered)
		return nil
	})
	defer stop()

	_, err := m.Publish(context.Background(), "t", OutgoingMessage{Body: []byte("x")})
	require.NoError(t, err)

	select {
	case <-delivered:
	case <-time.After(time.Second):
		t.Fatal("message not redelivered")
	}
}

func TestMemory_PanicIsRecovered(t *testing.T) {
	m := NewMemory()
	calls := make(chan struct{}, 2)

	stop := startConsumer(t, m, "p", func(context.Context, Message) error {
		calls <- struct{}{}
		panic("handler bug")
	})
	defer stop()

	_, err := m.Publish(context.Background(), "p", OutgoingMessage{Body: []byte("x")})
	require.NoError(t, err)

	<-calls
	<-calls
}

func TestValidation(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Publish(ctx, "", OutgoingMessage{})
	assert.ErrorIs(t, err, ErrDestinationRequired)

	assert.ErrorIs(t, m.Consume(ctx, "t", nil), ErrHandlerRequired)

	_, err = NewFromDriver(ctx, "rabbit", FactoryOptions{})
	assert.ErrorIs(t, err, ErrUnknownDriver)

	_, err = NewFromDriver(ctx, DriverKafka, FactoryOptions{})
	assert.ErrorIs(t, err, ErrKafkaBrokersRequired)
}

func TestMessage_SettlesOnce(t *testing.T) {
	acks, nacks := 0, 0
	msg := &message{
		ack:  func() error { acks++; return nil },
		nack: func() error { nacks++; return nil },
	}

	ctx := context.Background()
	require.NoError(t, msg.Ack(ctx))
	require.NoError(t, msg.Nack(ctx))
	require.NoError(t, msg.Ack(ctx))

	assert.Equal(t, 1, acks)
	assert.Equal(t, 0, nacks)
}
