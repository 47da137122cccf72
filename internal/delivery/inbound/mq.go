package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/mediflow/internal/pkg/config"
	"github.com/shandysiswandi/mediflow/internal/pkg/goroutine"
	"github.com/shandysiswandi/mediflow/internal/pkg/instrument"
	"github.com/shandysiswandi/mediflow/internal/pkg/messaging"
	"github.com/shandysiswandi/mediflow/internal/pkg/uid"
	"github.com/shandysiswandi/mediflow/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.delivery.consumer_names")

	var consumers = []struct {
		name               string
		topic              string // destination where publisher sent message
		nsqConsumerName    string // for nsq
		natsConsumerName   string // for nats
		kafkaConsumerName  string // for kafka
		pubsubConsumerName string // for google pubsub
		handler            messaging.Handler
	}{
		{
			name:               event.OTPDeliveryConsumerDispatch,
			topic:              event.OTPDeliveryDestination,
			nsqConsumerName:    event.OTPDeliveryConsumerDispatch,
			natsConsumerName:   event.OTPDeliveryConsumerDispatch,
			kafkaConsumerName:  event.OTPDeliveryConsumerDispatch,
			pubsubConsumerName: event.OTPDeliveryConsumerDispatch,
			handler:            mqHandler.OTPDelivery,
		},
		{
			name:               event.CustomerRegisteredConsumerWelcome,
			topic:              event.CustomerRegisteredDestination,
			nsqConsumerName:    event.CustomerRegisteredConsumerWelcome,
			natsConsumerName:   event.CustomerRegisteredConsumerWelcome,
			kafkaConsumerName:  event.CustomerRegisteredConsumerWelcome,
			pubsubConsumerName: event.CustomerRegisteredConsumerWelcome,
			handler:            mqHandler.CustomerRegistered,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && slices.Contains(enableConsumerNames, consumer.name) {
			routine.Go(ctx, consumer.name, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
				return messenger.Consume(pCtx,
					consumer.topic,
					consumer.handler,
					messaging.WithChannel(consumer.nsqConsumerName),
					messaging.WithQueueGroup(consumer.natsConsumerName),
					messaging.WithGroup(consumer.kafkaConsumerName),
					messaging.WithSubscription(consumer.pubsubConsumerName),
					messaging.WithAutoAck(true),
					messaging.WithConcurrency(10),
					messaging.WithMaxInFlight(10),
				)
			})
		}
	}
}
