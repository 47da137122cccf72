package messaging

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Memory delivers messages in-process to consumers of the same destination.
// It backs local development and tests. Messages published while nobody
// consumes are dropped. A nack puts the message back on its queue once.
type Memory struct {
	mu     sync.RWMutex
	queues map[string][]*memoryQueue
}

type memoryQueue struct {
	ch   chan *message
	done chan struct{}
}

func NewMemory() *Memory {
	return &Memory{queues: map[string][]*memoryQueue{}}
}

func (m *Memory) Close() error { return nil }

func (m *Memory) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := validatePublish(ctx, destination); err != nil {
		return PublishResult{}, err
	}

	m.mu.RLock()
	queues := slices.Clone(m.queues[destination])
	m.mu.RUnlock()

	now := time.Now()
	for _, q := range queues {
		out := &message{body: msg.Body, key: msg.Key, headers: msg.Headers, topic: destination, timestamp: now}
		out.nack = func() error {
			retry := &message{body: out.body, key: out.key, headers: out.headers, topic: out.topic, timestamp: now}
			select {
			case q.ch <- retry:
			default:
			}
			return nil
		}

		select {
		case q.ch <- out:
		case <-q.done:
		case <-ctx.Done():
			return PublishResult{}, ctx.Err()
		}
	}

	return PublishResult{Topic: destination, Timestamp: now}, nil
}

func (m *Memory) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(ctx, source, handler); err != nil {
		return err
	}
	co := newConsumeOptions(opts...)

	q := &memoryQueue{ch: make(chan *message, co.maxInFlight), done: make(chan struct{})}
	m.mu.Lock()
	m.queues[source] = append(m.queues[source], q)
	m.mu.Unlock()

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case msg := <-q.ch:
					_ = dispatch(ctx, "memory", handler, msg, co.autoAck)
				}
			}
		})
	}
	wg.Wait()

	close(q.done)
	m.mu.Lock()
	m.queues[source] = slices.DeleteFunc(m.queues[source], func(x *memoryQueue) bool { return x == q })
	m.mu.Unlock()

	return ctx.Err()
}

// Subscribed reports whether a consumer is attached to destination.
func (m *Memory) Subscribed(destination string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.queues[destination]) > 0
}
