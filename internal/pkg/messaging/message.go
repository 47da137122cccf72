package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/shandysiswandi/mediflow/internal/pkg/stacktrace"
)

// message is the Message handed to handlers by every driver. ack and nack
// run at most once between them.
type message struct {
	body      []byte
	key       []byte
	headers   []Header
	topic     string
	timestamp time.Time
	ack       func() error
	nack      func() error
	responded atomic.Bool
}

func (m *message) Body() []byte         { return m.body }
func (m *message) Key() []byte          { return m.key }
func (m *message) Headers() []Header    { return m.headers }
func (m *message) Topic() string        { return m.topic }
func (m *message) Timestamp() time.Time { return m.timestamp }

func (m *message) Ack(ctx context.Context) error {
	return m.respond(ctx, m.ack)
}

func (m *message) Nack(ctx context.Context) error {
	return m.respond(ctx, m.nack)
}

func (m *message) respond(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.responded.Swap(true) || fn == nil {
		return nil
	}
	return fn()
}

// dispatch runs handler with panic recovery and settles the message when
// autoAck is set and the handler did not settle it itself.
func dispatch(ctx context.Context, driver string, handler Handler, msg *message, autoAck bool) error {
	herr := callHandler(ctx, driver, handler, msg)
	if !autoAck || msg.responded.Load() {
		return herr
	}

	if herr != nil {
		return msg.Nack(ctx)
	}
	return msg.Ack(ctx)
}

func callHandler(ctx context.Context, driver string, handler Handler, msg Message) (err error) {
	defer func() {
		rvr := recover()
		if rvr == nil {
			return
		}

		stack := debug.Stack()
		if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
			slog.ErrorContext(ctx, "panic in messaging handler", "driver", driver, "panic", rvr, "stack", paths)
		} else {
			slog.ErrorContext(ctx, "panic in messaging handler", "driver", driver, "panic", rvr, "stack", string(stack))
		}
		err = fmt.Errorf("messaging: panic in %s handler: %v", driver, rvr)
	}()

	return handler(ctx, msg)
}
