package goroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManager_CollectsErrors(t *testing.T) {
	m := NewManager(4)
	ctx := context.Background()
	boom := errors.New("boom")

	var ran atomic.Int32
	assert.True(t, m.Go(ctx, "ok", func(context.Context) error { ran.Add(1); return nil }))
	assert.True(t, m.Go(ctx, "fail", func(context.Context) error { ran.Add(1); return boom }))
	assert.True(t, m.Go(ctx, "canceled", func(context.Context) error { ran.Add(1); return context.Canceled }))

	err := m.Wait()

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(3), ran.Load())
}

func TestManager_RecoversPanic(t *testing.T) {
	m := NewManager(1)

	m.Go(context.Background(), "panics", func(context.Context) error { panic("bad task") })

	assert.NoError(t, m.Wait())
}

func TestManager_ClosedAndFull(t *testing.T) {
	m := NewManager(1)
	ctx := context.Background()

	release := make(chan struct{})
	assert.True(t, m.Go(ctx, "blocker", func(context.Context) error { <-release; return nil }))
	assert.False(t, m.Go(ctx, "overflow", func(context.Context) error { return nil }))

	close(release)
	assert.NoError(t, m.Wait())
	assert.False(t, m.Go(ctx, "late", func(context.Context) error { return nil }))
}
