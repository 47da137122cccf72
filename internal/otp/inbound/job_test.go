package inbound

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/mediflow/internal/pkg/config"
	"github.com/shandysiswandi/mediflow/internal/pkg/goroutine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJanitor_SkipsOverlappingTick(t *testing.T) {
	uc := &stubUsecase{block: make(chan struct{})}
	j := NewJanitor(uc, fixedID("cid"), time.Minute)

	done := make(chan bool)
	go func() { done <- j.Tick(context.Background()) }()
	require.Eventually(t, j.running.Load, time.Second, time.Millisecond)

	assert.False(t, j.Tick(context.Background()))

	close(uc.block)
	assert.True(t, <-done)
	assert.Equal(t, 1, uc.purges)
	assert.False(t, j.running.Load())
}

func TestJanitor_ErrorDoesNotStop(t *testing.T) {
	uc := &stubUsecase{err: errors.New("db down")}
	j := NewJanitor(uc, fixedID("cid"), time.Minute)

	assert.True(t, j.Tick(context.Background()))
	assert.True(t, j.Tick(context.Background()))
	assert.Equal(t, 2, uc.purges)
}

func TestJanitor_Run(t *testing.T) {
	uc := &stubUsecase{}
	j := NewJanitor(uc, fixedID("cid"), 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := j.Run(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, uc.purges, 1)
}

func TestRegisterJanitor_Disabled(t *testing.T) {
	cfg, err := config.NewViperFromBytes("yaml", []byte("otp:\n  janitor:\n    interval_minutes: 0\n"))
	require.NoError(t, err)

	m := goroutine.NewManager(1)
	RegisterJanitor(context.Background(), cfg, m, fixedID("cid"), &stubUsecase{})

	assert.NoError(t, m.Wait())
}
