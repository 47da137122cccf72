package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shandysiswandi/mediflow/internal/otp/entity"
	"github.com/shandysiswandi/mediflow/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const phone = "9876543210"

func issue(t *testing.T, f *fixture) string {
	t.Helper()
	out, err := f.uc.RequestCode(context.Background(), RequestCodeInput{Identifier: phone})
	require.NoError(t, err)
	require.False(t, out.Throttled)
	return f.notifier.last()
}

func TestVerifyCode_ConsumesOnce(t *testing.T) {
	f := newFixture(t, "app:\n  name: test\n", false)
	ctx := context.Background()
	code := issue(t, f)

	out, err := f.uc.VerifyCode(ctx, VerifyCodeInput{Identifier: phone, Code: code})
	require.NoError(t, err)
	assert.True(t, out.Consumed)
	require.NotNil(t, out.Record)
	assert.Equal(t, phone, out.Record.Identifier)
	assert.True(t, out.Record.Used)
	assert.Equal(t, *f.now, *out.Record.UsedAt)

	out, err = f.uc.VerifyCode(ctx, VerifyCodeInput{Identifier: phone, Code: code})
	require.NoError(t, err)
	assert.False(t, out.Consumed)
	assert.Equal(t, entity.ReasonInvalidOrExpired, out.Reason)
	assert.Nil(t, out.Record)
}

func TestVerifyCode_Expired(t *testing.T) {
	f := newFixture(t, "app:\n  name: test\n", false)
	code := issue(t, f)

	f.advance(5 * time.Minute)

	out, err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{Identifier: phone, Code: code})
	require.NoError(t, err)
	assert.False(t, out.Consumed)
	assert.Equal(t, entity.ReasonInvalidOrExpired, out.Reason)
	assert.False(t, f.store.records[0].Used)
}

func TestVerifyCode_NoPriorRequest(t *testing.T) {
	f := newFixture(t, "app:\n  name: test\n", false)

	out, err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{Identifier: phone, Code: "123456"})
	require.NoError(t, err)
	assert.False(t, out.Consumed)
	assert.Equal(t, entity.ReasonInvalidOrExpired, out.Reason)
}

func TestVerifyCode_WrongIdentifier(t *testing.T) {
	f := newFixture(t, "app:\n  name: test\n", false)
	code := issue(t, f)

	out, err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{Identifier: "9000000001", Code: code})
	require.NoError(t, err)
	assert.False(t, out.Consumed)
}

func TestVerifyCode_MalformedSkipsStore(t *testing.T) {
	f := newFixture(t, "app:\n  name: test\n", false)

	for _, code := range []string{"12", "abcdef", "1234567", "", " 12345", "12345６"} {
		out, err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{Identifier: phone, Code: code})
		require.NoError(t, err, code)
		assert.False(t, out.Consumed, code)
		assert.Equal(t, entity.ReasonInvalidOrExpired, out.Reason, code)
	}

	assert.Zero(t, f.store.findCalls)
}

func TestVerifyCode_LostCompareAndSet(t *testing.T) {
	f := newFixture(t, "app:\n  name: test\n", false)
	code := issue(t, f)
	f.store.loseCAS = true

	out, err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{Identifier: phone, Code: code})
	require.NoError(t, err)
	assert.False(t, out.Consumed)
	assert.Equal(t, entity.ReasonInvalidOrExpired, out.Reason)
}

func TestVerifyCode_NewestRecordWins(t *testing.T) {
	f := newFixture(t, "app:\n  name: test\n", false)
	f.uc.generator = constGenerator("482913")

	issue(t, f)
	f.advance(time.Second)
	issue(t, f)

	out, err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{Identifier: phone, Code: "482913"})
	require.NoError(t, err)
	require.True(t, out.Consumed)
	assert.Equal(t, f.store.records[1].ID, out.Record.ID)
	assert.False(t, f.store.records[0].Used)
}

type constGenerator string

func (c constGenerator) Generate() (string, error) { return string(c), nil }

func TestVerifyCode_ConcurrentAttempts(t *testing.T) {
	f := newFixture(t, "app:\n  name: test\n", false)
	code := issue(t, f)

	var (
		wg       sync.WaitGroup
		consumed atomic.Int32
	)
	for range 16 {
		wg.Go(func() {
			out, err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{Identifier: phone, Code: code})
			if err == nil && out.Consumed {
				consumed.Add(1)
			}
		})
	}
	wg.Wait()

	assert.Equal(t, int32(1), consumed.Load())
}

func TestVerifyCode_Errors(t *testing.T) {
	f := newFixture(t, "app:\n  name: test\n", false)

	_, err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{Code: "123456"})
	assert.True(t, goerror.HasCode(err, goerror.CodeInvalidInput))

	f.store.err = errors.New("timeout")
	_, err = f.uc.VerifyCode(context.Background(), VerifyCodeInput{Identifier: phone, Code: "123456"})
	assert.True(t, goerror.HasCode(err, goerror.CodeInternal))
	assert.NotContains(t, err.Error(), "123456")
}
