package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/mediflow/internal/otp/entity"
	"github.com/shandysiswandi/mediflow/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAttempts(t *testing.T) {
	f := newFixture(t, "otp:\n  admin:\n    list_limit: 2\n", false)
	ctx := context.Background()

	issue(t, f)
	f.advance(time.Minute)
	second := issue(t, f)
	f.advance(time.Minute)
	issue(t, f)

	_, err := f.uc.VerifyCode(ctx, VerifyCodeInput{Identifier: phone, Code: second})
	require.NoError(t, err)

	out, err := f.uc.ListAttempts(ctx, ListAttemptsInput{Identifier: phone, Limit: 10})
	require.NoError(t, err)
	require.Len(t, out.Attempts, 3)
	assert.Equal(t, entity.StatusPending, out.Attempts[0].Status)
	assert.Equal(t, entity.StatusConsumed, out.Attempts[1].Status)
	assert.NotNil(t, out.Attempts[1].UsedAt)

	f.advance(10 * time.Minute)

	out, err = f.uc.ListAttempts(ctx, ListAttemptsInput{Identifier: phone})
	require.NoError(t, err)
	assert.Equal(t, int32(2), out.Limit)
	require.Len(t, out.Attempts, 2)
	assert.Equal(t, entity.StatusExpired, out.Attempts[0].Status)
	assert.Equal(t, entity.StatusConsumed, out.Attempts[1].Status)
}

func TestListAttempts_Invalid(t *testing.T) {
	f := newFixture(t, "app:\n  name: test\n", false)

	_, err := f.uc.ListAttempts(context.Background(), ListAttemptsInput{Identifier: phone, Limit: 500})
	assert.True(t, goerror.HasCode(err, goerror.CodeInvalidInput))

	_, err = f.uc.ListAttempts(context.Background(), ListAttemptsInput{})
	assert.True(t, goerror.HasCode(err, goerror.CodeInvalidInput))
}
