package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/mediflow/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmRecentVerification(t *testing.T) {
	f := newFixture(t, "app:\n  name: test\n", false)
	ctx := context.Background()
	in := ConfirmRecentVerificationInput{Identifier: phone}

	ok, err := f.uc.ConfirmRecentVerification(ctx, in)
	require.NoError(t, err)
	assert.False(t, ok, "no record yet")

	code := issue(t, f)

	ok, err = f.uc.ConfirmRecentVerification(ctx, in)
	require.NoError(t, err)
	assert.False(t, ok, "issued but not consumed")

	f.advance(2 * time.Minute)
	out, err := f.uc.VerifyCode(ctx, VerifyCodeInput{Identifier: phone, Code: code})
	require.NoError(t, err)
	require.True(t, out.Consumed)

	ok, err = f.uc.ConfirmRecentVerification(ctx, in)
	require.NoError(t, err)
	assert.True(t, ok)

	// the window is measured from the record's creation time
	f.advance(3*time.Minute + time.Second)

	ok, err = f.uc.ConfirmRecentVerification(ctx, in)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfirmRecentVerification_Errors(t *testing.T) {
	f := newFixture(t, "app:\n  name: test\n", false)

	_, err := f.uc.ConfirmRecentVerification(context.Background(), ConfirmRecentVerificationInput{Identifier: "x"})
	assert.True(t, goerror.HasCode(err, goerror.CodeInvalidInput))

	f.store.err = errors.New("no route to host")
	_, err = f.uc.ConfirmRecentVerification(context.Background(), ConfirmRecentVerificationInput{Identifier: phone})
	assert.True(t, goerror.HasCode(err, goerror.CodeInternal))
}
