package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/mediflow/internal/customer/entity"
	"github.com/shandysiswandi/mediflow/internal/pkg/goerror"
	"github.com/shandysiswandi/mediflow/internal/pkg/idempotency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegister() RegisterInput {
	return RegisterInput{Phone: phone, Name: " Asha Rao ", Age: 34, Gender: "Female"}
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	f.otp.verified = true

	out, err := f.uc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	assert.Equal(t, int64(1001), out.Customer.ID)
	assert.Equal(t, "Asha Rao", out.Customer.Name)
	assert.Equal(t, entity.GenderFemale, out.Customer.Gender)
	assert.Equal(t, "token-"+phone, out.AccessToken)
	assert.Equal(t, []CustomerRegisteredEvent{{CustomerID: 1001, Phone: phone, Name: "Asha Rao"}}, f.mq.events)
	assert.Contains(t, f.db.customers, phone)

	// a replay inside the state TTL is answered from the idempotency marker
	_, err = f.uc.Register(context.Background(), validRegister())
	assert.True(t, goerror.HasCode(err, goerror.CodeConflict))
	assert.Equal(t, "User with this phone number already exists.", msgOf(err))
}

func TestRegister_NotVerifiedCanRetry(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Register(context.Background(), validRegister())
	assert.True(t, goerror.HasCode(err, goerror.CodeForbidden))
	assert.Equal(t, "Phone number not verified. Please complete OTP verification first.", msgOf(err))
	assert.Equal(t, idempotency.StateFailed, f.idem.states["customer:register:"+phone])

	f.otp.verified = true
	_, err = f.uc.Register(context.Background(), validRegister())
	require.NoError(t, err)
}

func TestRegister_Errors(t *testing.T) {
	tests := []struct {
		name     string
		in       func() RegisterInput
		setup    func(*fixture)
		wantCode goerror.Code
		wantMsg  string
	}{
		{
			name:     "validation",
			in:       func() RegisterInput { in := validRegister(); in.Age = 0; in.Gender = "robot"; return in },
			wantCode: goerror.CodeInvalidInput,
			wantMsg:  "Validation error",
		},
		{
			name:     "existing customer",
			setup:    func(f *fixture) { f.db.customers[phone] = entity.Customer{ID: 9, Phone: phone} },
			wantCode: goerror.CodeConflict,
			wantMsg:  "User with this phone number already exists.",
		},
		{
			name:     "unique violation on insert",
			setup:    func(f *fixture) { f.db.createErr = goerror.ErrConflict },
			wantCode: goerror.CodeConflict,
			wantMsg:  "User with this phone number already exists.",
		},
		{
			name:     "insert failure",
			setup:    func(f *fixture) { f.db.createErr = errors.New("disk full") },
			wantCode: goerror.CodeInternal,
			wantMsg:  "Internal server error",
		},
		{
			name: "in progress",
			setup: func(f *fixture) {
				f.idem.states["customer:register:"+phone] = idempotency.StateInProgress
			},
			wantCode: goerror.CodeConflict,
			wantMsg:  "Registration already in progress.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.otp.verified = true
			if tt.setup != nil {
				tt.setup(f)
			}
			in := validRegister()
			if tt.in != nil {
				in = tt.in()
			}

			out, err := f.uc.Register(context.Background(), in)
			assert.Nil(t, out)
			assert.True(t, goerror.HasCode(err, tt.wantCode), err)
			assert.Equal(t, tt.wantMsg, msgOf(err))
		})
	}
}

func TestRegister_PublishFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.otp.verified = true
	f.mq.err = errors.New("broker down")

	out, err := f.uc.Register(context.Background(), validRegister())
	require.NoError(t, err)
	assert.NotNil(t, out.Customer)
}
