package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/mediflow/internal/customer/entity"
	otpusecase "github.com/shandysiswandi/mediflow/internal/otp/usecase"
	"github.com/shandysiswandi/mediflow/internal/pkg/clock"
	"github.com/shandysiswandi/mediflow/internal/pkg/config"
	"github.com/shandysiswandi/mediflow/internal/pkg/goerror"
	"github.com/shandysiswandi/mediflow/internal/pkg/idempotency"
	"github.com/shandysiswandi/mediflow/internal/pkg/instrument"
	"github.com/shandysiswandi/mediflow/internal/pkg/jwt"
	"github.com/shandysiswandi/mediflow/internal/pkg/validator"
	"github.com/stretchr/testify/require"
)

const phone = "9876543210"

type fakeOTP struct {
	throttled  bool
	consumed   bool
	verified   bool
	err        error
	verifyCall otpusecase.VerifyCodeInput
}

func (f *fakeOTP) RequestCode(_ context.Context, _ otpusecase.RequestCodeInput) (*otpusecase.RequestCodeOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.throttled {
		return &otpusecase.RequestCodeOutput{Throttled: true}, nil
	}
	return &otpusecase.RequestCodeOutput{ExpiresAt: time.Date(2026, 3, 1, 9, 5, 0, 0, time.UTC)}, nil
}

func (f *fakeOTP) VerifyCode(_ context.Context, in otpusecase.VerifyCodeInput) (*otpusecase.VerifyCodeOutput, error) {
	f.verifyCall = in
	if f.err != nil {
		return nil, f.err
	}
	if !f.consumed {
		return &otpusecase.VerifyCodeOutput{Reason: "invalid or expired"}, nil
	}
	return &otpusecase.VerifyCodeOutput{Consumed: true}, nil
}

func (f *fakeOTP) ConfirmRecentVerification(context.Context, otpusecase.ConfirmRecentVerificationInput) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.verified, nil
}

type fakeDB struct {
	mu        sync.Mutex
	customers map[string]entity.Customer
	err       error
	createErr error
}

func (f *fakeDB) GetCustomerByPhone(_ context.Context, phone string) (*entity.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.customers[phone]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &c, nil
}

func (f *fakeDB) GetCustomerByID(_ context.Context, id int64) (*entity.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.customers {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeDB) CreateCustomer(_ context.Context, c entity.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.customers[c.Phone]; ok {
		return goerror.ErrConflict
	}
	f.customers[c.Phone] = c
	return nil
}

type fakeMessaging struct {
	events []CustomerRegisteredEvent
	err    error
}

func (f *fakeMessaging) PublishCustomerRegistered(_ context.Context, msg CustomerRegisteredEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, msg)
	return nil
}

// memIdempotency keeps the state machine of idempotency.StateTracker in a map.
type memIdempotency struct {
	mu     sync.Mutex
	states map[string]idempotency.State
}

func (m *memIdempotency) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	m.mu.Lock()
	switch m.states[key] {
	case idempotency.StateInProgress:
		m.mu.Unlock()
		return idempotency.ErrAlreadyInProgress
	case idempotency.StateCompleted:
		m.mu.Unlock()
		return idempotency.ErrAlreadyCompleted
	}
	m.states[key] = idempotency.StateInProgress
	m.mu.Unlock()

	err := fn(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.states[key] = idempotency.StateFailed
		return err
	}
	m.states[key] = idempotency.StateCompleted
	return nil
}

type stubJWT struct{ err error }

func (s stubJWT) Generate(customerID int64, phone string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-" + phone, nil
}

func (stubJWT) Verify(string) (jwt.Claims, error) { return jwt.Claims{}, errors.New("not used") }

type fixedID int64

func (f fixedID) Generate() int64 { return int64(f) }

type fixture struct {
	uc   *Usecase
	otp  *fakeOTP
	db   *fakeDB
	mq   *fakeMessaging
	idem *memIdempotency
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("customer:\n  register_lock_seconds: 30\n"))
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	f := &fixture{
		otp:  &fakeOTP{},
		db:   &fakeDB{customers: map[string]entity.Customer{}},
		mq:   &fakeMessaging{},
		idem: &memIdempotency{states: map[string]idempotency.State{}},
	}

	f.uc = New(Dependency{
		RepoDB:        f.db,
		RepoMessaging: f.mq,
		OTP:           f.otp,
		Idempotency:   f.idem,
		JWT:           stubJWT{},
		Validator:     v,
		UID:           fixedID(1001),
		Clock:         clock.Func(func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }),
		Config:        cfg,
		Instrument:    instrument.NewNoop(),
	})
	return f
}

func msgOf(err error) string {
	var gErr *goerror.Error
	if errors.As(err, &gErr) {
		return gErr.Msg()
	}
	return ""
}
