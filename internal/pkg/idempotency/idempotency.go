// Package idempotency guards one-shot operations with a Redis state key, so
// concurrent duplicates of the same request run at most once.
package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrAlreadyInProgress = errors.New("operation already in progress")
	ErrAlreadyCompleted  = errors.New("operation already completed")
	ErrAlreadyFailed     = errors.New("operation already failed")
	ErrInvalidState      = errors.New("invalid state")
)

// State is the value stored under an idempotency key.
type State string

const (
	StateNone       State = "none"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// Idempotency runs fn once per key within the state TTL.
type Idempotency interface {
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

const (
	keyPrefix           = "idempotency:"
	defaultLockDuration = time.Minute
	defaultStateTTL     = time.Minute
)

type execOptions struct {
	lockDuration time.Duration
	stateTTL     time.Duration
	retryFailed  bool
}

type Option func(*execOptions)

// WithLockDuration bounds how long an in-progress marker lives if the
// process dies before finishing.
func WithLockDuration(d time.Duration) Option {
	return func(o *execOptions) {
		if d > 0 {
			o.lockDuration = d
		}
	}
}

// WithStateTTL sets how long the completed or failed marker is kept.
func WithStateTTL(d time.Duration) Option {
	return func(o *execOptions) {
		if d > 0 {
			o.stateTTL = d
		}
	}
}

// WithRetryFailed lets a key whose previous run failed be attempted again.
func WithRetryFailed() Option {
	return func(o *execOptions) { o.retryFailed = true }
}

// StateTracker implements Idempotency on a Redis client.
type StateTracker struct {
	client redis.UniversalClient
}

func New(client redis.UniversalClient) *StateTracker {
	return &StateTracker{client: client}
}

// acquire sets the in-progress marker if no marker exists and otherwise
// reports the existing state.
func (s *StateTracker) acquire(ctx context.Context, key string, lock time.Duration, retryFailed bool) (State, error) {
	ok, err := s.client.SetNX(ctx, key, string(StateInProgress), lock).Result()
	if err != nil {
		return "", err
	}
	if ok {
		return StateNone, nil
	}

	current, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET
		return s.acquire(ctx, key, lock, retryFailed)
	}
	if err != nil {
		return "", err
	}

	state := State(current)
	if state == StateFailed && retryFailed {
		swapped, err := s.client.SetArgs(ctx, key, string(StateInProgress), redis.SetArgs{
			Mode: "XX",
			TTL:  lock,
			Get:  true,
		}).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return "", err
		}
		if State(swapped) == StateFailed {
			return StateNone, nil
		}
		state = State(swapped)
	}

	return state, nil
}

// Exec runs fn unless another caller holds or finished the key.
func (s *StateTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	o := execOptions{lockDuration: defaultLockDuration, stateTTL: defaultStateTTL}
	for _, opt := range opts {
		opt(&o)
	}

	key = keyPrefix + key
	state, err := s.acquire(ctx, key, o.lockDuration, o.retryFailed)
	if err != nil {
		return err
	}

	switch state {
	case StateNone:
	case StateInProgress:
		return ErrAlreadyInProgress
	case StateCompleted:
		return ErrAlreadyCompleted
	case StateFailed:
		return ErrAlreadyFailed
	default:
		return ErrInvalidState
	}

	if err := fn(ctx); err != nil {
		if markErr := s.client.Set(ctx, key, string(StateFailed), o.stateTTL).Err(); markErr != nil {
			return errors.Join(err, markErr)
		}
		return err
	}

	return s.client.Set(ctx, key, string(StateCompleted), o.stateTTL).Err()
}
