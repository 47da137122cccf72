package usecase

import (
	"bytes"
	"context"
	"io"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shandysiswandi/mediflow/internal/otp/entity"
	"github.com/shandysiswandi/mediflow/internal/pkg/clock"
	"github.com/shandysiswandi/mediflow/internal/pkg/config"
	"github.com/shandysiswandi/mediflow/internal/pkg/goerror"
	"github.com/shandysiswandi/mediflow/internal/pkg/hash"
	"github.com/shandysiswandi/mediflow/internal/pkg/instrument"
	"github.com/shandysiswandi/mediflow/internal/pkg/otp"
	"github.com/shandysiswandi/mediflow/internal/pkg/storage"
	"github.com/shandysiswandi/mediflow/internal/pkg/validator"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu        sync.Mutex
	records   []entity.Record
	err       error
	loseCAS   bool
	findCalls int
}

func (m *memStore) CreateRecord(_ context.Context, rec entity.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *memStore) CountCreatedSince(_ context.Context, identifier string, since time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	var n int64
	for _, r := range m.records {
		if r.Identifier == identifier && !r.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) FindValid(_ context.Context, identifier, codeHash string, now time.Time) (*entity.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findCalls++
	if m.err != nil {
		return nil, m.err
	}
	var best *entity.Record
	for i := range m.records {
		r := m.records[i]
		if r.Identifier != identifier || r.CodeHash != codeHash || !r.Valid(now) {
			continue
		}
		if best == nil || r.CreatedAt.After(best.CreatedAt) || (r.CreatedAt.Equal(best.CreatedAt) && r.ID > best.ID) {
			best = &r
		}
	}
	if best == nil {
		return nil, goerror.ErrNotFound
	}
	return best, nil
}

func (m *memStore) MarkUsed(_ context.Context, id int64, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if m.loseCAS {
		return false, nil
	}
	for i := range m.records {
		if m.records[i].ID == id && m.records[i].Valid(now) {
			m.records[i].Used = true
			m.records[i].UsedAt = &now
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) HasVerifiedSince(_ context.Context, identifier string, since time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for _, r := range m.records {
		if r.Identifier == identifier && r.Used && !r.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListRecent(_ context.Context, identifier string, limit int32) ([]entity.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []entity.Record
	for _, r := range slices.Backward(m.records) {
		if r.Identifier == identifier && len(out) < int(limit) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) ListCreatedBefore(_ context.Context, before time.Time, afterID int64, limit int32) ([]entity.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []entity.Record
	for _, r := range m.records {
		if r.CreatedAt.Before(before) && r.ID > afterID && len(out) < int(limit) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) DeleteCreatedBefore(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	n := len(m.records)
	m.records = slices.DeleteFunc(m.records, func(r entity.Record) bool { return r.CreatedAt.Before(before) })
	return int64(n - len(m.records)), nil
}

func (m *memStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

type sentCode struct {
	identifier string
	code       string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentCode
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, identifier, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentCode{identifier: identifier, code: code})
	return nil
}

func (f *fakeNotifier) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1].code
}

// seqSource feeds the generator consecutive offsets so codes are distinct.
type seqSource struct {
	next atomic.Int64
}

func (s *seqSource) Int(int64) (int64, error) {
	return s.next.Add(7919) % 900000, nil
}

type counterID struct {
	n atomic.Int64
}

func (c *counterID) Generate() int64 { return c.n.Add(1) }

type fixedUUID string

func (f fixedUUID) Generate() string { return string(f) }

type fakeStorage struct {
	mu      sync.Mutex
	puts    map[string][]byte
	meta    map[string]map[string]string
	err     error
	listErr error
}

func (f *fakeStorage) PutObject(_ context.Context, bucket, key string, r io.Reader, opts storage.PutOptions) (storage.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return storage.ObjectInfo{}, f.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return storage.ObjectInfo{}, err
	}
	if f.puts == nil {
		f.puts = map[string][]byte{}
		f.meta = map[string]map[string]string{}
	}
	f.puts[bucket+"/"+key] = buf.Bytes()
	f.meta[bucket+"/"+key] = opts.Metadata
	return storage.ObjectInfo{Bucket: bucket, Key: key, Size: int64(buf.Len())}, nil
}

func (f *fakeStorage) ListObjects(_ context.Context, bucket, prefix string, limit int) ([]storage.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []storage.ObjectInfo
	for k, v := range f.puts {
		key := strings.TrimPrefix(k, bucket+"/")
		if strings.HasPrefix(key, prefix) && len(out) < limit {
			out = append(out, storage.ObjectInfo{Bucket: bucket, Key: key, Size: int64(len(v))})
		}
	}
	return out, nil
}

func (*fakeStorage) Close() error { return nil }

type fixture struct {
	uc       *Usecase
	store    *memStore
	notifier *fakeNotifier
	storage  *fakeStorage
	now      *time.Time
}

func (f *fixture) advance(d time.Duration) {
	*f.now = f.now.Add(d)
}

func newFixture(t *testing.T, yaml string, withStorage bool) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	gen, err := otp.NewGenerator(&seqSource{})
	require.NoError(t, err)

	ins := instrument.NewNoop()
	metrics, err := instrument.NewOTPMetrics(ins)
	require.NoError(t, err)

	hmac, err := hash.NewHMACSHA256("test-pepper")
	require.NoError(t, err)

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	f := &fixture{
		store:    &memStore{},
		notifier: &fakeNotifier{},
		now:      &now,
	}

	dep := Dependency{
		RepoStore:    f.store,
		RepoNotifier: f.notifier,
		Generator:    gen,
		HMAC:         hmac,
		UID:          &counterID{},
		UUID:         fixedUUID("0199a1b2-0000-7000-8000-000000000001"),
		Clock:        clock.Func(func() time.Time { return *f.now }),
		Validator:    v,
		Config:       cfg,
		Instrument:   ins,
		Metrics:      metrics,
	}
	if withStorage {
		f.storage = &fakeStorage{}
		dep.Storage = f.storage
	}

	f.uc = New(dep)
	return f
}
