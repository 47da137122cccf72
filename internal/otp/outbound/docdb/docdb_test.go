package docdb

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/mediflow/internal/otp/entity"
	"github.com/shandysiswandi/mediflow/internal/pkg/goerror"
	"github.com/shandysiswandi/mediflow/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func newTestDocDB(t *testing.T) *DocDB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping mongodb container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := mongodb.Run(ctx, "mongo:7")
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	s := NewDocDB(client.Database("mediflow"), instrument.NewNoop())
	require.NoError(t, s.EnsureIndexes(ctx, time.Hour))

	return s
}

func record(id int64, identifier, hash string, createdAt time.Time) entity.Record {
	return entity.Record{
		ID:         id,
		Identifier: identifier,
		CodeHash:   hash,
		CreatedAt:  createdAt,
		ExpiresAt:  createdAt.Add(5 * time.Minute),
	}
}

func TestDocDB_RecordLifecycle(t *testing.T) {
	s := newTestDocDB(t)
	ctx := context.Background()
	t0 := time.Now().UTC().Truncate(time.Millisecond)

	require.NoError(t, s.CreateRecord(ctx, record(1, "asha@example.com", "h1", t0)))
	require.NoError(t, s.CreateRecord(ctx, record(2, "asha@example.com", "h1", t0.Add(time.Second))))

	err := s.CreateRecord(ctx, record(2, "asha@example.com", "h2", t0))
	assert.ErrorIs(t, err, goerror.ErrConflict)

	count, err := s.CountCreatedSince(ctx, "asha@example.com", t0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	now := t0.Add(time.Minute)
	rec, err := s.FindValid(ctx, "asha@example.com", "h1", now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rec.ID)

	ok, err := s.MarkUsed(ctx, rec.ID, now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.MarkUsed(ctx, rec.ID, now)
	require.NoError(t, err)
	assert.False(t, ok)

	rec, err = s.FindValid(ctx, "asha@example.com", "h1", now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.ID, "only the unused record remains valid")

	_, err = s.FindValid(ctx, "asha@example.com", "h1", t0.Add(5*time.Minute))
	assert.ErrorIs(t, err, goerror.ErrNotFound)

	verified, err := s.HasVerifiedSince(ctx, "asha@example.com", t0)
	require.NoError(t, err)
	assert.True(t, verified)

	recent, err := s.ListRecent(ctx, "asha@example.com", 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, entity.StatusConsumed, recent[0].Status(now))
}

func TestDocDB_TTLIndex(t *testing.T) {
	s := newTestDocDB(t)
	ctx := context.Background()

	cur, err := s.coll.Indexes().List(ctx)
	require.NoError(t, err)

	var indexes []bson.M
	require.NoError(t, cur.All(ctx, &indexes))

	var ttl any
	for _, idx := range indexes {
		if v, ok := idx["expireAfterSeconds"]; ok {
			ttl = v
		}
	}
	assert.EqualValues(t, 3600, ttl)

	require.NoError(t, s.EnsureIndexes(ctx, 2*time.Hour), "a conflicting ttl is tolerated")
}

func TestDocDB_Janitor(t *testing.T) {
	s := newTestDocDB(t)
	ctx := context.Background()
	t0 := time.Now().UTC().Truncate(time.Millisecond)

	for i := range int64(4) {
		require.NoError(t, s.CreateRecord(ctx, record(50+i, "9876543210", "h", t0.Add(time.Duration(i)*time.Second))))
	}

	before := t0.Add(3 * time.Second)

	page, err := s.ListCreatedBefore(ctx, before, 50, 10)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(51), page[0].ID)

	deleted, err := s.DeleteCreatedBefore(ctx, before)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
}
