package docdb

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/mediflow/internal/otp/entity"
	"github.com/shandysiswandi/mediflow/internal/pkg/goerror"
	"github.com/shandysiswandi/mediflow/internal/pkg/instrument"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const collectionName = "otp_records"

// codeIndexOptionsConflict is returned when an index exists with other options.
const codeIndexOptionsConflict = 85

type recordDoc struct {
	ID         int64      `bson:"_id"`
	Identifier string     `bson:"identifier"`
	CodeHash   string     `bson:"code_hash"`
	CreatedAt  time.Time  `bson:"created_at"`
	ExpiresAt  time.Time  `bson:"expires_at"`
	Used       bool       `bson:"used"`
	UsedAt     *time.Time `bson:"used_at,omitempty"`
}

func (d recordDoc) entity() entity.Record {
	return entity.Record{
		ID:         d.ID,
		Identifier: d.Identifier,
		CodeHash:   d.CodeHash,
		CreatedAt:  d.CreatedAt.UTC(),
		ExpiresAt:  d.ExpiresAt.UTC(),
		Used:       d.Used,
		UsedAt:     d.UsedAt,
	}
}

// DocDB is the MongoDB record store. A TTL index on created_at removes
// records once they are older than the retention horizon.
type DocDB struct {
	coll *mongo.Collection
	ins  instrument.Instrumentation
}

func NewDocDB(db *mongo.Database, ins instrument.Instrumentation) *DocDB {
	return &DocDB{coll: db.Collection(collectionName), ins: ins}
}

// EnsureIndexes creates the lookup index and the TTL index. An existing TTL
// index with a different expiry is left in place and logged.
func (s *DocDB) EnsureIndexes(ctx context.Context, retention time.Duration) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "identifier", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(retention.Seconds())),
		},
	})

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == codeIndexOptionsConflict {
		slog.WarnContext(ctx, "otp ttl index exists with different options", "retention", retention.String(), "error", err)
		return nil
	}

	return err
}

func (s *DocDB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return goerror.ErrNotFound
	}

	if mongo.IsDuplicateKeyError(err) {
		return goerror.ErrConflict
	}

	return err
}

func (s *DocDB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otp.outbound.docdb").Start(ctx, name)
}

func (s *DocDB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *DocDB) CreateRecord(ctx context.Context, rec entity.Record) (err error) {
	ctx, span := s.startSpan(ctx, "CreateRecord")
	defer func() { s.endSpan(span, err) }()

	_, err = s.coll.InsertOne(ctx, recordDoc{
		ID:         rec.ID,
		Identifier: rec.Identifier,
		CodeHash:   rec.CodeHash,
		CreatedAt:  rec.CreatedAt,
		ExpiresAt:  rec.ExpiresAt,
	})
	return s.mapError(err)
}

func (s *DocDB) CountCreatedSince(ctx context.Context, identifier string, since time.Time) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CountCreatedSince")
	defer func() { s.endSpan(span, err) }()

	count, err := s.coll.CountDocuments(ctx, bson.D{
		{Key: "identifier", Value: identifier},
		{Key: "created_at", Value: bson.D{{Key: "$gte", Value: since}}},
	})
	return count, s.mapError(err)
}

func (s *DocDB) FindValid(ctx context.Context, identifier, codeHash string, now time.Time) (_ *entity.Record, err error) {
	ctx, span := s.startSpan(ctx, "FindValid")
	defer func() { s.endSpan(span, err) }()

	filter := bson.D{
		{Key: "identifier", Value: identifier},
		{Key: "code_hash", Value: codeHash},
		{Key: "used", Value: false},
		{Key: "expires_at", Value: bson.D{{Key: "$gt", Value: now}}},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	var doc recordDoc
	if err := s.coll.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		return nil, s.mapError(err)
	}

	rec := doc.entity()
	return &rec, nil
}

func (s *DocDB) MarkUsed(ctx context.Context, id int64, now time.Time) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkUsed")
	defer func() { s.endSpan(span, err) }()

	res, err := s.coll.UpdateOne(ctx,
		bson.D{
			{Key: "_id", Value: id},
			{Key: "used", Value: false},
			{Key: "expires_at", Value: bson.D{{Key: "$gt", Value: now}}},
		},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "used", Value: true},
			{Key: "used_at", Value: now},
		}}},
	)
	if err != nil {
		return false, s.mapError(err)
	}

	return res.ModifiedCount == 1, nil
}

func (s *DocDB) HasVerifiedSince(ctx context.Context, identifier string, since time.Time) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "HasVerifiedSince")
	defer func() { s.endSpan(span, err) }()

	count, err := s.coll.CountDocuments(ctx, bson.D{
		{Key: "identifier", Value: identifier},
		{Key: "used", Value: true},
		{Key: "created_at", Value: bson.D{{Key: "$gte", Value: since}}},
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, s.mapError(err)
	}

	return count > 0, nil
}

func (s *DocDB) ListRecent(ctx context.Context, identifier string, limit int32) (_ []entity.Record, err error) {
	ctx, span := s.startSpan(ctx, "ListRecent")
	defer func() { s.endSpan(span, err) }()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	return s.find(ctx, bson.D{{Key: "identifier", Value: identifier}}, opts)
}

func (s *DocDB) ListCreatedBefore(ctx context.Context, before time.Time, afterID int64, limit int32) (_ []entity.Record, err error) {
	ctx, span := s.startSpan(ctx, "ListCreatedBefore")
	defer func() { s.endSpan(span, err) }()

	filter := bson.D{
		{Key: "created_at", Value: bson.D{{Key: "$lt", Value: before}}},
		{Key: "_id", Value: bson.D{{Key: "$gt", Value: afterID}}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).SetLimit(int64(limit))

	return s.find(ctx, filter, opts)
}

func (s *DocDB) DeleteCreatedBefore(ctx context.Context, before time.Time) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "DeleteCreatedBefore")
	defer func() { s.endSpan(span, err) }()

	res, err := s.coll.DeleteMany(ctx, bson.D{{Key: "created_at", Value: bson.D{{Key: "$lt", Value: before}}}})
	if err != nil {
		return 0, s.mapError(err)
	}

	return res.DeletedCount, nil
}

func (s *DocDB) find(ctx context.Context, filter bson.D, opts *options.FindOptions) ([]entity.Record, error) {
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, s.mapError(err)
	}

	var docs []recordDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, s.mapError(err)
	}

	records := make([]entity.Record, 0, len(docs))
	for _, d := range docs {
		records = append(records, d.entity())
	}
	return records, nil
}
