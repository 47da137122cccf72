package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/mediflow/internal/otp/entity"
	"github.com/shandysiswandi/mediflow/internal/pkg/goerror"
	"github.com/shandysiswandi/mediflow/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DB is the PostgreSQL record store.
type DB struct {
	conn *pgxpool.Pool
	ins  instrument.Instrumentation
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{conn: conn, ins: ins}
}

func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return goerror.ErrConflict
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otp.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *DB) CreateRecord(ctx context.Context, rec entity.Record) (err error) {
	ctx, span := s.startSpan(ctx, "CreateRecord")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryCreateRecord, rec.ID, rec.Identifier, rec.CodeHash, rec.CreatedAt, rec.ExpiresAt)
	return s.mapError(err)
}

func (s *DB) CountCreatedSince(ctx context.Context, identifier string, since time.Time) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CountCreatedSince")
	defer func() { s.endSpan(span, err) }()

	var count int64
	if err := s.conn.QueryRow(ctx, queryCountCreatedSince, identifier, since).Scan(&count); err != nil {
		return 0, s.mapError(err)
	}

	return count, nil
}

func (s *DB) FindValid(ctx context.Context, identifier, codeHash string, now time.Time) (_ *entity.Record, err error) {
	ctx, span := s.startSpan(ctx, "FindValid")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryFindValid, identifier, codeHash, now)
	if err != nil {
		return nil, s.mapError(err)
	}

	rec, err := pgx.CollectExactlyOneRow(rows, scanRecord)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &rec, nil
}

func (s *DB) MarkUsed(ctx context.Context, id int64, now time.Time) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkUsed")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryMarkUsed, id, now)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}

func (s *DB) HasVerifiedSince(ctx context.Context, identifier string, since time.Time) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "HasVerifiedSince")
	defer func() { s.endSpan(span, err) }()

	var ok bool
	if err := s.conn.QueryRow(ctx, queryHasVerifiedSince, identifier, since).Scan(&ok); err != nil {
		return false, s.mapError(err)
	}

	return ok, nil
}

func (s *DB) ListRecent(ctx context.Context, identifier string, limit int32) (_ []entity.Record, err error) {
	ctx, span := s.startSpan(ctx, "ListRecent")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryListRecent, identifier, limit)
	if err != nil {
		return nil, s.mapError(err)
	}

	records, err := pgx.CollectRows(rows, scanRecord)
	return records, s.mapError(err)
}

func (s *DB) ListCreatedBefore(ctx context.Context, before time.Time, afterID int64, limit int32) (_ []entity.Record, err error) {
	ctx, span := s.startSpan(ctx, "ListCreatedBefore")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryListCreatedBefore, before, afterID, limit)
	if err != nil {
		return nil, s.mapError(err)
	}

	records, err := pgx.CollectRows(rows, scanRecord)
	return records, s.mapError(err)
}

func (s *DB) DeleteCreatedBefore(ctx context.Context, before time.Time) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "DeleteCreatedBefore")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryDeleteCreatedBefore, before)
	if err != nil {
		return 0, s.mapError(err)
	}

	return tag.RowsAffected(), nil
}

func scanRecord(row pgx.CollectableRow) (entity.Record, error) {
	var (
		rec    entity.Record
		usedAt pgtype.Timestamptz
	)

	err := row.Scan(&rec.ID, &rec.Identifier, &rec.CodeHash, &rec.CreatedAt, &rec.ExpiresAt, &rec.Used, &usedAt)
	if err != nil {
		return entity.Record{}, err
	}

	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.ExpiresAt = rec.ExpiresAt.UTC()
	if usedAt.Valid {
		t := usedAt.Time.UTC()
		rec.UsedAt = &t
	}

	return rec, nil
}
