package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/mediflow/internal/customer/entity"
	"github.com/shandysiswandi/mediflow/internal/pkg/goerror"
	"github.com/shandysiswandi/mediflow/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

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
	return s.ins.Tracer("customer.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *DB) GetCustomerByPhone(ctx context.Context, phone string) (_ *entity.Customer, err error) {
	ctx, span := s.startSpan(ctx, "GetCustomerByPhone")
	defer func() { s.endSpan(span, err) }()

	return s.getOne(ctx, queryGetCustomerByPhone, phone)
}

func (s *DB) GetCustomerByID(ctx context.Context, id int64) (_ *entity.Customer, err error) {
	ctx, span := s.startSpan(ctx, "GetCustomerByID")
	defer func() { s.endSpan(span, err) }()

	return s.getOne(ctx, queryGetCustomerByID, id)
}

func (s *DB) CreateCustomer(ctx context.Context, c entity.Customer) (err error) {
	ctx, span := s.startSpan(ctx, "CreateCustomer")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryCreateCustomer,
		c.ID, c.Phone, c.Name, c.Age, string(c.Gender), c.CreatedAt, c.UpdatedAt)
	return s.mapError(err)
}

func (s *DB) getOne(ctx context.Context, query string, arg any) (*entity.Customer, error) {
	rows, err := s.conn.Query(ctx, query, arg)
	if err != nil {
		return nil, s.mapError(err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCustomer)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &c, nil
}

func scanCustomer(row pgx.CollectableRow) (entity.Customer, error) {
	var (
		c      entity.Customer
		gender string
	)

	if err := row.Scan(&c.ID, &c.Phone, &c.Name, &c.Age, &gender, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return entity.Customer{}, err
	}

	c.Gender = entity.Gender(gender)
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()

	return c, nil
}
