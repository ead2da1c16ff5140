package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerly-erp/ledgerly/internal/billing/documents"
	"github.com/ledgerly-erp/ledgerly/internal/platform/db"
)

// InvoiceHead is the slice of the invoice row a payment recording needs.
type InvoiceHead struct {
	ID         int64
	Kind       documents.Kind
	Total      float64
	PaidAmount float64
	Status     documents.Status
}

// Repository provides data access for payments. Record flows run inside
// WithTx with the invoice row locked, which serializes concurrent
// recordings against the same invoice.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	LockInvoice(ctx context.Context, invoiceID int64) (*InvoiceHead, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*Payment, error)
	Insert(ctx context.Context, p Payment) (int64, error)
	ApplyToInvoice(ctx context.Context, invoiceID int64, paidAmount float64, status documents.Status) error
	Get(ctx context.Context, id int64) (*Payment, error)
	List(ctx context.Context, req ListPaymentsRequest) ([]Payment, int, error)
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

// LockInvoice reads the invoice header under FOR UPDATE. Outside a
// transaction the lock is released immediately, so callers must use WithTx.
func (r *repository) LockInvoice(ctx context.Context, invoiceID int64) (*InvoiceHead, error) {
	query := `
		SELECT id, kind, total, paid_amount, status
		FROM documents WHERE id = $1 FOR UPDATE`

	var head InvoiceHead
	err := r.db.QueryRow(ctx, query, invoiceID).Scan(
		&head.ID, &head.Kind, &head.Total, &head.PaidAmount, &head.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &head, nil
}

const paymentColumns = `id, invoice_id, amount, method, note, idempotency_key, paid_at, created_at`

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	err := row.Scan(
		&p.ID, &p.InvoiceID, &p.Amount, &p.Method, &p.Note,
		&p.IdempotencyKey, &p.PaidAt, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByIdempotencyKey(ctx context.Context, key string) (*Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE idempotency_key = $1`, paymentColumns)
	return scanPayment(r.db.QueryRow(ctx, query, key))
}

func (r *repository) Insert(ctx context.Context, p Payment) (int64, error) {
	query := `
		INSERT INTO payments (invoice_id, amount, method, note, idempotency_key, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, query,
		p.InvoiceID, p.Amount, p.Method, p.Note, p.IdempotencyKey, p.PaidAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) ApplyToInvoice(ctx context.Context, invoiceID int64, paidAmount float64, status documents.Status) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE documents SET paid_amount = $1, status = $2, updated_at = NOW() WHERE id = $3`,
		paidAmount, status, invoiceID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE id = $1`, paymentColumns)
	return scanPayment(r.db.QueryRow(ctx, query, id))
}

func (r *repository) List(ctx context.Context, req ListPaymentsRequest) ([]Payment, int, error) {
	conditions := []string{"TRUE"}
	var args []interface{}
	argPos := 1

	if req.InvoiceID != nil {
		conditions = append(conditions, fmt.Sprintf("invoice_id = $%d", argPos))
		args = append(args, *req.InvoiceID)
		argPos++
	}
	if req.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("paid_at >= $%d", argPos))
		args = append(args, *req.DateFrom)
		argPos++
	}
	if req.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("paid_at <= $%d", argPos))
		args = append(args, *req.DateTo)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM payments WHERE %s`, where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(
		`SELECT %s FROM payments WHERE %s ORDER BY paid_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		paymentColumns, where, argPos, argPos+1,
	)
	args = append(args, limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(
			&p.ID, &p.InvoiceID, &p.Amount, &p.Method, &p.Note,
			&p.IdempotencyKey, &p.PaidAt, &p.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}
