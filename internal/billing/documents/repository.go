package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerly-erp/ledgerly/internal/platform/db"
)

var (
	ErrNotFound      = errors.New("documents: not found")
	ErrAlreadyExists = errors.New("documents: number already exists")
)

// Repository provides data access for documents and their lines.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Document, error)
	GetByNumber(ctx context.Context, companyID int64, number string) (*Document, error)
	List(ctx context.Context, req ListDocumentsRequest) ([]DocumentWithCustomer, int, error)
	Create(ctx context.Context, doc Document) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	InsertLine(ctx context.Context, line Line) (int64, error)
	DeleteLines(ctx context.Context, documentID int64) error
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status Status) error
	GenerateNumber(ctx context.Context, kind Kind, companyID int64, date time.Time) (string, error)
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

const documentColumns = `id, kind, number, company_id, customer_id, issue_date, due_date,
	currency, freight, packaging, miscellaneous,
	subtotal, tax_amount, additional_charges, total, paid_amount,
	status, notes, created_at, updated_at`

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	err := row.Scan(
		&d.ID, &d.Kind, &d.Number, &d.CompanyID, &d.CustomerID, &d.IssueDate, &d.DueDate,
		&d.Currency, &d.Freight, &d.Packaging, &d.Miscellaneous,
		&d.Subtotal, &d.TaxAmount, &d.AdditionalCharges, &d.Total, &d.PaidAmount,
		&d.Status, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM documents WHERE id = $1`, documentColumns)
	doc, err := scanDocument(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	doc.Lines, err = r.lines(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// GetByNumber looks a document up by its printed number. Numbers are
// only unique within a company, so the lookup is company scoped.
func (r *repository) GetByNumber(ctx context.Context, companyID int64, number string) (*Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM documents WHERE company_id = $1 AND number = $2`, documentColumns)
	doc, err := scanDocument(r.db.QueryRow(ctx, query, companyID, number))
	if err != nil {
		return nil, err
	}
	doc.Lines, err = r.lines(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *repository) lines(ctx context.Context, documentID int64) ([]Line, error) {
	query := `
		SELECT id, document_id, line_order, description, hsn_code, model_number, weight,
		       quantity, rate, discount_percent, tax_percent, amount
		FROM document_lines WHERE document_id = $1 ORDER BY line_order, id`

	rows, err := r.db.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("load lines: %w", err)
	}
	defer rows.Close()

	var out []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(
			&l.ID, &l.DocumentID, &l.LineOrder, &l.Description, &l.HSNCode,
			&l.ModelNumber, &l.Weight, &l.Quantity, &l.Rate,
			&l.DiscountPercent, &l.TaxPercent, &l.Amount,
		); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *repository) List(ctx context.Context, req ListDocumentsRequest) ([]DocumentWithCustomer, int, error) {
	conditions := []string{"d.company_id = $1"}
	args := []interface{}{req.CompanyID}
	argPos := 2

	if req.Kind != nil {
		conditions = append(conditions, fmt.Sprintf("d.kind = $%d", argPos))
		args = append(args, *req.Kind)
		argPos++
	}
	if req.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("d.customer_id = $%d", argPos))
		args = append(args, *req.CustomerID)
		argPos++
	}
	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("d.status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	if req.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("d.issue_date >= $%d", argPos))
		args = append(args, *req.DateFrom)
		argPos++
	}
	if req.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("d.issue_date <= $%d", argPos))
		args = append(args, *req.DateTo)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM documents d WHERE %s`, where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`
		SELECT d.id, d.kind, d.number, d.company_id, d.customer_id, d.issue_date, d.due_date,
		       d.currency, d.freight, d.packaging, d.miscellaneous,
		       d.subtotal, d.tax_amount, d.additional_charges, d.total, d.paid_amount,
		       d.status, d.notes, d.created_at, d.updated_at,
		       COALESCE(c.name, '') AS customer_name
		FROM documents d
		LEFT JOIN customers c ON c.id = d.customer_id
		WHERE %s
		ORDER BY d.issue_date DESC, d.id DESC
		LIMIT $%d OFFSET $%d`, where, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []DocumentWithCustomer
	for rows.Next() {
		var d DocumentWithCustomer
		if err := rows.Scan(
			&d.ID, &d.Kind, &d.Number, &d.CompanyID, &d.CustomerID, &d.IssueDate, &d.DueDate,
			&d.Currency, &d.Freight, &d.Packaging, &d.Miscellaneous,
			&d.Subtotal, &d.TaxAmount, &d.AdditionalCharges, &d.Total, &d.PaidAmount,
			&d.Status, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
			&d.CustomerName,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, doc Document) (int64, error) {
	query := `
		INSERT INTO documents (
			kind, number, company_id, customer_id, issue_date, due_date,
			currency, freight, packaging, miscellaneous,
			subtotal, tax_amount, additional_charges, total, paid_amount,
			status, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, 0, $15, $16, NOW(), NOW())
		RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, query,
		doc.Kind, doc.Number, doc.CompanyID, doc.CustomerID, doc.IssueDate, doc.DueDate,
		doc.Currency, doc.Freight, doc.Packaging, doc.Miscellaneous,
		doc.Subtotal, doc.TaxAmount, doc.AdditionalCharges, doc.Total,
		doc.Status, doc.Notes,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrAlreadyExists
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	setClauses := make([]string, 0, len(updates)+1)
	args := make([]interface{}, 0, len(updates)+1)
	argPos := 1
	for col, val := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, argPos))
		args = append(args, val)
		argPos++
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE documents SET %s WHERE id = $%d`, strings.Join(setClauses, ", "), argPos)
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) InsertLine(ctx context.Context, line Line) (int64, error) {
	query := `
		INSERT INTO document_lines (
			document_id, line_order, description, hsn_code, model_number, weight,
			quantity, rate, discount_percent, tax_percent, amount
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, query,
		line.DocumentID, line.LineOrder, line.Description, line.HSNCode,
		line.ModelNumber, line.Weight, line.Quantity, line.Rate,
		line.DiscountPercent, line.TaxPercent, line.Amount,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) DeleteLines(ctx context.Context, documentID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM document_lines WHERE document_id = $1`, documentID)
	return err
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE documents SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GenerateNumber allocates the next sequential document number for the
// company and month, e.g. INV-202609-0007. The sequence advances from
// the highest suffix already issued, so deleting a draft never frees a
// number for reuse. Callers run inside WithTx; the advisory lock
// serializes concurrent allocations for the same company and kind and
// is released with the transaction.
func (r *repository) GenerateNumber(ctx context.Context, kind Kind, companyID int64, date time.Time) (string, error) {
	prefix := "INV"
	if kind == KindQuotation {
		prefix = "QTN"
	}
	period := date.Format("200601")

	lockKey := companyID << 1
	if kind == KindQuotation {
		lockKey |= 1
	}
	if _, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, lockKey); err != nil {
		return "", fmt.Errorf("generate number: lock: %w", err)
	}

	var seq int
	query := `
		SELECT COALESCE(MAX(substring(number FROM '[0-9]+$')::int), 0) + 1
		FROM documents
		WHERE kind = $1 AND company_id = $2 AND number LIKE $3`
	if err := r.db.QueryRow(ctx, query, kind, companyID, prefix+"-"+period+"-%").Scan(&seq); err != nil {
		return "", fmt.Errorf("generate number: %w", err)
	}
	return fmt.Sprintf("%s-%s-%04d", prefix, period, seq), nil
}
