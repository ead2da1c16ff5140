package gst

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads invoice line aggregates for the summary.
type Repository interface {
	RateBuckets(ctx context.Context, companyID int64, from, to time.Time) ([]RateBucket, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) RateBuckets(ctx context.Context, companyID int64, from, to time.Time) ([]RateBucket, error) {
	query := `
		SELECT l.tax_percent,
		       SUM(l.amount) AS taxable_value,
		       SUM(l.amount * l.tax_percent / 100) AS tax_amount,
		       COUNT(DISTINCT d.id) AS invoice_count
		FROM document_lines l
		JOIN documents d ON d.id = l.document_id
		WHERE d.kind = 'INVOICE'
		  AND d.company_id = $1
		  AND d.issue_date >= $2
		  AND d.issue_date <= $3
		GROUP BY l.tax_percent
		ORDER BY l.tax_percent`

	rows, err := r.pool.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("gst buckets: %w", err)
	}
	defer rows.Close()

	var out []RateBucket
	for rows.Next() {
		var b RateBucket
		if err := rows.Scan(&b.TaxRatePercent, &b.TaxableValue, &b.TaxAmount, &b.InvoiceCount); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
