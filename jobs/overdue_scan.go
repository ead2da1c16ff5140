package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerly-erp/ledgerly/internal/observability"
)

// NewOverdueScanHandler processes TaskTypeOverdueScan: any invoice with
// an outstanding balance whose due date has passed moves to OVERDUE.
// Paid invoices and quotations are never touched, and the update is
// idempotent so the daily cron can re-run freely.
func NewOverdueScanHandler(pool *pgxpool.Pool, logger *slog.Logger, metrics *observability.Metrics) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		tag, err := pool.Exec(ctx, `
			UPDATE documents
			SET status = 'OVERDUE', updated_at = now()
			WHERE kind = 'INVOICE'
			  AND status IN ('UNPAID', 'PARTIAL')
			  AND due_date < $1`, time.Now().UTC())
		if err != nil {
			metrics.ObserveJob(TaskTypeOverdueScan, "error")
			return fmt.Errorf("jobs: overdue scan: %w", err)
		}
		metrics.ObserveJob(TaskTypeOverdueScan, "ok")
		logger.Info("overdue scan complete", slog.Int64("flipped", tag.RowsAffected()))
		return nil
	}
}
