package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerly-erp/ledgerly/internal/billing/currency"
	"github.com/ledgerly-erp/ledgerly/internal/observability"
)

// NewDocumentEmailHandler processes TaskTypeDocumentEmail: it loads the
// document header and sends a short notification mail. A vanished
// document skips retry; transient mail failures are retried by Asynq.
func NewDocumentEmailHandler(pool *pgxpool.Pool, mailer Mailer, logger *slog.Logger, metrics *observability.Metrics) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload DocumentEmailPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}

		var kind, number, curr string
		var total, paid float64
		err := pool.QueryRow(ctx, `
			SELECT kind, number, currency, total, paid_amount
			FROM documents WHERE id = $1`, payload.DocumentID,
		).Scan(&kind, &number, &curr, &total, &paid)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				logger.Warn("document email: document vanished", slog.Int64("document_id", payload.DocumentID))
				return asynq.SkipRetry
			}
			metrics.ObserveJob(TaskTypeDocumentEmail, "error")
			return fmt.Errorf("jobs: load document %d: %w", payload.DocumentID, err)
		}

		subject := fmt.Sprintf("%s %s from Ledgerly", titleFor(kind), number)
		body := fmt.Sprintf("Please find %s %s for %s attached to your account.\n",
			titleFor(kind), number, currency.FormatAmount(curr, total))
		if kind == "INVOICE" && total > paid {
			body += fmt.Sprintf("Outstanding balance: %s\n", currency.FormatAmount(curr, total-paid))
		}

		if err := mailer.Send(ctx, payload.To, subject, body); err != nil {
			metrics.ObserveJob(TaskTypeDocumentEmail, "error")
			return err
		}
		metrics.ObserveJob(TaskTypeDocumentEmail, "ok")
		logger.Info("document email sent",
			slog.Int64("document_id", payload.DocumentID),
			slog.String("number", number))
		return nil
	}
}

func titleFor(kind string) string {
	if kind == "QUOTATION" {
		return "Quotation"
	}
	return "Invoice"
}
