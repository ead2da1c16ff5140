package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerly-erp/ledgerly/internal/billing/documents"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Record applies a payment to an invoice. The invoice row is locked for
// the duration of the transaction, so paid amounts only ever grow and
// two concurrent recordings cannot both read the same balance. Replays
// of a known idempotency key return the stored payment unchanged.
func (s *Service) Record(ctx context.Context, invoiceID int64, req RecordPaymentRequest) (*RecordResult, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	key := uuid.NewString()
	if req.IdempotencyKey != nil {
		key = *req.IdempotencyKey
	}
	paidAt := s.now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	var result RecordResult
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if existing, err := repo.GetByIdempotencyKey(ctx, key); err == nil {
			head, err := repo.LockInvoice(ctx, existing.InvoiceID)
			if err != nil {
				return err
			}
			result = RecordResult{
				Payment: *existing,
				Balance: head.Total - head.PaidAmount,
				Status:  string(head.Status),
			}
			return nil
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		head, err := repo.LockInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		if head.Kind != documents.KindInvoice {
			return ErrNotInvoice
		}

		balance := head.Total - head.PaidAmount
		if req.Amount > balance {
			return fmt.Errorf("%w: balance %.2f, got %.2f", ErrOverpayment, balance, req.Amount)
		}

		payment := Payment{
			InvoiceID:      invoiceID,
			Amount:         req.Amount,
			Method:         req.Method,
			Note:           req.Note,
			IdempotencyKey: key,
			PaidAt:         paidAt,
		}
		id, err := repo.Insert(ctx, payment)
		if err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}
		payment.ID = id

		newPaid := head.PaidAmount + req.Amount
		status := documents.StatusPartial
		if newPaid >= head.Total {
			status = documents.StatusPaid
		}
		if err := repo.ApplyToInvoice(ctx, invoiceID, newPaid, status); err != nil {
			return fmt.Errorf("apply payment: %w", err)
		}

		result = RecordResult{
			Payment: payment,
			Balance: head.Total - newPaid,
			Status:  string(status),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) ListForInvoice(ctx context.Context, invoiceID int64) ([]Payment, int, error) {
	return s.repo.List(ctx, ListPaymentsRequest{InvoiceID: &invoiceID})
}

func (s *Service) List(ctx context.Context, req ListPaymentsRequest) ([]Payment, int, error) {
	return s.repo.List(ctx, req)
}
