package payments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerly-erp/ledgerly/internal/billing/documents"
)

type memoryRepo struct {
	invoices map[int64]*InvoiceHead
	payments map[int64]*Payment
	byKey    map[string]int64
	nextID   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		invoices: make(map[int64]*InvoiceHead),
		payments: make(map[int64]*Payment),
		byKey:    make(map[string]int64),
	}
}

func (r *memoryRepo) addInvoice(id int64, total float64) {
	r.invoices[id] = &InvoiceHead{
		ID:     id,
		Kind:   documents.KindInvoice,
		Total:  total,
		Status: documents.StatusUnpaid,
	}
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, r)
}

func (r *memoryRepo) LockInvoice(ctx context.Context, invoiceID int64) (*InvoiceHead, error) {
	head, ok := r.invoices[invoiceID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *head
	return &copied, nil
}

func (r *memoryRepo) GetByIdempotencyKey(ctx context.Context, key string) (*Payment, error) {
	id, ok := r.byKey[key]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *r.payments[id]
	return &copied, nil
}

func (r *memoryRepo) Insert(ctx context.Context, p Payment) (int64, error) {
	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = time.Now()
	r.payments[p.ID] = &p
	r.byKey[p.IdempotencyKey] = p.ID
	return p.ID, nil
}

func (r *memoryRepo) ApplyToInvoice(ctx context.Context, invoiceID int64, paidAmount float64, status documents.Status) error {
	head, ok := r.invoices[invoiceID]
	if !ok {
		return ErrNotFound
	}
	head.PaidAmount = paidAmount
	head.Status = status
	return nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (*Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *memoryRepo) List(ctx context.Context, req ListPaymentsRequest) ([]Payment, int, error) {
	var out []Payment
	for _, p := range r.payments {
		if req.InvoiceID != nil && p.InvoiceID != *req.InvoiceID {
			continue
		}
		out = append(out, *p)
	}
	return out, len(out), nil
}

func TestRecordPartialThenPaid(t *testing.T) {
	repo := newMemoryRepo()
	repo.addInvoice(1, 1000)
	svc := NewService(repo)

	res, err := svc.Record(context.Background(), 1, RecordPaymentRequest{Amount: 400, Method: "CASH"})
	require.NoError(t, err)
	require.Equal(t, 600.0, res.Balance)
	require.Equal(t, string(documents.StatusPartial), res.Status)
	require.Equal(t, 400.0, repo.invoices[1].PaidAmount)

	res, err = svc.Record(context.Background(), 1, RecordPaymentRequest{Amount: 600, Method: "UPI"})
	require.NoError(t, err)
	require.Zero(t, res.Balance)
	require.Equal(t, string(documents.StatusPaid), res.Status)
	require.Equal(t, documents.StatusPaid, repo.invoices[1].Status)
}

func TestRecordRejectsNonPositiveAmounts(t *testing.T) {
	repo := newMemoryRepo()
	repo.addInvoice(1, 1000)
	svc := NewService(repo)

	_, err := svc.Record(context.Background(), 1, RecordPaymentRequest{Amount: 0, Method: "CASH"})
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Record(context.Background(), 1, RecordPaymentRequest{Amount: -5, Method: "CASH"})
	require.ErrorIs(t, err, ErrInvalidAmount)

	// invoice untouched
	require.Zero(t, repo.invoices[1].PaidAmount)
	require.Equal(t, documents.StatusUnpaid, repo.invoices[1].Status)
	require.Empty(t, repo.payments)
}

func TestRecordRejectsOverpayment(t *testing.T) {
	repo := newMemoryRepo()
	repo.addInvoice(1, 1000)
	svc := NewService(repo)

	_, err := svc.Record(context.Background(), 1, RecordPaymentRequest{Amount: 400, Method: "CASH"})
	require.NoError(t, err)

	_, err = svc.Record(context.Background(), 1, RecordPaymentRequest{Amount: 700, Method: "CASH"})
	require.ErrorIs(t, err, ErrOverpayment)

	// stored state never exceeds the total
	require.Equal(t, 400.0, repo.invoices[1].PaidAmount)
	require.Equal(t, documents.StatusPartial, repo.invoices[1].Status)
}

func TestRecordMonotonicPaidAmount(t *testing.T) {
	repo := newMemoryRepo()
	repo.addInvoice(1, 500)
	svc := NewService(repo)

	prev := 0.0
	for _, amount := range []float64{100, 50, 200, 150} {
		_, err := svc.Record(context.Background(), 1, RecordPaymentRequest{Amount: amount, Method: "BANK"})
		require.NoError(t, err)
		require.GreaterOrEqual(t, repo.invoices[1].PaidAmount, prev)
		prev = repo.invoices[1].PaidAmount
	}
	require.Equal(t, documents.StatusPaid, repo.invoices[1].Status)
}

func TestRecordRejectsQuotation(t *testing.T) {
	repo := newMemoryRepo()
	repo.invoices[7] = &InvoiceHead{ID: 7, Kind: documents.KindQuotation, Total: 100, Status: documents.StatusOpen}
	svc := NewService(repo)

	_, err := svc.Record(context.Background(), 7, RecordPaymentRequest{Amount: 50, Method: "CASH"})
	require.ErrorIs(t, err, ErrNotInvoice)
}

func TestRecordUnknownInvoice(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, err := svc.Record(context.Background(), 99, RecordPaymentRequest{Amount: 10, Method: "CASH"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRecordIdempotencyReplay(t *testing.T) {
	repo := newMemoryRepo()
	repo.addInvoice(1, 1000)
	svc := NewService(repo)

	key := "4f9d52de-77a1-4be4-a2a3-0a0fbd9cf94d"
	req := RecordPaymentRequest{Amount: 250, Method: "CARD", IdempotencyKey: &key}

	first, err := svc.Record(context.Background(), 1, req)
	require.NoError(t, err)

	second, err := svc.Record(context.Background(), 1, req)
	require.NoError(t, err)
	require.Equal(t, first.Payment.ID, second.Payment.ID)

	// replay did not double-apply
	require.Equal(t, 250.0, repo.invoices[1].PaidAmount)
	require.Len(t, repo.payments, 1)
}
