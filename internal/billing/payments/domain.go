package payments

import (
	"errors"
	"time"
)

var (
	// ErrInvalidAmount rejects non-positive payment amounts.
	ErrInvalidAmount = errors.New("payments: amount must be positive")
	// ErrOverpayment rejects amounts exceeding the outstanding balance.
	// The stored paid amount can therefore never exceed the total.
	ErrOverpayment = errors.New("payments: amount exceeds balance due")
	// ErrNotInvoice rejects payments against quotations.
	ErrNotInvoice = errors.New("payments: document is not an invoice")
	// ErrNotFound indicates the payment or invoice does not exist.
	ErrNotFound = errors.New("payments: not found")
)

// Payment is one recorded receipt against an invoice.
type Payment struct {
	ID             int64     `json:"id" db:"id"`
	InvoiceID      int64     `json:"invoice_id" db:"invoice_id"`
	Amount         float64   `json:"amount" db:"amount"`
	Method         string    `json:"method" db:"method"`
	Note           *string   `json:"note,omitempty" db:"note"`
	IdempotencyKey string    `json:"idempotency_key" db:"idempotency_key"`
	PaidAt         time.Time `json:"paid_at" db:"paid_at"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// RecordPaymentRequest is the payment submission body. A client-supplied
// idempotency key makes retries safe; one is generated when absent.
type RecordPaymentRequest struct {
	Amount         float64    `json:"amount" validate:"required"`
	Method         string     `json:"method" validate:"required,oneof=CASH BANK UPI CARD CHEQUE"`
	Note           *string    `json:"note,omitempty"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
	IdempotencyKey *string    `json:"idempotency_key,omitempty" validate:"omitempty,uuid4"`
}

// RecordResult is returned after a successful recording.
type RecordResult struct {
	Payment Payment `json:"payment"`
	Balance float64 `json:"balance"`
	Status  string  `json:"status"`
}

type ListPaymentsRequest struct {
	InvoiceID *int64     `json:"invoice_id,omitempty"`
	DateFrom  *time.Time `json:"date_from,omitempty"`
	DateTo    *time.Time `json:"date_to,omitempty"`
	Limit     int        `json:"limit" validate:"gte=0,lte=1000"`
	Offset    int        `json:"offset" validate:"gte=0"`
}
