package documents

import "time"

// Kind discriminates the two document variants sharing this model.
type Kind string

const (
	KindInvoice   Kind = "INVOICE"
	KindQuotation Kind = "QUOTATION"
)

// Status values. Invoices move UNPAID -> PARTIAL -> PAID; the overdue
// scan may set OVERDUE on unpaid invoices past their due date.
// Quotations move OPEN -> ACCEPTED | DECLINED.
type Status string

const (
	StatusUnpaid  Status = "UNPAID"
	StatusPartial Status = "PARTIAL"
	StatusPaid    Status = "PAID"
	StatusOverdue Status = "OVERDUE"

	StatusOpen     Status = "OPEN"
	StatusAccepted Status = "ACCEPTED"
	StatusDeclined Status = "DECLINED"
)

// Document is an invoice or quotation header plus its ordered lines.
// Totals are snapshots taken at save time and never re-derived after;
// PaidAmount is the only field mutated post-creation (invoices only,
// by payment recording).
type Document struct {
	ID         int64     `json:"id" db:"id"`
	Kind       Kind      `json:"kind" db:"kind"`
	Number     string    `json:"number" db:"number"`
	CompanyID  int64     `json:"company_id" db:"company_id"`
	CustomerID int64     `json:"customer_id" db:"customer_id"`
	IssueDate  time.Time `json:"issue_date" db:"issue_date"`
	DueDate    time.Time `json:"due_date" db:"due_date"`
	Currency   string    `json:"currency" db:"currency"`

	Freight       float64 `json:"freight" db:"freight"`
	Packaging     float64 `json:"packaging" db:"packaging"`
	Miscellaneous float64 `json:"miscellaneous" db:"miscellaneous"`

	Subtotal          float64 `json:"subtotal" db:"subtotal"`
	TaxAmount         float64 `json:"tax_amount" db:"tax_amount"`
	AdditionalCharges float64 `json:"additional_charges" db:"additional_charges"`
	Total             float64 `json:"total" db:"total"`
	PaidAmount        float64 `json:"paid_amount" db:"paid_amount"`

	Status    Status    `json:"status" db:"status"`
	Notes     *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	Lines     []Line    `json:"lines,omitempty" db:"-"`
}

// Line is one document row. HSNCode, ModelNumber and Weight are carried
// through to rendering unchanged, never used in arithmetic.
type Line struct {
	ID              int64   `json:"id" db:"id"`
	DocumentID      int64   `json:"document_id" db:"document_id"`
	LineOrder       int     `json:"line_order" db:"line_order"`
	Description     string  `json:"description" db:"description"`
	HSNCode         *string `json:"hsn_code,omitempty" db:"hsn_code"`
	ModelNumber     *string `json:"model_number,omitempty" db:"model_number"`
	Weight          *string `json:"weight,omitempty" db:"weight"`
	Quantity        float64 `json:"quantity" db:"quantity"`
	Rate            float64 `json:"rate" db:"rate"`
	DiscountPercent float64 `json:"discount_percent" db:"discount_percent"`
	TaxPercent      float64 `json:"tax_percent" db:"tax_percent"`
	Amount          float64 `json:"amount" db:"amount"`
}

// Balance is the outstanding amount on an invoice. Guaranteed
// non-negative in stored state by the overpayment reject policy.
func (d *Document) Balance() float64 {
	if d.Kind != KindInvoice {
		return 0
	}
	return d.Total - d.PaidAmount
}

// Mutable reports whether the document may still be edited: quotations
// while OPEN, invoices while nothing has been paid against them.
func (d *Document) Mutable() bool {
	if d.Kind == KindQuotation {
		return d.Status == StatusOpen
	}
	return d.PaidAmount == 0 && (d.Status == StatusUnpaid || d.Status == StatusOverdue)
}
