package documents

import "time"

type CreateLineRequest struct {
	Description     string  `json:"description" validate:"required,max=500"`
	HSNCode         *string `json:"hsn_code,omitempty" validate:"omitempty,max=20"`
	ModelNumber     *string `json:"model_number,omitempty" validate:"omitempty,max=50"`
	Weight          *string `json:"weight,omitempty" validate:"omitempty,max=50"`
	Quantity        float64 `json:"quantity" validate:"required,gt=0"`
	Rate            float64 `json:"rate" validate:"gte=0"`
	DiscountPercent float64 `json:"discount_percent" validate:"gte=0,lte=100"`
	TaxPercent      float64 `json:"tax_percent" validate:"gte=0,lte=100"`
	LineOrder       int     `json:"line_order" validate:"gte=0"`
}

type CreateDocumentRequest struct {
	Kind          Kind                `json:"kind" validate:"required,oneof=INVOICE QUOTATION"`
	CompanyID     int64               `json:"company_id" validate:"required,gt=0"`
	CustomerID    int64               `json:"customer_id" validate:"required,gt=0"`
	IssueDate     time.Time           `json:"issue_date" validate:"required"`
	DueDate       time.Time           `json:"due_date" validate:"required"`
	Currency      string              `json:"currency" validate:"required,len=3"`
	Freight       float64             `json:"freight" validate:"gte=0"`
	Packaging     float64             `json:"packaging" validate:"gte=0"`
	Miscellaneous float64             `json:"miscellaneous" validate:"gte=0"`
	Notes         *string             `json:"notes,omitempty"`
	Lines         []CreateLineRequest `json:"lines" validate:"dive"`
}

type UpdateDocumentRequest struct {
	IssueDate     *time.Time           `json:"issue_date,omitempty"`
	DueDate       *time.Time           `json:"due_date,omitempty"`
	Currency      *string              `json:"currency,omitempty" validate:"omitempty,len=3"`
	Freight       *float64             `json:"freight,omitempty" validate:"omitempty,gte=0"`
	Packaging     *float64             `json:"packaging,omitempty" validate:"omitempty,gte=0"`
	Miscellaneous *float64             `json:"miscellaneous,omitempty" validate:"omitempty,gte=0"`
	Notes         *string              `json:"notes,omitempty"`
	Lines         *[]CreateLineRequest `json:"lines,omitempty" validate:"omitempty,dive"`
}

type GlobalDiscountRequest struct {
	Percent float64 `json:"percent" validate:"gte=0,lte=100"`
}

type ListDocumentsRequest struct {
	CompanyID  int64      `json:"company_id" validate:"required,gt=0"`
	Kind       *Kind      `json:"kind,omitempty" validate:"omitempty,oneof=INVOICE QUOTATION"`
	CustomerID *int64     `json:"customer_id,omitempty"`
	Status     *Status    `json:"status,omitempty"`
	DateFrom   *time.Time `json:"date_from,omitempty"`
	DateTo     *time.Time `json:"date_to,omitempty"`
	Limit      int        `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int        `json:"offset" validate:"gte=0"`
}

// DocumentWithCustomer decorates list rows with the counterparty name.
type DocumentWithCustomer struct {
	Document
	CustomerName string `json:"customer_name" db:"customer_name"`
}
