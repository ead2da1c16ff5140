package customers

import "time"

// Customer is the counterparty a document is issued to. GSTIN is carried
// as an opaque string, never validated or parsed.
type Customer struct {
	ID              int64     `json:"id" db:"id"`
	CompanyID       int64     `json:"company_id" db:"company_id"`
	Name            string    `json:"name" db:"name"`
	Email           *string   `json:"email,omitempty" db:"email"`
	Phone           *string   `json:"phone,omitempty" db:"phone"`
	GSTIN           *string   `json:"gstin,omitempty" db:"gstin"`
	BillingAddress  *string   `json:"billing_address,omitempty" db:"billing_address"`
	ShippingAddress *string   `json:"shipping_address,omitempty" db:"shipping_address"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	Notes           *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}
