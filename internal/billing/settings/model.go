package settings

import "time"

// CompanySettings is the issuer identity printed on documents. Every
// field is optional; the renderer leaves blanks for missing values.
type CompanySettings struct {
	CompanyID   int64     `json:"company_id" db:"company_id"`
	CompanyName string    `json:"company_name" db:"company_name"`
	Address     *string   `json:"address,omitempty" db:"address"`
	Phone       *string   `json:"phone,omitempty" db:"phone"`
	Email       *string   `json:"email,omitempty" db:"email"`
	GSTIN       *string   `json:"gstin,omitempty" db:"gstin"`
	LogoData    *string   `json:"logo_data,omitempty" db:"logo_data"`
	BankName    *string   `json:"bank_name,omitempty" db:"bank_name"`
	BankAccount *string   `json:"bank_account,omitempty" db:"bank_account"`
	BankIFSC    *string   `json:"bank_ifsc,omitempty" db:"bank_ifsc"`
	UPIID       *string   `json:"upi_id,omitempty" db:"upi_id"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// UpsertSettingsRequest replaces the stored settings for a company.
type UpsertSettingsRequest struct {
	CompanyName string  `json:"company_name" validate:"required,max=200"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	GSTIN       *string `json:"gstin,omitempty" validate:"omitempty,max=20"`
	LogoData    *string `json:"logo_data,omitempty"`
	BankName    *string `json:"bank_name,omitempty" validate:"omitempty,max=100"`
	BankAccount *string `json:"bank_account,omitempty" validate:"omitempty,max=50"`
	BankIFSC    *string `json:"bank_ifsc,omitempty" validate:"omitempty,max=20"`
	UPIID       *string `json:"upi_id,omitempty" validate:"omitempty,max=100"`
}
