package customers

type CreateCustomerRequest struct {
	CompanyID       int64   `json:"company_id" validate:"required,gt=0"`
	Name            string  `json:"name" validate:"required,max=200"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone           *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	GSTIN           *string `json:"gstin,omitempty" validate:"omitempty,max=20"`
	BillingAddress  *string `json:"billing_address,omitempty" validate:"omitempty,max=500"`
	ShippingAddress *string `json:"shipping_address,omitempty" validate:"omitempty,max=500"`
	Notes           *string `json:"notes,omitempty"`
}

type UpdateCustomerRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone           *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	GSTIN           *string `json:"gstin,omitempty" validate:"omitempty,max=20"`
	BillingAddress  *string `json:"billing_address,omitempty" validate:"omitempty,max=500"`
	ShippingAddress *string `json:"shipping_address,omitempty" validate:"omitempty,max=500"`
	IsActive        *bool   `json:"is_active,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

type ListCustomersRequest struct {
	CompanyID int64   `json:"company_id" validate:"required,gt=0"`
	IsActive  *bool   `json:"is_active,omitempty"`
	Search    *string `json:"search,omitempty"`
	Limit     int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset    int     `json:"offset" validate:"gte=0"`
}
