// Package gst aggregates issued invoices into the outward-supply view
// used for GST filing: taxable value and tax amount grouped by rate.
package gst

import "time"

// RateBucket is the aggregate for one tax rate.
type RateBucket struct {
	TaxRatePercent float64 `json:"tax_rate_percent" db:"tax_rate_percent"`
	TaxableValue   float64 `json:"taxable_value" db:"taxable_value"`
	TaxAmount      float64 `json:"tax_amount" db:"tax_amount"`
	InvoiceCount   int     `json:"invoice_count" db:"invoice_count"`
}

// Summary is the period rollup across all rates.
type Summary struct {
	CompanyID         int64        `json:"company_id"`
	From              time.Time    `json:"from"`
	To                time.Time    `json:"to"`
	Buckets           []RateBucket `json:"buckets"`
	TotalTaxableValue float64      `json:"total_taxable_value"`
	TotalTaxAmount    float64      `json:"total_tax_amount"`
}
