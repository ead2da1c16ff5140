// Package totals implements the pure document arithmetic shared by
// invoices and quotations. All functions are side-effect free and
// deterministic; sums stay un-rounded internally and are rounded only
// at display boundaries via Round2.
package totals

import (
	"errors"
	"math"
)

var (
	// ErrPercentOutOfRange is returned for discount or tax percentages
	// outside [0,100]. Out-of-range values are rejected, not clamped.
	ErrPercentOutOfRange = errors.New("totals: percent out of range")
	// ErrNegativeInput is returned for negative quantity or rate.
	ErrNegativeInput = errors.New("totals: negative quantity or rate")
)

// Line is one document row as seen by the calculator.
type Line struct {
	Description     string
	HSNCode         string
	ModelNumber     string
	Weight          string
	Quantity        float64
	Rate            float64
	DiscountPercent float64
	TaxPercent      float64
	Amount          float64
}

// Charges are document-level amounts added after tax.
type Charges struct {
	Freight       float64
	Packaging     float64
	Miscellaneous float64
}

// Sum returns the combined additional charges.
func (c Charges) Sum() float64 {
	return c.Freight + c.Packaging + c.Miscellaneous
}

// Totals aggregates a document's item lines and charges.
type Totals struct {
	Subtotal          float64
	TaxAmount         float64
	AdditionalCharges float64
	Total             float64
}

// LineAmount computes quantity*rate reduced by the line discount.
func LineAmount(quantity, rate, discountPercent float64) (float64, error) {
	if quantity < 0 || rate < 0 {
		return 0, ErrNegativeInput
	}
	if discountPercent < 0 || discountPercent > 100 {
		return 0, ErrPercentOutOfRange
	}
	return quantity * rate * (1 - discountPercent/100), nil
}

// RecomputeLine refreshes a line's Amount from its other fields.
func RecomputeLine(line *Line) error {
	if line.TaxPercent < 0 || line.TaxPercent > 100 {
		return ErrPercentOutOfRange
	}
	amount, err := LineAmount(line.Quantity, line.Rate, line.DiscountPercent)
	if err != nil {
		return err
	}
	line.Amount = amount
	return nil
}

// ApplyGlobalDiscount overwrites every line's discount with percent and
// recomputes amounts. Pre-existing per-line discounts are discarded,
// last write wins.
func ApplyGlobalDiscount(lines []Line, percent float64) ([]Line, error) {
	if percent < 0 || percent > 100 {
		return nil, ErrPercentOutOfRange
	}
	out := make([]Line, len(lines))
	for i, line := range lines {
		line.DiscountPercent = percent
		if err := RecomputeLine(&line); err != nil {
			return nil, err
		}
		out[i] = line
	}
	return out, nil
}

// Compute aggregates lines and charges into document totals. An empty
// line slice yields zero totals plus any charges. Line amounts are
// trusted as-is; callers recompute them on every mutation.
func Compute(lines []Line, charges Charges) Totals {
	var t Totals
	for _, line := range lines {
		t.Subtotal += line.Amount
		t.TaxAmount += line.Amount * line.TaxPercent / 100
	}
	t.AdditionalCharges = charges.Sum()
	t.Total = t.Subtotal + t.TaxAmount + t.AdditionalCharges
	return t
}

// Round2 rounds half-up to two decimal places. Applied at display and
// serialization time only, never to intermediate sums.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
