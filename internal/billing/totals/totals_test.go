package totals

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLineAmount(t *testing.T) {
	amount, err := LineAmount(2, 100, 10)
	require.NoError(t, err)
	require.InDelta(t, 180, amount, 1e-9)

	amount, err = LineAmount(3, 0, 0)
	require.NoError(t, err)
	require.Zero(t, amount)
}

func TestLineAmountRejectsBadInput(t *testing.T) {
	_, err := LineAmount(1, 100, 101)
	require.ErrorIs(t, err, ErrPercentOutOfRange)

	_, err = LineAmount(1, 100, -1)
	require.ErrorIs(t, err, ErrPercentOutOfRange)

	_, err = LineAmount(-1, 100, 0)
	require.ErrorIs(t, err, ErrNegativeInput)

	_, err = LineAmount(1, -100, 0)
	require.ErrorIs(t, err, ErrNegativeInput)
}

func TestRecomputeLine(t *testing.T) {
	line := Line{Quantity: 2, Rate: 100, DiscountPercent: 10, TaxPercent: 18, Amount: 9999}
	require.NoError(t, RecomputeLine(&line))
	require.InDelta(t, 180, line.Amount, 1e-9)

	bad := Line{Quantity: 1, Rate: 10, TaxPercent: 150}
	require.ErrorIs(t, RecomputeLine(&bad), ErrPercentOutOfRange)
}

func TestApplyGlobalDiscountOverwritesPerLineDiscounts(t *testing.T) {
	lines := []Line{
		{Quantity: 1, Rate: 100, DiscountPercent: 50, Amount: 50},
		{Quantity: 1, Rate: 200, DiscountPercent: 5, Amount: 190},
	}

	out, e := ApplyGlobalDiscount(lines, 20)
	require.NoError(t, e)
	require.InDelta(t, 80, out[0].Amount, 1e-9)
	require.InDelta(t, 160, out[1].Amount, 1e-9)
	require.Equal(t, 20.0, out[0].DiscountPercent)
	require.Equal(t, 20.0, out[1].DiscountPercent)

	// input slice is left untouched
	require.Equal(t, 50.0, lines[0].DiscountPercent)

	_, e = ApplyGlobalDiscount(lines, 120)
	require.ErrorIs(t, e, ErrPercentOutOfRange)
}

func TestComputeScenario(t *testing.T) {
	line := Line{Quantity: 2, Rate: 100, DiscountPercent: 10, TaxPercent: 18}
	require.NoError(t, RecomputeLine(&line))

	got := Compute([]Line{line}, Charges{})
	require.InDelta(t, 180, got.Subtotal, 1e-9)
	require.InDelta(t, 32.4, got.TaxAmount, 1e-9)
	require.InDelta(t, 212.4, got.Total, 1e-9)
}

func TestComputeEmptyList(t *testing.T) {
	got := Compute(nil, Charges{})
	require.Zero(t, got.Subtotal)
	require.Zero(t, got.TaxAmount)
	require.Zero(t, got.AdditionalCharges)
	require.Zero(t, got.Total)
}

func TestComputeAdditionalCharges(t *testing.T) {
	line := Line{Quantity: 1, Rate: 500, TaxPercent: 12}
	require.NoError(t, RecomputeLine(&line))

	got := Compute([]Line{line}, Charges{Freight: 50, Packaging: 25, Miscellaneous: 10})
	require.InDelta(t, 500, got.Subtotal, 1e-9)
	require.InDelta(t, 60, got.TaxAmount, 1e-9)
	require.InDelta(t, 85, got.AdditionalCharges, 1e-9)
	require.InDelta(t, 645, got.Total, 1e-9)
}

func TestComputeIsDeterministic(t *testing.T) {
	lines := []Line{
		{Quantity: 3, Rate: 99.99, DiscountPercent: 7.5, TaxPercent: 18},
		{Quantity: 1.5, Rate: 42, TaxPercent: 5},
	}
	for i := range lines {
		require.NoError(t, RecomputeLine(&lines[i]))
	}

	first := Compute(lines, Charges{Freight: 12.34})
	second := Compute(lines, Charges{Freight: 12.34})
	require.Equal(t, first, second)
}

func TestRound2(t *testing.T) {
	require.Equal(t, 32.4, Round2(32.400000000000006))
	require.Equal(t, 0.13, Round2(0.125))
	require.Equal(t, 2.67, Round2(2.666666))
	require.Equal(t, 100.0, Round2(99.999))
}
