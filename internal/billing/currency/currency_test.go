package currency

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupKnownCodes(t *testing.T) {
	require.Equal(t, "₹", Lookup("INR").Symbol)
	require.Equal(t, "$", Lookup("USD").Symbol)
	require.Equal(t, "S$", Lookup("SGD").Symbol)
}

func TestLookupUnknownFallsBackToINR(t *testing.T) {
	c := Lookup("XYZ")
	require.Equal(t, "INR", c.Code)
	require.Equal(t, "₹", c.Symbol)

	require.Equal(t, "INR", Lookup("").Code)
}

func TestIsSupported(t *testing.T) {
	require.True(t, IsSupported("AED"))
	require.False(t, IsSupported("JPY"))
}

func TestFormatAmountRounds(t *testing.T) {
	require.Equal(t, "$212.40", FormatAmount("USD", 212.400000001))
	require.Equal(t, "₹0.13", FormatAmount("INR", 0.125))
}

func TestAllIsACopy(t *testing.T) {
	all := All()
	require.Len(t, all, 6)
	all[0].Symbol = "mutated"
	require.Equal(t, "₹", Lookup("INR").Symbol)
}
