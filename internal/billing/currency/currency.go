// Package currency holds the static currency table consulted by the
// totals display layer and the document renderer.
package currency

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ledgerly-erp/ledgerly/internal/billing/totals"
)

// Currency describes one supported display currency.
type Currency struct {
	Code   string
	Symbol string
	Name   string
}

// Supported currencies. INR is the default for unknown codes.
var table = []Currency{
	{Code: "INR", Symbol: "₹", Name: "Indian Rupee"},
	{Code: "USD", Symbol: "$", Name: "US Dollar"},
	{Code: "EUR", Symbol: "€", Name: "Euro"},
	{Code: "GBP", Symbol: "£", Name: "British Pound"},
	{Code: "AED", Symbol: "د.إ", Name: "UAE Dirham"},
	{Code: "SGD", Symbol: "S$", Name: "Singapore Dollar"},
}

var byCode = func() map[string]Currency {
	m := make(map[string]Currency, len(table))
	for _, c := range table {
		m[c.Code] = c
	}
	return m
}()

var (
	printerIN = message.NewPrinter(language.MustParse("en-IN"))
	printerEN = message.NewPrinter(language.English)
)

// All returns the supported currency table in display order.
func All() []Currency {
	out := make([]Currency, len(table))
	copy(out, table)
	return out
}

// Lookup resolves a currency code, falling back to INR for unknown codes.
func Lookup(code string) Currency {
	if c, ok := byCode[code]; ok {
		return c
	}
	return byCode["INR"]
}

// IsSupported reports whether code is in the currency table.
func IsSupported(code string) bool {
	_, ok := byCode[code]
	return ok
}

// FormatAmount renders a rounded amount with its currency symbol and
// locale digit grouping (lakh/crore grouping for INR).
func FormatAmount(code string, v float64) string {
	c := Lookup(code)
	p := printerEN
	if c.Code == "INR" {
		p = printerIN
	}
	return p.Sprintf("%s%.2f", c.Symbol, totals.Round2(v))
}
