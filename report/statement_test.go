package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerly-erp/ledgerly/internal/billing/documents"
)

func statementInvoice(number, code string, total, paid float64) documents.DocumentWithCustomer {
	issue := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	return documents.DocumentWithCustomer{Document: documents.Document{
		Kind:       documents.KindInvoice,
		Number:     number,
		Currency:   code,
		IssueDate:  issue,
		DueDate:    issue.AddDate(0, 1, 0),
		Status:     documents.StatusUnpaid,
		Total:      total,
		PaidAmount: paid,
	}}
}

func TestStatementBodySingleCurrency(t *testing.T) {
	rows, totals := statementBody([]documents.DocumentWithCustomer{
		statementInvoice("INV-202604-0001", "INR", 212.4, 12.4),
		statementInvoice("INV-202604-0002", "INR", 100, 0),
	})

	require.Len(t, rows, 2)
	require.Len(t, totals, 1)
	require.Equal(t, "Totals", totals[0].Label)
	require.Equal(t, "₹312.40", totals[0].Billed)
	require.Equal(t, "₹12.40", totals[0].Paid)
	require.Equal(t, "₹300.00", totals[0].Due)
}

func TestStatementBodyKeepsCurrenciesApart(t *testing.T) {
	rows, totals := statementBody([]documents.DocumentWithCustomer{
		statementInvoice("INV-202604-0001", "INR", 500, 100),
		statementInvoice("INV-202604-0002", "USD", 80, 80),
		statementInvoice("INV-202604-0003", "INR", 250, 0),
	})

	require.Len(t, rows, 3)
	require.Len(t, totals, 2)

	require.Equal(t, "Totals (INR)", totals[0].Label)
	require.Equal(t, "₹750.00", totals[0].Billed)
	require.Equal(t, "₹100.00", totals[0].Paid)
	require.Equal(t, "₹650.00", totals[0].Due)

	require.Equal(t, "Totals (USD)", totals[1].Label)
	require.Equal(t, "$80.00", totals[1].Billed)
	require.Equal(t, "$80.00", totals[1].Paid)
	require.Equal(t, "$0.00", totals[1].Due)
}

func TestStatementBodyEmpty(t *testing.T) {
	rows, totals := statementBody(nil)
	require.Empty(t, rows)
	require.Len(t, totals, 1)
	require.Equal(t, "Totals", totals[0].Label)
	require.Equal(t, "₹0.00", totals[0].Billed)
}

func TestStatementTemplateRendersOneTotalsLinePerCurrency(t *testing.T) {
	rows, totals := statementBody([]documents.DocumentWithCustomer{
		statementInvoice("INV-202604-0001", "INR", 500, 100),
		statementInvoice("INV-202604-0002", "USD", 80, 80),
	})
	data := statementData{
		CompanyName:  "Acme Traders",
		CustomerName: "Bharat Retail",
		From:         "10 Apr 2025",
		To:           "10 Apr 2026",
		GeneratedAt:  "10 Apr 2026 12:00 UTC",
		Rows:         rows,
		Totals:       totals,
	}

	var buf bytes.Buffer
	require.NoError(t, statementTmpl.Execute(&buf, data))
	html := buf.String()
	require.Contains(t, html, "Totals (INR)")
	require.Contains(t, html, "Totals (USD)")
	require.Contains(t, html, "INV-202604-0002")
}
