package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/ledgerly-erp/ledgerly/internal/billing/currency"
	"github.com/ledgerly-erp/ledgerly/internal/billing/customers"
	"github.com/ledgerly-erp/ledgerly/internal/billing/documents"
	"github.com/ledgerly-erp/ledgerly/internal/billing/settings"
)

// StatementPeriod defaults to the trailing twelve months when the
// caller gives no explicit range.
const statementLookback = -12

// StatementRow is one invoice line on a customer statement.
type StatementRow struct {
	Number    string
	IssueDate string
	DueDate   string
	Status    string
	Total     string
	Paid      string
	Balance   string
}

// statementTotals is one totals line. Statements spanning more than
// one currency get a line per currency, labelled with the code.
type statementTotals struct {
	Label  string
	Billed string
	Paid   string
	Due    string
}

type statementData struct {
	CompanyName  string
	CustomerName string
	From, To     string
	GeneratedAt  string
	Rows         []StatementRow
	Totals       []statementTotals
}

// statementTmpl is deliberately plain: Gotenberg's Chromium handles
// the typography, the template only has to be valid HTML.
var statementTmpl = template.Must(template.New("statement").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Customer Statement</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; margin: 36px; color: #222; }
h1 { font-size: 20px; margin-bottom: 0; }
.meta { color: #666; font-size: 12px; margin-bottom: 24px; }
table { width: 100%; border-collapse: collapse; font-size: 12px; }
th, td { padding: 6px 8px; border-bottom: 1px solid #ddd; text-align: left; }
td.num, th.num { text-align: right; }
tfoot td { font-weight: bold; border-top: 2px solid #222; }
</style></head><body>
<h1>{{.CompanyName}}</h1>
<div class="meta">Statement for {{.CustomerName}} · {{.From}} to {{.To}} · generated {{.GeneratedAt}}</div>
<table>
<thead><tr><th>Invoice</th><th>Issued</th><th>Due</th><th>Status</th><th class="num">Total</th><th class="num">Paid</th><th class="num">Balance</th></tr></thead>
<tbody>
{{range .Rows}}<tr><td>{{.Number}}</td><td>{{.IssueDate}}</td><td>{{.DueDate}}</td><td>{{.Status}}</td><td class="num">{{.Total}}</td><td class="num">{{.Paid}}</td><td class="num">{{.Balance}}</td></tr>
{{end}}</tbody>
<tfoot>
{{range .Totals}}<tr><td colspan="4">{{.Label}}</td><td class="num">{{.Billed}}</td><td class="num">{{.Paid}}</td><td class="num">{{.Due}}</td></tr>
{{end}}</tfoot>
</table>
</body></html>`))

// StatementBuilder assembles the customer statement HTML and hands it
// to Gotenberg for conversion.
type StatementBuilder struct {
	client    *Client
	documents *documents.Service
	customers *customers.Service
	settings  *settings.Service
}

func NewStatementBuilder(client *Client, docs *documents.Service, custs *customers.Service, setts *settings.Service) *StatementBuilder {
	return &StatementBuilder{client: client, documents: docs, customers: custs, settings: setts}
}

// Build renders the statement PDF for one customer over [from, to].
func (b *StatementBuilder) Build(ctx context.Context, customerID int64, from, to time.Time) ([]byte, error) {
	cust, err := b.customers.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.AddDate(0, statementLookback, 0)
	}

	kind := documents.KindInvoice
	rows, _, err := b.documents.List(ctx, documents.ListDocumentsRequest{
		CompanyID:  cust.CompanyID,
		Kind:       &kind,
		CustomerID: &customerID,
		DateFrom:   &from,
		DateTo:     &to,
		Limit:      1000,
	})
	if err != nil {
		return nil, fmt.Errorf("report: list invoices: %w", err)
	}

	data := statementData{
		CompanyName:  "Statement of Account",
		CustomerName: cust.Name,
		From:         from.Format("02 Jan 2006"),
		To:           to.Format("02 Jan 2006"),
		GeneratedAt:  time.Now().UTC().Format("02 Jan 2006 15:04 MST"),
	}
	if company, err := b.settings.Get(ctx, cust.CompanyID); err == nil {
		data.CompanyName = company.CompanyName
	}

	data.Rows, data.Totals = statementBody(rows)

	var buf bytes.Buffer
	if err := statementTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("report: build statement html: %w", err)
	}
	return b.client.RenderHTML(ctx, buf.String())
}

// statementBody folds the invoices into display rows plus one totals
// line per currency, in order of first appearance. Sums never mix
// currencies; a single-currency statement keeps the plain label.
func statementBody(rows []documents.DocumentWithCustomer) ([]StatementRow, []statementTotals) {
	type bucket struct {
		code         string
		billed, paid float64
	}
	var order []*bucket
	byCode := make(map[string]*bucket)

	display := make([]StatementRow, 0, len(rows))
	for _, row := range rows {
		b, ok := byCode[row.Currency]
		if !ok {
			b = &bucket{code: row.Currency}
			byCode[row.Currency] = b
			order = append(order, b)
		}
		b.billed += row.Total
		b.paid += row.PaidAmount

		display = append(display, StatementRow{
			Number:    row.Number,
			IssueDate: row.IssueDate.Format("02 Jan 2006"),
			DueDate:   row.DueDate.Format("02 Jan 2006"),
			Status:    string(row.Status),
			Total:     currency.FormatAmount(row.Currency, row.Total),
			Paid:      currency.FormatAmount(row.Currency, row.PaidAmount),
			Balance:   currency.FormatAmount(row.Currency, row.Total-row.PaidAmount),
		})
	}

	if len(order) == 0 {
		return display, []statementTotals{{
			Label:  "Totals",
			Billed: currency.FormatAmount("INR", 0),
			Paid:   currency.FormatAmount("INR", 0),
			Due:    currency.FormatAmount("INR", 0),
		}}
	}

	lines := make([]statementTotals, 0, len(order))
	for _, b := range order {
		label := "Totals"
		if len(order) > 1 {
			label = fmt.Sprintf("Totals (%s)", currency.Lookup(b.code).Code)
		}
		lines = append(lines, statementTotals{
			Label:  label,
			Billed: currency.FormatAmount(b.code, b.billed),
			Paid:   currency.FormatAmount(b.code, b.paid),
			Due:    currency.FormatAmount(b.code, b.billed-b.paid),
		})
	}
	return display, lines
}
