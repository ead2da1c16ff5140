// Package render produces the printable PDF form of a document. Layout
// geometry is fixed per variant; the drawing pass is a single cursor
// sweep down the page with explicit page breaks.
package render

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ledgerly-erp/ledgerly/internal/billing/currency"
	"github.com/ledgerly-erp/ledgerly/internal/billing/customers"
	"github.com/ledgerly-erp/ledgerly/internal/billing/documents"
	"github.com/ledgerly-erp/ledgerly/internal/billing/settings"
	"github.com/ledgerly-erp/ledgerly/internal/billing/totals"
)

// Renderer turns a document plus issuer and counterparty context into
// PDF bytes. Output is deterministic: the embedded PDF dates are pinned
// to the document's UpdatedAt, so the same inputs always serialize to
// the same bytes.
type Renderer struct {
	logger    *slog.Logger
	newCanvas func(Layout, time.Time) Canvas
}

func NewRenderer(logger *slog.Logger) *Renderer {
	return &Renderer{
		logger: logger,
		newCanvas: func(l Layout, pinned time.Time) Canvas {
			return newPDFCanvas(l, pinned)
		},
	}
}

// Render draws doc onto a fresh canvas. Customer and company settings
// may be nil; missing context degrades to blank sections, never an
// error. A logo that fails to decode is logged and skipped.
func (r *Renderer) Render(doc *documents.Document, cust *customers.Customer, company *settings.CompanySettings, layout Layout) ([]byte, error) {
	l := layout.forKind(doc.Kind)
	c := r.newCanvas(l, doc.UpdatedAt.UTC())

	p := &pass{c: c, l: l, y: l.MarginTop, logger: r.logger}
	p.header(doc, company)
	p.partyBlock(doc, cust)
	p.itemTable(doc)
	p.totalsBlock(doc)
	p.notes(doc)
	p.footer(doc, company)

	out, err := c.Output()
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", doc.Number, err)
	}
	return out, nil
}

// Filename is the suggested download name for a rendered document.
func Filename(doc *documents.Document) string {
	return fmt.Sprintf("%s-%s.pdf", strings.ToLower(string(doc.Kind)), doc.Number)
}

// pass is one drawing sweep. y is the cursor in mm from the top of the
// current page.
type pass struct {
	c      Canvas
	l      Layout
	y      float64
	logger *slog.Logger
}

// ensure breaks the page when the next block of height h would enter
// the footer reserve. Blocks reserve their full height up front, so a
// block never straddles a page boundary.
func (p *pass) ensure(h float64) bool {
	if p.y+h > p.l.PageHeight-p.l.FooterReserve {
		p.c.NewPage()
		p.y = p.l.MarginTop
		return true
	}
	return false
}

func (p *pass) separator() {
	p.c.Line(p.l.MarginLeft, p.y, p.l.MarginRight, p.y)
	p.y += p.l.RowHeight * 0.6
}

func title(kind documents.Kind) string {
	if kind == documents.KindQuotation {
		return "QUOTATION"
	}
	return "TAX INVOICE"
}

func (p *pass) header(doc *documents.Document, company *settings.CompanySettings) {
	if p.l.Centered {
		p.centeredHeader(doc, company)
		return
	}

	l := p.l
	nameX := l.MarginLeft
	if l.ShowLogo && company != nil && company.LogoData != nil {
		if p.drawLogo(*company.LogoData) {
			nameX += 36
		}
	}

	if company != nil {
		p.c.Text(nameX, p.y+5, l.TitleSize-2, StyleBold, AlignLeft, company.CompanyName)
		y := p.y + 10
		for _, line := range companyLines(company) {
			p.c.Text(nameX, y, l.SmallSize, StyleRegular, AlignLeft, line)
			y += 4
		}
	}

	p.c.Text(l.MarginRight, p.y+6, l.TitleSize, StyleBold, AlignRight, title(doc.Kind))
	p.c.Text(l.MarginRight, p.y+12, l.BodySize, StyleRegular, AlignRight, doc.Number)
	p.c.Text(l.MarginRight, p.y+17, l.SmallSize, StyleRegular, AlignRight, "Date: "+doc.IssueDate.Format("02 Jan 2006"))
	if doc.Kind == documents.KindInvoice {
		p.c.Text(l.MarginRight, p.y+21, l.SmallSize, StyleRegular, AlignRight, "Due: "+doc.DueDate.Format("02 Jan 2006"))
	}

	p.y += 30
	p.separator()
}

func (p *pass) centeredHeader(doc *documents.Document, company *settings.CompanySettings) {
	l := p.l
	cx := l.PageWidth / 2

	if company != nil {
		p.c.Text(cx, p.y+4, l.TitleSize, StyleBold, AlignCenter, company.CompanyName)
		p.y += 8
		for _, line := range companyLines(company) {
			p.c.Text(cx, p.y, l.SmallSize, StyleRegular, AlignCenter, line)
			p.y += 3.5
		}
	}
	p.y += 2
	p.separator()

	p.c.Text(cx, p.y+3, l.BodySize+1, StyleBold, AlignCenter, title(doc.Kind))
	p.y += 7
	p.c.Text(l.MarginLeft, p.y, l.SmallSize, StyleRegular, AlignLeft, doc.Number)
	p.c.Text(l.MarginRight, p.y, l.SmallSize, StyleRegular, AlignRight, doc.IssueDate.Format("02/01/2006"))
	p.y += 4
	p.separator()
}

// drawLogo decodes the stored logo and places it. Logos are stored as
// data URIs (data:image/png;base64,...) but bare base64 payloads are
// accepted too. Failures are logged and skipped so a corrupt upload
// cannot block rendering.
func (p *pass) drawLogo(encoded string) bool {
	if strings.HasPrefix(encoded, "data:") {
		i := strings.Index(encoded, ",")
		if i < 0 {
			p.logger.Warn("skipping logo", slog.String("reason", "malformed data URI"))
			return false
		}
		encoded = encoded[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		p.logger.Warn("skipping logo", slog.Any("error", err))
		return false
	}
	if err := p.c.Image(data, p.l.MarginLeft, p.y, 30, 15); err != nil {
		p.logger.Warn("skipping logo", slog.Any("error", err))
		return false
	}
	return true
}

func companyLines(company *settings.CompanySettings) []string {
	var out []string
	if company.Address != nil {
		out = append(out, strings.Split(*company.Address, "\n")...)
	}
	contact := joinNonEmpty(" | ", deref(company.Phone), deref(company.Email))
	if contact != "" {
		out = append(out, contact)
	}
	if company.GSTIN != nil {
		out = append(out, "GSTIN: "+*company.GSTIN)
	}
	return out
}

func (p *pass) partyBlock(doc *documents.Document, cust *customers.Customer) {
	l := p.l
	label := "Bill To"
	if doc.Kind == documents.KindQuotation {
		label = "Quotation For"
	}
	p.c.Text(l.MarginLeft, p.y+4, l.BodySize, StyleBold, AlignLeft, label)
	p.y += 9

	if cust == nil {
		p.y += 2
		return
	}
	p.c.Text(l.MarginLeft, p.y, l.BodySize, StyleRegular, AlignLeft, cust.Name)
	p.y += 4.5
	if cust.BillingAddress != nil {
		for _, line := range strings.Split(*cust.BillingAddress, "\n") {
			p.c.Text(l.MarginLeft, p.y, l.SmallSize, StyleRegular, AlignLeft, line)
			p.y += 3.5
		}
	}
	if cust.GSTIN != nil {
		p.c.Text(l.MarginLeft, p.y, l.SmallSize, StyleRegular, AlignLeft, "GSTIN: "+*cust.GSTIN)
		p.y += 3.5
	}
	p.y += 3
}

func (p *pass) tableHeader() {
	l := p.l
	col := l.Columns
	p.y += 2
	p.c.Text(col.Description, p.y+3, l.SmallSize, StyleBold, AlignLeft, "Description")
	if col.HSN > 0 {
		p.c.Text(col.HSN, p.y+3, l.SmallSize, StyleBold, AlignLeft, "HSN")
	}
	p.c.Text(col.Qty, p.y+3, l.SmallSize, StyleBold, AlignRight, "Qty")
	p.c.Text(col.Rate, p.y+3, l.SmallSize, StyleBold, AlignRight, "Rate")
	if col.Tax > 0 {
		p.c.Text(col.Tax, p.y+3, l.SmallSize, StyleBold, AlignRight, "Tax%")
	}
	p.c.Text(col.Amount, p.y+3, l.SmallSize, StyleBold, AlignRight, "Amount")
	p.y += 5
	p.c.Line(l.MarginLeft, p.y, l.MarginRight, p.y)
	p.y += 1
}

// rowHeight reserves extra space when a line carries model/weight
// metadata printed on a sub-line.
func (p *pass) rowHeight(line documents.Line) float64 {
	if !p.l.Centered && (line.ModelNumber != nil || line.Weight != nil) {
		return p.l.RowHeight + 3.5
	}
	return p.l.RowHeight
}

// itemTable walks the lines with a page-break check before each row: a
// row that does not fit moves whole to the next page, where the column
// header is reprinted. Zero lines yields a header with an empty body.
func (p *pass) itemTable(doc *documents.Document) {
	l := p.l
	col := l.Columns
	p.tableHeader()

	for _, line := range doc.Lines {
		h := p.rowHeight(line)
		if p.ensure(h) {
			p.tableHeader()
		}
		baseline := p.y + l.RowHeight - 2
		p.c.Text(col.Description, baseline, l.BodySize-1, StyleRegular, AlignLeft, truncate(line.Description, l.DescriptionLimit))
		if col.HSN > 0 && line.HSNCode != nil {
			p.c.Text(col.HSN, baseline, l.BodySize-1, StyleRegular, AlignLeft, *line.HSNCode)
		}
		p.c.Text(col.Qty, baseline, l.BodySize-1, StyleRegular, AlignRight, fmtQty(line.Quantity))
		p.c.Text(col.Rate, baseline, l.BodySize-1, StyleRegular, AlignRight, fmtNum(line.Rate))
		if col.Tax > 0 {
			p.c.Text(col.Tax, baseline, l.BodySize-1, StyleRegular, AlignRight, fmtQty(line.TaxPercent))
		}
		p.c.Text(col.Amount, baseline, l.BodySize-1, StyleRegular, AlignRight, fmtNum(line.Amount))

		if h > l.RowHeight {
			meta := joinNonEmpty("  ", prefixed("Model: ", line.ModelNumber), prefixed("Weight: ", line.Weight))
			p.c.Text(col.Description+2, baseline+3.5, l.SmallSize, StyleRegular, AlignLeft, meta)
		}
		p.y += h
	}

	p.y += 1
	p.c.Line(l.MarginLeft, p.y, l.MarginRight, p.y)
	p.y += 2
}

func (p *pass) totalsLine(label, value string, style Style) {
	l := p.l
	p.c.Text(l.TotalsLabelX, p.y+3, l.BodySize-1, style, AlignRight, label)
	p.c.Text(l.Columns.Amount, p.y+3, l.BodySize-1, style, AlignRight, value)
	p.y += l.RowHeight * 0.8
}

func (p *pass) totalsBlock(doc *documents.Document) {
	lines := 3 // subtotal, tax, grand total
	if doc.Freight != 0 {
		lines++
	}
	if doc.Packaging != 0 {
		lines++
	}
	if doc.Miscellaneous != 0 {
		lines++
	}
	if doc.Kind == documents.KindInvoice {
		lines += 2
	}
	p.ensure(float64(lines)*p.l.RowHeight*0.8 + 4)

	p.totalsLine("Subtotal", fmtNum(doc.Subtotal), StyleRegular)
	if doc.Freight != 0 {
		p.totalsLine("Freight", fmtNum(doc.Freight), StyleRegular)
	}
	if doc.Packaging != 0 {
		p.totalsLine("Packaging", fmtNum(doc.Packaging), StyleRegular)
	}
	if doc.Miscellaneous != 0 {
		p.totalsLine("Other Charges", fmtNum(doc.Miscellaneous), StyleRegular)
	}
	p.totalsLine("Tax", fmtNum(doc.TaxAmount), StyleRegular)
	p.totalsLine("Grand Total", currency.FormatAmount(doc.Currency, doc.Total), StyleBold)

	if doc.Kind == documents.KindInvoice {
		p.totalsLine("Amount Paid", fmtNum(doc.PaidAmount), StyleRegular)
		p.totalsLine("Balance Due", currency.FormatAmount(doc.Currency, doc.Balance()), StyleBold)
	}
	p.y += 2
}

func (p *pass) notes(doc *documents.Document) {
	if doc.Notes == nil || strings.TrimSpace(*doc.Notes) == "" {
		return
	}
	l := p.l
	noteLines := strings.Split(strings.TrimSpace(*doc.Notes), "\n")
	p.ensure(float64(len(noteLines))*3.5 + 7)

	p.c.Text(l.MarginLeft, p.y+3, l.SmallSize, StyleBold, AlignLeft, "Notes")
	p.y += 6
	for _, line := range noteLines {
		p.c.Text(l.MarginLeft, p.y, l.SmallSize, StyleRegular, AlignLeft, line)
		p.y += 3.5
	}
	p.y += 2
}

func (p *pass) footer(doc *documents.Document, company *settings.CompanySettings) {
	l := p.l
	var bank []string
	if company != nil && doc.Kind == documents.KindInvoice {
		acct := joinNonEmpty("  ", prefixed("A/C: ", company.BankAccount), prefixed("IFSC: ", company.BankIFSC))
		if company.BankName != nil && acct != "" {
			bank = append(bank, *company.BankName+"  "+acct)
		} else if acct != "" {
			bank = append(bank, acct)
		}
		if company.UPIID != nil {
			bank = append(bank, "UPI: "+*company.UPIID)
		}
	}

	p.ensure(float64(len(bank))*3.5 + 10)
	p.separator()
	if len(bank) > 0 {
		p.c.Text(l.MarginLeft, p.y+2, l.SmallSize, StyleBold, AlignLeft, "Payment Details")
		p.y += 5.5
		for _, line := range bank {
			p.c.Text(l.MarginLeft, p.y, l.SmallSize, StyleRegular, AlignLeft, line)
			p.y += 3.5
		}
	}
	anchor := AlignLeft
	x := l.MarginLeft
	if l.Centered {
		anchor = AlignCenter
		x = l.PageWidth / 2
	}
	p.c.Text(x, p.y+3, l.SmallSize, StyleRegular, anchor, "This is a computer generated document.")
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(totals.Round2(v), 'f', 2, 64)
}

func fmtQty(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func prefixed(prefix string, s *string) string {
	if s == nil || *s == "" {
		return ""
	}
	return prefix + *s
}

func joinNonEmpty(sep string, parts ...string) string {
	var keep []string
	for _, p := range parts {
		if p != "" {
			keep = append(keep, p)
		}
	}
	return strings.Join(keep, sep)
}
