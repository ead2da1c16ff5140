package render

import (
	"errors"

	"github.com/ledgerly-erp/ledgerly/internal/billing/documents"
)

// ErrUnknownLayout is returned for layout names other than a4/thermal.
var ErrUnknownLayout = errors.New("render: unknown layout")

// Columns holds x anchors for the item table. Description and HSN are
// left anchors, the numeric columns are right anchors. HSN == 0 means
// the column is omitted (quotations, thermal).
type Columns struct {
	Description float64
	HSN         float64
	Qty         float64
	Rate        float64
	Tax         float64
	Amount      float64
}

// Layout carries the page geometry driving the cursor automaton. The
// four variants (A4/thermal x invoice/quotation) share one automaton
// and differ only in these constants and omitted sections.
type Layout struct {
	Name       string
	PageWidth  float64
	PageHeight float64
	MarginTop  float64
	MarginLeft float64
	// right print boundary, not a width
	MarginRight float64

	// FooterReserve is the vertical band kept free at the bottom of
	// every page; an item row never starts inside it.
	FooterReserve float64
	RowHeight     float64

	TitleSize float64
	BodySize  float64
	SmallSize float64

	DescriptionLimit int
	ShowLogo         bool
	Centered         bool
	Columns          Columns

	// TotalsLabelX is the right anchor for labels in the totals block;
	// values right-align on Columns.Amount.
	TotalsLabelX float64
}

// LayoutA4 is the full-width portrait layout.
func LayoutA4() Layout {
	return Layout{
		Name:          "a4",
		PageWidth:     210,
		PageHeight:    297,
		MarginTop:     15,
		MarginLeft:    15,
		MarginRight:   195,
		FooterReserve: 25,
		RowHeight:     7,

		TitleSize: 16,
		BodySize:  10,
		SmallSize: 8,

		DescriptionLimit: 40,
		ShowLogo:         true,
		TotalsLabelX:     160,
		Columns: Columns{
			Description: 15,
			HSN:         98,
			Qty:         130,
			Rate:        152,
			Tax:         170,
			Amount:      195,
		},
	}
}

// LayoutThermal is the 80mm roll layout: stacked, centered header, no
// logo, abbreviated 4-column table.
func LayoutThermal() Layout {
	return Layout{
		Name:          "thermal",
		PageWidth:     80,
		PageHeight:    297,
		MarginTop:     8,
		MarginLeft:    5,
		MarginRight:   75,
		FooterReserve: 18,
		RowHeight:     5,

		TitleSize: 11,
		BodySize:  8,
		SmallSize: 7,

		DescriptionLimit: 20,
		ShowLogo:         false,
		Centered:         true,
		TotalsLabelX:     48,
		Columns: Columns{
			Description: 5,
			Qty:         50,
			Rate:        62,
			Amount:      75,
		},
	}
}

// LayoutByName resolves the request query value.
func LayoutByName(name string) (Layout, error) {
	switch name {
	case "", "a4":
		return LayoutA4(), nil
	case "thermal":
		return LayoutThermal(), nil
	default:
		return Layout{}, ErrUnknownLayout
	}
}

// forKind drops the HSN column for quotations; the freed width goes to
// the description.
func (l Layout) forKind(kind documents.Kind) Layout {
	if kind == documents.KindQuotation {
		l.Columns.HSN = 0
		if l.DescriptionLimit < 50 && l.Name == "a4" {
			l.DescriptionLimit = 50
		}
	}
	return l
}

func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
