package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// pdfCanvas implements Canvas on gofpdf. The creation date is pinned by
// the caller so identical inputs serialize to identical bytes.
type pdfCanvas struct {
	pdf        *gofpdf.Fpdf
	translate  func(string) string
	imageCount int
}

func newPDFCanvas(layout Layout, createdAt time.Time) *pdfCanvas {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: layout.PageWidth, Ht: layout.PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreationDate(createdAt)
	pdf.SetModificationDate(createdAt)
	pdf.SetFont("Helvetica", "", 10)
	pdf.AddPage()
	return &pdfCanvas{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (c *pdfCanvas) setFont(size float64, style Style) {
	styleStr := ""
	if style == StyleBold {
		styleStr = "B"
	}
	c.pdf.SetFont("Helvetica", styleStr, size)
}

func (c *pdfCanvas) Text(x, y, size float64, style Style, align Align, s string) {
	c.setFont(size, style)
	s = c.translate(s)
	switch align {
	case AlignRight:
		c.pdf.Text(x-c.pdf.GetStringWidth(s), y, s)
	case AlignCenter:
		c.pdf.Text(x-c.pdf.GetStringWidth(s)/2, y, s)
	default:
		c.pdf.Text(x, y, s)
	}
}

func (c *pdfCanvas) Line(x1, y1, x2, y2 float64) {
	c.pdf.SetLineWidth(0.2)
	c.pdf.Line(x1, y1, x2, y2)
}

func (c *pdfCanvas) Image(data []byte, x, y, w, h float64) error {
	kind, err := sniffImageType(data)
	if err != nil {
		return err
	}
	c.imageCount++
	name := fmt.Sprintf("logo-%d", c.imageCount)
	opts := gofpdf.ImageOptions{ImageType: kind, ReadDpi: true}
	c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if c.pdf.Err() {
		err := c.pdf.Error()
		c.pdf.ClearError()
		return err
	}
	c.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	if c.pdf.Err() {
		err := c.pdf.Error()
		c.pdf.ClearError()
		return err
	}
	return nil
}

func (c *pdfCanvas) NewPage() {
	c.pdf.AddPage()
}

func (c *pdfCanvas) PageCount() int {
	return c.pdf.PageCount()
}

func (c *pdfCanvas) Output() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render: serialize pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func sniffImageType(data []byte) (string, error) {
	switch {
	case len(data) > 8 && bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "PNG", nil
	case len(data) > 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return "JPG", nil
	default:
		return "", fmt.Errorf("render: unsupported image format")
	}
}
