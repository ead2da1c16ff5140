package render

// Align selects the horizontal anchor for a text write. For AlignRight
// and AlignCenter the x coordinate is the right edge / center point.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Style selects the font weight.
type Style int

const (
	StyleRegular Style = iota
	StyleBold
)

// Canvas is the imperative drawing surface the renderer writes to.
// Coordinates are millimeters from the top-left corner of the current
// page. The production implementation wraps gofpdf; tests substitute a
// recording canvas.
type Canvas interface {
	Text(x, y, size float64, style Style, align Align, s string)
	Line(x1, y1, x2, y2 float64)
	// Image embeds PNG or JPEG bytes. A decode failure is returned to
	// the caller, which skips the asset and continues.
	Image(data []byte, x, y, w, h float64) error
	NewPage()
	PageCount() int
	Output() ([]byte, error)
}
