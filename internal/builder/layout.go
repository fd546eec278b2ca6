package builder

import "strconv"

// A4 dimensions in CSS pixels at 96dpi. The export capture is sized to this
// box so the rasterized page matches the print format.
const (
	A4WidthPx  = 794
	A4HeightPx = 1123
)

// PreviewLayout is the transient on-screen layout state of the anchored
// preview region. Full-screen viewing scales the region down and pins it;
// PDF capture needs the region unscaled and statically positioned, so the
// export path swaps the layout out and restores it afterwards.
type PreviewLayout struct {
	Scale    float64
	Position string
	Width    string
	Height   string
	Top      string
	Left     string
	Right    string
	Bottom   string
}

// NewPreviewLayout returns the layout the preview starts a session with.
func NewPreviewLayout() *PreviewLayout {
	return &PreviewLayout{
		Scale:    1.0,
		Position: "absolute",
		Width:    "100%",
		Height:   "100%",
		Top:      "0",
		Left:     "0",
		Right:    "0",
		Bottom:   "0",
	}
}

// normalizeForCapture puts the layout into the fixed A4 capture state and
// returns a closure restoring the exact prior state. Callers must run the
// restore on success and failure paths alike.
func (l *PreviewLayout) normalizeForCapture() (restore func()) {
	saved := *l

	l.Scale = 1.0
	l.Position = "static"
	l.Width = strconv.Itoa(A4WidthPx) + "px"
	l.Height = strconv.Itoa(A4HeightPx) + "px"
	l.Top = ""
	l.Left = ""
	l.Right = ""
	l.Bottom = ""

	return func() { *l = saved }
}
