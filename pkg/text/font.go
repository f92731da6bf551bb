package text

import (
	"caretfloat/pkg/css"
)

// Font selects a face and size for measurement and painting.
type Font struct {
	Size   float64
	Bold   bool
	Italic bool
	Mono   bool
	// Ahem selects the fixed test face: every glyph is a 1em square.
	Ahem bool
}

// FontFromStyle derives the font of a computed style.
func FontFromStyle(s *css.Style) Font {
	return Font{
		Size:   s.GetFontSize(),
		Bold:   s.GetFontWeight() == css.FontWeightBold,
		Italic: s.IsItalic(),
		Mono:   s.IsMonospace(),
		Ahem:   s.GetFontFamily() == "ahem",
	}
}

// Metrics are the vertical extents of a face above and below the baseline.
type Metrics struct {
	Ascent  float64
	Descent float64
}

// Height is the content-area height of the face.
func (m Metrics) Height() float64 {
	return m.Ascent + m.Descent
}

// Measurer measures text runs for layout. Advance excludes letter-spacing;
// use Width for the spaced advance.
type Measurer interface {
	Advance(f Font, s string) float64
	Metrics(f Font) Metrics
}
