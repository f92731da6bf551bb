package text

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

type variant int

const (
	variantRegular variant = iota
	variantBold
	variantItalic
	variantBoldItalic
	variantMono
	variantMonoBold
	numVariants
)

func (f Font) variant() variant {
	switch {
	case f.Mono && f.Bold:
		return variantMonoBold
	case f.Mono:
		return variantMono
	case f.Bold && f.Italic:
		return variantBoldItalic
	case f.Bold:
		return variantBold
	case f.Italic:
		return variantItalic
	}
	return variantRegular
}

var fontData = [numVariants][]byte{
	variantRegular:    goregular.TTF,
	variantBold:       gobold.TTF,
	variantItalic:     goitalic.TTF,
	variantBoldItalic: gobolditalic.TTF,
	variantMono:       gomono.TTF,
	variantMonoBold:   gomonobold.TTF,
}

type faceKey struct {
	v    variant
	size float64
}

// FaceMeasurer measures text with the Go font family through gg. Faces are
// parsed once and cached per variant and size. Fonts with Ahem set are
// measured like FixedMeasurer.
type FaceMeasurer struct {
	mu    sync.Mutex
	fonts [numVariants]*truetype.Font
	faces map[faceKey]font.Face
	dc    *gg.Context
}

// NewFaceMeasurer parses the bundled Go fonts.
func NewFaceMeasurer() (*FaceMeasurer, error) {
	m := &FaceMeasurer{
		faces: make(map[faceKey]font.Face),
		dc:    gg.NewContext(1, 1),
	}
	for v, data := range fontData {
		f, err := truetype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse font variant %d: %w", v, err)
		}
		m.fonts[v] = f
	}
	return m, nil
}

// Face returns the cached face for f.
func (m *FaceMeasurer) Face(f Font) font.Face {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.face(f)
}

func (m *FaceMeasurer) face(f Font) font.Face {
	key := faceKey{v: f.variant(), size: f.Size}
	if face, ok := m.faces[key]; ok {
		return face
	}
	face := truetype.NewFace(m.fonts[key.v], &truetype.Options{Size: f.Size, Hinting: font.HintingNone})
	m.faces[key] = face
	return face
}

func (m *FaceMeasurer) Advance(f Font, s string) float64 {
	if f.Ahem {
		return FixedMeasurer{}.Advance(f, s)
	}
	s = stripZeroWidth(s)
	if s == "" {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dc.SetFontFace(m.face(f))
	w, _ := m.dc.MeasureString(s)
	return w
}

func (m *FaceMeasurer) Metrics(f Font) Metrics {
	if f.Ahem {
		return FixedMeasurer{}.Metrics(f)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	fm := m.face(f).Metrics()
	return Metrics{
		Ascent:  math.Ceil(float64(fm.Ascent) / 64),
		Descent: math.Ceil(float64(fm.Descent) / 64),
	}
}

// FixedMeasurer gives every visible grapheme an advance of one font size
// and splits the em box 0.8/0.2 around the baseline, like the Ahem test font.
type FixedMeasurer struct{}

func (FixedMeasurer) Advance(f Font, s string) float64 {
	n := 0
	for _, g := range Graphemes(s) {
		if !IsZeroWidth(g) {
			n++
		}
	}
	return float64(n) * f.Size
}

func (FixedMeasurer) Metrics(f Font) Metrics {
	return Metrics{Ascent: f.Size * 0.8, Descent: f.Size * 0.2}
}

// Width is the advance of s plus letter-spacing after each visible grapheme.
func Width(m Measurer, f Font, s string, letterSpacing float64) float64 {
	w := m.Advance(f, s)
	if letterSpacing != 0 {
		w += letterSpacing * float64(VisibleGraphemes(s))
	}
	return w
}

// VisibleGraphemes counts the graphemes of s that take up space.
func VisibleGraphemes(s string) int {
	n := 0
	for _, g := range Graphemes(s) {
		if !IsZeroWidth(g) {
			n++
		}
	}
	return n
}

func stripZeroWidth(s string) string {
	if !strings.ContainsFunc(s, isZeroWidthRune) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isZeroWidthRune(r) {
			return -1
		}
		return r
	}, s)
}
