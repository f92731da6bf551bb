package css

import (
	"fmt"
	"strconv"
	"strings"
)

type Style struct {
	Properties map[string]string
}

func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

func (s *Style) Get(property string) (string, bool) {
	val, ok := s.Properties[property]
	return val, ok
}

func (s *Style) Set(property, value string) {
	s.Properties[property] = value
}

// Clone returns an independent copy of the style.
func (s *Style) Clone() *Style {
	c := NewStyle()
	for k, v := range s.Properties {
		c.Properties[k] = v
	}
	return c
}

// GetLength returns a property as pixels. Lengths in em are resolved
// against the style's own font-size.
func (s *Style) GetLength(property string) (float64, bool) {
	val, ok := s.Get(property)
	if !ok {
		return 0, false
	}
	val = strings.TrimSpace(val)
	if strings.HasSuffix(val, "em") && !strings.HasSuffix(val, "rem") {
		n, err := strconv.ParseFloat(strings.TrimSuffix(val, "em"), 64)
		if err != nil {
			return 0, false
		}
		if property == "font-size" {
			return n * DefaultFontSize, true
		}
		return n * s.GetFontSize(), true
	}
	return ParseLength(val)
}

// ParseLength parses a length value (e.g., "100px" or "100")
func ParseLength(val string) (float64, bool) {
	val = strings.TrimSpace(val)
	val = strings.TrimSuffix(val, "px")
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return num, true
}

// FormatLength renders a pixel value the way SetLength stores it.
func FormatLength(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// BoxEdge represents the four sides of a box (top, right, bottom, left)
type BoxEdge struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Horizontal returns Left + Right.
func (e BoxEdge) Horizontal() float64 { return e.Left + e.Right }

// Vertical returns Top + Bottom.
func (e BoxEdge) Vertical() float64 { return e.Top + e.Bottom }

func (s *Style) GetMargin() BoxEdge {
	return s.edge("margin-%s")
}

func (s *Style) GetPadding() BoxEdge {
	return s.edge("padding-%s")
}

func (s *Style) GetBorderWidth() BoxEdge {
	e := s.edge("border-%s-width")
	// Only border-style none or hidden removes the width.
	for _, side := range []struct {
		name  string
		width *float64
	}{{"top", &e.Top}, {"right", &e.Right}, {"bottom", &e.Bottom}, {"left", &e.Left}} {
		if st, ok := s.Get("border-" + side.name + "-style"); ok && (st == "none" || st == "hidden") {
			*side.width = 0
		}
	}
	return e
}

func (s *Style) edge(format string) BoxEdge {
	return BoxEdge{
		Top:    s.getLengthOrZero(fmt.Sprintf(format, "top")),
		Right:  s.getLengthOrZero(fmt.Sprintf(format, "right")),
		Bottom: s.getLengthOrZero(fmt.Sprintf(format, "bottom")),
		Left:   s.getLengthOrZero(fmt.Sprintf(format, "left")),
	}
}

func (s *Style) getLengthOrZero(property string) float64 {
	val, ok := s.GetLength(property)
	if !ok {
		return 0
	}
	return val
}

type PositionType string

const (
	PositionStatic   PositionType = "static"
	PositionRelative PositionType = "relative"
	PositionAbsolute PositionType = "absolute"
	PositionFixed    PositionType = "fixed"
)

// GetPosition returns the position type (default: static)
func (s *Style) GetPosition() PositionType {
	if pos, ok := s.Get("position"); ok {
		switch pos {
		case "relative":
			return PositionRelative
		case "absolute":
			return PositionAbsolute
		case "fixed":
			return PositionFixed
		}
	}
	return PositionStatic
}

// PositionOffset holds the inset properties of a positioned element.
type PositionOffset struct {
	Top       float64
	Left      float64
	HasTop    bool
	HasLeft   bool
	Right     float64
	Bottom    float64
	HasRight  bool
	HasBottom bool
}

func (s *Style) GetPositionOffset() PositionOffset {
	offset := PositionOffset{}
	offset.Top, offset.HasTop = s.GetLength("top")
	offset.Left, offset.HasLeft = s.GetLength("left")
	offset.Right, offset.HasRight = s.GetLength("right")
	offset.Bottom, offset.HasBottom = s.GetLength("bottom")
	return offset
}

// GetZIndex returns the z-index value (default: 0)
func (s *Style) GetZIndex() int {
	if zindex, ok := s.Get("z-index"); ok {
		if z, err := strconv.Atoi(strings.TrimSpace(zindex)); err == nil {
			return z
		}
	}
	return 0
}

// GetSize returns width/height when they are definite lengths.
func (s *Style) GetSize() (width float64, hasWidth bool, height float64, hasHeight bool) {
	width, hasWidth = s.GetLength("width")
	height, hasHeight = s.GetLength("height")
	return
}

type BoxSizing string

const (
	BoxSizingContentBox BoxSizing = "content-box"
	BoxSizingBorderBox  BoxSizing = "border-box"
)

func (s *Style) GetBoxSizing() BoxSizing {
	if v, ok := s.Get("box-sizing"); ok && v == "border-box" {
		return BoxSizingBorderBox
	}
	return BoxSizingContentBox
}

func ParseInlineStyle(styleAttr string) *Style {
	style := NewStyle()
	for _, decl := range strings.Split(styleAttr, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		parts := strings.SplitN(decl, ":", 2)
		if len(parts) != 2 {
			continue
		}
		property := strings.TrimSpace(strings.ToLower(parts[0]))
		value := strings.TrimSpace(parts[1])
		value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))
		expandShorthand(style, property, value)
	}
	return style
}

// expandShorthand expands shorthand CSS properties into individual properties
func expandShorthand(style *Style, property, value string) {
	switch property {
	case "margin", "padding":
		expandBoxProperty(style, property+"-%s", value)
	case "border-width":
		expandBoxProperty(style, "border-%s-width", value)
	case "border-style":
		expandBoxProperty(style, "border-%s-style", value)
	case "border-color":
		expandBoxProperty(style, "border-%s-color", value)
	case "border":
		expandBorderProperty(style, value)
	case "background":
		if _, ok := ParseColor(value); ok {
			style.Set("background-color", value)
		}
	default:
		style.Set(property, value)
	}
}

// expandBoxProperty expands a four-sided shorthand using the 1-4 value rules.
func expandBoxProperty(style *Style, format, value string) {
	parts := strings.Fields(value)
	var top, right, bottom, left string
	switch len(parts) {
	case 1:
		top, right, bottom, left = parts[0], parts[0], parts[0], parts[0]
	case 2:
		top, right, bottom, left = parts[0], parts[1], parts[0], parts[1]
	case 3:
		top, right, bottom, left = parts[0], parts[1], parts[2], parts[1]
	case 4:
		top, right, bottom, left = parts[0], parts[1], parts[2], parts[3]
	default:
		return
	}
	style.Set(fmt.Sprintf(format, "top"), top)
	style.Set(fmt.Sprintf(format, "right"), right)
	style.Set(fmt.Sprintf(format, "bottom"), bottom)
	style.Set(fmt.Sprintf(format, "left"), left)
}

// expandBorderProperty expands "1px solid black" into per-side properties.
func expandBorderProperty(style *Style, value string) {
	for _, part := range strings.Fields(value) {
		switch {
		case part == "none" || part == "solid" || part == "dotted" || part == "dashed" || part == "double":
			expandBoxProperty(style, "border-%s-style", part)
		case isLength(part):
			expandBoxProperty(style, "border-%s-width", part)
		default:
			expandBoxProperty(style, "border-%s-color", part)
		}
	}
}

func isLength(v string) bool {
	if v == "0" {
		return true
	}
	_, ok := ParseLength(v)
	return ok && strings.HasSuffix(v, "px")
}

// GetColor returns the text color (default: black)
func (s *Style) GetColor() Color {
	if colorStr, ok := s.Get("color"); ok {
		if color, ok := ParseColor(colorStr); ok {
			return color
		}
	}
	return Color{0, 0, 0, 1}
}

// GetBorderRadius returns the border-radius in pixels.
func (s *Style) GetBorderRadius() float64 {
	return s.getLengthOrZero("border-radius")
}

// GetOpacity returns opacity in [0, 1] (default: 1).
func (s *Style) GetOpacity() float64 {
	if v, ok := s.Get("opacity"); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return max(0, min(1, f))
		}
	}
	return 1
}

type DisplayType string

const (
	DisplayBlock       DisplayType = "block"
	DisplayInline      DisplayType = "inline"
	DisplayInlineBlock DisplayType = "inline-block"
	DisplayNone        DisplayType = "none"
)

// GetDisplay returns the display value (default: block)
func (s *Style) GetDisplay() DisplayType {
	if display, ok := s.Get("display"); ok {
		switch display {
		case "inline":
			return DisplayInline
		case "inline-block":
			return DisplayInlineBlock
		case "none":
			return DisplayNone
		}
	}
	return DisplayBlock
}

// IsVisible reports whether visibility leaves the element painted.
func (s *Style) IsVisible() bool {
	v, ok := s.Get("visibility")
	return !ok || (v != "hidden" && v != "collapse")
}

// GetOverflowHidden reports whether overflow clips the content box.
func (s *Style) GetOverflowHidden() bool {
	v, _ := s.Get("overflow")
	return v == "hidden" || v == "clip" || v == "auto" || v == "scroll"
}
