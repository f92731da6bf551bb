package css

import (
	"strconv"
	"strings"
)

// DefaultFontSize is the initial font-size in pixels.
const DefaultFontSize = 16.0

// GetFontSize returns the font-size in pixels (default: 16px)
func (s *Style) GetFontSize() float64 {
	if size, ok := s.GetLength("font-size"); ok && size > 0 {
		return size
	}
	return DefaultFontSize
}

// GetFontFamily returns the first family of the font-family list, unquoted
// and lower-cased (default: sans-serif).
func (s *Style) GetFontFamily() string {
	v, ok := s.Get("font-family")
	if !ok {
		return "sans-serif"
	}
	first := strings.Split(v, ",")[0]
	first = strings.Trim(strings.TrimSpace(first), `"'`)
	if first == "" {
		return "sans-serif"
	}
	return strings.ToLower(first)
}

// IsMonospace reports whether any family in the list is monospace-like.
func (s *Style) IsMonospace() bool {
	v, _ := s.Get("font-family")
	v = strings.ToLower(v)
	return strings.Contains(v, "mono") || strings.Contains(v, "courier")
}

type FontWeight string

const (
	FontWeightNormal FontWeight = "normal"
	FontWeightBold   FontWeight = "bold"
)

// GetFontWeight returns the font-weight value (default: normal)
func (s *Style) GetFontWeight() FontWeight {
	if weight, ok := s.Get("font-weight"); ok {
		switch weight {
		case "bold", "bolder", "600", "700", "800", "900":
			return FontWeightBold
		}
	}
	return FontWeightNormal
}

// IsItalic reports whether font-style selects an italic/oblique face.
func (s *Style) IsItalic() bool {
	v, _ := s.Get("font-style")
	return v == "italic" || strings.HasPrefix(v, "oblique")
}

// GetLineHeight returns the line-height in pixels. "normal" and unset map
// to 1.2 * font-size; a unitless number multiplies the font-size.
func (s *Style) GetLineHeight() float64 {
	v, ok := s.Get("line-height")
	if !ok || v == "normal" {
		return s.GetFontSize() * 1.2
	}
	v = strings.TrimSpace(v)
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f * s.GetFontSize()
	}
	if strings.HasSuffix(v, "%") {
		if f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64); err == nil {
			return f / 100 * s.GetFontSize()
		}
	}
	if lh, ok := s.GetLength("line-height"); ok {
		return lh
	}
	return s.GetFontSize() * 1.2
}

// GetLetterSpacing returns extra advance per character in pixels ("normal" = 0).
func (s *Style) GetLetterSpacing() float64 {
	v, ok := s.Get("letter-spacing")
	if !ok || v == "normal" {
		return 0
	}
	ls, _ := s.GetLength("letter-spacing")
	return ls
}

type TextAlign string

const (
	TextAlignLeft   TextAlign = "left"
	TextAlignCenter TextAlign = "center"
	TextAlignRight  TextAlign = "right"
)

// GetTextAlign returns the text-align value (default: left)
func (s *Style) GetTextAlign() TextAlign {
	if align, ok := s.Get("text-align"); ok {
		switch align {
		case "center":
			return TextAlignCenter
		case "right", "end":
			return TextAlignRight
		}
	}
	return TextAlignLeft
}

type WhiteSpace string

const (
	WhiteSpaceNormal  WhiteSpace = "normal"
	WhiteSpaceNoWrap  WhiteSpace = "nowrap"
	WhiteSpacePre     WhiteSpace = "pre"
	WhiteSpacePreWrap WhiteSpace = "pre-wrap"
	WhiteSpacePreLine WhiteSpace = "pre-line"
)

// GetWhiteSpace returns the white-space value (default: normal)
func (s *Style) GetWhiteSpace() WhiteSpace {
	if v, ok := s.Get("white-space"); ok {
		switch v {
		case "nowrap":
			return WhiteSpaceNoWrap
		case "pre":
			return WhiteSpacePre
		case "pre-wrap", "break-spaces":
			return WhiteSpacePreWrap
		case "pre-line":
			return WhiteSpacePreLine
		}
	}
	return WhiteSpaceNormal
}

// PreservesSpaces reports whether runs of spaces are kept as-is.
func (w WhiteSpace) PreservesSpaces() bool {
	return w == WhiteSpacePre || w == WhiteSpacePreWrap
}

// PreservesNewlines reports whether newlines force a line break.
func (w WhiteSpace) PreservesNewlines() bool {
	return w == WhiteSpacePre || w == WhiteSpacePreWrap || w == WhiteSpacePreLine
}

// Wraps reports whether lines may break at soft wrap opportunities.
func (w WhiteSpace) Wraps() bool {
	return w != WhiteSpacePre && w != WhiteSpaceNoWrap
}
