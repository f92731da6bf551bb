package css

import (
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an sRGB color with alpha in [0, 1].
type Color struct {
	R, G, B uint8
	A       float64
}

var namedColors = map[string]Color{
	"red":       {255, 0, 0, 1},
	"green":     {0, 128, 0, 1},
	"blue":      {0, 0, 255, 1},
	"yellow":    {255, 255, 0, 1},
	"cyan":      {0, 255, 255, 1},
	"magenta":   {255, 0, 255, 1},
	"white":     {255, 255, 255, 1},
	"black":     {0, 0, 0, 1},
	"gray":      {128, 128, 128, 1},
	"grey":      {128, 128, 128, 1},
	"lightgray": {211, 211, 211, 1},
	"orange":    {255, 165, 0, 1},
	"purple":    {128, 0, 128, 1},
	"pink":      {255, 192, 203, 1},
	"brown":     {165, 42, 42, 1},
	"lime":      {0, 255, 0, 1},
	"navy":      {0, 0, 128, 1},
	"teal":      {0, 128, 128, 1},
	"silver":    {192, 192, 192, 1},
	"gold":      {255, 215, 0, 1},
}

// ParseColor parses named colors, #rgb / #rrggbb, rgb() / rgba() and
// "transparent".
func ParseColor(colorStr string) (Color, bool) {
	colorStr = strings.ToLower(strings.TrimSpace(colorStr))
	if colorStr == "transparent" {
		return Color{}, true
	}
	if c, ok := namedColors[colorStr]; ok {
		return c, true
	}
	if strings.HasPrefix(colorStr, "#") {
		c, err := colorful.Hex(colorStr)
		if err != nil {
			return Color{}, false
		}
		r, g, b := c.RGB255()
		return Color{r, g, b, 1}, true
	}
	if strings.HasPrefix(colorStr, "rgb") {
		return parseRGBFunc(colorStr)
	}
	return Color{}, false
}

func parseRGBFunc(s string) (Color, bool) {
	open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return Color{}, false
	}
	fields := strings.FieldsFunc(s[open+1:end], func(r rune) bool { return r == ',' || r == ' ' || r == '/' })
	if len(fields) < 3 {
		return Color{}, false
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSuffix(fields[i], "%"), 64)
		if err != nil {
			return Color{}, false
		}
		if strings.HasSuffix(fields[i], "%") {
			v = v * 255 / 100
		}
		ch[i] = uint8(max(0, min(255, v)))
	}
	alpha := 1.0
	if len(fields) > 3 {
		a, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return Color{}, false
		}
		alpha = max(0, min(1, a))
	}
	return Color{ch[0], ch[1], ch[2], alpha}, true
}

// Floats returns the channels scaled to [0, 1] for drawing APIs.
func (c Color) Floats() (r, g, b, a float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, c.A
}
