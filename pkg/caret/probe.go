package caret

import (
	"caretfloat/pkg/css"
	"caretfloat/pkg/geom"
	"caretfloat/pkg/html"
	"caretfloat/pkg/text"
)

// mirroredProperties are copied from the control's computed style onto
// the mirror so the mirror's text lays out like the control's.
var mirroredProperties = []string{
	"box-sizing",
	"padding-top", "padding-right", "padding-bottom", "padding-left",
	"border-top-width", "border-right-width", "border-bottom-width", "border-left-width",
	"font-style", "font-variant", "font-weight", "font-stretch", "font-size", "font-family",
	"line-height", "text-align", "letter-spacing", "white-space",
	"overflow-wrap", "word-break",
}

// Probe is a mounted mirror of a text control. It must be released.
type Probe struct {
	mirror  *html.Node
	marker  *html.Node
	surface Surface
	unmount func()
}

// Acquire builds the mirror for el with the marker at offset and mounts it.
func Acquire(s Surface, el *html.Node, offset int) (*Probe, error) {
	if !isTextElement(el) {
		return nil, ErrNotTextControl
	}
	rect, ok := s.BoundingClientRect(el)
	if !ok {
		return nil, ErrDetached
	}
	style := s.ComputedStyle(el)

	mirror := html.NewElement("div")
	mirror.SetStyleProperty("position", "absolute")
	mirror.SetStyleProperty("visibility", "hidden")
	mirror.SetStyleProperty("pointer-events", "none")
	mirror.SetStyleProperty("overflow", "hidden")
	for _, prop := range mirroredProperties {
		if v, ok := style.Get(prop); ok && v != "" {
			mirror.SetStyleProperty(prop, v)
		}
	}
	w, h := usedSize(style, rect)
	mirror.SetStyleProperty("width", css.FormatLength(w))
	mirror.SetStyleProperty("height", css.FormatLength(h))
	if el.IsMultiline() {
		mirror.SetStyleProperty("white-space", "pre-wrap")
	} else {
		mirror.SetStyleProperty("white-space", "pre")
	}
	scroll := s.Scroll()
	mirror.SetStyleProperty("left", css.FormatLength(rect.X+scroll.X))
	mirror.SetStyleProperty("top", css.FormatLength(rect.Y+scroll.Y))

	value := []rune(el.Value())
	offset = max(0, min(offset, len(value)))
	mirror.AddChild(html.NewText(string(value[:offset])))
	marker := html.NewElement("span")
	marker.AddChild(html.NewText(markerText(string(value[offset:]))))
	mirror.AddChild(marker)

	return &Probe{
		mirror:  mirror,
		marker:  marker,
		surface: s,
		unmount: s.Mount(mirror),
	}, nil
}

// markerText is the grapheme the caret sits before, or a zero-width space
// at the end of the value.
func markerText(rest string) string {
	if g := text.FirstGrapheme(rest); g != "" {
		return g
	}
	return text.ZeroWidthSpace
}

// usedSize converts the control's border box into the width and height
// that reproduce it under the control's box-sizing.
func usedSize(style *css.Style, rect geom.Rect) (float64, float64) {
	if style.GetBoxSizing() == css.BoxSizingBorderBox {
		return rect.Width, rect.Height
	}
	pad, border := style.GetPadding(), style.GetBorderWidth()
	w := rect.Width - pad.Horizontal() - border.Horizontal()
	h := rect.Height - pad.Vertical() - border.Vertical()
	return max(0, w), max(0, h)
}

// MarkerRect returns the marker's viewport rectangle.
func (p *Probe) MarkerRect() (geom.Rect, bool) {
	if p.unmount == nil {
		return geom.Rect{}, false
	}
	return p.surface.BoundingClientRect(p.marker)
}

// Mirror returns the mounted mirror element.
func (p *Probe) Mirror() *html.Node {
	return p.mirror
}

// Release unmounts the mirror. It is safe to call more than once.
func (p *Probe) Release() {
	if p.unmount != nil {
		p.unmount()
		p.unmount = nil
	}
}
