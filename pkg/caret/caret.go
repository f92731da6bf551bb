// Package caret reconstructs the on-screen rectangle of the text caret
// inside an <input> or <textarea>.
//
// Text controls do not expose their text layout, so the caret is found by
// laying out a hidden mirror of the control that carries the same box and
// font metrics, with a marker element at the caret offset. The marker's
// bounding rectangle is the caret rectangle.
package caret

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"caretfloat/pkg/css"
	"caretfloat/pkg/geom"
	"caretfloat/pkg/html"
)

var (
	ErrNotTextControl = errors.New("caret: element is not an input or textarea")
	ErrDetached       = errors.New("caret: element has no layout box")
)

// Surface is the window the mirror is laid out in.
type Surface interface {
	ComputedStyle(n *html.Node) *css.Style
	BoundingClientRect(n *html.Node) (geom.Rect, bool)
	Scroll() geom.Point
	Mount(n *html.Node) (unmount func())
}

// ComputeCaretRect returns the viewport rectangle of the caret placed
// before the grapheme at offset (in runes) of el's value. At the end of
// the value the rectangle has zero width.
func ComputeCaretRect(s Surface, el *html.Node, offset int) (geom.Rect, error) {
	p, err := Acquire(s, el, offset)
	if err != nil {
		return geom.Rect{}, err
	}
	defer p.Release()

	r, ok := p.MarkerRect()
	if !ok {
		return geom.Rect{}, fmt.Errorf("measure marker: %w", ErrDetached)
	}
	return r, nil
}

// AtSelection computes the caret rectangle at el's selection start.
func AtSelection(s Surface, el *html.Node) (geom.Rect, error) {
	return ComputeCaretRect(s, el, ClampOffset(el.Value(), el.SelectionStart()))
}

// ClampOffset bounds offset to [0, rune count of value].
func ClampOffset(value string, offset int) int {
	return max(0, min(offset, utf8.RuneCountInString(value)))
}

func isTextElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && (n.TagName == "input" || n.TagName == "textarea")
}
