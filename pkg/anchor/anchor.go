// Package anchor adapts rectangles and live elements to the single
// operation placement needs: a bounding rectangle in viewport coordinates.
package anchor

import (
	"errors"

	"caretfloat/pkg/geom"
	"caretfloat/pkg/html"
)

// ErrMissingAnchor is returned when an anchor has no rectangle to offer.
var ErrMissingAnchor = errors.New("anchor: missing anchor")

// Boundable is anything that can report a viewport rectangle. ok is false
// when the anchor currently has no geometry.
type Boundable interface {
	BoundingClientRect() (geom.Rect, bool)
}

// Page measures live elements.
type Page interface {
	BoundingClientRect(n *html.Node) (geom.Rect, bool)
}

// Static is a captured rectangle.
type Static struct {
	Rect geom.Rect
}

func FromRect(r geom.Rect) Static {
	return Static{Rect: r}
}

func (s Static) BoundingClientRect() (geom.Rect, bool) {
	return s.Rect, true
}

// Element is a live element. Its rectangle is measured on every call.
type Element struct {
	page Page
	node *html.Node
}

func ForElement(p Page, n *html.Node) *Element {
	return &Element{page: p, node: n}
}

func (e *Element) Node() *html.Node {
	return e.node
}

func (e *Element) BoundingClientRect() (geom.Rect, bool) {
	if e == nil || e.node == nil {
		return geom.Rect{}, false
	}
	return e.page.BoundingClientRect(e.node)
}

// Resolve returns the anchor's current rectangle or ErrMissingAnchor.
func Resolve(b Boundable) (geom.Rect, error) {
	if b == nil {
		return geom.Rect{}, ErrMissingAnchor
	}
	r, ok := b.BoundingClientRect()
	if !ok {
		return geom.Rect{}, ErrMissingAnchor
	}
	return r, nil
}
