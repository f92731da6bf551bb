package caret

import "caretfloat/pkg/geom"

// Clamp moves r's origin inside owner. Width and height are kept, so the
// result may still extend past owner's right or bottom edge.
func Clamp(r, owner geom.Rect) geom.Rect {
	return geom.Rect{
		X:      max(owner.Left(), min(r.X, owner.Right())),
		Y:      max(owner.Top(), min(r.Y, owner.Bottom())),
		Width:  r.Width,
		Height: r.Height,
	}
}
