package layout

import (
	"caretfloat/pkg/css"
	"caretfloat/pkg/geom"
	"caretfloat/pkg/html"
	"caretfloat/pkg/text"
)

// Box is the layout of one node. X and Y are the top-left of the border box
// in document coordinates; Width and Height are the content size.
type Box struct {
	Node     *html.Node
	Style    *css.Style
	X        float64
	Y        float64
	Width    float64 // Content width
	Height   float64 // Content height
	Margin   css.BoxEdge
	Padding  css.BoxEdge
	Border   css.BoxEdge
	Children []*Box
	Parent   *Box
	Position css.PositionType
	ZIndex   int
	Display  css.DisplayType

	// Fragments holds one border-box rectangle per line for inline boxes.
	Fragments []geom.Rect

	// Runs are the painted text of a text node, or the value of a form
	// control.
	Runs []TextRun

	// Line boxes for block containers with inline content
	LineBoxes []*LineBox

	// Absolutely positioned boxes wait for their containing block; the
	// static position is where they would have been in flow.
	pending bool
	staticX float64
	staticY float64
}

// TextRun is a single-line piece of text with its content area.
type TextRun struct {
	Text          string
	X             float64
	Y             float64 // Top of the content area
	Width         float64
	Height        float64
	Baseline      float64
	Font          text.Font
	LetterSpacing float64
}

// LineBox represents a line of inline content.
type LineBox struct {
	Y        float64
	Height   float64
	Baseline float64 // Document y of the alphabetic baseline
	Width    float64 // Extent of the content placed on the line
}

// BorderBox returns the border-box rectangle.
func (b *Box) BorderBox() geom.Rect {
	return geom.Rect{
		X:      b.X,
		Y:      b.Y,
		Width:  b.Width + b.Padding.Horizontal() + b.Border.Horizontal(),
		Height: b.Height + b.Padding.Vertical() + b.Border.Vertical(),
	}
}

// PaddingBox returns the padding-box rectangle, the containing block of
// absolutely positioned descendants.
func (b *Box) PaddingBox() geom.Rect {
	return geom.Rect{
		X:      b.X + b.Border.Left,
		Y:      b.Y + b.Border.Top,
		Width:  b.Width + b.Padding.Horizontal(),
		Height: b.Height + b.Padding.Vertical(),
	}
}

// ContentBox returns the content rectangle.
func (b *Box) ContentBox() geom.Rect {
	return geom.Rect{
		X:      b.X + b.Border.Left + b.Padding.Left,
		Y:      b.Y + b.Border.Top + b.Padding.Top,
		Width:  b.Width,
		Height: b.Height,
	}
}

// MarginBox returns the margin-box rectangle.
func (b *Box) MarginBox() geom.Rect {
	bb := b.BorderBox()
	return geom.Rect{
		X:      bb.X - b.Margin.Left,
		Y:      bb.Y - b.Margin.Top,
		Width:  bb.Width + b.Margin.Horizontal(),
		Height: bb.Height + b.Margin.Vertical(),
	}
}

// IsInline reports whether the box was laid out as line fragments.
func (b *Box) IsInline() bool {
	return b.Display == css.DisplayInline
}

// IsPositioned returns true if the box has position != static
func (b *Box) IsPositioned() bool {
	return b.Position != css.PositionStatic
}

// Rect is what getBoundingClientRect reports in document coordinates: the
// union of the fragments for inline boxes and text, the border box
// otherwise.
func (b *Box) Rect() geom.Rect {
	if b.Node != nil && b.Node.Type == html.TextNode {
		var r geom.Rect
		for _, run := range b.Runs {
			r = r.Union(geom.Rect{X: run.X, Y: run.Y, Width: run.Width, Height: run.Height})
		}
		return r
	}
	if b.IsInline() {
		if len(b.Fragments) == 0 {
			return geom.Rect{}
		}
		r := b.Fragments[0]
		for _, f := range b.Fragments[1:] {
			r = unionKeepEmpty(r, f)
		}
		return r
	}
	return b.BorderBox()
}

// unionKeepEmpty unions two rectangles where zero-width fragments still
// contribute their edges.
func unionKeepEmpty(a, b geom.Rect) geom.Rect {
	left := min(a.Left(), b.Left())
	top := min(a.Top(), b.Top())
	right := max(a.Right(), b.Right())
	bottom := max(a.Bottom(), b.Bottom())
	return geom.Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// translate moves the box and all of its descendants.
func (b *Box) translate(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	b.X += dx
	b.Y += dy
	b.staticX += dx
	b.staticY += dy
	for i := range b.Fragments {
		b.Fragments[i] = b.Fragments[i].Translate(dx, dy)
	}
	for i := range b.Runs {
		b.Runs[i].X += dx
		b.Runs[i].Y += dy
		b.Runs[i].Baseline += dy
	}
	for _, lb := range b.LineBoxes {
		lb.Y += dy
		lb.Baseline += dy
	}
	for _, c := range b.Children {
		c.translate(dx, dy)
	}
}

// Result is the laid-out document.
type Result struct {
	Root     *Box
	Viewport geom.Size
	Scroll   geom.Point

	boxes map[*html.Node]*Box
	// Positioned holds the absolute and fixed boxes in paint order.
	Positioned []*Box
}

// Box returns the box generated for n, or nil if n has none (display:none,
// detached, or inside a display:none subtree).
func (r *Result) Box(n *html.Node) *Box {
	if r == nil {
		return nil
	}
	return r.boxes[n]
}

// Rect returns the bounding rectangle of n in document coordinates.
func (r *Result) Rect(n *html.Node) (geom.Rect, bool) {
	b := r.Box(n)
	if b == nil {
		return geom.Rect{}, false
	}
	return b.Rect(), true
}

// DocumentSize is the extent of all boxes, at least the viewport.
func (r *Result) DocumentSize() geom.Size {
	size := r.Viewport
	for _, b := range r.boxes {
		rect := b.Rect()
		size.Width = max(size.Width, rect.Right())
		size.Height = max(size.Height, rect.Bottom())
	}
	return size
}

// HitTest returns the deepest element whose box contains p (document
// coordinates), preferring positioned boxes painted last.
func (r *Result) HitTest(p geom.Point) *html.Node {
	for i := len(r.Positioned) - 1; i >= 0; i-- {
		if n := hitBox(r.Positioned[i], p); n != nil {
			return n
		}
	}
	return hitBox(r.Root, p)
}

func hitBox(b *Box, p geom.Point) *html.Node {
	if b.pending {
		return nil
	}
	for i := len(b.Children) - 1; i >= 0; i-- {
		c := b.Children[i]
		if c.IsPositioned() && c.Position != css.PositionRelative {
			continue
		}
		if n := hitBox(c, p); n != nil {
			return n
		}
	}
	if b.Node == nil || b.Node.Type != html.ElementNode || b.Node.TagName == "document" {
		return nil
	}
	if b.IsInline() {
		for _, f := range b.Fragments {
			if f.Contains(p) {
				return b.Node
			}
		}
		return nil
	}
	if b.BorderBox().Contains(p) {
		return b.Node
	}
	return nil
}
