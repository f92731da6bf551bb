package layout

import (
	"strconv"
	"strings"

	"caretfloat/pkg/css"
	"caretfloat/pkg/html"
)

// unbounded is the available width used when measuring max-content.
const unbounded = 1e6

// layoutChildren lays out children in the content box of container and
// returns the height they occupy. Consecutive inline-level children share
// one inline formatting context.
func (le *LayoutEngine) layoutChildren(container *Box, children []*html.Node) float64 {
	content := container.ContentBox()
	y := content.Y
	var inlineRun []*html.Node

	flush := func() {
		if len(inlineRun) == 0 {
			return
		}
		y += le.layoutInline(container, inlineRun, content.X, y, content.Width)
		inlineRun = nil
	}

	for _, child := range children {
		if child.Type == html.TextNode {
			inlineRun = append(inlineRun, child)
			continue
		}
		style := le.style(child)
		if style.GetDisplay() == css.DisplayNone {
			continue
		}
		if isOutOfFlow(style) {
			if len(inlineRun) > 0 {
				inlineRun = append(inlineRun, child)
				continue
			}
			b := le.newBox(child, container)
			b.pending = true
			b.staticX, b.staticY = content.X, y
			container.Children = append(container.Children, b)
			continue
		}
		if style.GetDisplay() != css.DisplayBlock {
			inlineRun = append(inlineRun, child)
			continue
		}
		flush()
		b := le.layoutBlock(child, container, content.X, y, content.Width)
		container.Children = append(container.Children, b)
		y = b.MarginBox().Bottom()
	}
	flush()
	return y - content.Y
}

func isOutOfFlow(style *css.Style) bool {
	pos := style.GetPosition()
	return pos == css.PositionAbsolute || pos == css.PositionFixed
}

// layoutBlock lays out a block-level node whose margin box starts at (x, y).
func (le *LayoutEngine) layoutBlock(n *html.Node, parent *Box, x, y, availWidth float64) *Box {
	b := le.newBox(n, parent)
	if w, ok := le.specifiedWidth(b, availWidth); ok {
		b.Width = w
	} else {
		b.Width = max(0, availWidth-b.Margin.Horizontal()-b.Padding.Horizontal()-b.Border.Horizontal())
	}
	b.X = x + b.Margin.Left
	b.Y = y + b.Margin.Top
	le.layoutContents(b)
	return b
}

// layoutContents lays out the inside of a box whose X, Y and Width are
// set, then resolves its height and relative offset.
func (le *LayoutEngine) layoutContents(b *Box) {
	if b.Node.IsTextControl() {
		le.layoutControl(b)
	} else {
		contentHeight := le.layoutChildren(b, b.Node.Children)
		if h, ok := le.specifiedHeight(b); ok {
			b.Height = h
		} else {
			b.Height = contentHeight
		}
	}
	if b.Position == css.PositionRelative {
		off := b.Style.GetPositionOffset()
		dx, dy := off.Left, off.Top
		if !off.HasLeft && off.HasRight {
			dx = -off.Right
		}
		if !off.HasTop && off.HasBottom {
			dy = -off.Bottom
		}
		b.translate(dx, dy)
	}
}

// specifiedWidth resolves the width property to a content width.
func (le *LayoutEngine) specifiedWidth(b *Box, base float64) (float64, bool) {
	w, ok := lengthOrPercent(b.Style, "width", base)
	if !ok {
		return 0, false
	}
	if b.Style.GetBoxSizing() == css.BoxSizingBorderBox {
		w -= b.Padding.Horizontal() + b.Border.Horizontal()
	}
	return max(0, w), true
}

func (le *LayoutEngine) specifiedHeight(b *Box) (float64, bool) {
	h, ok := b.Style.GetLength("height")
	if !ok {
		return 0, false
	}
	if b.Style.GetBoxSizing() == css.BoxSizingBorderBox {
		h -= b.Padding.Vertical() + b.Border.Vertical()
	}
	return max(0, h), true
}

func lengthOrPercent(style *css.Style, property string, base float64) (float64, bool) {
	v, ok := style.Get(property)
	if !ok {
		return 0, false
	}
	v = strings.TrimSpace(v)
	if pct, found := strings.CutSuffix(v, "%"); found {
		f, err := strconv.ParseFloat(pct, 64)
		if err != nil {
			return 0, false
		}
		return base * f / 100, true
	}
	return style.GetLength(property)
}

// layoutAtomic lays out an inline-block (or a block inside inline content)
// with its margin box at the origin; line placement moves it into place.
func (le *LayoutEngine) layoutAtomic(n *html.Node, parent *Box, availWidth float64) *Box {
	b := le.newBox(n, parent)
	edges := b.Margin.Horizontal() + b.Padding.Horizontal() + b.Border.Horizontal()
	if w, ok := le.specifiedWidth(b, availWidth); ok {
		b.Width = w
	} else if n.IsTextControl() {
		b.Width = le.defaultControlWidth(b)
	} else {
		b.Width = min(le.maxContentWidth(n), max(0, availWidth-edges))
	}
	b.X = b.Margin.Left
	b.Y = b.Margin.Top
	le.layoutContents(b)
	return b
}

// maxContentWidth is the content width n takes when nothing wraps.
func (le *LayoutEngine) maxContentWidth(n *html.Node) float64 {
	probe := le.newBox(n, nil)
	if w, ok := le.specifiedWidth(probe, 0); ok {
		return w
	}
	if n.IsTextControl() {
		return le.defaultControlWidth(probe)
	}
	probe.Width = unbounded
	le.layoutChildren(probe, n.Children)
	return le.intrinsicExtent(probe)
}

func (le *LayoutEngine) intrinsicExtent(b *Box) float64 {
	w := 0.0
	for _, lb := range b.LineBoxes {
		w = max(w, lb.Width)
	}
	for _, c := range b.Children {
		if c.pending || c.Display != css.DisplayBlock || c.Node.Type != html.ElementNode {
			continue
		}
		edges := c.Margin.Horizontal() + c.Padding.Horizontal() + c.Border.Horizontal()
		w = max(w, le.maxContentWidth(c.Node)+edges)
	}
	return w
}
