package layout

import (
	"caretfloat/pkg/css"
	"caretfloat/pkg/geom"
)

// resolvePositioned lays out absolutely and fixed positioned boxes in tree
// order, once their containing blocks are final.
func (le *LayoutEngine) resolvePositioned(b *Box, result *Result) {
	for _, c := range b.Children {
		if c.pending {
			le.layoutAbsolute(c)
			result.Positioned = append(result.Positioned, c)
		}
		le.resolvePositioned(c, result)
	}
}

// containingBlock returns the padding box of the nearest positioned
// ancestor, the viewport at the scroll offset for fixed boxes, or the
// initial containing block.
func (le *LayoutEngine) containingBlock(b *Box) geom.Rect {
	if b.Position == css.PositionFixed {
		return geom.Rect{X: le.scroll.X, Y: le.scroll.Y, Width: le.viewport.Width, Height: le.viewport.Height}
	}
	for anc := b.Parent; anc != nil; anc = anc.Parent {
		if anc.IsPositioned() {
			if anc.IsInline() {
				return anc.Rect()
			}
			return anc.PaddingBox()
		}
	}
	return geom.Rect{Width: le.viewport.Width, Height: le.viewport.Height}
}

// layoutAbsolute positions an absolutely positioned box following
// CSS 2.1 §10.3.7 (horizontal) and §10.6.4 (vertical), without auto
// margin centring.
func (le *LayoutEngine) layoutAbsolute(b *Box) {
	b.pending = false
	cb := le.containingBlock(b)
	off := b.Style.GetPositionOffset()
	edges := b.Margin.Horizontal() + b.Padding.Horizontal() + b.Border.Horizontal()

	if w, ok := le.specifiedWidth(b, cb.Width); ok {
		b.Width = w
	} else if off.HasLeft && off.HasRight {
		b.Width = max(0, cb.Width-off.Left-off.Right-edges)
	} else {
		avail := cb.Width - edges
		if off.HasLeft {
			avail -= off.Left
		} else if off.HasRight {
			avail -= off.Right
		}
		b.Width = min(le.maxContentWidth(b.Node), max(0, avail))
	}

	borderWidth := b.Width + b.Padding.Horizontal() + b.Border.Horizontal()
	switch {
	case off.HasLeft:
		b.X = cb.X + off.Left + b.Margin.Left
	case off.HasRight:
		b.X = cb.Right() - off.Right - b.Margin.Right - borderWidth
	default:
		b.X = b.staticX + b.Margin.Left
	}
	if off.HasTop {
		b.Y = cb.Y + off.Top + b.Margin.Top
	} else {
		b.Y = b.staticY + b.Margin.Top
	}

	le.layoutContents(b)

	if !off.HasTop && off.HasBottom {
		y := cb.Bottom() - off.Bottom - b.Margin.Bottom - b.BorderBox().Height
		b.translate(0, y-b.Y)
	}
}
