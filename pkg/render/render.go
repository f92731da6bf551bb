// Package render paints a laid-out page with gg: backgrounds, borders,
// text runs, form control values and the text caret.
package render

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/fogleman/gg"

	"caretfloat/pkg/caret"
	"caretfloat/pkg/css"
	"caretfloat/pkg/geom"
	"caretfloat/pkg/layout"
	"caretfloat/pkg/page"
	"caretfloat/pkg/text"
)

// Frame is what one Render call paints.
type Frame struct {
	Layout *layout.Result
	// Caret is drawn when set, in viewport coordinates.
	Caret *geom.Rect
}

type Renderer struct {
	context *gg.Context
	faces   *text.FaceMeasurer
}

// NewRenderer creates a renderer for a width x height viewport. Glyphs
// are drawn with faces; positions always come from the layout.
func NewRenderer(width, height int, faces *text.FaceMeasurer) *Renderer {
	return &Renderer{context: gg.NewContext(width, height), faces: faces}
}

func (r *Renderer) Render(f Frame) {
	r.context.Identity()
	r.context.SetRGB(1, 1, 1)
	r.context.Clear()
	if f.Layout == nil {
		return
	}

	r.context.Push()
	r.context.Translate(-f.Layout.Scroll.X, -f.Layout.Scroll.Y)
	r.paintTree(f.Layout.Root)
	// Absolute and fixed boxes are painted after the flow, by z-index.
	for _, b := range f.Layout.Positioned {
		r.paintTree(b)
	}
	r.context.Pop()

	if f.Caret != nil {
		r.drawCaret(*f.Caret)
	}
}

// paintTree paints b and its in-flow descendants.
func (r *Renderer) paintTree(b *layout.Box) {
	r.drawBox(b)
	for _, c := range b.Children {
		if c.IsPositioned() && c.Position != css.PositionRelative {
			continue
		}
		r.paintTree(c)
	}
}

func (r *Renderer) drawBox(box *layout.Box) {
	if box.Style == nil || !box.Style.IsVisible() {
		return
	}
	alpha := box.Style.GetOpacity()
	r.drawBackground(box, alpha)
	r.drawBorder(box, alpha)
	r.drawText(box, alpha)
}

func (r *Renderer) setColor(c css.Color, alpha float64) {
	cr, cg, cb, ca := c.Floats()
	r.context.SetRGBA(cr, cg, cb, ca*alpha)
}

// drawBackground fills the border box. Backgrounds on inline boxes fill
// each line fragment.
func (r *Renderer) drawBackground(box *layout.Box, alpha float64) {
	v, ok := box.Style.Get("background-color")
	if !ok {
		return
	}
	color, ok := css.ParseColor(v)
	if !ok || color.A == 0 {
		return
	}
	r.setColor(color, alpha)

	rects := []geom.Rect{box.BorderBox()}
	if box.IsInline() {
		rects = box.Fragments
	}
	radius := box.Style.GetBorderRadius()
	for _, rect := range rects {
		if rect.Width <= 0 || rect.Height <= 0 {
			continue
		}
		if radius > 0 {
			r.context.DrawRoundedRectangle(rect.X, rect.Y, rect.Width, rect.Height, radius)
		} else {
			r.context.DrawRectangle(rect.X, rect.Y, rect.Width, rect.Height)
		}
		r.context.Fill()
	}
}

// getBorderSideColor returns the color for a specific border side
func getBorderSideColor(box *layout.Box, side string) css.Color {
	for _, prop := range []string{"border-" + side + "-color", "border-color", "color"} {
		if v, ok := box.Style.Get(prop); ok {
			if c, ok := css.ParseColor(v); ok {
				return c
			}
		}
	}
	return css.Color{A: 1}
}

// drawBorder draws each styled side as a trapezoid between the border
// and padding edges.
func (r *Renderer) drawBorder(box *layout.Box, alpha float64) {
	if box.IsInline() {
		return
	}
	outer := box.BorderBox()
	inner := box.PaddingBox()
	sides := []struct {
		name  string
		width float64
		quad  [4]geom.Point
	}{
		{"top", box.Border.Top, [4]geom.Point{
			{X: outer.Left(), Y: outer.Top()}, {X: outer.Right(), Y: outer.Top()},
			{X: inner.Right(), Y: inner.Top()}, {X: inner.Left(), Y: inner.Top()}}},
		{"right", box.Border.Right, [4]geom.Point{
			{X: outer.Right(), Y: outer.Top()}, {X: outer.Right(), Y: outer.Bottom()},
			{X: inner.Right(), Y: inner.Bottom()}, {X: inner.Right(), Y: inner.Top()}}},
		{"bottom", box.Border.Bottom, [4]geom.Point{
			{X: outer.Left(), Y: outer.Bottom()}, {X: outer.Right(), Y: outer.Bottom()},
			{X: inner.Right(), Y: inner.Bottom()}, {X: inner.Left(), Y: inner.Bottom()}}},
		{"left", box.Border.Left, [4]geom.Point{
			{X: outer.Left(), Y: outer.Top()}, {X: outer.Left(), Y: outer.Bottom()},
			{X: inner.Left(), Y: inner.Bottom()}, {X: inner.Left(), Y: inner.Top()}}},
	}
	for _, s := range sides {
		if s.width <= 0 {
			continue
		}
		// A width without a style takes space but is not painted.
		if st, ok := box.Style.Get("border-" + s.name + "-style"); !ok || st == "none" || st == "hidden" {
			continue
		}
		color := getBorderSideColor(box, s.name)
		if color.A == 0 {
			continue
		}
		r.setColor(color, alpha)
		r.context.MoveTo(s.quad[0].X, s.quad[0].Y)
		for _, p := range s.quad[1:] {
			r.context.LineTo(p.X, p.Y)
		}
		r.context.ClosePath()
		r.context.Fill()
	}
}

func (r *Renderer) drawText(box *layout.Box, alpha float64) {
	if len(box.Runs) == 0 || r.faces == nil {
		return
	}
	r.setColor(box.Style.GetColor(), alpha)
	for _, run := range box.Runs {
		r.context.SetFontFace(r.faces.Face(run.Font))
		if run.LetterSpacing == 0 {
			r.context.DrawString(run.Text, run.X, run.Baseline)
			continue
		}
		x := run.X
		for _, g := range text.Graphemes(run.Text) {
			r.context.DrawString(g, x, run.Baseline)
			x += r.faces.Advance(run.Font, g) + run.LetterSpacing
		}
	}
}

// drawCaret draws a 1px bar at the left edge of the caret rectangle.
func (r *Renderer) drawCaret(c geom.Rect) {
	r.context.SetRGB(0, 0, 0)
	r.context.DrawRectangle(c.X, c.Y, 1, c.Height)
	r.context.Fill()
}

func (r *Renderer) Image() image.Image {
	return r.context.Image()
}

func (r *Renderer) EncodePNG(w io.Writer) error {
	return png.Encode(w, r.context.Image())
}

func (r *Renderer) SavePNG(filename string) error {
	return r.context.SavePNG(filename)
}

// Snapshot renders the current state of p, including the caret of a
// focused text control.
func Snapshot(p *page.Page, faces *text.FaceMeasurer) (image.Image, error) {
	vp := p.Viewport()
	f := Frame{Layout: p.Layout()}
	if active := p.ActiveElement(); active.IsTextControl() {
		rect, err := caret.AtSelection(p, active)
		if err != nil {
			return nil, fmt.Errorf("caret: %w", err)
		}
		f.Caret = &rect
		// Measuring the caret mounts a mirror; lay out again without it.
		f.Layout = p.Layout()
	}
	r := NewRenderer(int(vp.Width), int(vp.Height), faces)
	r.Render(f)
	return r.Image(), nil
}
