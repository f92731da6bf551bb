// Package page is the window around a document: viewport, scrolling,
// cached layout, focus and user input. It is the surface the caret probe
// and the floating anchors measure against.
package page

import (
	"fmt"

	"go.uber.org/zap"

	"caretfloat/pkg/css"
	"caretfloat/pkg/geom"
	"caretfloat/pkg/html"
	"caretfloat/pkg/layout"
	"caretfloat/pkg/text"
)

// Page owns a document and everything a browser window adds to it. All
// methods must run on the host loop goroutine.
type Page struct {
	doc      *html.Document
	measurer text.Measurer
	viewport geom.Size
	scroll   geom.Point
	log      *zap.Logger

	styles        map[*html.Node]*css.Style
	stylesVersion uint64
	result        *layout.Result
	key           layoutKey
	layouts       int

	focus *html.Node
	hover *html.Node
}

type layoutKey struct {
	valid    bool
	version  uint64
	scroll   geom.Point
	viewport geom.Size
}

type Option func(*Page)

func WithLogger(log *zap.Logger) Option {
	return func(p *Page) {
		p.log = log
	}
}

// WithMeasurer sets the text measurer. The default is text.FixedMeasurer.
func WithMeasurer(m text.Measurer) Option {
	return func(p *Page) {
		p.measurer = m
	}
}

func WithViewport(width, height float64) Option {
	return func(p *Page) {
		p.viewport = geom.Size{Width: width, Height: height}
	}
}

func New(doc *html.Document, opts ...Option) *Page {
	p := &Page{
		doc:      doc,
		measurer: text.FixedMeasurer{},
		viewport: geom.Size{Width: 800, Height: 600},
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load parses src into a new page.
func Load(src string, opts ...Option) (*Page, error) {
	doc, err := html.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return New(doc, opts...), nil
}

func (p *Page) Document() *html.Document {
	return p.doc
}

// Root is the document node; window-level events are dispatched on it.
func (p *Page) Root() *html.Node {
	return p.doc.Root
}

func (p *Page) Measurer() text.Measurer {
	return p.measurer
}

func (p *Page) Viewport() geom.Size {
	return p.viewport
}

func (p *Page) Scroll() geom.Point {
	return p.scroll
}

// Layouts returns how many layout passes have run.
func (p *Page) Layouts() int {
	return p.layouts
}

// Styles returns computed styles, recomputed when the document changed.
func (p *Page) Styles() map[*html.Node]*css.Style {
	if p.styles == nil || p.stylesVersion != p.doc.Version() {
		p.styles = css.ApplyStylesToDocument(p.doc)
		p.stylesVersion = p.doc.Version()
	}
	return p.styles
}

// ComputedStyle returns the computed style of n, or an empty style when
// n is not in the document.
func (p *Page) ComputedStyle(n *html.Node) *css.Style {
	if s, ok := p.Styles()[n]; ok {
		return s
	}
	return css.NewStyle()
}

// Layout returns the current layout, recomputing it when the document,
// the scroll offset or the viewport changed.
func (p *Page) Layout() *layout.Result {
	key := layoutKey{valid: true, version: p.doc.Version(), scroll: p.scroll, viewport: p.viewport}
	if p.result != nil && p.key == key {
		return p.result
	}
	engine := layout.NewLayoutEngine(p.viewport.Width, p.viewport.Height, p.measurer)
	engine.SetScroll(p.scroll)
	p.result = engine.LayoutStyled(p.doc, p.Styles())
	p.key = key
	p.layouts++
	return p.result
}

// BoundingClientRect returns the rectangle of n in viewport coordinates.
// ok is false when n is detached or generates no box.
func (p *Page) BoundingClientRect(n *html.Node) (geom.Rect, bool) {
	if n == nil || !n.IsConnected() || n.OwnerDocument() != p.doc {
		return geom.Rect{}, false
	}
	r, ok := p.Layout().Rect(n)
	if !ok {
		return geom.Rect{}, false
	}
	return r.Translate(-p.scroll.X, -p.scroll.Y), true
}

// Mount appends n to <body> and returns a function that removes it again.
func (p *Page) Mount(n *html.Node) (unmount func()) {
	body := p.doc.Body()
	body.AddChild(n)
	return func() {
		if n.Parent == body {
			body.RemoveChild(n)
		}
	}
}

// ScrollTo scrolls the viewport, clamped to the document extent, and
// dispatches "scroll" when the offset changed.
func (p *Page) ScrollTo(x, y float64) {
	size := p.Layout().DocumentSize()
	x = clamp(x, 0, max(0, size.Width-p.viewport.Width))
	y = clamp(y, 0, max(0, size.Height-p.viewport.Height))
	next := geom.Point{X: x, Y: y}
	if next == p.scroll {
		return
	}
	p.scroll = next
	p.dispatchWindow("scroll")
}

// ScrollBy scrolls relative to the current offset.
func (p *Page) ScrollBy(dx, dy float64) {
	p.ScrollTo(p.scroll.X+dx, p.scroll.Y+dy)
}

// Resize changes the viewport and dispatches "resize".
func (p *Page) Resize(width, height float64) {
	next := geom.Size{Width: width, Height: height}
	if next == p.viewport {
		return
	}
	p.viewport = next
	p.log.Debug("viewport resized", zap.Float64("width", width), zap.Float64("height", height))
	p.dispatchWindow("resize")
}

func (p *Page) dispatchWindow(typ string) {
	ev := html.NewEvent(typ)
	ev.Bubbles = false
	p.doc.Root.DispatchEvent(ev)
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
