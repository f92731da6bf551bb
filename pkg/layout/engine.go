package layout

import (
	"sort"

	"caretfloat/pkg/css"
	"caretfloat/pkg/geom"
	"caretfloat/pkg/html"
	"caretfloat/pkg/text"
)

// LayoutEngine lays out a document for a viewport. Coordinates in the
// result are document coordinates; fixed boxes are placed at the current
// scroll offset.
type LayoutEngine struct {
	viewport geom.Size
	scroll   geom.Point
	measurer text.Measurer

	styles map[*html.Node]*css.Style
}

func NewLayoutEngine(viewportWidth, viewportHeight float64, measurer text.Measurer) *LayoutEngine {
	return &LayoutEngine{
		viewport: geom.Size{Width: viewportWidth, Height: viewportHeight},
		measurer: measurer,
	}
}

// SetScroll sets the scroll offset used to place fixed boxes.
func (le *LayoutEngine) SetScroll(p geom.Point) {
	le.scroll = p
}

// Measurer returns the text measurer used for inline content.
func (le *LayoutEngine) Measurer() text.Measurer {
	return le.measurer
}

// Layout computes styles for doc and lays it out.
func (le *LayoutEngine) Layout(doc *html.Document) *Result {
	return le.LayoutStyled(doc, css.ApplyStylesToDocument(doc))
}

// LayoutStyled lays out doc with precomputed styles.
func (le *LayoutEngine) LayoutStyled(doc *html.Document, styles map[*html.Node]*css.Style) *Result {
	le.styles = styles
	defer func() { le.styles = nil }()

	root := &Box{
		Node:     doc.Root,
		Style:    css.NewStyle(),
		Width:    le.viewport.Width,
		Display:  css.DisplayBlock,
		Position: css.PositionStatic,
	}
	contentHeight := le.layoutChildren(root, doc.Root.Children)
	root.Height = max(contentHeight, le.viewport.Height)

	result := &Result{
		Root:     root,
		Viewport: le.viewport,
		Scroll:   le.scroll,
		boxes:    make(map[*html.Node]*Box),
	}
	le.resolvePositioned(root, result)
	result.register(root)
	sort.SliceStable(result.Positioned, func(i, j int) bool {
		return result.Positioned[i].ZIndex < result.Positioned[j].ZIndex
	})
	return result
}

func (r *Result) register(b *Box) {
	if b.Node != nil {
		r.boxes[b.Node] = b
	}
	for _, c := range b.Children {
		r.register(c)
	}
}

func (le *LayoutEngine) style(n *html.Node) *css.Style {
	if s, ok := le.styles[n]; ok {
		return s
	}
	return css.NewStyle()
}

// newBox creates a box with the resolved box-model edges of n.
func (le *LayoutEngine) newBox(n *html.Node, parent *Box) *Box {
	style := le.style(n)
	b := &Box{
		Node:     n,
		Style:    style,
		Parent:   parent,
		Display:  style.GetDisplay(),
		Position: style.GetPosition(),
		ZIndex:   style.GetZIndex(),
	}
	if n.Type == html.TextNode {
		b.Display = css.DisplayInline
		return b
	}
	b.Margin = style.GetMargin()
	b.Padding = style.GetPadding()
	b.Border = style.GetBorderWidth()
	return b
}
