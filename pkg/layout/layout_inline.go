package layout

import (
	"caretfloat/pkg/css"
	"caretfloat/pkg/geom"
	"caretfloat/pkg/html"
	"caretfloat/pkg/text"
)

type itemKind int

const (
	itemText itemKind = iota
	itemOpen
	itemClose
	itemAtomic
	itemBreak
	itemAbsolute
)

// inlineItem is one entry of the flattened inline content of a block.
type inlineItem struct {
	kind  itemKind
	piece text.Piece
	style *css.Style
	// target receives the result: the text box (or form control) for text,
	// the inline box for open/close, the laid-out box for atomics.
	target    *Box
	font      text.Font
	ls        float64
	breakWord bool
}

// collectInline flattens inline-level nodes into items, creating their
// boxes under parent.
func (le *LayoutEngine) collectInline(parent *Box, nodes []*html.Node, items []inlineItem, availWidth float64) []inlineItem {
	for _, n := range nodes {
		if n.Type == html.TextNode {
			b := le.newBox(n, parent)
			parent.Children = append(parent.Children, b)
			items = appendTextItems(items, b, n.Text, b.Style)
			continue
		}
		style := le.style(n)
		if style.GetDisplay() == css.DisplayNone {
			continue
		}
		if isOutOfFlow(style) {
			b := le.newBox(n, parent)
			b.pending = true
			parent.Children = append(parent.Children, b)
			items = append(items, inlineItem{kind: itemAbsolute, style: style, target: b})
			continue
		}
		if n.TagName == "br" {
			items = append(items, inlineItem{kind: itemBreak, style: style})
			continue
		}
		if style.GetDisplay() == css.DisplayInline && !n.IsTextControl() {
			b := le.newBox(n, parent)
			parent.Children = append(parent.Children, b)
			open := inlineItem{kind: itemOpen, style: style, target: b, font: text.FontFromStyle(style)}
			items = append(items, open)
			items = le.collectInline(b, n.Children, items, availWidth)
			open.kind = itemClose
			items = append(items, open)
			continue
		}
		b := le.layoutAtomic(n, parent, availWidth)
		parent.Children = append(parent.Children, b)
		items = append(items, inlineItem{kind: itemAtomic, style: style, target: b})
	}
	return items
}

func appendTextItems(items []inlineItem, target *Box, s string, style *css.Style) []inlineItem {
	f := text.FontFromStyle(style)
	ls := style.GetLetterSpacing()
	bw := breaksWords(style)
	for _, p := range text.Segment(s, style.GetWhiteSpace()) {
		items = append(items, inlineItem{kind: itemText, piece: p, style: style, target: target, font: f, ls: ls, breakWord: bw})
	}
	return items
}

// breaksWords reports whether words longer than the line may be split.
func breaksWords(style *css.Style) bool {
	for _, prop := range []string{"overflow-wrap", "word-wrap"} {
		if v, ok := style.Get(prop); ok && (v == "break-word" || v == "anywhere") {
			return true
		}
	}
	v, _ := style.Get("word-break")
	return v == "break-all"
}

// layoutInline lays out inline nodes as lines starting at (x, y) and
// returns the height of the lines.
func (le *LayoutEngine) layoutInline(container *Box, nodes []*html.Node, x, y, width float64) float64 {
	items := le.collectInline(container, nodes, nil, width)
	il := newInlineLayout(le, container, x, y, width)
	return il.run(items)
}

// halfLeading splits the line-height of style around the baseline.
func (le *LayoutEngine) halfLeading(style *css.Style, f text.Font) (above, below float64) {
	m := le.measurer.Metrics(f)
	hl := (style.GetLineHeight() - m.Height()) / 2
	return m.Ascent + hl, m.Descent + hl
}

type placedItem struct {
	item  *inlineItem
	x     float64
	width float64
	above float64
	text  string
}

// spanSeg is the part of an inline box on one line.
type spanSeg struct {
	box     *Box
	start   float64
	end     float64
	carried bool
	closed  bool
}

type lineState struct {
	items      []placedItem
	spans      []*spanSeg
	x          float64
	above      float64
	below      float64
	hasContent bool
	lastSpace  bool
	forced     bool
	contentEnd float64
}

func (l *lineState) extend(above, below float64) {
	l.above = max(l.above, above)
	l.below = max(l.below, below)
}

func (l *lineState) segFor(b *Box) *spanSeg {
	for i := len(l.spans) - 1; i >= 0; i-- {
		if l.spans[i].box == b {
			return l.spans[i]
		}
	}
	return nil
}

type inlineLayout struct {
	le        *LayoutEngine
	container *Box
	x0        float64
	y         float64
	startY    float64
	avail     float64
	align     css.TextAlign
	wraps     bool

	strutAbove float64
	strutBelow float64

	cur    *lineState
	open   []*Box
	inUnit bool
	spans  []*Box
}

func newInlineLayout(le *LayoutEngine, container *Box, x, y, width float64) *inlineLayout {
	style := container.Style
	above, below := le.halfLeading(style, text.FontFromStyle(style))
	return &inlineLayout{
		le:         le,
		container:  container,
		x0:         x,
		y:          y,
		startY:     y,
		avail:      width,
		align:      style.GetTextAlign(),
		wraps:      style.GetWhiteSpace().Wraps(),
		strutAbove: above,
		strutBelow: below,
	}
}

func (il *inlineLayout) run(items []inlineItem) float64 {
	il.newLine()
	for i := range items {
		it := &items[i]
		switch it.kind {
		case itemOpen:
			b := it.target
			il.cur.x += b.Margin.Left
			il.cur.spans = append(il.cur.spans, &spanSeg{box: b, start: il.cur.x})
			il.cur.x += b.Border.Left + b.Padding.Left
			il.cur.contentEnd = max(il.cur.contentEnd, il.cur.x)
			il.open = append(il.open, b)
			il.spans = append(il.spans, b)
			il.cur.extend(il.le.halfLeading(it.style, it.font))
		case itemClose:
			b := it.target
			il.cur.x += b.Padding.Right + b.Border.Right
			if seg := il.cur.segFor(b); seg != nil {
				seg.end = il.cur.x
				seg.closed = true
			}
			il.cur.contentEnd = max(il.cur.contentEnd, il.cur.x)
			il.cur.x += b.Margin.Right
			il.open = il.open[:len(il.open)-1]
		case itemBreak:
			il.inUnit = false
			il.cur.forced = true
			il.breakLine()
		case itemAbsolute:
			il.cur.items = append(il.cur.items, placedItem{item: it, x: il.cur.x})
		case itemAtomic:
			il.inUnit = false
			mb := it.target.MarginBox()
			if il.wraps && il.cur.hasContent && il.cur.x+mb.Width > il.avail {
				il.breakLine()
			}
			above := atomicBaseline(il.le, it.target)
			il.cur.items = append(il.cur.items, placedItem{item: it, x: il.cur.x, width: mb.Width, above: above})
			il.cur.extend(above, mb.Height-above)
			il.cur.x += mb.Width
			il.cur.contentEnd = il.cur.x
			il.cur.hasContent = true
			il.cur.lastSpace = false
		case itemText:
			il.placeText(items, i)
		}
	}
	il.finishLine()

	for _, b := range il.spans {
		if len(b.Fragments) == 0 {
			continue
		}
		r := b.Rect()
		b.X, b.Y = r.X, r.Y
		b.Width = max(0, r.Width-b.Padding.Horizontal()-b.Border.Horizontal())
		b.Height = max(0, r.Height-b.Padding.Vertical()-b.Border.Vertical())
	}
	return il.y - il.startY
}

func (il *inlineLayout) placeText(items []inlineItem, i int) {
	it := &items[i]
	ws := it.style.GetWhiteSpace()
	m := il.le.measurer
	switch it.piece.Kind {
	case text.Newline:
		il.inUnit = false
		il.cur.forced = true
		il.breakLine()
	case text.Space:
		il.inUnit = false
		collapsible := !ws.PreservesSpaces()
		if collapsible && (!il.cur.hasContent || il.cur.lastSpace) {
			return
		}
		w := text.Width(m, it.font, it.piece.Text, it.ls)
		il.place(it, it.piece.Text, w)
		il.cur.lastSpace = collapsible
		if !collapsible {
			il.cur.hasContent = true
			il.cur.contentEnd = il.cur.x
		}
	case text.Word:
		wraps := ws.Wraps()
		if wraps && !il.inUnit {
			if il.cur.hasContent && il.cur.x+il.unitWidth(items, i) > il.avail {
				il.breakLine()
			}
		}
		il.inUnit = true
		w := text.Width(m, it.font, it.piece.Text, it.ls)
		if !wraps || !it.breakWord || il.cur.x+w <= il.avail {
			il.placeWord(it, it.piece.Text, w)
			return
		}
		remaining := it.piece.Text
		for remaining != "" {
			chunks := text.BreakWord(m, it.font, it.ls, remaining, max(0, il.avail-il.cur.x))
			first := chunks[0]
			fw := text.Width(m, it.font, first, it.ls)
			if il.cur.hasContent && il.cur.x+fw > il.avail {
				il.breakLine()
				continue
			}
			il.placeWord(it, first, fw)
			remaining = remaining[len(first):]
			if remaining != "" {
				il.breakLine()
			}
		}
	}
}

// unitWidth measures the unbreakable run starting at items[i]: words joined
// across inline box boundaries with no space between them.
func (il *inlineLayout) unitWidth(items []inlineItem, i int) float64 {
	w := 0.0
	for j := i; j < len(items); j++ {
		it := &items[j]
		switch it.kind {
		case itemText:
			if it.piece.Kind != text.Word {
				return w
			}
			w += text.Width(il.le.measurer, it.font, it.piece.Text, it.ls)
		case itemOpen:
			w += it.target.Margin.Left + it.target.Border.Left + it.target.Padding.Left
		case itemClose:
			w += it.target.Margin.Right + it.target.Border.Right + it.target.Padding.Right
		default:
			return w
		}
	}
	return w
}

func (il *inlineLayout) placeWord(it *inlineItem, s string, w float64) {
	il.place(it, s, w)
	il.cur.hasContent = true
	il.cur.lastSpace = false
	il.cur.contentEnd = il.cur.x
}

func (il *inlineLayout) place(it *inlineItem, s string, w float64) {
	above, below := il.le.halfLeading(it.style, it.font)
	il.cur.items = append(il.cur.items, placedItem{item: it, x: il.cur.x, width: w, above: above, text: s})
	il.cur.extend(above, below)
	il.cur.x += w
}

func (il *inlineLayout) breakLine() {
	il.finishLine()
	il.newLine()
}

// newLine starts a line; inline boxes still open continue on it.
func (il *inlineLayout) newLine() {
	il.cur = &lineState{}
	il.cur.extend(il.strutAbove, il.strutBelow)
	for _, b := range il.open {
		il.cur.spans = append(il.cur.spans, &spanSeg{box: b, carried: true})
		il.cur.extend(il.le.halfLeading(b.Style, text.FontFromStyle(b.Style)))
	}
}

func (il *inlineLayout) finishLine() {
	l := il.cur
	for _, s := range l.spans {
		if !s.closed {
			s.end = l.x
		}
	}
	if !l.hasContent && !l.forced {
		for _, p := range l.items {
			if p.item.kind == itemAbsolute {
				p.item.target.staticX = il.x0 + p.x
				p.item.target.staticY = il.y
			}
		}
		return
	}

	top := il.y
	baseY := top + l.above
	shift := 0.0
	switch il.align {
	case css.TextAlignCenter:
		shift = max(0, (il.avail-l.contentEnd)/2)
	case css.TextAlignRight:
		shift = max(0, il.avail-l.contentEnd)
	}

	for _, p := range l.items {
		x := il.x0 + p.x + shift
		t := p.item.target
		switch p.item.kind {
		case itemText:
			m := il.le.measurer.Metrics(p.item.font)
			t.Runs = append(t.Runs, TextRun{
				Text:          p.text,
				X:             x,
				Y:             baseY - m.Ascent,
				Width:         p.width,
				Height:        m.Height(),
				Baseline:      baseY,
				Font:          p.item.font,
				LetterSpacing: p.item.ls,
			})
		case itemAtomic:
			mb := t.MarginBox()
			t.translate(x-mb.X, baseY-p.above-mb.Y)
		case itemAbsolute:
			t.staticX = x
			t.staticY = top
		}
	}

	for _, s := range l.spans {
		if s.carried && s.end == s.start {
			continue
		}
		b := s.box
		m := il.le.measurer.Metrics(text.FontFromStyle(b.Style))
		b.Fragments = append(b.Fragments, geom.Rect{
			X:      il.x0 + s.start + shift,
			Y:      baseY - m.Ascent - b.Padding.Top - b.Border.Top,
			Width:  s.end - s.start,
			Height: m.Height() + b.Padding.Vertical() + b.Border.Vertical(),
		})
	}

	height := l.above + l.below
	il.container.LineBoxes = append(il.container.LineBoxes, &LineBox{
		Y:        top,
		Height:   height,
		Baseline: baseY,
		Width:    l.contentEnd,
	})
	il.y += height
}

// atomicBaseline is the distance from the top of an atomic inline's margin
// box to its baseline.
func atomicBaseline(le *LayoutEngine, b *Box) float64 {
	mb := b.MarginBox()
	switch {
	case b.Node.IsTextControl() && !b.Node.IsMultiline():
		above, _ := le.halfLeading(b.Style, text.FontFromStyle(b.Style))
		offset := (b.Height - b.Style.GetLineHeight()) / 2
		return b.Margin.Top + b.Border.Top + b.Padding.Top + offset + above
	case b.Node.IsTextControl():
		return mb.Height
	case len(b.LineBoxes) > 0:
		return b.LineBoxes[len(b.LineBoxes)-1].Baseline - mb.Y
	}
	return mb.Height
}
