package page

import (
	"strings"

	"go.uber.org/zap"

	"caretfloat/pkg/geom"
	"caretfloat/pkg/html"
	"caretfloat/pkg/text"
)

// Key names follow KeyboardEvent.key.
const (
	KeyBackspace  = "Backspace"
	KeyDelete     = "Delete"
	KeyEnter      = "Enter"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyHome       = "Home"
	KeyEnd        = "End"
	KeyTab        = "Tab"
)

// ActiveElement returns the focused element, or nil.
func (p *Page) ActiveElement() *html.Node {
	if p.focus != nil && !p.focus.IsConnected() {
		p.focus = nil
	}
	return p.focus
}

func focusable(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	switch n.TagName {
	case "input", "textarea", "button", "select", "a":
		return true
	}
	_, ok := n.GetAttribute("tabindex")
	return ok
}

// Focus moves focus to n, dispatching blur on the old element and focus
// on the new one. Passing nil blurs.
func (p *Page) Focus(n *html.Node) {
	if n != nil && !focusable(n) {
		return
	}
	old := p.ActiveElement()
	if old == n {
		return
	}
	p.focus = n
	if old != nil {
		dispatchLocal(old, "blur")
	}
	if n != nil {
		p.log.Debug("focus", zap.String("tag", n.TagName), zap.String("id", n.ID()))
		dispatchLocal(n, "focus")
	}
}

// focusables lists focusable elements in document order.
func (p *Page) focusables() []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if focusable(n) {
			if _, ok := p.Layout().Rect(n); ok {
				out = append(out, n)
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(p.doc.Root)
	return out
}

// FocusNext moves focus to the next focusable element, wrapping around.
func (p *Page) FocusNext() {
	list := p.focusables()
	if len(list) == 0 {
		return
	}
	next := list[0]
	for i, n := range list {
		if n == p.ActiveElement() {
			next = list[(i+1)%len(list)]
			break
		}
	}
	p.Focus(next)
}

func dispatchLocal(n *html.Node, typ string) {
	ev := html.NewEvent(typ)
	ev.Bubbles = false
	n.DispatchEvent(ev)
}

func dispatchKey(n *html.Node, typ, key string) {
	ev := html.NewEvent(typ)
	ev.Key = key
	n.DispatchEvent(ev)
}

// keyTarget is where keyboard events go: the focused element or the body.
func (p *Page) keyTarget() *html.Node {
	if f := p.ActiveElement(); f != nil {
		return f
	}
	return p.doc.Body()
}

// SetSelection sets the selection of a text control and dispatches
// "selectionchange" on the document when it changed.
func (p *Page) SetSelection(n *html.Node, start, end int) {
	if n.SetSelection(start, end) {
		p.selectionChanged()
	}
}

func (p *Page) selectionChanged() {
	ev := html.NewEvent("selectionchange")
	ev.Bubbles = false
	p.doc.Root.DispatchEvent(ev)
}

// TypeRune types r into the focused control: keydown, the edit, input,
// selectionchange, then keyup.
func (p *Page) TypeRune(r rune) {
	key := string(r)
	target := p.keyTarget()
	dispatchKey(target, "keydown", key)
	if target.IsTextControl() {
		if r == '\n' && !target.IsMultiline() {
			r = 0
		}
		if r != 0 {
			p.insertText(target, string(r))
		}
	}
	dispatchKey(target, "keyup", key)
}

// PressKey sends KeyDown and KeyUp for key.
func (p *Page) PressKey(key string) {
	p.KeyDown(key)
	p.KeyUp(key)
}

// KeyDown dispatches keydown and applies the key's editing action to the
// focused text control.
func (p *Page) KeyDown(key string) {
	target := p.keyTarget()
	dispatchKey(target, "keydown", key)
	if key == KeyTab {
		p.FocusNext()
		return
	}
	if !target.IsTextControl() {
		return
	}
	value := []rune(target.Value())
	start, end := target.SelectionStart(), target.SelectionEnd()
	switch key {
	case KeyBackspace:
		if start == end && start > 0 {
			start = prevBoundary(value, start)
		}
		if start != end {
			p.replaceRange(target, value, start, end, "")
		}
	case KeyDelete:
		if start == end && end < len(value) {
			end = nextBoundary(value, end)
		}
		if start != end {
			p.replaceRange(target, value, start, end, "")
		}
	case KeyEnter:
		if target.IsMultiline() {
			p.insertText(target, "\n")
		}
	case KeyArrowLeft:
		pos := start
		if start == end {
			pos = prevBoundary(value, start)
		}
		p.SetSelection(target, pos, pos)
	case KeyArrowRight:
		pos := end
		if start == end {
			pos = nextBoundary(value, end)
		}
		p.SetSelection(target, pos, pos)
	case KeyHome:
		pos := lineStart(value, start)
		p.SetSelection(target, pos, pos)
	case KeyEnd:
		pos := lineEnd(value, end)
		p.SetSelection(target, pos, pos)
	case KeyArrowUp, KeyArrowDown:
		pos := verticalMove(value, end, key == KeyArrowUp, target.IsMultiline())
		p.SetSelection(target, pos, pos)
	}
}

// KeyUp dispatches keyup on the focused element.
func (p *Page) KeyUp(key string) {
	dispatchKey(p.keyTarget(), "keyup", key)
}

func (p *Page) insertText(n *html.Node, s string) {
	p.replaceRange(n, []rune(n.Value()), n.SelectionStart(), n.SelectionEnd(), s)
}

// replaceRange replaces value[start:end] with s, puts the caret after the
// insertion and dispatches input and selectionchange.
func (p *Page) replaceRange(n *html.Node, value []rune, start, end int, s string) {
	var sb strings.Builder
	sb.WriteString(string(value[:start]))
	sb.WriteString(s)
	sb.WriteString(string(value[end:]))
	n.SetValue(sb.String())
	caret := start + len([]rune(s))
	n.SetSelection(caret, caret)
	n.DispatchEvent(html.NewEvent("input"))
	p.selectionChanged()
}

// prevBoundary returns the rune offset of the grapheme boundary before pos.
func prevBoundary(value []rune, pos int) int {
	prev := 0
	offset := 0
	for _, g := range text.Graphemes(string(value)) {
		next := offset + len([]rune(g))
		if next >= pos {
			return prev
		}
		prev, offset = next, next
	}
	return prev
}

// nextBoundary returns the rune offset of the grapheme boundary after pos.
func nextBoundary(value []rune, pos int) int {
	if pos >= len(value) {
		return len(value)
	}
	g := text.FirstGrapheme(string(value[pos:]))
	return pos + len([]rune(g))
}

func lineStart(value []rune, pos int) int {
	for pos > 0 && value[pos-1] != '\n' {
		pos--
	}
	return pos
}

func lineEnd(value []rune, pos int) int {
	for pos < len(value) && value[pos] != '\n' {
		pos++
	}
	return pos
}

// verticalMove moves the caret one hard line up or down, keeping the
// column. Single-line controls go to the start or end.
func verticalMove(value []rune, pos int, up, multiline bool) int {
	if !multiline {
		if up {
			return 0
		}
		return len(value)
	}
	start := lineStart(value, pos)
	col := pos - start
	if up {
		if start == 0 {
			return 0
		}
		prevStart := lineStart(value, start-1)
		return min(prevStart+col, start-1)
	}
	end := lineEnd(value, pos)
	if end == len(value) {
		return len(value)
	}
	nextStart := end + 1
	return min(nextStart+col, lineEnd(value, nextStart))
}

// Click focuses and clicks the element under p (viewport coordinates).
// Clicking a single-line text control puts the caret at the nearest
// grapheme boundary; clicking a textarea puts it at the end.
func (p *Page) Click(pt geom.Point) *html.Node {
	target := p.hitTest(pt)
	if target == nil {
		p.Focus(nil)
		return nil
	}
	if focusable(target) {
		p.Focus(target)
	}
	if target.IsTextControl() {
		pos := p.offsetAt(target, pt)
		p.SetSelection(target, pos, pos)
	}
	target.DispatchEvent(html.NewEvent("click"))
	return target
}

func (p *Page) hitTest(pt geom.Point) *html.Node {
	return p.Layout().HitTest(geom.Point{X: pt.X + p.scroll.X, Y: pt.Y + p.scroll.Y})
}

func (p *Page) offsetAt(n *html.Node, pt geom.Point) int {
	value := n.Value()
	total := len([]rune(value))
	if n.IsMultiline() {
		return total
	}
	box := p.Layout().Box(n)
	if box == nil {
		return total
	}
	style := p.ComputedStyle(n)
	f := text.FontFromStyle(style)
	ls := style.GetLetterSpacing()
	x := pt.X + p.scroll.X - box.ContentBox().X
	if len(box.Runs) > 0 {
		x = pt.X + p.scroll.X - box.Runs[0].X
	}
	best, bestDist := 0, x
	if bestDist < 0 {
		bestDist = -bestDist
	}
	offset, width := 0, 0.0
	for _, g := range text.Graphemes(value) {
		width += text.Width(p.measurer, f, g, ls)
		offset += len([]rune(g))
		d := x - width
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best, bestDist = offset, d
		}
	}
	return best
}

// PointerMove moves the pointer to pt (viewport coordinates) and
// dispatches pointerleave/pointerenter when the hovered element changes.
func (p *Page) PointerMove(pt geom.Point) {
	p.setHover(p.hitTest(pt))
}

// PointerLeave is called when the pointer leaves the window.
func (p *Page) PointerLeave() {
	p.setHover(nil)
}

func (p *Page) setHover(n *html.Node) {
	if n == p.hover {
		return
	}
	old := p.hover
	p.hover = n
	if old != nil && old.IsConnected() {
		dispatchLocal(old, "pointerleave")
	}
	if n != nil {
		dispatchLocal(n, "pointerenter")
	}
}

// Hovered returns the element under the pointer.
func (p *Page) Hovered() *html.Node {
	return p.hover
}
