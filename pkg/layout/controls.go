package layout

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"caretfloat/pkg/css"
	"caretfloat/pkg/text"
)

const (
	defaultInputSize    = 20
	defaultTextareaRows = 2
	defaultTextareaCols = 20
)

// defaultControlWidth sizes a control without a width from its size or
// cols attribute, in average character widths.
func (le *LayoutEngine) defaultControlWidth(b *Box) float64 {
	f := text.FontFromStyle(b.Style)
	avg := le.measurer.Advance(f, "0")
	attr, def := "size", defaultInputSize
	if b.Node.IsMultiline() {
		attr, def = "cols", defaultTextareaCols
	}
	return float64(intAttr(b, attr, def)) * avg
}

func intAttr(b *Box, name string, def int) int {
	if v, ok := b.Node.GetAttribute(name); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// layoutControl sizes an <input> or <textarea> and lays out its value as
// runs on the control box. Single-line values are centred vertically;
// textarea values wrap inside the content box.
func (le *LayoutEngine) layoutControl(b *Box) {
	style := b.Style
	lineHeight := style.GetLineHeight()
	if h, ok := le.specifiedHeight(b); ok {
		b.Height = h
	} else if b.Node.IsMultiline() {
		b.Height = float64(intAttr(b, "rows", defaultTextareaRows)) * lineHeight
	} else {
		b.Height = lineHeight
	}

	value := b.Node.Value()
	if b.Node.InputType() == "password" && !b.Node.IsMultiline() {
		value = strings.Repeat("•", utf8.RuneCountInString(value))
	}
	if value == "" {
		return
	}
	content := b.ContentBox()

	if b.Node.IsMultiline() {
		items := appendTextItems(nil, b, value, style)
		newInlineLayout(le, b, content.X, content.Y, content.Width).run(items)
		return
	}

	f := text.FontFromStyle(style)
	ls := style.GetLetterSpacing()
	m := le.measurer.Metrics(f)
	above, _ := le.halfLeading(style, f)
	baseY := content.Y + (b.Height-lineHeight)/2 + above
	b.Runs = []TextRun{{
		Text:          value,
		X:             content.X,
		Y:             baseY - m.Ascent,
		Width:         text.Width(le.measurer, f, value, ls),
		Height:        m.Height(),
		Baseline:      baseY,
		Font:          f,
		LetterSpacing: ls,
	}}
	if style.GetTextAlign() == css.TextAlignRight {
		b.Runs[0].X = content.Right() - b.Runs[0].Width
	}
}
