package html

import "unicode/utf8"

// formState is the live (property) state of a text control. It starts out
// from the markup (value attribute or textarea text) and diverges from it
// once the value is edited.
type formState struct {
	dirty          bool
	value          string
	selectionStart int
	selectionEnd   int
}

// IsTextControl reports whether the node is a single-line <input> of a
// text-like type or a <textarea>.
func (n *Node) IsTextControl() bool {
	if n == nil || n.Type != ElementNode {
		return false
	}
	switch n.TagName {
	case "textarea":
		return true
	case "input":
		switch n.InputType() {
		case "text", "search", "email", "url", "tel", "password":
			return true
		}
	}
	return false
}

// IsMultiline reports whether the control wraps its text (textarea).
func (n *Node) IsMultiline() bool {
	return n.Type == ElementNode && n.TagName == "textarea"
}

// InputType returns the lower-cased type attribute of an <input>, "text" by default.
func (n *Node) InputType() string {
	t, ok := n.GetAttribute("type")
	if !ok || t == "" {
		return "text"
	}
	return t
}

// Value returns the current value of a text control.
func (n *Node) Value() string {
	if n.form.dirty {
		return n.form.value
	}
	if n.TagName == "textarea" {
		return n.TextContent()
	}
	v, _ := n.GetAttribute("value")
	return v
}

// SetValue replaces the control value and moves the caret to the end,
// the way assigning .value does in a browser.
func (n *Node) SetValue(v string) {
	end := utf8.RuneCountInString(v)
	if n.form.dirty && n.form.value == v && n.form.selectionStart == end && n.form.selectionEnd == end {
		return
	}
	n.form = formState{dirty: true, value: v, selectionStart: end, selectionEnd: end}
	n.touch()
}

// SelectionStart returns the caret offset in runes.
func (n *Node) SelectionStart() int {
	if !n.form.dirty {
		return 0
	}
	return n.form.selectionStart
}

// SelectionEnd returns the end of the selection in runes.
func (n *Node) SelectionEnd() int {
	if !n.form.dirty {
		return 0
	}
	return n.form.selectionEnd
}

// SetSelection sets the selection range, clamped to the value length.
// It reports whether the selection changed.
func (n *Node) SetSelection(start, end int) bool {
	if !n.form.dirty {
		n.form = formState{dirty: true, value: n.Value()}
	}
	length := utf8.RuneCountInString(n.form.value)
	start = clampInt(start, 0, length)
	end = clampInt(end, start, length)
	if n.form.selectionStart == start && n.form.selectionEnd == end {
		return false
	}
	n.form.selectionStart = start
	n.form.selectionEnd = end
	n.touch()
	return true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
