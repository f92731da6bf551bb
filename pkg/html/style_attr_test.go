package html

import "testing"

func TestSetStylePropertyKeepsOrderAndReportsChange(t *testing.T) {
	n := NewElement("div")
	n.SetAttribute("style", "color: red; width: 10px")

	if !n.SetStyleProperty("left", "5px") {
		t.Fatal("expected change")
	}
	if n.SetStyleProperty("left", "5px") {
		t.Error("identical write should not report a change")
	}
	n.SetStyleProperty("color", "blue")
	if got, _ := n.GetAttribute("style"); got != "color: blue; width: 10px; left: 5px" {
		t.Errorf("unexpected style attribute %q", got)
	}
	if v, ok := n.StyleProperty("width"); !ok || v != "10px" {
		t.Errorf("expected width 10px, got %q", v)
	}

	n.RemoveStyleProperty("width")
	if _, ok := n.StyleProperty("width"); ok {
		t.Error("width should be removed")
	}
}
