package html

import "testing"

func TestValueFromMarkupUntilEdited(t *testing.T) {
	doc, _ := Parse(`<input id="i" value="héllo">`)
	in := doc.GetElementByID("i")
	if in.Value() != "héllo" {
		t.Fatalf("expected markup value, got %q", in.Value())
	}
	if in.SelectionStart() != 0 {
		t.Errorf("expected caret at 0 before editing, got %d", in.SelectionStart())
	}

	in.SetValue("héllo!")
	if in.SelectionStart() != 6 || in.SelectionEnd() != 6 {
		t.Errorf("expected caret at rune end 6, got %d-%d", in.SelectionStart(), in.SelectionEnd())
	}
	if v, _ := in.GetAttribute("value"); v != "héllo" {
		t.Error("editing must not rewrite the value attribute")
	}
}

func TestSetSelectionClamps(t *testing.T) {
	doc, _ := Parse(`<textarea id="t">abc</textarea>`)
	ta := doc.GetElementByID("t")
	if !ta.SetSelection(-4, 99) {
		t.Fatal("expected a change")
	}
	if ta.SelectionStart() != 0 || ta.SelectionEnd() != 3 {
		t.Errorf("expected 0-3, got %d-%d", ta.SelectionStart(), ta.SelectionEnd())
	}
	if ta.SetSelection(0, 3) {
		t.Error("same selection should not report a change")
	}
}

func TestIsTextControl(t *testing.T) {
	doc, _ := Parse(`<input id="a"><input id="b" type="checkbox"><textarea id="c"></textarea><button id="d"></button>`)
	cases := map[string]bool{"a": true, "b": false, "c": true, "d": false}
	for id, want := range cases {
		if got := doc.GetElementByID(id).IsTextControl(); got != want {
			t.Errorf("%s: expected %v, got %v", id, want, got)
		}
	}
}
