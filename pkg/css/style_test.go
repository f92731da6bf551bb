package css

import "testing"

func TestParseInlineStyle_SingleProperty(t *testing.T) {
	style := ParseInlineStyle("color: red")
	value, ok := style.Get("color")
	if !ok || value != "red" {
		t.Error("expected color='red'")
	}
}

func TestParseInlineStyle_MultipleProperties(t *testing.T) {
	style := ParseInlineStyle("color: red; width: 100px")
	color, _ := style.Get("color")
	width, _ := style.Get("width")
	if color != "red" || width != "100px" {
		t.Error("expected both properties to parse")
	}
}

func TestParseInlineStyle_Important(t *testing.T) {
	style := ParseInlineStyle("width: 10px !important")
	if w, _ := style.Get("width"); w != "10px" {
		t.Errorf("expected !important stripped, got %q", w)
	}
}

func TestGetLength_PixelValue(t *testing.T) {
	style := ParseInlineStyle("width: 100px")
	width, ok := style.GetLength("width")
	if !ok || width != 100.0 {
		t.Errorf("expected width=100.0, got %f", width)
	}
}

func TestGetLength_Em(t *testing.T) {
	style := ParseInlineStyle("font-size: 20px; padding-left: 0.5em")
	v, ok := style.GetLength("padding-left")
	if !ok || v != 10 {
		t.Errorf("expected 10, got %v", v)
	}
}

func TestParseInlineStyle_MarginShorthand(t *testing.T) {
	tests := []struct {
		decl string
		want BoxEdge
	}{
		{"margin: 10px", BoxEdge{10, 10, 10, 10}},
		{"margin: 10px 20px", BoxEdge{10, 20, 10, 20}},
		{"margin: 1px 2px 3px", BoxEdge{1, 2, 3, 2}},
		{"margin: 1px 2px 3px 4px", BoxEdge{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		got := ParseInlineStyle(tt.decl).GetMargin()
		if got != tt.want {
			t.Errorf("%s: expected %+v, got %+v", tt.decl, tt.want, got)
		}
	}
}

func TestParseInlineStyle_BorderShorthand(t *testing.T) {
	style := ParseInlineStyle("border: 2px solid red")
	b := style.GetBorderWidth()
	if b != (BoxEdge{2, 2, 2, 2}) {
		t.Errorf("expected 2px borders, got %+v", b)
	}
	if c, _ := style.Get("border-top-color"); c != "red" {
		t.Errorf("expected red border color, got %q", c)
	}
}

func TestGetBorderWidth_StyleNone(t *testing.T) {
	style := ParseInlineStyle("border-width: 3px; border-style: none")
	if b := style.GetBorderWidth(); b != (BoxEdge{}) {
		t.Errorf("expected zero border for style none, got %+v", b)
	}
}

func TestGetPosition(t *testing.T) {
	tests := map[string]PositionType{
		"position: absolute": PositionAbsolute,
		"position: fixed":    PositionFixed,
		"position: relative": PositionRelative,
		"":                   PositionStatic,
	}
	for decl, want := range tests {
		if got := ParseInlineStyle(decl).GetPosition(); got != want {
			t.Errorf("%q: expected %v, got %v", decl, want, got)
		}
	}
}

func TestGetPositionOffset(t *testing.T) {
	off := ParseInlineStyle("left: 12px; top: 30.5px").GetPositionOffset()
	if !off.HasLeft || off.Left != 12 || !off.HasTop || off.Top != 30.5 {
		t.Errorf("unexpected offset %+v", off)
	}
	if off.HasRight || off.HasBottom {
		t.Errorf("right/bottom should be unset: %+v", off)
	}
}

func TestGetDisplayAndVisibility(t *testing.T) {
	if ParseInlineStyle("display: none").GetDisplay() != DisplayNone {
		t.Error("expected display none")
	}
	if ParseInlineStyle("display: inline-block").GetDisplay() != DisplayInlineBlock {
		t.Error("expected inline-block")
	}
	if ParseInlineStyle("visibility: hidden").IsVisible() {
		t.Error("visibility hidden should not be visible")
	}
	if !NewStyle().IsVisible() {
		t.Error("default should be visible")
	}
}

func TestGetBoxSizing(t *testing.T) {
	if ParseInlineStyle("box-sizing: border-box").GetBoxSizing() != BoxSizingBorderBox {
		t.Error("expected border-box")
	}
	if NewStyle().GetBoxSizing() != BoxSizingContentBox {
		t.Error("expected content-box default")
	}
}

func TestFormatLength(t *testing.T) {
	if got := FormatLength(12.5); got != "12.5px" {
		t.Errorf("got %q", got)
	}
	if got := FormatLength(-3); got != "-3px" {
		t.Errorf("got %q", got)
	}
}
