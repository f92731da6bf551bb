package css

import "testing"

func TestGetFontFamily(t *testing.T) {
	tests := map[string]string{
		`font-family: "Fira Code", monospace`: "fira code",
		"font-family: serif":                  "serif",
		"":                                    "sans-serif",
	}
	for decl, want := range tests {
		if got := ParseInlineStyle(decl).GetFontFamily(); got != want {
			t.Errorf("%q: expected %q, got %q", decl, want, got)
		}
	}
}

func TestIsMonospace(t *testing.T) {
	if !ParseInlineStyle("font-family: Menlo, monospace").IsMonospace() {
		t.Error("expected monospace")
	}
	if ParseInlineStyle("font-family: Arial").IsMonospace() {
		t.Error("Arial is not monospace")
	}
}

func TestGetLineHeight(t *testing.T) {
	tests := []struct {
		decl string
		want float64
	}{
		{"font-size: 10px", 12},
		{"font-size: 10px; line-height: normal", 12},
		{"font-size: 10px; line-height: 2", 20},
		{"font-size: 10px; line-height: 150%", 15},
		{"font-size: 10px; line-height: 30px", 30},
	}
	for _, tt := range tests {
		if got := ParseInlineStyle(tt.decl).GetLineHeight(); got != tt.want {
			t.Errorf("%q: expected %v, got %v", tt.decl, tt.want, got)
		}
	}
}

func TestGetLetterSpacing(t *testing.T) {
	if got := ParseInlineStyle("letter-spacing: 2px").GetLetterSpacing(); got != 2 {
		t.Errorf("expected 2, got %v", got)
	}
	if got := ParseInlineStyle("letter-spacing: normal").GetLetterSpacing(); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
}

func TestGetWhiteSpace(t *testing.T) {
	tests := []struct {
		decl     string
		want     WhiteSpace
		spaces   bool
		newlines bool
		wraps    bool
	}{
		{"", WhiteSpaceNormal, false, false, true},
		{"white-space: pre", WhiteSpacePre, true, true, false},
		{"white-space: pre-wrap", WhiteSpacePreWrap, true, true, true},
		{"white-space: nowrap", WhiteSpaceNoWrap, false, false, false},
		{"white-space: pre-line", WhiteSpacePreLine, false, true, true},
	}
	for _, tt := range tests {
		ws := ParseInlineStyle(tt.decl).GetWhiteSpace()
		if ws != tt.want {
			t.Fatalf("%q: expected %v, got %v", tt.decl, tt.want, ws)
		}
		if ws.PreservesSpaces() != tt.spaces || ws.PreservesNewlines() != tt.newlines || ws.Wraps() != tt.wraps {
			t.Errorf("%v: unexpected flags", ws)
		}
	}
}

func TestGetFontWeightAndStyle(t *testing.T) {
	s := ParseInlineStyle("font-weight: 700; font-style: italic")
	if s.GetFontWeight() != FontWeightBold || !s.IsItalic() {
		t.Error("expected bold italic")
	}
}
