package css

import (
	"testing"

	"caretfloat/pkg/html"
)

func computeAll(t *testing.T, src string) (*html.Document, map[*html.Node]*Style) {
	t.Helper()
	doc, err := html.Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	return doc, ApplyStylesToDocument(doc)
}

func TestCascade_UserAgentInput(t *testing.T) {
	doc, styles := computeAll(t, `<body><input id="i"></body>`)
	s := styles[doc.GetElementByID("i")]
	if s.GetDisplay() != DisplayInlineBlock {
		t.Errorf("expected inline-block input, got %v", s.GetDisplay())
	}
	if s.GetWhiteSpace() != WhiteSpacePre {
		t.Errorf("expected pre, got %v", s.GetWhiteSpace())
	}
	if b := s.GetBorderWidth(); b.Left != 1 {
		t.Errorf("expected 1px border, got %+v", b)
	}
}

func TestCascade_Inheritance(t *testing.T) {
	doc, styles := computeAll(t, `<body><div id="d" style="font-size: 20px; color: red; margin: 5px"><span id="s">x</span></div></body>`)
	s := styles[doc.GetElementByID("s")]
	if s.GetFontSize() != 20 {
		t.Errorf("expected inherited font-size 20, got %v", s.GetFontSize())
	}
	if c, _ := s.Get("color"); c != "red" {
		t.Errorf("expected inherited color, got %q", c)
	}
	if _, ok := s.Get("margin-left"); ok {
		t.Error("margin must not inherit")
	}
}

func TestCascade_ControlsDoNotInheritFont(t *testing.T) {
	doc, styles := computeAll(t, `<body style="font-size: 30px"><input id="i"></body>`)
	if got := styles[doc.GetElementByID("i")].GetFontSize(); got != 14 {
		t.Errorf("expected UA font-size 14 for input, got %v", got)
	}
}

func TestCascade_RelativeFontSize(t *testing.T) {
	doc, styles := computeAll(t, `<body style="font-size: 20px"><p id="p" style="font-size: 1.5em">x</p></body>`)
	if got := styles[doc.GetElementByID("p")].GetFontSize(); got != 30 {
		t.Errorf("expected 30, got %v", got)
	}
}

func TestCascade_SpecificityAndInline(t *testing.T) {
	src := `<style>
		#t { width: 300px }
		textarea { width: 100px; height: 40px }
		.wide { width: 200px }
	</style>
	<body><textarea id="t" class="wide"></textarea><textarea id="u" class="wide" style="width: 50px"></textarea></body>`
	doc, styles := computeAll(t, src)
	if w, _ := styles[doc.GetElementByID("t")].Get("width"); w != "300px" {
		t.Errorf("expected id rule to win, got %q", w)
	}
	if h, _ := styles[doc.GetElementByID("t")].Get("height"); h != "40px" {
		t.Errorf("expected tag rule height, got %q", h)
	}
	if w, _ := styles[doc.GetElementByID("u")].Get("width"); w != "50px" {
		t.Errorf("expected inline style to win, got %q", w)
	}
}

func TestCascade_SourceOrder(t *testing.T) {
	doc, styles := computeAll(t, `<style>.a { color: red } .b { color: blue }</style><body><p id="p" class="b a">x</p></body>`)
	if c, _ := styles[doc.GetElementByID("p")].Get("color"); c != "blue" {
		t.Errorf("expected later rule to win, got %q", c)
	}
}

func TestCascade_Inherit(t *testing.T) {
	doc, styles := computeAll(t, `<body style="letter-spacing: 3px"><input id="i" style="letter-spacing: inherit"></body>`)
	if got := styles[doc.GetElementByID("i")].GetLetterSpacing(); got != 3 {
		t.Errorf("expected inherited letter-spacing 3, got %v", got)
	}
}
