package css

import "testing"

func TestParseColor(t *testing.T) {
	tests := map[string]Color{
		"red":                   {255, 0, 0, 1},
		"Blue":                  {0, 0, 255, 1},
		"#fff":                  {255, 255, 255, 1},
		"#767676":               {118, 118, 118, 1},
		"rgb(10, 20, 30)":       {10, 20, 30, 1},
		"rgba(10, 20, 30, 0.5)": {10, 20, 30, 0.5},
		"transparent":           {},
	}
	for in, want := range tests {
		got, ok := ParseColor(in)
		if !ok || got != want {
			t.Errorf("%q: expected %+v, got %+v (ok=%v)", in, want, got, ok)
		}
	}
}

func TestParseColor_Invalid(t *testing.T) {
	for _, in := range []string{"", "nocolor", "#12", "rgb(1,2)"} {
		if _, ok := ParseColor(in); ok {
			t.Errorf("%q: expected failure", in)
		}
	}
}
