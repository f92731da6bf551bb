package anchor

import (
	"errors"
	"testing"

	"caretfloat/pkg/geom"
	"caretfloat/pkg/html"
)

type fakePage map[*html.Node]geom.Rect

func (f fakePage) BoundingClientRect(n *html.Node) (geom.Rect, bool) {
	r, ok := f[n]
	return r, ok
}

func TestStaticReturnsCapturedRect(t *testing.T) {
	r := geom.Rect{X: 1, Y: 2, Width: 3, Height: 4}
	got, err := Resolve(FromRect(r))
	if err != nil {
		t.Fatal(err)
	}
	if got != r {
		t.Errorf("got %v, want %v", got, r)
	}
}

func TestElementIsLive(t *testing.T) {
	n := html.NewElement("div")
	page := fakePage{n: {X: 10, Y: 10, Width: 5, Height: 5}}
	a := ForElement(page, n)

	page[n] = geom.Rect{X: 20, Y: 30, Width: 5, Height: 5}
	got, err := Resolve(a)
	if err != nil {
		t.Fatal(err)
	}
	if got.X != 20 || got.Y != 30 {
		t.Errorf("element anchor should measure on each call, got %v", got)
	}
	if a.Node() != n {
		t.Error("Node() should return the anchored element")
	}
}

func TestMissingAnchor(t *testing.T) {
	n := html.NewElement("div")
	tests := []struct {
		name string
		b    Boundable
	}{
		{"nil", nil},
		{"detached element", ForElement(fakePage{}, n)},
		{"nil element", (*Element)(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Resolve(tt.b); !errors.Is(err, ErrMissingAnchor) {
				t.Errorf("err = %v, want ErrMissingAnchor", err)
			}
		})
	}
}
