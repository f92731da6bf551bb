package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caretfloat/pkg/geom"
	"caretfloat/pkg/page"
	"caretfloat/pkg/text"
	"caretfloat/pkg/visualtest"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	red   = color.RGBA{255, 0, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
)

func faces(t *testing.T) *text.FaceMeasurer {
	t.Helper()
	m, err := text.NewFaceMeasurer()
	require.NoError(t, err)
	return m
}

func renderPage(t *testing.T, src string, setup func(p *page.Page)) image.Image {
	t.Helper()
	p, err := page.Load(src, page.WithViewport(200, 100))
	require.NoError(t, err)
	if setup != nil {
		setup(p)
	}
	img, err := Snapshot(p, faces(t))
	require.NoError(t, err)
	return img
}

func at(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func TestRenderBackground(t *testing.T) {
	img := renderPage(t, `<html><body><div style="width:50px;height:50px;background-color:red"></div></body></html>`, nil)

	assert.Equal(t, image.Rect(0, 0, 200, 100), img.Bounds())
	// body margin is 8px
	assert.Equal(t, red, at(img, 33, 33))
	assert.Equal(t, white, at(img, 4, 4))
	assert.Equal(t, white, at(img, 100, 33))
}

func TestRenderBorder(t *testing.T) {
	img := renderPage(t, `<html><body><div style="width:40px;height:40px;border:4px solid blue"></div></body></html>`, nil)

	assert.Equal(t, blue, at(img, 9, 30), "left border")
	assert.Equal(t, blue, at(img, 30, 9), "top border")
	assert.Equal(t, white, at(img, 30, 30), "content")
}

func TestRenderBorderWithoutStyleIsNotPainted(t *testing.T) {
	img := renderPage(t, `<html><body><div style="width:40px;height:40px;border-width:4px;border-color:blue"></div></body></html>`, nil)

	assert.Equal(t, white, at(img, 9, 30))
}

func TestRenderText(t *testing.T) {
	img := renderPage(t, `<html><body><p style="color:black">Hello</p></body></html>`, nil)

	_, ok := visualtest.RegionColor(img, image.Rect(0, 0, 200, 60), white)
	assert.True(t, ok, "expected glyph pixels")
	_, ok = visualtest.RegionColor(img, image.Rect(0, 60, 200, 100), white)
	assert.False(t, ok, "nothing below the paragraph")
}

func TestRenderPositionedAboveFlow(t *testing.T) {
	img := renderPage(t, `<html><body>
		<div style="width:50px;height:50px;background-color:red"></div>
		<div style="position:absolute;left:10px;top:10px;width:20px;height:20px;background-color:blue"></div>
	</body></html>`, nil)

	assert.Equal(t, blue, at(img, 15, 15))
	assert.Equal(t, red, at(img, 40, 40))
}

func TestRenderTranslatesByScroll(t *testing.T) {
	img := renderPage(t, `<html><body>
		<div style="height:300px"></div>
		<div style="width:50px;height:50px;background-color:red"></div>
	</body></html>`, func(p *page.Page) {
		p.ScrollTo(0, 250)
		require.Equal(t, geom.Point{Y: 250}, p.Scroll())
	})

	// The red box starts at document y 308.
	assert.Equal(t, red, at(img, 20, 70))
	assert.Equal(t, white, at(img, 20, 40))
}

func TestRenderOpacity(t *testing.T) {
	img := renderPage(t, `<html><body><div style="width:50px;height:50px;background-color:red;opacity:0.5"></div></body></html>`, nil)

	c := at(img, 33, 33)
	assert.Equal(t, uint8(255), c.R)
	assert.InDelta(t, 128, int(c.G), 3)
}

func TestRenderCaret(t *testing.T) {
	r := NewRenderer(50, 50, nil)
	r.Render(Frame{Layout: nil})
	assert.Equal(t, white, at(r.Image(), 20, 20))

	p, err := page.Load(`<html><body></body></html>`, page.WithViewport(50, 50))
	require.NoError(t, err)
	r.Render(Frame{Layout: p.Layout(), Caret: &geom.Rect{X: 20, Y: 10, Height: 20}})

	assert.Equal(t, color.RGBA{0, 0, 0, 255}, at(r.Image(), 20, 20))
	assert.Equal(t, white, at(r.Image(), 22, 20))
	assert.Equal(t, white, at(r.Image(), 20, 35))
}

func TestSnapshotDrawsCaretOfFocusedInput(t *testing.T) {
	const src = `<html><body><input id="in" value="abc"></body></html>`
	plain := renderPage(t, src, nil)
	focused := renderPage(t, src, func(p *page.Page) {
		in := p.Document().GetElementByID("in")
		require.NotNil(t, in)
		p.Focus(in)
	})

	result, err := visualtest.Compare(focused, plain, visualtest.DefaultOptions())
	require.NoError(t, err)
	assert.False(t, result.Match)
	assert.Positive(t, result.DifferentPixels)
}

func TestSnapshotRemovesCaretMirror(t *testing.T) {
	p, err := page.Load(`<html><body><input id="in" value="abc"></body></html>`, page.WithViewport(200, 100))
	require.NoError(t, err)
	in := p.Document().GetElementByID("in")
	p.Focus(in)
	before := len(p.Document().Body().Children)

	_, err = Snapshot(p, faces(t))
	require.NoError(t, err)
	assert.Len(t, p.Document().Body().Children, before)
}

func TestEncodeAndSavePNG(t *testing.T) {
	p, err := page.Load(`<html><body><div style="width:10px;height:10px;background-color:blue"></div></body></html>`, page.WithViewport(40, 30))
	require.NoError(t, err)
	r := NewRenderer(40, 30, faces(t))
	r.Render(Frame{Layout: p.Layout()})

	var buf bytes.Buffer
	require.NoError(t, r.EncodePNG(&buf))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)

	result, err := visualtest.Compare(decoded, r.Image(), visualtest.CompareOptions{})
	require.NoError(t, err)
	assert.True(t, result.Match)

	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, r.SavePNG(path))
	loaded, err := visualtest.LoadPNG(path)
	require.NoError(t, err)
	assert.Equal(t, blue, at(loaded, 12, 12))
}
