package main

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"caretfloat/pkg/app"
	"caretfloat/pkg/geom"
	"caretfloat/pkg/page"
)

// view shows the rendered page and forwards pointer and keyboard input to
// it. Input is posted to the host loop; view itself only runs on the UI
// goroutine.
type view struct {
	widget.BaseWidget

	app    *app.App
	canvas fyne.Canvas
	image  *canvas.Image
	size   fyne.Size
}

var (
	_ fyne.Focusable    = (*view)(nil)
	_ fyne.Tappable     = (*view)(nil)
	_ fyne.Scrollable   = (*view)(nil)
	_ desktop.Hoverable = (*view)(nil)
)

func newView(a *app.App, c fyne.Canvas, width, height float64) *view {
	img := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, int(width), int(height))))
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScalePixels
	v := &view{app: a, canvas: c, image: img, size: fyne.NewSize(float32(width), float32(height))}
	v.ExtendBaseWidget(v)
	return v
}

func (v *view) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.image)
}

func (v *view) MinSize() fyne.Size {
	return v.size
}

func (v *view) show(img image.Image) {
	v.image.Image = img
	v.image.Refresh()
}

func (v *view) post(fn func(p *page.Page)) {
	v.app.Loop.Post(func() { fn(v.app.Page) })
}

func point(pos fyne.Position) geom.Point {
	return geom.Point{X: float64(pos.X), Y: float64(pos.Y)}
}

func (v *view) Tapped(ev *fyne.PointEvent) {
	v.canvas.Focus(v)
	pt := point(ev.Position)
	v.post(func(p *page.Page) { p.Click(pt) })
}

func (v *view) MouseIn(ev *desktop.MouseEvent) {
	v.MouseMoved(ev)
}

func (v *view) MouseMoved(ev *desktop.MouseEvent) {
	pt := point(ev.Position)
	v.post(func(p *page.Page) { p.PointerMove(pt) })
}

func (v *view) MouseOut() {
	v.post(func(p *page.Page) { p.PointerLeave() })
}

func (v *view) Scrolled(ev *fyne.ScrollEvent) {
	dx, dy := float64(ev.Scrolled.DX), float64(ev.Scrolled.DY)
	v.post(func(p *page.Page) { p.ScrollBy(-dx, -dy) })
}

func (v *view) FocusGained() {}

func (v *view) FocusLost() {}

func (v *view) TypedRune(r rune) {
	v.post(func(p *page.Page) { p.TypeRune(r) })
}

// keys maps fyne key names to KeyboardEvent.key values.
var keys = map[fyne.KeyName]string{
	fyne.KeyBackspace: page.KeyBackspace,
	fyne.KeyDelete:    page.KeyDelete,
	fyne.KeyReturn:    page.KeyEnter,
	fyne.KeyEnter:     page.KeyEnter,
	fyne.KeyLeft:      page.KeyArrowLeft,
	fyne.KeyRight:     page.KeyArrowRight,
	fyne.KeyUp:        page.KeyArrowUp,
	fyne.KeyDown:      page.KeyArrowDown,
	fyne.KeyHome:      page.KeyHome,
	fyne.KeyEnd:       page.KeyEnd,
	fyne.KeyTab:       page.KeyTab,
}

func (v *view) TypedKey(ev *fyne.KeyEvent) {
	key, ok := keys[ev.Name]
	if !ok {
		return
	}
	v.post(func(p *page.Page) { p.PressKey(key) })
}
