package floating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"caretfloat/pkg/frame"
	"caretfloat/pkg/geom"
	"caretfloat/pkg/html"
	"caretfloat/pkg/page"
	"caretfloat/pkg/placement"
	"caretfloat/pkg/track"
)

const testPage = `<body style="margin: 0">
<div id="event-anchor"></div>
<button id="btn">Hover</button>
<input id="in" value="hello">
</body>`

type fixture struct {
	page   *page.Page
	loop   *frame.Loop
	engine *placement.Engine
	sched  *track.Scheduler
	ctrl   *Controller
	anchor *html.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	p, err := page.Load(testPage)
	require.NoError(t, err)
	loop := frame.New()
	engine := placement.NewEngine(p, loop)
	sched := track.NewScheduler(p, loop, engine)
	ctrl := New(p, sched)
	anchorNode := p.Document().GetElementByID("event-anchor")
	require.NoError(t, ctrl.Attach(anchorNode))
	return &fixture{page: p, loop: loop, engine: engine, sched: sched, ctrl: ctrl, anchor: anchorNode}
}

func (f *fixture) byID(id string) *html.Node {
	return f.page.Document().GetElementByID(id)
}

func (f *fixture) dispatch(n *html.Node, typ string, detail any) {
	n.DispatchEvent(html.NewCustomEvent(typ, detail))
}

func TestShowCreatesWrapperAndHideRemovesIt(t *testing.T) {
	f := newFixture(t)

	f.dispatch(f.anchor, EventShow, nil)
	require.True(t, f.ctrl.IsOpen())
	w := f.byID(WrapperID)
	require.NotNil(t, w)
	require.Same(t, w, f.ctrl.Wrapper())
	require.Equal(t, "★ Floating Element", w.TextContent())

	f.dispatch(f.anchor, EventHide, nil)
	require.False(t, f.ctrl.IsOpen())
	require.Nil(t, f.byID(WrapperID))
	require.Nil(t, f.ctrl.Wrapper())
	require.Equal(t, track.Idle, f.sched.State())
}

func TestUpdatePositionsOverlay(t *testing.T) {
	f := newFixture(t)
	btn := f.byID("btn")

	f.dispatch(f.anchor, EventShow, nil)
	f.dispatch(f.anchor, EventUpdate, UpdateDetail{Element: btn})
	f.loop.RunFrame(time.Now())

	last, ok := f.engine.Last()
	require.True(t, ok)
	btnRect, _ := f.page.BoundingClientRect(btn)
	wrapRect, _ := f.page.BoundingClientRect(f.ctrl.Wrapper())
	require.Equal(t, btnRect.Y-wrapRect.Height-8, last.Y)
	require.Equal(t, wrapRect.Y, last.Y)
	require.Equal(t, wrapRect.X, last.X)
}

func TestUpdateFromScriptDetail(t *testing.T) {
	f := newFixture(t)
	f.dispatch(f.anchor, EventShow, nil)
	f.dispatch(f.anchor, EventUpdate, map[string]any{
		"rect": map[string]any{"x": int64(100), "y": 200.0, "width": 80.0, "height": int64(20)},
	})

	ref := f.ctrl.Anchor()
	require.Nil(t, ref.Element)
	require.NotNil(t, ref.Rect)
	require.Equal(t, geom.Rect{X: 100, Y: 200, Width: 80, Height: 20}, *ref.Rect)
	require.Equal(t, track.Static, f.sched.State())
}

func TestMalformedUpdateIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.dispatch(f.anchor, EventUpdate, map[string]any{"rect": "nope"})
	f.dispatch(f.anchor, EventUpdate, 42)
	require.True(t, f.ctrl.Anchor().IsZero())
}

func TestConfigEventRestartsSession(t *testing.T) {
	f := newFixture(t)
	input := f.byID("in")

	f.dispatch(f.anchor, EventShow, nil)
	f.dispatch(f.anchor, EventUpdate, UpdateDetail{Element: input})
	require.Equal(t, track.Static, f.sched.State())

	f.dispatch(f.page.Root(), EventConfig, map[string]any{"mode": "caret", "placement": "bottom-start", "offset": int64(4)})
	require.Equal(t, track.Config{Mode: track.ModeCaret, Placement: placement.BottomStart, Offset: 4}, f.ctrl.Config())
	require.Equal(t, track.Tracking, f.sched.State())
	require.Equal(t, track.ModeCaret, f.sched.Session().Config.Mode)
}

func TestInvalidConfigEventIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.dispatch(f.page.Root(), EventConfig, map[string]any{"mode": "sideways"})
	f.dispatch(f.page.Root(), EventConfig, map[string]any{"placement": "middle"})
	f.dispatch(f.page.Root(), EventConfig, map[string]any{"offset": -3.0})
	require.Equal(t, track.DefaultConfig(), f.ctrl.Config())
}

func TestPartialConfigKeepsOtherFields(t *testing.T) {
	f := newFixture(t)
	f.dispatch(f.page.Root(), EventConfig, map[string]any{"offset": 12.0})
	want := track.DefaultConfig()
	want.Offset = 12
	require.Equal(t, want, f.ctrl.Config())

	f.dispatch(f.page.Root(), EventConfig, track.Config{Mode: track.ModeCaret, Placement: placement.Left})
	require.Equal(t, placement.Left, f.ctrl.Config().Placement)
}

func TestUnchangedStateDoesNotRestart(t *testing.T) {
	f := newFixture(t)
	btn := f.byID("btn")

	f.dispatch(f.anchor, EventShow, nil)
	f.dispatch(f.anchor, EventUpdate, UpdateDetail{Element: btn, Rect: geom.Rect{X: 1}})
	restarts := f.ctrl.Restarts()

	f.dispatch(f.anchor, EventShow, nil)
	f.dispatch(f.anchor, EventUpdate, UpdateDetail{Element: btn, Rect: geom.Rect{X: 2}})
	require.Equal(t, restarts, f.ctrl.Restarts())

	f.dispatch(f.anchor, EventUpdate, UpdateDetail{Element: f.byID("in")})
	require.Equal(t, restarts+1, f.ctrl.Restarts())
}

func TestConfigWhileClosedAppliesOnOpen(t *testing.T) {
	f := newFixture(t)
	input := f.byID("in")
	f.dispatch(f.anchor, EventUpdate, UpdateDetail{Element: input})
	f.dispatch(f.page.Root(), EventConfig, map[string]any{"mode": "caret"})
	require.Equal(t, track.Idle, f.sched.State())
	require.Nil(t, f.byID(WrapperID))

	f.dispatch(f.anchor, EventShow, nil)
	require.Equal(t, track.Tracking, f.sched.State())
}

func TestDetach(t *testing.T) {
	f := newFixture(t)
	f.dispatch(f.anchor, EventShow, nil)

	f.ctrl.Detach()
	require.False(t, f.ctrl.IsOpen())
	require.Nil(t, f.byID(WrapperID))
	for _, typ := range []string{EventShow, EventHide, EventUpdate} {
		require.Zero(t, f.anchor.ListenerCount(typ), typ)
	}
	require.Zero(t, f.page.Root().ListenerCount(EventConfig))

	f.dispatch(f.anchor, EventShow, nil)
	require.False(t, f.ctrl.IsOpen())
}

func TestAttachRequiresAnchor(t *testing.T) {
	p, err := page.Load(`<div></div>`)
	require.NoError(t, err)
	ctrl := New(p, track.NewScheduler(p, frame.New(), placement.NewEngine(p, frame.New())))
	require.ErrorIs(t, ctrl.Attach(nil), ErrNoEventAnchor)
}
