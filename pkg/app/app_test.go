package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"caretfloat/pkg/config"
	"caretfloat/pkg/floating"
	"caretfloat/pkg/geom"
	"caretfloat/pkg/html"
	"caretfloat/pkg/page"
	"caretfloat/pkg/placement"
	"caretfloat/pkg/track"
)

func newApp(t *testing.T, mutate func(*config.File)) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Measurer = "fixed"
	if mutate != nil {
		mutate(&cfg)
	}
	a, err := New(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, a.Start())
	return a
}

func (a *App) byID(t *testing.T, id string) *html.Node {
	t.Helper()
	n := a.Page.Document().GetElementByID(id)
	require.NotNil(t, n, "#%s", id)
	return n
}

func findByAttr(n *html.Node, name, value string) *html.Node {
	if v, ok := n.GetAttribute(name); ok && v == value {
		return n
	}
	for _, c := range n.Children {
		if found := findByAttr(c, name, value); found != nil {
			return found
		}
	}
	return nil
}

func (a *App) center(t *testing.T, n *html.Node) geom.Point {
	t.Helper()
	r, ok := a.Page.BoundingClientRect(n)
	require.True(t, ok, "element has no box")
	return r.Center()
}

func (a *App) clickConfig(t *testing.T, name, value string) {
	t.Helper()
	b := findByAttr(a.Page.Root(), name, value)
	require.NotNil(t, b, "[%s=%s]", name, value)
	require.Same(t, b, a.Page.Click(a.center(t, b)))
	a.Loop.Drain()
}

func (a *App) frames(n int) {
	for i := 0; i < n; i++ {
		a.Loop.RunFrame(time.Now())
	}
}

func TestStartAppliesFileConfig(t *testing.T) {
	a := newApp(t, func(cfg *config.File) {
		cfg.Tracking = track.Config{Mode: track.ModeCaret, Placement: placement.BottomEnd, Offset: 4}
	})

	require.Equal(t, track.ModeCaret, a.Controller.Config().Mode)
	require.Equal(t, placement.BottomEnd, a.Controller.Config().Placement)
	require.False(t, a.Controller.IsOpen())
}

func TestHoverShowsOverlayAboveButton(t *testing.T) {
	a := newApp(t, nil)
	btn := a.byID(t, page.PreviewButtonID)

	a.Page.PointerMove(a.center(t, btn))
	a.frames(2)

	require.True(t, a.Controller.IsOpen())
	require.Same(t, btn, a.Controller.Anchor().Element)
	wrapper := a.byID(t, floating.WrapperID)
	pos, _ := wrapper.StyleProperty("position")
	require.Equal(t, "absolute", pos)

	last, ok := a.Placement.Last()
	require.True(t, ok)
	r, _ := a.Page.BoundingClientRect(btn)
	require.Less(t, last.Y, r.Y)
	require.Equal(t, track.Static, a.Scheduler.State())

	a.Page.PointerMove(geom.Point{X: 1, Y: 1})
	a.Loop.Drain()
	require.False(t, a.Controller.IsOpen())
	require.Nil(t, a.Page.Document().GetElementByID(floating.WrapperID))
	require.Equal(t, track.Idle, a.Scheduler.State())
}

func TestConfigButtonsEmitConfig(t *testing.T) {
	a := newApp(t, nil)

	a.clickConfig(t, "data-mode", "caret")
	require.Equal(t, track.ModeCaret, a.Controller.Config().Mode)

	a.clickConfig(t, "data-placement", "bottom-start")
	require.Equal(t, placement.BottomStart, a.Controller.Config().Placement)

	a.clickConfig(t, "data-offset", "4")
	require.Equal(t, 12.0, a.Controller.Config().Offset)

	selected := findByAttr(a.Page.Root(), "data-placement", "bottom-start")
	require.True(t, selected.HasClass("selected"))
}

func TestCaretModeFollowsTyping(t *testing.T) {
	a := newApp(t, nil)
	a.clickConfig(t, "data-element", "input")
	a.clickConfig(t, "data-mode", "caret")

	input := a.byID(t, page.PreviewInputID)
	require.Same(t, input, a.Page.Click(a.center(t, input)))
	require.Same(t, input, a.Page.ActiveElement())

	for _, r := range "hel" {
		a.Page.TypeRune(r)
	}
	a.frames(2)
	require.True(t, a.Controller.IsOpen())
	require.Equal(t, track.Tracking, a.Scheduler.State())
	before, ok := a.Placement.Last()
	require.True(t, ok)

	for _, r := range "lo" {
		a.Page.TypeRune(r)
	}
	a.frames(2)
	after, _ := a.Placement.Last()
	require.Greater(t, after.X, before.X)
	require.Equal(t, before.Y, after.Y)
}

func TestShortValueHidesOverlay(t *testing.T) {
	a := newApp(t, nil)
	a.clickConfig(t, "data-element", "input")
	input := a.byID(t, page.PreviewInputID)
	a.Page.Click(a.center(t, input))

	for _, r := range "abc" {
		a.Page.TypeRune(r)
	}
	a.frames(1)
	require.True(t, a.Controller.IsOpen())

	a.Page.PressKey(page.KeyBackspace)
	a.frames(1)
	require.False(t, a.Controller.IsOpen())
}

func TestApplyConfig(t *testing.T) {
	a := newApp(t, nil)
	cfg := config.Default()
	cfg.Tracking.Placement = placement.Right
	cfg.Viewport = config.Viewport{Width: 640, Height: 480}

	a.ApplyConfig(cfg)
	require.Equal(t, placement.Right, a.Controller.Config().Placement)
	require.Equal(t, geom.Size{Width: 640, Height: 480}, a.Page.Viewport())

	bad := cfg
	bad.Tracking.Offset = -1
	bad.Viewport = config.Viewport{Width: 100, Height: 100}
	a.ApplyConfig(bad)
	require.Equal(t, 8.0, a.Controller.Config().Offset)
	require.Equal(t, geom.Size{Width: 640, Height: 480}, a.Page.Viewport())
}

func TestSnapshotMatchesViewport(t *testing.T) {
	a := newApp(t, func(cfg *config.File) {
		cfg.Viewport = config.Viewport{Width: 320, Height: 200}
	})

	img, err := a.Snapshot()
	require.NoError(t, err)
	require.Equal(t, 320, img.Bounds().Dx())
	require.Equal(t, 200, img.Bounds().Dy())
}

func TestNewLoadsPageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(`<body><div id="event-anchor"></div><p id="x">hi</p></body>`), 0o644))

	a := newApp(t, func(cfg *config.File) { cfg.Page = path })
	require.NotNil(t, a.Page.Document().GetElementByID("x"))
}

func TestNewRequiresEventAnchor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(`<body><p>no anchor</p></body>`), 0o644))
	cfg := config.Default()
	cfg.Page = path

	_, err := New(context.Background(), cfg, zap.NewNop())
	require.ErrorIs(t, err, floating.ErrNoEventAnchor)
}

func TestRunReloadsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caretfloat.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fps: 120\n"), 0o644))
	a := newApp(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx, path) }()

	// Read controller state on the loop goroutine.
	placementNow := func() placement.Placement {
		ch := make(chan placement.Placement, 1)
		a.Loop.Post(func() { ch <- a.Controller.Config().Placement })
		return <-ch
	}

	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("tracking:\n  placement: left-end\n"), 0o644)
		return placementNow() == placement.LeftEnd
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewMissingPageFile(t *testing.T) {
	cfg := config.Default()
	cfg.Page = filepath.Join(t.TempDir(), "missing.html")

	_, err := New(context.Background(), cfg, zap.NewNop())
	require.ErrorIs(t, err, os.ErrNotExist)
}
