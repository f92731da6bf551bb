// Package floating is the overlay component: it listens for show, hide,
// update and config events, keeps the #floating-content-wrapper element in
// the page while open and restarts the tracking session on every change.
package floating

import (
	"errors"

	"go.uber.org/zap"

	"caretfloat/pkg/geom"
	"caretfloat/pkg/html"
	"caretfloat/pkg/track"
)

// WrapperID is the id of the overlay element.
const WrapperID = "floating-content-wrapper"

var ErrNoEventAnchor = errors.New("floating: event anchor not found")

// Page is where the overlay is mounted.
type Page interface {
	Root() *html.Node
	Mount(n *html.Node) (unmount func())
}

// Runner is the tracking scheduler.
type Runner interface {
	Start(ref track.AnchorRef, floating *html.Node, cfg track.Config) error
	Stop()
}

type subscription struct {
	node *html.Node
	typ  string
	id   html.ListenerID
}

// Controller holds the overlay state: open, anchor and config.
type Controller struct {
	page    Page
	runner  Runner
	log     *zap.Logger
	content func() *html.Node

	open    bool
	anchor  track.AnchorRef
	cfg     track.Config
	applied *applied

	wrapper  *html.Node
	unmount  func()
	subs     []subscription
	restarts int
}

// applied is the state the running session was started with.
type applied struct {
	element *html.Node
	rect    geom.Rect
	hasRect bool
	cfg     track.Config
}

type Option func(*Controller)

func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) {
		c.log = log
	}
}

// WithConfig sets the initial configuration.
func WithConfig(cfg track.Config) Option {
	return func(c *Controller) {
		c.cfg = cfg
	}
}

// WithContent sets the builder for the overlay's content.
func WithContent(build func() *html.Node) Option {
	return func(c *Controller) {
		c.content = build
	}
}

func New(p Page, runner Runner, opts ...Option) *Controller {
	c := &Controller{
		page:    p,
		runner:  runner,
		log:     zap.NewNop(),
		content: defaultContent,
		cfg:     track.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func defaultContent() *html.Node {
	n := html.NewElement("div")
	n.SetAttribute("class", "floating-content")
	n.SetTextContent("★ Floating Element")
	return n
}

// Attach listens for show, hide and update on eventAnchor and for config
// on the window.
func (c *Controller) Attach(eventAnchor *html.Node) error {
	if eventAnchor == nil {
		return ErrNoEventAnchor
	}
	c.listen(eventAnchor, EventShow, func(*html.Event) { c.Show() })
	c.listen(eventAnchor, EventHide, func(*html.Event) { c.Hide() })
	c.listen(eventAnchor, EventUpdate, func(ev *html.Event) {
		ref, err := parseUpdate(ev.Detail)
		if err != nil {
			c.log.Debug("bad update event", zap.Error(err))
			return
		}
		c.SetAnchor(ref)
	})
	c.listen(c.page.Root(), EventConfig, func(ev *html.Event) {
		cfg, err := parseConfig(ev.Detail, c.cfg)
		if err != nil {
			c.log.Debug("bad config event", zap.Error(err))
			return
		}
		c.SetConfig(cfg)
	})
	return nil
}

func (c *Controller) listen(n *html.Node, typ string, fn html.Listener) {
	c.subs = append(c.subs, subscription{node: n, typ: typ, id: n.AddEventListener(typ, fn)})
}

// Detach removes the listeners and closes the overlay.
func (c *Controller) Detach() {
	for _, s := range c.subs {
		s.node.RemoveEventListener(s.typ, s.id)
	}
	c.subs = nil
	c.Hide()
}

func (c *Controller) Show() {
	c.open = true
	c.sync()
}

func (c *Controller) Hide() {
	c.open = false
	c.sync()
}

// SetAnchor replaces the anchor.
func (c *Controller) SetAnchor(ref track.AnchorRef) {
	c.anchor = ref
	c.sync()
}

// SetConfig replaces the configuration. Invalid configurations are
// rejected and the current one kept.
func (c *Controller) SetConfig(cfg track.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	c.sync()
	return nil
}

func (c *Controller) IsOpen() bool {
	return c.open
}

func (c *Controller) Config() track.Config {
	return c.cfg
}

func (c *Controller) Anchor() track.AnchorRef {
	return c.anchor
}

// Wrapper returns the overlay element while open.
func (c *Controller) Wrapper() *html.Node {
	return c.wrapper
}

// Restarts counts tracking sessions started.
func (c *Controller) Restarts() int {
	return c.restarts
}

// sync brings the overlay and the session in line with the state.
func (c *Controller) sync() {
	if !c.open {
		if c.applied != nil || c.wrapper != nil {
			c.runner.Stop()
			c.applied = nil
			c.removeWrapper()
			c.log.Debug("overlay closed")
		}
		return
	}
	next := c.snapshot()
	if c.wrapper != nil && c.applied != nil && *c.applied == next {
		return
	}
	if c.wrapper == nil {
		c.createWrapper()
	}
	c.applied = &next
	c.restarts++
	if err := c.runner.Start(c.anchor, c.wrapper, c.cfg); err != nil {
		c.log.Debug("tracking not started", zap.Error(err))
	}
}

// snapshot is what a session depends on. A live element makes its
// captured rectangle irrelevant.
func (c *Controller) snapshot() applied {
	s := applied{element: c.anchor.Element, cfg: c.cfg}
	if s.element == nil && c.anchor.Rect != nil {
		s.rect, s.hasRect = *c.anchor.Rect, true
	}
	return s
}

func (c *Controller) createWrapper() {
	w := html.NewElement("div")
	w.SetAttribute("id", WrapperID)
	// Out of flow from the start so its measured size is its own.
	w.SetStyleProperty("position", "absolute")
	w.SetStyleProperty("left", "0px")
	w.SetStyleProperty("top", "0px")
	if content := c.content(); content != nil {
		w.AddChild(content)
	}
	c.wrapper = w
	c.unmount = c.page.Mount(w)
}

func (c *Controller) removeWrapper() {
	if c.unmount != nil {
		c.unmount()
	}
	c.wrapper, c.unmount = nil, nil
}
