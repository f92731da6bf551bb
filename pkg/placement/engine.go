package placement

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"caretfloat/pkg/anchor"
	"caretfloat/pkg/css"
	"caretfloat/pkg/geom"
	"caretfloat/pkg/html"
)

// Poster runs a function later on the host loop.
type Poster interface {
	Post(fn func())
}

// Page is the window the floating element lives in.
type Page interface {
	Root() *html.Node
	Scroll() geom.Point
	BoundingClientRect(n *html.Node) (geom.Rect, bool)
}

// UpdateRequest asks the engine to position Floating against Anchor.
type UpdateRequest struct {
	Anchor    anchor.Boundable
	Floating  *html.Node
	Placement Placement
	Offset    float64
	Strategy  Strategy

	// Accept is consulted right before the result is written. A false
	// return drops the result without error.
	Accept func() bool
	// OnApply is called after the result was written.
	OnApply func(Result)
}

// instance is one live placement: the request plus the viewport resize
// listener that re-runs it.
type instance struct {
	req      UpdateRequest
	root     *html.Node
	resize   html.ListenerID
	disposed bool
}

// Engine owns at most one live placement instance.
type Engine struct {
	page   Page
	poster Poster
	log    *zap.Logger

	live    *instance
	last    Result
	hasLast bool
	writes  int
}

type Option func(*Engine)

func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

func NewEngine(page Page, poster Poster, opts ...Option) *Engine {
	e := &Engine{page: page, poster: poster, log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Update replaces the live instance with one for req, computes the
// position and posts the write to the host loop.
func (e *Engine) Update(req UpdateRequest) error {
	probe := Request{Placement: req.Placement, Offset: req.Offset, Strategy: req.Strategy}
	if err := probe.Validate(); err != nil {
		return err
	}
	if req.Floating == nil {
		return ErrDetachedFloatingTarget
	}

	e.Release()
	inst := &instance{req: req, root: e.page.Root()}
	inst.resize = inst.root.AddEventListener("resize", func(*html.Event) {
		if err := e.run(inst); err != nil {
			e.log.Debug("resize placement skipped", zap.Error(err))
		}
	})
	e.live = inst
	return e.run(inst)
}

func (e *Engine) run(inst *instance) error {
	size, ok := e.page.BoundingClientRect(inst.req.Floating)
	if !ok {
		return ErrDetachedFloatingTarget
	}
	res, err := Compute(Request{
		Anchor:    inst.req.Anchor,
		Floating:  size.Size(),
		Placement: inst.req.Placement,
		Offset:    inst.req.Offset,
		Strategy:  inst.req.Strategy,
		Scroll:    e.page.Scroll(),
	})
	if err != nil {
		return fmt.Errorf("compute placement: %w", err)
	}
	e.poster.Post(func() {
		e.deliver(inst, res)
	})
	return nil
}

func (e *Engine) deliver(inst *instance, res Result) {
	if inst.disposed {
		return
	}
	if inst.req.Accept != nil && !inst.req.Accept() {
		e.log.Debug("stale placement dropped", zap.String("placement", string(res.Placement)))
		return
	}
	if !inst.req.Floating.IsConnected() {
		e.log.Debug("placement skipped", zap.Error(ErrDetachedFloatingTarget))
		return
	}
	apply(inst.req.Floating, res)
	e.last, e.hasLast = res, true
	e.writes++
	if inst.req.OnApply != nil {
		inst.req.OnApply(res)
	}
}

// apply writes the result into the element's inline style.
func apply(n *html.Node, res Result) {
	n.SetStyleProperty("position", string(res.Strategy))
	n.SetStyleProperty("left", css.FormatLength(res.X))
	n.SetStyleProperty("top", css.FormatLength(res.Y))
}

// Release disposes the live instance. Results it still has in flight are
// dropped.
func (e *Engine) Release() {
	if e.live == nil {
		return
	}
	e.live.disposed = true
	e.live.root.RemoveEventListener("resize", e.live.resize)
	e.live = nil
}

// LiveInstances reports 0 or 1.
func (e *Engine) LiveInstances() int {
	if e.live == nil {
		return 0
	}
	return 1
}

// Last returns the most recently written result.
func (e *Engine) Last() (Result, bool) {
	return e.last, e.hasLast
}

// Writes counts results written to the floating element.
func (e *Engine) Writes() int {
	return e.writes
}

// IsSkippable reports whether err only means there was nothing to place
// this time.
func IsSkippable(err error) bool {
	return errors.Is(err, anchor.ErrMissingAnchor) || errors.Is(err, ErrDetachedFloatingTarget)
}
