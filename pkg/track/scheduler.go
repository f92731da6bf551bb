package track

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"caretfloat/pkg/anchor"
	"caretfloat/pkg/caret"
	"caretfloat/pkg/frame"
	"caretfloat/pkg/html"
	"caretfloat/pkg/placement"
)

// State is the scheduler state.
type State int

const (
	Idle State = iota
	// Static sessions place the overlay once.
	Static
	// Tracking sessions re-place it every frame and on caret events.
	Tracking
)

func (s State) String() string {
	switch s {
	case Static:
		return "static"
	case Tracking:
		return "tracking"
	}
	return "idle"
}

// Surface is the page the scheduler measures.
type Surface interface {
	caret.Surface
	Root() *html.Node
}

// Scheduler runs at most one session. All methods run on the host loop.
type Scheduler struct {
	surface Surface
	loop    *frame.Loop
	engine  *placement.Engine
	log     *zap.Logger

	state      State
	session    *Session
	generation uint64
	recovered  int
}

type Option func(*Scheduler)

func WithLogger(log *zap.Logger) Option {
	return func(s *Scheduler) {
		s.log = log
	}
}

func NewScheduler(surface Surface, loop *frame.Loop, engine *placement.Engine, opts ...Option) *Scheduler {
	s := &Scheduler{surface: surface, loop: loop, engine: engine, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) State() State {
	return s.state
}

// Session returns the live session, or nil when idle.
func (s *Scheduler) Session() *Session {
	return s.session
}

// Recovered counts recomputations that panicked.
func (s *Scheduler) Recovered() int {
	return s.recovered
}

// Start tears down the live session and opens a new one. Default mode
// places the overlay once; caret mode follows the caret every frame and
// on keyup and selectionchange.
func (s *Scheduler) Start(ref AnchorRef, floating *html.Node, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	if floating == nil {
		return fmt.Errorf("start session: %w", placement.ErrDetachedFloatingTarget)
	}
	s.Stop()

	sess := newSession(ref, floating, cfg)
	s.session = sess
	if cfg.Mode == ModeCaret {
		s.state = Tracking
		sess.sources = append(sess.sources, NewFrameSource(s.loop))
		if ref.Element != nil {
			sess.sources = append(sess.sources, NewEventSource(ref.Element, "keyup"))
		}
		sess.sources = append(sess.sources, NewEventSource(s.surface.Root(), "selectionchange"))
	} else {
		s.state = Static
		sess.sources = append(sess.sources, OnceSource{})
	}
	s.log.Info("session started",
		zap.Stringer("session", sess.ID),
		zap.String("mode", string(cfg.Mode)),
		zap.String("placement", string(cfg.Placement)),
		zap.Float64("offset", cfg.Offset))

	for _, src := range sess.sources {
		src.Subscribe(func() { s.recompute(sess) })
	}
	return nil
}

// Stop tears down the live session. Results still in flight are
// discarded.
func (s *Scheduler) Stop() {
	sess := s.session
	if sess == nil {
		return
	}
	sess.teardown()
	s.generation++
	sess.latest = s.generation
	s.engine.Release()
	s.session = nil
	s.state = Idle
	s.log.Info("session stopped",
		zap.Stringer("session", sess.ID),
		zap.Int("runs", sess.runs),
		zap.Int("skips", sess.skips))
}

func (s *Scheduler) recompute(sess *Session) {
	defer func() {
		if r := recover(); r != nil {
			s.recovered++
			sess.skips++
			s.log.Error("recompute panicked", zap.Stringer("session", sess.ID), zap.Any("panic", r))
		}
	}()
	if !sess.alive || s.session != sess {
		return
	}
	sess.runs++

	ref, err := s.resolve(sess)
	if err == nil {
		s.generation++
		g := s.generation
		sess.latest = g
		err = s.engine.Update(placement.UpdateRequest{
			Anchor:    ref,
			Floating:  sess.Floating,
			Placement: sess.Config.Placement,
			Offset:    sess.Config.Offset,
			Accept: func() bool {
				return sess.alive && s.session == sess && sess.latest == g
			},
			OnApply: func(res placement.Result) {
				sess.last, sess.hasLast = res, true
			},
		})
	}
	if err != nil {
		sess.skips++
		s.log.Debug("recompute skipped", zap.Stringer("session", sess.ID), zap.Error(err))
	}
}

// resolve picks the anchor for one recomputation.
func (s *Scheduler) resolve(sess *Session) (anchor.Boundable, error) {
	ref := sess.Anchor
	if ref.IsZero() {
		return nil, anchor.ErrMissingAnchor
	}
	if ref.Element == nil {
		return anchor.FromRect(*ref.Rect), nil
	}
	if sess.Config.Mode == ModeCaret && ref.Element.IsTextControl() {
		return s.caretAnchor(ref.Element)
	}
	return anchor.ForElement(s.surface, ref.Element), nil
}

func (s *Scheduler) caretAnchor(el *html.Node) (anchor.Boundable, error) {
	r, err := caret.AtSelection(s.surface, el)
	if err != nil {
		if errors.Is(err, caret.ErrDetached) {
			return nil, fmt.Errorf("%w: %w", anchor.ErrMissingAnchor, err)
		}
		return nil, err
	}
	owner, ok := s.surface.BoundingClientRect(el)
	if !ok {
		return nil, anchor.ErrMissingAnchor
	}
	return anchor.FromRect(caret.Clamp(r, owner)), nil
}
