package track

import (
	"github.com/google/uuid"

	"caretfloat/pkg/geom"
	"caretfloat/pkg/html"
	"caretfloat/pkg/placement"
)

// AnchorRef names what the overlay is attached to: a live element, or a
// captured rectangle when there is none.
type AnchorRef struct {
	Element *html.Node
	Rect    *geom.Rect
}

func (r AnchorRef) IsZero() bool {
	return r.Element == nil && r.Rect == nil
}

// Session is one open overlay under one configuration.
type Session struct {
	ID       uuid.UUID
	Config   Config
	Anchor   AnchorRef
	Floating *html.Node

	sources []TriggerSource
	latest  uint64
	alive   bool

	last    placement.Result
	hasLast bool
	runs    int
	skips   int
}

func newSession(ref AnchorRef, floating *html.Node, cfg Config) *Session {
	return &Session{
		ID:       uuid.New(),
		Config:   cfg,
		Anchor:   ref,
		Floating: floating,
		alive:    true,
	}
}

func (s *Session) Alive() bool {
	return s.alive
}

// Generation is the latest generation issued for this session.
func (s *Session) Generation() uint64 {
	return s.latest
}

// Last returns the last result written for this session.
func (s *Session) Last() (placement.Result, bool) {
	return s.last, s.hasLast
}

// Runs counts recomputations; Skips counts the ones that produced nothing.
func (s *Session) Runs() int { return s.runs }
func (s *Session) Skips() int { return s.skips }

// Sources returns the active trigger sources.
func (s *Session) Sources() []TriggerSource {
	return s.sources
}

func (s *Session) teardown() {
	s.alive = false
	for _, src := range s.sources {
		src.Unsubscribe()
	}
	s.sources = nil
}
