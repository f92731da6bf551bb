package track

import (
	"time"

	"caretfloat/pkg/frame"
	"caretfloat/pkg/html"
)

// TriggerSource calls fn whenever the overlay should be repositioned,
// until Unsubscribe.
type TriggerSource interface {
	Subscribe(fn func())
	Unsubscribe()
}

// OnceSource fires once, synchronously, on Subscribe.
type OnceSource struct{}

func (OnceSource) Subscribe(fn func()) { fn() }

func (OnceSource) Unsubscribe() {}

// FrameSource fires immediately and then on every animation frame.
type FrameSource struct {
	loop   *frame.Loop
	id     frame.FrameID
	active bool
	fn     func()
}

func NewFrameSource(loop *frame.Loop) *FrameSource {
	return &FrameSource{loop: loop}
}

func (s *FrameSource) Subscribe(fn func()) {
	s.fn = fn
	s.active = true
	s.tick(time.Time{})
}

func (s *FrameSource) tick(time.Time) {
	// A frame snapshot may still hold this callback after Unsubscribe.
	if !s.active {
		return
	}
	s.fn()
	if s.active {
		s.id = s.loop.RequestFrame(s.tick)
	}
}

// Unsubscribe cancels the pending frame.
func (s *FrameSource) Unsubscribe() {
	if !s.active {
		return
	}
	s.active = false
	s.loop.CancelFrame(s.id)
}

// EventSource fires on a DOM event of one type on one node.
type EventSource struct {
	node *html.Node
	typ  string
	id   html.ListenerID
	on   bool
}

func NewEventSource(node *html.Node, typ string) *EventSource {
	return &EventSource{node: node, typ: typ}
}

func (s *EventSource) Subscribe(fn func()) {
	s.id = s.node.AddEventListener(s.typ, func(*html.Event) { fn() })
	s.on = true
}

func (s *EventSource) Unsubscribe() {
	if s.on {
		s.node.RemoveEventListener(s.typ, s.id)
		s.on = false
	}
}
