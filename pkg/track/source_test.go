package track

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"caretfloat/pkg/frame"
	"caretfloat/pkg/html"
)

func TestOnceSourceFiresOnSubscribe(t *testing.T) {
	calls := 0
	var src TriggerSource = OnceSource{}
	src.Subscribe(func() { calls++ })
	src.Unsubscribe()
	require.Equal(t, 1, calls)
}

func TestFrameSourceRearms(t *testing.T) {
	loop := frame.New()
	src := NewFrameSource(loop)
	calls := 0
	src.Subscribe(func() { calls++ })
	require.Equal(t, 1, calls)

	loop.RunFrame(time.Now())
	loop.RunFrame(time.Now())
	require.Equal(t, 3, calls)
	require.Equal(t, 1, loop.PendingFrames())

	src.Unsubscribe()
	require.Zero(t, loop.PendingFrames())
	loop.RunFrame(time.Now())
	require.Equal(t, 3, calls)
}

func TestFrameSourceUnsubscribeDuringFrame(t *testing.T) {
	loop := frame.New()
	a, b := NewFrameSource(loop), NewFrameSource(loop)
	bCalls := 0
	a.Subscribe(func() { b.Unsubscribe() })
	b.Subscribe(func() { bCalls++ })

	// a runs first in the frame and cancels b, whose callback is already
	// in the frame's snapshot.
	loop.RunFrame(time.Now())
	require.Equal(t, 1, bCalls)
	require.Equal(t, 1, loop.PendingFrames())
}

func TestEventSource(t *testing.T) {
	n := html.NewElement("input")
	src := NewEventSource(n, "keyup")
	calls := 0
	src.Subscribe(func() { calls++ })

	n.DispatchEvent(html.NewEvent("keyup"))
	n.DispatchEvent(html.NewEvent("keydown"))
	require.Equal(t, 1, calls)

	src.Unsubscribe()
	src.Unsubscribe()
	n.DispatchEvent(html.NewEvent("keyup"))
	require.Equal(t, 1, calls)
	require.Zero(t, n.ListenerCount("keyup"))
}
