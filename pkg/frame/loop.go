// Package frame is the single-threaded host loop every document mutation
// runs on. It mirrors a browser event loop: posted tasks run between
// frames and animation-frame callbacks run once per tick.
package frame

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FrameID identifies a requested animation-frame callback.
type FrameID uint64

// Callback runs on an animation frame with the frame timestamp.
type Callback func(now time.Time)

type pendingFrame struct {
	id FrameID
	cb Callback
}

// maxDrainRounds bounds how often tasks posted by tasks are run in one
// drain; the rest wait for the next drain.
const maxDrainRounds = 64

// Loop is the host event loop. Post is safe from any goroutine; every other
// method must be called from the loop goroutine (or, in tests, the only
// goroutine).
type Loop struct {
	mu     sync.Mutex
	tasks  []func()
	frames []pendingFrame
	nextID FrameID

	wake          chan struct{}
	frameDuration time.Duration
	frameCount    uint64
	log           *zap.Logger
}

type Option func(*Loop)

// WithFPS sets the frame rate Run ticks at.
func WithFPS(fps int) Option {
	return func(l *Loop) {
		if fps > 0 {
			l.frameDuration = time.Second / time.Duration(fps)
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(l *Loop) {
		l.log = log
	}
}

func New(opts ...Option) *Loop {
	l := &Loop{
		wake:          make(chan struct{}, 1),
		frameDuration: time.Second / 60,
		log:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Post queues fn to run on the loop. Safe to call from any goroutine.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// RequestFrame schedules cb for the next frame.
func (l *Loop) RequestFrame(cb Callback) FrameID {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	l.frames = append(l.frames, pendingFrame{id: l.nextID, cb: cb})
	return l.nextID
}

// CancelFrame removes a pending callback. Cancelling an unknown or already
// run id is a no-op.
func (l *Loop) CancelFrame(id FrameID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, f := range l.frames {
		if f.id == id {
			l.frames = append(l.frames[:i:i], l.frames[i+1:]...)
			return
		}
	}
}

// PendingFrames returns the number of callbacks waiting for a frame.
func (l *Loop) PendingFrames() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.frames)
}

// Frames returns the number of frames run so far.
func (l *Loop) Frames() uint64 {
	return l.frameCount
}

// RunFrame drains posted tasks, runs the callbacks requested before this
// frame, then drains the tasks they posted. Callbacks requested during the
// frame run on the next one.
func (l *Loop) RunFrame(now time.Time) {
	l.Drain()
	l.mu.Lock()
	frames := l.frames
	l.frames = nil
	l.mu.Unlock()
	for _, f := range frames {
		l.run(func() { f.cb(now) })
	}
	l.frameCount++
	l.Drain()
}

// Drain runs queued tasks, including ones they post, until the queue is
// empty.
func (l *Loop) Drain() {
	for round := 0; round < maxDrainRounds; round++ {
		l.mu.Lock()
		tasks := l.tasks
		l.tasks = nil
		l.mu.Unlock()
		if len(tasks) == 0 {
			return
		}
		for _, task := range tasks {
			l.run(task)
		}
	}
}

// run executes fn, logging instead of propagating a panic so one bad task
// cannot stop the loop.
func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("loop task panicked", zap.Error(fmt.Errorf("%v", r)))
		}
	}()
	fn()
}

// Run drives frames at the configured rate and runs posted tasks between
// them until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.frameDuration)
	defer ticker.Stop()
	l.log.Info("frame loop started", zap.Duration("frame", l.frameDuration))
	for {
		select {
		case <-ctx.Done():
			l.log.Info("frame loop stopped", zap.Uint64("frames", l.frameCount))
			return nil
		case <-l.wake:
			l.Drain()
		case now := <-ticker.C:
			l.RunFrame(now)
		}
	}
}
