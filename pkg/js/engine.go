// Package js runs page scripts in goja against the live page: the DOM,
// window events, animation frames and the caret helpers.
package js

import (
	"fmt"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"caretfloat/pkg/frame"
	"caretfloat/pkg/page"
)

// Engine executes JavaScript against a page. It is not safe for
// concurrent use; run it on the loop goroutine.
type Engine struct {
	vm   *goja.Runtime
	page *page.Page
	loop *frame.Loop
	log  *zap.Logger
	dom  *domContext
}

type Option func(*Engine)

func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// New creates an engine with document, window, console, event
// constructors, requestAnimationFrame and caret installed as globals.
func New(p *page.Page, loop *frame.Loop, opts ...Option) *Engine {
	e := &Engine{
		vm:   goja.New(),
		page: p,
		loop: loop,
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.dom = newDOMContext(e)

	c := &consoleAPI{log: e.log.Named("js")}
	c.register(e.vm)
	e.registerEvents()
	e.registerDocument()
	e.registerWindow()
	e.registerFrames()
	e.registerCaret()
	return e
}

// Execute runs the document's scripts in order. The first failing
// script stops execution.
func (e *Engine) Execute() error {
	for i, script := range e.page.Document().Scripts {
		if _, err := e.vm.RunString(script); err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
	}
	e.log.Debug("scripts executed", zap.Int("count", len(e.page.Document().Scripts)))
	return nil
}

// Run evaluates src and returns its completion value exported to Go.
func (e *Engine) Run(src string) (any, error) {
	v, err := e.vm.RunString(src)
	if err != nil {
		return nil, err
	}
	return e.dom.export(v), nil
}
