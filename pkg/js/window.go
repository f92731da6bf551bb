package js

import (
	"errors"
	"slices"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"caretfloat/pkg/caret"
	"caretfloat/pkg/frame"
	"caretfloat/pkg/html"
)

// registerWindow installs window. Its event target is the document root,
// the same node page-level events (resize, scroll, selectionchange) are
// dispatched on.
func (e *Engine) registerWindow() {
	d := e.dom
	d.window = e.vm.NewDynamicObject(&windowAccessor{ctx: d})
	e.vm.Set("window", d.window)
	e.vm.Set("addEventListener", d.addEventListenerFn(e.page.Root()))
	e.vm.Set("removeEventListener", d.removeEventListenerFn(e.page.Root()))
	e.vm.Set("dispatchEvent", d.dispatchEventFn(e.page.Root()))
}

type windowAccessor struct {
	ctx *domContext
}

var windowKeys = []string{
	"document", "window", "innerWidth", "innerHeight", "scrollX", "scrollY",
	"pageXOffset", "pageYOffset", "scrollTo", "scrollBy",
	"addEventListener", "removeEventListener", "dispatchEvent",
	"requestAnimationFrame", "cancelAnimationFrame", "caret", "console",
}

func (w *windowAccessor) Get(key string) goja.Value {
	ctx := w.ctx
	vm := ctx.vm
	pg := ctx.eng.page
	switch key {
	case "document":
		return ctx.document
	case "window":
		return ctx.window
	case "innerWidth":
		return vm.ToValue(pg.Viewport().Width)
	case "innerHeight":
		return vm.ToValue(pg.Viewport().Height)
	case "scrollX", "pageXOffset":
		return vm.ToValue(pg.Scroll().X)
	case "scrollY", "pageYOffset":
		return vm.ToValue(pg.Scroll().Y)
	case "scrollTo":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			pg.ScrollTo(call.Argument(0).ToFloat(), call.Argument(1).ToFloat())
			return goja.Undefined()
		})
	case "scrollBy":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			pg.ScrollBy(call.Argument(0).ToFloat(), call.Argument(1).ToFloat())
			return goja.Undefined()
		})
	case "addEventListener":
		return vm.ToValue(ctx.addEventListenerFn(pg.Root()))
	case "removeEventListener":
		return vm.ToValue(ctx.removeEventListenerFn(pg.Root()))
	case "dispatchEvent":
		return vm.ToValue(ctx.dispatchEventFn(pg.Root()))
	}
	if slices.Contains(windowKeys, key) {
		return vm.Get(key)
	}
	return goja.Undefined()
}

func (w *windowAccessor) Set(string, goja.Value) bool { return false }
func (w *windowAccessor) Has(key string) bool { return slices.Contains(windowKeys, key) }
func (w *windowAccessor) Delete(string) bool { return false }
func (w *windowAccessor) Keys() []string { return windowKeys }

// registerFrames installs requestAnimationFrame and cancelAnimationFrame
// on top of the host loop.
func (e *Engine) registerFrames() {
	e.vm.Set("requestAnimationFrame", func(call goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			panic(e.vm.NewTypeError("Failed to execute 'requestAnimationFrame': parameter 1 is not a function"))
		}
		id := e.loop.RequestFrame(func(now time.Time) {
			ts := float64(now.UnixNano()) / float64(time.Millisecond)
			if _, err := fn(goja.Undefined(), e.vm.ToValue(ts)); err != nil {
				e.log.Warn("animation frame callback threw", zap.Error(err))
			}
		})
		return e.vm.ToValue(int64(id))
	})
	e.vm.Set("cancelAnimationFrame", func(call goja.FunctionCall) goja.Value {
		if id := call.Argument(0).ToInteger(); id > 0 {
			e.loop.CancelFrame(frame.FrameID(id))
		}
		return goja.Undefined()
	})
}

// registerCaret installs the caret helper:
//
//	caret.rect(el)          caret rectangle at el's selection start
//	caret.at(el, offset)    caret rectangle at a given offset
//	caret.clamp(rect, el)   rect kept inside el's box
func (e *Engine) registerCaret() {
	ctx := e.dom
	obj := e.vm.NewObject()
	element := func(method string, v goja.Value) *html.Node {
		n := ctx.unwrapNode(v)
		if n == nil {
			panic(e.vm.NewTypeError("Failed to execute 'caret.%s': parameter is not an element", method))
		}
		return n
	}
	throw := func(err error) {
		if errors.Is(err, caret.ErrNotTextControl) {
			panic(e.vm.NewTypeError(err.Error()))
		}
		panic(e.vm.NewGoError(err))
	}
	obj.Set("rect", func(call goja.FunctionCall) goja.Value {
		n := element("rect", call.Argument(0))
		r, err := caret.AtSelection(e.page, n)
		if err != nil {
			throw(err)
		}
		return ctx.rectObject(r)
	})
	obj.Set("at", func(call goja.FunctionCall) goja.Value {
		n := element("at", call.Argument(0))
		r, err := caret.ComputeCaretRect(e.page, n, int(call.Argument(1).ToInteger()))
		if err != nil {
			throw(err)
		}
		return ctx.rectObject(r)
	})
	obj.Set("clamp", func(call goja.FunctionCall) goja.Value {
		r, ok := ctx.rectFrom(call.Argument(0))
		if !ok {
			panic(e.vm.NewTypeError("Failed to execute 'caret.clamp': parameter 1 is not a rect"))
		}
		n := element("clamp", call.Argument(1))
		owner, ok := e.page.BoundingClientRect(n)
		if !ok {
			return ctx.rectObject(r)
		}
		return ctx.rectObject(caret.Clamp(r, owner))
	})
	e.vm.Set("caret", obj)
}
