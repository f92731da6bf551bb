package js

import (
	"github.com/dop251/goja"
	"go.uber.org/zap"

	"caretfloat/pkg/html"
)

// jsListener remembers the script function behind a registration so
// removeEventListener can find it again.
type jsListener struct {
	node *html.Node
	typ  string
	fn   goja.Value
	id   html.ListenerID
}

// registerEvents installs the Event and CustomEvent constructors.
func (e *Engine) registerEvents() {
	ctx := e.dom
	e.vm.Set("Event", func(call goja.ConstructorCall) *goja.Object {
		return ctx.initEvent(call, false)
	})
	e.vm.Set("CustomEvent", func(call goja.ConstructorCall) *goja.Object {
		return ctx.initEvent(call, true)
	})
}

func (ctx *domContext) initEvent(call goja.ConstructorCall, custom bool) *goja.Object {
	if len(call.Arguments) == 0 {
		panic(ctx.vm.NewTypeError("Failed to construct 'Event': 1 argument required"))
	}
	this := call.This
	this.Set("type", call.Arguments[0].String())
	bubbles := false
	detail := goja.Null()
	if init, ok := call.Argument(1).(*goja.Object); ok {
		if v := init.Get("bubbles"); v != nil {
			bubbles = v.ToBoolean()
		}
		if v := init.Get("detail"); custom && v != nil && !goja.IsUndefined(v) {
			detail = v
		}
	}
	this.Set("bubbles", bubbles)
	if custom {
		this.Set("detail", detail)
	}
	return this
}

// toEvent converts a script event object into a DOM event.
func (ctx *domContext) toEvent(v goja.Value) *html.Event {
	obj, ok := v.(*goja.Object)
	if !ok {
		panic(ctx.vm.NewTypeError("Failed to execute 'dispatchEvent': parameter 1 is not of type 'Event'"))
	}
	typ := obj.Get("type")
	if typ == nil || goja.IsUndefined(typ) {
		panic(ctx.vm.NewTypeError("Failed to execute 'dispatchEvent': event has no type"))
	}
	ev := &html.Event{Type: typ.String()}
	if b := obj.Get("bubbles"); b != nil {
		ev.Bubbles = b.ToBoolean()
	}
	if d := obj.Get("detail"); d != nil {
		ev.Detail = ctx.export(d)
	}
	if k := obj.Get("key"); k != nil && !goja.IsUndefined(k) {
		ev.Key = k.String()
	}
	return ev
}

func (ctx *domContext) addEventListenerFn(node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		typ := call.Argument(0).String()
		fnVal := call.Argument(1)
		fn, ok := goja.AssertFunction(fnVal)
		if !ok {
			return goja.Undefined()
		}
		if ctx.findListener(node, typ, fnVal) >= 0 {
			return goja.Undefined()
		}
		id := node.AddEventListener(typ, func(ev *html.Event) {
			ctx.invoke(fn, ev)
		})
		ctx.listeners = append(ctx.listeners, jsListener{node: node, typ: typ, fn: fnVal, id: id})
		return goja.Undefined()
	}
}

func (ctx *domContext) removeEventListenerFn(node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		typ := call.Argument(0).String()
		i := ctx.findListener(node, typ, call.Argument(1))
		if i < 0 {
			return goja.Undefined()
		}
		node.RemoveEventListener(typ, ctx.listeners[i].id)
		ctx.listeners = append(ctx.listeners[:i:i], ctx.listeners[i+1:]...)
		return goja.Undefined()
	}
}

func (ctx *domContext) dispatchEventFn(node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		ev := ctx.toEvent(call.Argument(0))
		node.DispatchEvent(ev)
		return ctx.vm.ToValue(true)
	}
}

func (ctx *domContext) findListener(node *html.Node, typ string, fn goja.Value) int {
	for i, l := range ctx.listeners {
		if l.node == node && l.typ == typ && l.fn.SameAs(fn) {
			return i
		}
	}
	return -1
}

// invoke calls a script listener. Exceptions are logged and swallowed so
// one failing listener does not stop the dispatch.
func (ctx *domContext) invoke(fn goja.Callable, ev *html.Event) {
	this := ctx.elementProxy(ev.CurrentTarget)
	if _, err := fn(this, ctx.vm.NewDynamicObject(&eventAccessor{ctx: ctx, ev: ev})); err != nil {
		ctx.eng.log.Warn("event listener threw", zap.String("type", ev.Type), zap.Error(err))
	}
}

// eventAccessor exposes a live DOM event to a listener.
type eventAccessor struct {
	ctx *domContext
	ev  *html.Event
}

var eventKeys = []string{"type", "target", "currentTarget", "bubbles", "detail", "key",
	"stopPropagation", "preventDefault", "defaultPrevented"}

func (a *eventAccessor) Get(key string) goja.Value {
	vm := a.ctx.vm
	switch key {
	case "type":
		return vm.ToValue(a.ev.Type)
	case "target":
		return a.ctx.elementProxy(a.ev.Target)
	case "currentTarget":
		return a.ctx.elementProxy(a.ev.CurrentTarget)
	case "bubbles":
		return vm.ToValue(a.ev.Bubbles)
	case "detail":
		return a.ctx.toValue(a.ev.Detail)
	case "key":
		if a.ev.Key == "" {
			return goja.Undefined()
		}
		return vm.ToValue(a.ev.Key)
	case "stopPropagation":
		return vm.ToValue(func(goja.FunctionCall) goja.Value {
			a.ev.StopPropagation()
			return goja.Undefined()
		})
	case "preventDefault":
		return vm.ToValue(func(goja.FunctionCall) goja.Value {
			return goja.Undefined()
		})
	case "defaultPrevented":
		return vm.ToValue(false)
	}
	return goja.Undefined()
}

func (a *eventAccessor) Set(string, goja.Value) bool { return false }
func (a *eventAccessor) Delete(string) bool { return false }
func (a *eventAccessor) Keys() []string { return eventKeys }

func (a *eventAccessor) Has(key string) bool {
	for _, k := range eventKeys {
		if k == key {
			return true
		}
	}
	return false
}
