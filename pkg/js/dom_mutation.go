package js

import (
	"github.com/dop251/goja"

	"caretfloat/pkg/html"
)

// nodeArg unwraps a node argument, turning anything else into a text node
// the way append and friends do.
func (e *elementAccessor) nodeArg(v goja.Value) *html.Node {
	if n := e.ctx.unwrapNode(v); n != nil {
		return n
	}
	return html.NewText(v.String())
}

func (e *elementAccessor) requireNode(method string, v goja.Value) *html.Node {
	n := e.ctx.unwrapNode(v)
	if n == nil {
		panic(e.ctx.vm.NewTypeError("Failed to execute '%s': parameter is not a Node", method))
	}
	return n
}

// appendChildFn returns a JS function that implements node.appendChild(child).
func (e *elementAccessor) appendChildFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		child := e.requireNode("appendChild", call.Argument(0))
		if child.Contains(e.node) {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'appendChild': the new child contains the parent"))
		}
		e.node.AddChild(child)
		return e.ctx.elementProxy(child)
	}
}

// removeChildFn returns a JS function that implements node.removeChild(child).
func (e *elementAccessor) removeChildFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		child := e.requireNode("removeChild", call.Argument(0))
		if e.node.RemoveChild(child) == nil {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'removeChild': The node to be removed is not a child of this node"))
		}
		return e.ctx.elementProxy(child)
	}
}

// insertBeforeFn returns a JS function that implements node.insertBefore(newNode, refNode).
func (e *elementAccessor) insertBeforeFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		newChild := e.requireNode("insertBefore", call.Argument(0))
		refChild := e.ctx.unwrapNode(call.Argument(1))
		e.node.InsertBefore(newChild, refChild)
		return e.ctx.elementProxy(newChild)
	}
}

// appendFn returns a JS function for element.append(...nodes).
// Strings become text nodes.
func (e *elementAccessor) appendFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		for _, a := range call.Arguments {
			e.node.AddChild(e.nodeArg(a))
		}
		return goja.Undefined()
	}
}

// prependFn returns a JS function for element.prepend(...nodes).
func (e *elementAccessor) prependFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		var first *html.Node
		if len(e.node.Children) > 0 {
			first = e.node.Children[0]
		}
		for _, a := range call.Arguments {
			n := e.nodeArg(a)
			if n == first {
				continue
			}
			e.node.InsertBefore(n, first)
		}
		return goja.Undefined()
	}
}

// beforeFn returns a JS function for element.before(...nodes).
func (e *elementAccessor) beforeFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parent := e.node.Parent
		if parent == nil {
			return goja.Undefined()
		}
		for _, a := range call.Arguments {
			parent.InsertBefore(e.nodeArg(a), e.node)
		}
		return goja.Undefined()
	}
}

// afterFn returns a JS function for element.after(...nodes).
func (e *elementAccessor) afterFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parent := e.node.Parent
		if parent == nil {
			return goja.Undefined()
		}
		var ref *html.Node
		if idx := e.node.IndexInParent(); idx+1 < len(parent.Children) {
			ref = parent.Children[idx+1]
		}
		for _, a := range call.Arguments {
			parent.InsertBefore(e.nodeArg(a), ref)
		}
		return goja.Undefined()
	}
}

// replaceWithFn returns a JS function for element.replaceWith(...nodes).
func (e *elementAccessor) replaceWithFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parent := e.node.Parent
		if parent == nil {
			return goja.Undefined()
		}
		for _, a := range call.Arguments {
			parent.InsertBefore(e.nodeArg(a), e.node)
		}
		parent.RemoveChild(e.node)
		return goja.Undefined()
	}
}

// replaceChildrenFn returns a JS function for element.replaceChildren(...nodes).
func (e *elementAccessor) replaceChildrenFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		e.node.SetTextContent("")
		for _, a := range call.Arguments {
			e.node.AddChild(e.nodeArg(a))
		}
		return goja.Undefined()
	}
}
