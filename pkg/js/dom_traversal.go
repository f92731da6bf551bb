package js

import (
	"github.com/dop251/goja"

	"caretfloat/pkg/html"
)

func (e *elementAccessor) firstChild() goja.Value {
	if len(e.node.Children) == 0 {
		return goja.Null()
	}
	return e.ctx.elementProxy(e.node.Children[0])
}

func (e *elementAccessor) lastChild() goja.Value {
	if len(e.node.Children) == 0 {
		return goja.Null()
	}
	return e.ctx.elementProxy(e.node.Children[len(e.node.Children)-1])
}

func (e *elementAccessor) firstElementChild() goja.Value {
	for _, child := range e.node.Children {
		if child.Type == html.ElementNode {
			return e.ctx.elementProxy(child)
		}
	}
	return goja.Null()
}

func (e *elementAccessor) lastElementChild() goja.Value {
	for i := len(e.node.Children) - 1; i >= 0; i-- {
		if e.node.Children[i].Type == html.ElementNode {
			return e.ctx.elementProxy(e.node.Children[i])
		}
	}
	return goja.Null()
}

// sibling walks step positions at a time from the node, optionally
// skipping text nodes.
func (e *elementAccessor) sibling(step int, elementsOnly bool) goja.Value {
	idx := e.node.IndexInParent()
	if idx < 0 {
		return goja.Null()
	}
	siblings := e.node.Parent.Children
	for i := idx + step; i >= 0 && i < len(siblings); i += step {
		if !elementsOnly || siblings[i].Type == html.ElementNode {
			return e.ctx.elementProxy(siblings[i])
		}
	}
	return goja.Null()
}
