package js

import (
	"github.com/dop251/goja"

	"caretfloat/pkg/css"
	"caretfloat/pkg/html"
)

// selectorGroup parses a selector list or throws a SyntaxError-like
// TypeError into the script.
func selectorGroup(ctx *domContext, method string, call goja.FunctionCall) []css.Selector {
	if len(call.Arguments) == 0 {
		panic(ctx.vm.NewTypeError("Failed to execute '%s': 1 argument required", method))
	}
	group, err := css.ParseSelectorGroup(call.Arguments[0].String())
	if err != nil {
		panic(ctx.vm.NewTypeError("Failed to execute '%s': %v", method, err))
	}
	return group
}

func matchesAny(n *html.Node, group []css.Selector) bool {
	for _, sel := range group {
		if css.MatchesSelector(n, sel) {
			return true
		}
	}
	return false
}

// querySelectorFn returns a JS function implementing querySelector.
func querySelectorFn(ctx *domContext, root *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		group := selectorGroup(ctx, "querySelector", call)
		var result *html.Node
		walkTree(root, func(n *html.Node) bool {
			if n != root && matchesAny(n, group) {
				result = n
				return true
			}
			return false
		})
		return ctx.elementProxy(result)
	}
}

// querySelectorAllFn returns a JS function implementing querySelectorAll.
func querySelectorAllFn(ctx *domContext, root *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		group := selectorGroup(ctx, "querySelectorAll", call)
		var results []*html.Node
		walkTree(root, func(n *html.Node) bool {
			if n != root && matchesAny(n, group) {
				results = append(results, n)
			}
			return false
		})
		return ctx.elementArray(results)
	}
}

// matchesFn returns a JS function implementing element.matches(selector).
func matchesFn(ctx *domContext, node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		group := selectorGroup(ctx, "matches", call)
		return ctx.vm.ToValue(matchesAny(node, group))
	}
}

// closestFn returns a JS function implementing element.closest(selector).
func closestFn(ctx *domContext, node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		group := selectorGroup(ctx, "closest", call)
		root := ctx.eng.page.Root()
		for cur := node; cur != nil && cur != root; cur = cur.Parent {
			if cur.Type == html.ElementNode && matchesAny(cur, group) {
				return ctx.elementProxy(cur)
			}
		}
		return goja.Null()
	}
}

// walkTree performs a DFS walk over the elements. The callback returns
// true to stop.
func walkTree(node *html.Node, fn func(*html.Node) bool) bool {
	if node.Type == html.ElementNode {
		if fn(node) {
			return true
		}
	}
	for _, child := range node.Children {
		if walkTree(child, fn) {
			return true
		}
	}
	return false
}
