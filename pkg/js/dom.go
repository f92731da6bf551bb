package js

import (
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/dop251/goja"

	"caretfloat/pkg/css"
	"caretfloat/pkg/geom"
	"caretfloat/pkg/html"
)

// domContext holds the node-to-proxy tables of one engine. The same JS
// object is returned for the same *html.Node so === works in scripts.
type domContext struct {
	eng       *Engine
	vm        *goja.Runtime
	cache     map[*html.Node]*goja.Object
	nodes     map[*goja.Object]*html.Node
	listeners []jsListener
	document  *goja.Object
	window    *goja.Object
}

func newDOMContext(e *Engine) *domContext {
	return &domContext{
		eng:   e,
		vm:    e.vm,
		cache: make(map[*html.Node]*goja.Object),
		nodes: make(map[*goja.Object]*html.Node),
	}
}

func (e *Engine) registerDocument() {
	d := e.dom
	d.document = e.vm.NewDynamicObject(&documentAccessor{ctx: d})
	d.nodes[d.document] = e.page.Root()
	e.vm.Set("document", d.document)
}

// elementArray creates a JS array of Element proxies.
func (ctx *domContext) elementArray(nodes []*html.Node) goja.Value {
	arr := ctx.vm.NewArray()
	for i, n := range nodes {
		arr.Set(strconv.Itoa(i), ctx.elementProxy(n))
	}
	arr.Set("length", len(nodes))
	return arr
}

// elementProxy creates (or retrieves from cache) a JS object wrapping
// node. The document root maps to the document object.
func (ctx *domContext) elementProxy(node *html.Node) goja.Value {
	if node == nil {
		return goja.Null()
	}
	if node == ctx.eng.page.Root() {
		return ctx.document
	}
	if v, ok := ctx.cache[node]; ok {
		return v
	}
	v := ctx.vm.NewDynamicObject(&elementAccessor{ctx: ctx, node: node})
	ctx.cache[node] = v
	ctx.nodes[v] = node
	return v
}

// unwrapNode returns the node behind a proxy, or nil.
func (ctx *domContext) unwrapNode(val goja.Value) *html.Node {
	obj, ok := val.(*goja.Object)
	if !ok {
		return nil
	}
	return ctx.nodes[obj]
}

// export converts a script value to Go: proxies become *html.Node,
// plain objects map[string]any and arrays []any.
func (ctx *domContext) export(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return v.Export()
	}
	if n, ok := ctx.nodes[obj]; ok {
		return n
	}
	if _, ok := goja.AssertFunction(obj); ok {
		return obj.Export()
	}
	switch obj.ClassName() {
	case "Array":
		length := int(obj.Get("length").ToInteger())
		out := make([]any, length)
		for i := range out {
			out[i] = ctx.export(obj.Get(strconv.Itoa(i)))
		}
		return out
	case "Object":
		out := make(map[string]any)
		for _, k := range obj.Keys() {
			out[k] = ctx.export(obj.Get(k))
		}
		return out
	}
	return obj.Export()
}

// toValue is the inverse of export.
func (ctx *domContext) toValue(v any) goja.Value {
	switch x := v.(type) {
	case nil:
		return goja.Null()
	case *html.Node:
		return ctx.elementProxy(x)
	case geom.Rect:
		return ctx.rectObject(x)
	case map[string]any:
		obj := ctx.vm.NewObject()
		for k, val := range x {
			obj.Set(k, ctx.toValue(val))
		}
		return obj
	case []any:
		arr := ctx.vm.NewArray()
		for i, val := range x {
			arr.Set(strconv.Itoa(i), ctx.toValue(val))
		}
		return arr
	}
	return ctx.vm.ToValue(v)
}

// rectObject builds a DOMRect-like object.
func (ctx *domContext) rectObject(r geom.Rect) *goja.Object {
	obj := ctx.vm.NewObject()
	obj.Set("x", r.X)
	obj.Set("y", r.Y)
	obj.Set("width", r.Width)
	obj.Set("height", r.Height)
	obj.Set("left", r.Left())
	obj.Set("top", r.Top())
	obj.Set("right", r.Right())
	obj.Set("bottom", r.Bottom())
	return obj
}

// rectFrom reads x, y, width and height off a rect-like object.
func (ctx *domContext) rectFrom(v goja.Value) (geom.Rect, bool) {
	obj, ok := v.(*goja.Object)
	if !ok {
		return geom.Rect{}, false
	}
	var f [4]float64
	for i, key := range []string{"x", "y", "width", "height"} {
		val := obj.Get(key)
		if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
			return geom.Rect{}, false
		}
		f[i] = val.ToFloat()
	}
	return geom.Rect{X: f[0], Y: f[1], Width: f[2], Height: f[3]}, true
}

func arg(call goja.FunctionCall, i int) (goja.Value, bool) {
	v := call.Argument(i)
	return v, !goja.IsUndefined(v)
}

type documentAccessor struct {
	ctx *domContext
}

var documentKeys = []string{
	"nodeType", "body", "head", "documentElement", "activeElement",
	"getElementById", "getElementsByTagName", "getElementsByClassName",
	"createElement", "createTextNode", "querySelector", "querySelectorAll",
	"addEventListener", "removeEventListener", "dispatchEvent",
}

func (a *documentAccessor) Get(key string) goja.Value {
	ctx := a.ctx
	vm := ctx.vm
	doc := ctx.eng.page.Document()
	root := doc.Root

	switch key {
	case "nodeType":
		return vm.ToValue(9)
	case "body":
		return ctx.elementProxy(doc.Body())
	case "head":
		return ctx.elementProxy(root.FirstByTag("head"))
	case "documentElement":
		return ctx.elementProxy(root.FirstByTag("html"))
	case "activeElement":
		if n := ctx.eng.page.ActiveElement(); n != nil {
			return ctx.elementProxy(n)
		}
		return ctx.elementProxy(doc.Body())
	case "getElementById":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			id, ok := arg(call, 0)
			if !ok {
				return goja.Null()
			}
			return ctx.elementProxy(doc.GetElementByID(id.String()))
		})
	case "getElementsByTagName":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			tag, ok := arg(call, 0)
			if !ok {
				return ctx.elementArray(nil)
			}
			return ctx.elementArray(root.ElementsByTagName(strings.ToLower(tag.String())))
		})
	case "getElementsByClassName":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			cls, ok := arg(call, 0)
			if !ok {
				return ctx.elementArray(nil)
			}
			return ctx.elementArray(getElementsByClassName(root, cls.String()))
		})
	case "createElement":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			tag, ok := arg(call, 0)
			if !ok {
				panic(vm.NewTypeError("Failed to execute 'createElement' on 'Document': 1 argument required"))
			}
			return ctx.elementProxy(html.NewElement(tag.String()))
		})
	case "createTextNode":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return ctx.elementProxy(html.NewText(call.Argument(0).String()))
		})
	case "querySelector":
		return vm.ToValue(querySelectorFn(ctx, root))
	case "querySelectorAll":
		return vm.ToValue(querySelectorAllFn(ctx, root))
	case "addEventListener":
		return vm.ToValue(ctx.addEventListenerFn(root))
	case "removeEventListener":
		return vm.ToValue(ctx.removeEventListenerFn(root))
	case "dispatchEvent":
		return vm.ToValue(ctx.dispatchEventFn(root))
	}
	return goja.Undefined()
}

func (a *documentAccessor) Set(string, goja.Value) bool { return false }
func (a *documentAccessor) Has(key string) bool { return slices.Contains(documentKeys, key) }
func (a *documentAccessor) Delete(string) bool { return false }
func (a *documentAccessor) Keys() []string { return documentKeys }

// getElementsByClassName collects all element nodes that have the given class.
func getElementsByClassName(node *html.Node, cls string) []*html.Node {
	var result []*html.Node
	for _, child := range node.Children {
		if child.Type != html.ElementNode {
			continue
		}
		if child.HasClass(cls) {
			result = append(result, child)
		}
		result = append(result, getElementsByClassName(child, cls)...)
	}
	return result
}

// elementAccessor implements goja.DynamicObject to intercept property access
// on DOM element proxies.
type elementAccessor struct {
	ctx  *domContext
	node *html.Node
}

var elementKeys = []string{
	"tagName", "nodeName", "nodeType", "nodeValue", "id", "className",
	"textContent", "isConnected",
	"value", "selectionStart", "selectionEnd", "setSelectionRange",
	"focus", "blur", "getBoundingClientRect",
	"getAttribute", "setAttribute", "hasAttribute", "removeAttribute",
	"children", "childNodes", "parentElement", "parentNode", "style", "classList",
	"appendChild", "removeChild", "insertBefore",
	"remove", "append", "prepend", "before", "after", "replaceWith", "replaceChildren",
	"firstChild", "lastChild", "firstElementChild", "lastElementChild",
	"nextSibling", "previousSibling", "nextElementSibling", "previousElementSibling",
	"childElementCount",
	"querySelector", "querySelectorAll", "matches", "closest",
	"getElementsByTagName", "getElementsByClassName",
	"contains", "hasChildNodes",
	"addEventListener", "removeEventListener", "dispatchEvent",
}

func (e *elementAccessor) Get(key string) goja.Value {
	vm := e.ctx.vm
	pg := e.ctx.eng.page

	switch key {
	case "nodeType":
		if e.node.Type == html.TextNode {
			return vm.ToValue(3) // Node.TEXT_NODE
		}
		return vm.ToValue(1) // Node.ELEMENT_NODE
	case "nodeName":
		if e.node.Type == html.TextNode {
			return vm.ToValue("#text")
		}
		return vm.ToValue(strings.ToUpper(e.node.TagName))
	case "nodeValue":
		if e.node.Type == html.TextNode {
			return vm.ToValue(e.node.Text)
		}
		return goja.Null()
	case "tagName":
		if e.node.Type == html.TextNode {
			return goja.Undefined()
		}
		return vm.ToValue(strings.ToUpper(e.node.TagName))
	case "id":
		return vm.ToValue(e.node.ID())
	case "className":
		cls, _ := e.node.GetAttribute("class")
		return vm.ToValue(cls)
	case "textContent":
		return vm.ToValue(e.node.TextContent())
	case "isConnected":
		return vm.ToValue(e.node.IsConnected())

	// Form controls
	case "value":
		if !e.node.IsTextControl() {
			v, _ := e.node.GetAttribute("value")
			return vm.ToValue(v)
		}
		return vm.ToValue(e.node.Value())
	case "selectionStart":
		if !e.node.IsTextControl() {
			return goja.Null()
		}
		return vm.ToValue(e.node.SelectionStart())
	case "selectionEnd":
		if !e.node.IsTextControl() {
			return goja.Null()
		}
		return vm.ToValue(e.node.SelectionEnd())
	case "setSelectionRange":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 2 {
				panic(vm.NewTypeError("Failed to execute 'setSelectionRange': 2 arguments required"))
			}
			pg.SetSelection(e.node, int(call.Arguments[0].ToInteger()), int(call.Arguments[1].ToInteger()))
			return goja.Undefined()
		})
	case "focus":
		return vm.ToValue(func(goja.FunctionCall) goja.Value {
			pg.Focus(e.node)
			return goja.Undefined()
		})
	case "blur":
		return vm.ToValue(func(goja.FunctionCall) goja.Value {
			if pg.ActiveElement() == e.node {
				pg.Focus(nil)
			}
			return goja.Undefined()
		})
	case "getBoundingClientRect":
		return vm.ToValue(func(goja.FunctionCall) goja.Value {
			// Detached elements report an empty rectangle.
			r, _ := pg.BoundingClientRect(e.node)
			return e.ctx.rectObject(r)
		})

	// Attributes
	case "getAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			name, ok := arg(call, 0)
			if !ok {
				return goja.Null()
			}
			val, ok := e.node.GetAttribute(strings.ToLower(name.String()))
			if !ok {
				return goja.Null()
			}
			return vm.ToValue(val)
		})
	case "setAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 2 {
				panic(vm.NewTypeError("Failed to execute 'setAttribute': 2 arguments required"))
			}
			e.node.SetAttribute(strings.ToLower(call.Arguments[0].String()), call.Arguments[1].String())
			return goja.Undefined()
		})
	case "hasAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			name, ok := arg(call, 0)
			if !ok {
				return vm.ToValue(false)
			}
			_, has := e.node.GetAttribute(strings.ToLower(name.String()))
			return vm.ToValue(has)
		})
	case "removeAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if name, ok := arg(call, 0); ok {
				e.node.RemoveAttribute(strings.ToLower(name.String()))
			}
			return goja.Undefined()
		})

	// Tree
	case "children":
		var elChildren []*html.Node
		for _, child := range e.node.Children {
			if child.Type == html.ElementNode {
				elChildren = append(elChildren, child)
			}
		}
		return e.ctx.elementArray(elChildren)
	case "childNodes":
		return e.ctx.elementArray(e.node.Children)
	case "parentElement":
		if p := e.node.Parent; p != nil && p != pg.Root() {
			return e.ctx.elementProxy(p)
		}
		return goja.Null()
	case "parentNode":
		return e.ctx.elementProxy(e.node.Parent)
	case "style":
		return vm.NewDynamicObject(&styleAccessor{vm: vm, node: e.node})
	case "classList":
		return newClassListProxy(e.ctx, e.node)

	case "appendChild":
		return vm.ToValue(e.appendChildFn())
	case "removeChild":
		return vm.ToValue(e.removeChildFn())
	case "insertBefore":
		return vm.ToValue(e.insertBeforeFn())
	case "remove":
		return vm.ToValue(func(goja.FunctionCall) goja.Value {
			if e.node.Parent != nil {
				e.node.Parent.RemoveChild(e.node)
			}
			return goja.Undefined()
		})
	case "append":
		return vm.ToValue(e.appendFn())
	case "prepend":
		return vm.ToValue(e.prependFn())
	case "before":
		return vm.ToValue(e.beforeFn())
	case "after":
		return vm.ToValue(e.afterFn())
	case "replaceWith":
		return vm.ToValue(e.replaceWithFn())
	case "replaceChildren":
		return vm.ToValue(e.replaceChildrenFn())

	case "firstChild":
		return e.firstChild()
	case "lastChild":
		return e.lastChild()
	case "firstElementChild":
		return e.firstElementChild()
	case "lastElementChild":
		return e.lastElementChild()
	case "nextSibling":
		return e.sibling(+1, false)
	case "previousSibling":
		return e.sibling(-1, false)
	case "nextElementSibling":
		return e.sibling(+1, true)
	case "previousElementSibling":
		return e.sibling(-1, true)
	case "childElementCount":
		count := 0
		for _, c := range e.node.Children {
			if c.Type == html.ElementNode {
				count++
			}
		}
		return vm.ToValue(count)

	case "querySelector":
		return vm.ToValue(querySelectorFn(e.ctx, e.node))
	case "querySelectorAll":
		return vm.ToValue(querySelectorAllFn(e.ctx, e.node))
	case "matches":
		return vm.ToValue(matchesFn(e.ctx, e.node))
	case "closest":
		return vm.ToValue(closestFn(e.ctx, e.node))
	case "getElementsByTagName":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			tag, ok := arg(call, 0)
			if !ok {
				return e.ctx.elementArray(nil)
			}
			return e.ctx.elementArray(e.node.ElementsByTagName(strings.ToLower(tag.String())))
		})
	case "getElementsByClassName":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			cls, ok := arg(call, 0)
			if !ok {
				return e.ctx.elementArray(nil)
			}
			return e.ctx.elementArray(getElementsByClassName(e.node, cls.String()))
		})
	case "contains":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			other := e.ctx.unwrapNode(call.Argument(0))
			return vm.ToValue(other != nil && e.node.Contains(other))
		})
	case "hasChildNodes":
		return vm.ToValue(func(goja.FunctionCall) goja.Value {
			return vm.ToValue(len(e.node.Children) > 0)
		})

	case "addEventListener":
		return vm.ToValue(e.ctx.addEventListenerFn(e.node))
	case "removeEventListener":
		return vm.ToValue(e.ctx.removeEventListenerFn(e.node))
	case "dispatchEvent":
		return vm.ToValue(e.ctx.dispatchEventFn(e.node))
	}
	return goja.Undefined()
}

func (e *elementAccessor) Set(key string, val goja.Value) bool {
	switch key {
	case "textContent":
		e.node.SetTextContent(val.String())
		return true
	case "className":
		e.node.SetAttribute("class", val.String())
		return true
	case "id":
		e.node.SetAttribute("id", val.String())
		return true
	case "value":
		if e.node.IsTextControl() {
			e.node.SetValue(val.String())
		} else {
			e.node.SetAttribute("value", val.String())
		}
		return true
	case "nodeValue":
		if e.node.Type == html.TextNode {
			e.node.SetTextContent(val.String())
		}
		return true
	}
	return false
}

func (e *elementAccessor) Has(key string) bool {
	return slices.Contains(elementKeys, key)
}

func (e *elementAccessor) Delete(key string) bool {
	return false
}

func (e *elementAccessor) Keys() []string {
	return elementKeys
}

// styleAccessor maps camelCase property access to the kebab-case
// declarations of the inline style attribute. Assigning "" removes the
// declaration.
type styleAccessor struct {
	vm   *goja.Runtime
	node *html.Node
}

func (s *styleAccessor) Get(key string) goja.Value {
	switch key {
	case "cssText":
		attr, _ := s.node.GetAttribute("style")
		return s.vm.ToValue(attr)
	case "getPropertyValue":
		return s.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			v, _ := s.node.StyleProperty(call.Argument(0).String())
			return s.vm.ToValue(v)
		})
	case "setProperty":
		return s.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			s.write(call.Argument(0).String(), call.Argument(1).String())
			return goja.Undefined()
		})
	case "removeProperty":
		return s.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			prop := call.Argument(0).String()
			old, _ := s.node.StyleProperty(prop)
			s.node.RemoveStyleProperty(prop)
			return s.vm.ToValue(old)
		})
	}
	v, _ := s.node.StyleProperty(camelToKebab(key))
	return s.vm.ToValue(v)
}

func (s *styleAccessor) Set(key string, val goja.Value) bool {
	if key == "cssText" {
		s.node.SetAttribute("style", val.String())
		return true
	}
	s.write(camelToKebab(key), val.String())
	return true
}

func (s *styleAccessor) write(prop, value string) {
	if value == "" {
		s.node.RemoveStyleProperty(prop)
		return
	}
	s.node.SetStyleProperty(prop, value)
}

func (s *styleAccessor) Has(key string) bool {
	return true
}

func (s *styleAccessor) Delete(key string) bool {
	s.node.RemoveStyleProperty(camelToKebab(key))
	return true
}

func (s *styleAccessor) Keys() []string {
	attr, _ := s.node.GetAttribute("style")
	keys := make([]string, 0)
	for k := range css.ParseInlineStyle(attr).Properties {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// camelToKebab converts a JS camelCase property name to CSS kebab-case.
func camelToKebab(s string) string {
	if s == "cssFloat" {
		return "float"
	}
	var sb strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
