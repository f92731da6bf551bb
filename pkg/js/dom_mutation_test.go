package js

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func childIDs(t *testing.T, e *Engine, id string) string {
	t.Helper()
	v := run(t, e, `(function () {
		var out = [];
		var c = document.getElementById("`+id+`").childNodes;
		for (var i = 0; i < c.length; i++) out.push(c[i].nodeType === 3 ? c[i].nodeValue : c[i].id);
		return out.join(",");
	})()`)
	return v.(string)
}

func TestAppendAndRemoveChild(t *testing.T) {
	e, p, _ := newEngine(t, `<div id="root"></div>`)
	run(t, e, `
		var root = document.getElementById("root");
		var child = document.createElement("SPAN");
		child.id = "s";
		if (root.appendChild(child) !== child) throw new Error("appendChild return");
	`)
	s := byID(p, "s")
	require.NotNil(t, s)
	assert.Equal(t, "span", s.TagName)
	assert.Same(t, byID(p, "root"), s.Parent)

	run(t, e, `document.getElementById("root").removeChild(document.getElementById("s"))`)
	assert.Nil(t, byID(p, "s"))
	assert.Empty(t, byID(p, "root").Children)
}

func TestMutationErrors(t *testing.T) {
	e, _, _ := newEngine(t, `<div id="a"><div id="b"></div></div><div id="c"></div>`)
	_, err := e.Run(`document.getElementById("a").removeChild(document.getElementById("c"))`)
	assert.ErrorContains(t, err, "not a child")
	_, err = e.Run(`document.getElementById("b").appendChild(document.getElementById("a"))`)
	assert.ErrorContains(t, err, "contains the parent")
	_, err = e.Run(`document.getElementById("a").appendChild("text")`)
	assert.ErrorContains(t, err, "not a Node")
}

func TestInsertBeforeAndSiblingsMutations(t *testing.T) {
	e, _, _ := newEngine(t, `<div id="root"><i id="x"></i></div>`)
	run(t, e, `
		var root = document.getElementById("root");
		var x = document.getElementById("x");
		function el(id) { var n = document.createElement("b"); n.id = id; return n; }
		root.insertBefore(el("a"), x);
		root.insertBefore(el("z"), null);
		x.before(el("w"));
		x.after(el("y"), "t");
		root.prepend("s");
		root.append("u");
	`)
	assert.Equal(t, "s,a,w,x,y,t,z,u", childIDs(t, e, "root"))

	run(t, e, `document.getElementById("x").replaceWith("X")`)
	assert.Equal(t, "s,a,w,X,y,t,z,u", childIDs(t, e, "root"))

	run(t, e, `document.getElementById("y").remove()`)
	assert.Equal(t, "s,a,w,X,t,z,u", childIDs(t, e, "root"))

	run(t, e, `document.getElementById("root").replaceChildren("only")`)
	assert.Equal(t, "only", childIDs(t, e, "root"))
}

func TestTextContentAndAttributes(t *testing.T) {
	e, p, _ := newEngine(t, `<div id="el" data-k="v"><b>old</b></div>`)
	run(t, e, `
		var el = document.getElementById("el");
		if (el.getAttribute("data-k") !== "v") throw new Error("getAttribute");
		if (el.getAttribute("missing") !== null) throw new Error("missing attribute");
		el.setAttribute("data-k", "w");
		el.removeAttribute("data-k");
		if (el.hasAttribute("data-k")) throw new Error("removeAttribute");
		el.setAttribute("title", "hi");
		el.textContent = "new";
	`)
	el := byID(p, "el")
	assert.Equal(t, "new", el.TextContent())
	title, _ := el.GetAttribute("title")
	assert.Equal(t, "hi", title)
	_, has := el.GetAttribute("data-k")
	assert.False(t, has)
}

func TestStyleProxy(t *testing.T) {
	e, p, _ := newEngine(t, `<div id="el" style="color: red"></div>`)
	el := byID(p, "el")

	run(t, e, `
		var s = document.getElementById("el").style;
		if (s.color !== "red") throw new Error("color: " + s.color);
		s.display = "none";
		s.backgroundColor = "blue";
	`)
	v, _ := el.StyleProperty("display")
	assert.Equal(t, "none", v)
	v, _ = el.StyleProperty("background-color")
	assert.Equal(t, "blue", v)

	run(t, e, `
		var s = document.getElementById("el").style;
		s.display = "";
		s.setProperty("left", "4px");
		if (s.getPropertyValue("left") !== "4px") throw new Error("getPropertyValue");
		if (s.removeProperty("color") !== "red") throw new Error("removeProperty");
	`)
	_, ok := el.StyleProperty("display")
	assert.False(t, ok, "assigning an empty string removes the declaration")
	_, ok = el.StyleProperty("color")
	assert.False(t, ok)
	v, _ = el.StyleProperty("left")
	assert.Equal(t, "4px", v)
}

func TestCamelToKebab(t *testing.T) {
	assert.Equal(t, "background-color", camelToKebab("backgroundColor"))
	assert.Equal(t, "float", camelToKebab("cssFloat"))
	assert.Equal(t, "top", camelToKebab("top"))
}
