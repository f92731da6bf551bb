package js

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"caretfloat/pkg/frame"
	"caretfloat/pkg/html"
	"caretfloat/pkg/page"
)

func newEngine(t *testing.T, markup string, opts ...Option) (*Engine, *page.Page, *frame.Loop) {
	t.Helper()
	p, err := page.Load(markup)
	require.NoError(t, err)
	loop := frame.New()
	return New(p, loop, opts...), p, loop
}

// mustRun runs a script that throws when one of its checks fails.
func mustRun(t *testing.T, markup, script string) *page.Page {
	t.Helper()
	e, p, _ := newEngine(t, markup)
	if _, err := e.Run(script); err != nil {
		t.Fatal(err)
	}
	return p
}

func run(t *testing.T, e *Engine, src string) any {
	t.Helper()
	v, err := e.Run(src)
	require.NoError(t, err)
	return v
}

func byID(p *page.Page, id string) *html.Node {
	return p.Document().GetElementByID(id)
}

func TestGetElementById(t *testing.T) {
	mustRun(t, `<div id="foo">hello</div>`, `
		var el = document.getElementById("foo");
		if (el === null) throw new Error("element not found");
		if (el.id !== "foo") throw new Error("wrong id: " + el.id);
		if (el.tagName !== "DIV") throw new Error("wrong tagName: " + el.tagName);
		if (el !== document.getElementById("foo")) throw new Error("proxy identity lost");
		if (document.getElementById("nonexistent") !== null) throw new Error("expected null");
	`)
}

func TestGetElementsByTagNameAndClassName(t *testing.T) {
	mustRun(t, `<p class="a">one</p><p>two</p><div class="a b">three</div>`, `
		var ps = document.getElementsByTagName("P");
		if (ps.length !== 2) throw new Error("expected 2 p tags, got: " + ps.length);
		var as = document.getElementsByClassName("a");
		if (as.length !== 2) throw new Error("expected 2 .a, got: " + as.length);
		if (as[1].textContent !== "three") throw new Error("order: " + as[1].textContent);
	`)
}

func TestDocumentProperties(t *testing.T) {
	mustRun(t, `<html><head></head><body><p id="p">x</p></body></html>`, `
		if (document.nodeType !== 9) throw new Error("nodeType");
		if (document.body.tagName !== "BODY") throw new Error("body");
		if (document.head.tagName !== "HEAD") throw new Error("head");
		if (document.documentElement.tagName !== "HTML") throw new Error("documentElement");
		if (document.activeElement !== document.body) throw new Error("activeElement defaults to body");
		if (document.body.parentNode !== document.documentElement) throw new Error("parentNode");
	`)
}

func TestExecuteRunsScriptsInOrder(t *testing.T) {
	e, p, _ := newEngine(t, `<div id="out"></div>
<script>document.getElementById("out").textContent = "a";</script>
<script>var out = document.getElementById("out"); out.textContent = out.textContent + "b";</script>`)
	require.NoError(t, e.Execute())
	assert.Equal(t, "ab", byID(p, "out").TextContent())
}

func TestExecuteReportsFailingScript(t *testing.T) {
	e, _, _ := newEngine(t, `<script>var ok = 1;</script><script>throw new Error("boom")</script>`)
	err := e.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "script 1")
	assert.Contains(t, err.Error(), "boom")
}

func TestRunExportsValues(t *testing.T) {
	e, p, _ := newEngine(t, `<body><p id="p">x</p></body>`)

	got := run(t, e, `[1, "a", {b: true, n: null}, document.getElementById("p")]`)
	list, ok := got.([]any)
	require.True(t, ok, "%T", got)
	require.Len(t, list, 4)
	assert.EqualValues(t, 1, list[0])
	assert.Equal(t, "a", list[1])
	assert.Equal(t, map[string]any{"b": true, "n": nil}, list[2])
	assert.Same(t, byID(p, "p"), list[3])

	assert.Nil(t, run(t, e, `undefined`))
}

func TestConsoleLogsThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e, _, _ := newEngine(t, `<div></div>`, WithLogger(zap.New(core)))

	run(t, e, `console.log("hello", 1); console.warn("careful"); console.error("bad")`)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "hello 1", entries[0].Message)
	assert.Equal(t, "js", entries[0].LoggerName)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}
