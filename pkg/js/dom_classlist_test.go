package js

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassListAdd(t *testing.T) {
	p := mustRun(t, `<div id="el" class="a"></div>`, `
		var el = document.getElementById("el");
		el.classList.add("b", "c");
		el.classList.add("a");
		if (el.className !== "a b c") throw new Error("className: " + el.className);
	`)
	cls, _ := byID(p, "el").GetAttribute("class")
	assert.Equal(t, "a b c", cls)
}

func TestClassListRemove(t *testing.T) {
	mustRun(t, `<div id="el" class="a b c"></div>`, `
		var el = document.getElementById("el");
		el.classList.remove("b", "missing");
		if (el.className !== "a c") throw new Error("className: " + el.className);
	`)
}

func TestClassListToggle(t *testing.T) {
	mustRun(t, `<div id="el" class="a"></div>`, `
		var cl = document.getElementById("el").classList;
		if (cl.toggle("a") !== false) throw new Error("toggle off");
		if (cl.contains("a")) throw new Error("a still present");
		if (cl.toggle("a") !== true) throw new Error("toggle on");
		if (cl.toggle("b", true) !== true || !cl.contains("b")) throw new Error("force on");
		if (cl.toggle("b", true) !== true || cl.length !== 2) throw new Error("force on twice");
		if (cl.toggle("b", false) !== false || cl.contains("b")) throw new Error("force off");
		if (cl.toggle("z", false) !== false || cl.value !== "a") throw new Error("force off absent: " + cl.value);
	`)
}

func TestClassListReplaceAndItem(t *testing.T) {
	mustRun(t, `<div id="el" class="a b"></div>`, `
		var cl = document.getElementById("el").classList;
		if (!cl.replace("a", "x")) throw new Error("replace");
		if (cl.replace("nope", "y")) throw new Error("replace missing");
		if (cl.item(0) !== "x" || cl[1] !== "b") throw new Error("item: " + cl.item(0) + " " + cl[1]);
		if (cl.item(5) !== null) throw new Error("item out of range");
		if (cl.toString() !== "x b") throw new Error("toString");
	`)
}
