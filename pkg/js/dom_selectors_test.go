package js

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const selectorPage = `<body>
<form id="f" class="card">
  <div class="row"><input id="name" class="field"></div>
  <div class="row"><textarea id="notes" class="field"></textarea></div>
</form>
<p class="note">x</p>
</body>`

func TestQuerySelector(t *testing.T) {
	mustRun(t, selectorPage, `
		if (document.querySelector("#notes").id !== "notes") throw new Error("#id");
		if (document.querySelector(".row input").id !== "name") throw new Error("descendant");
		if (document.querySelector("form > .row > textarea").id !== "notes") throw new Error("child");
		if (document.querySelector("span") !== null) throw new Error("no match");
		var f = document.getElementById("f");
		if (f.querySelector(".field").id !== "name") throw new Error("scoped");
		if (f.querySelector("form") !== null) throw new Error("scope excludes the element itself");
	`)
}

func TestQuerySelectorAllGroups(t *testing.T) {
	mustRun(t, selectorPage, `
		var all = document.querySelectorAll("textarea, .note, input");
		if (all.length !== 3) throw new Error("length: " + all.length);
		if (all[0].id !== "name" || all[1].id !== "notes") throw new Error("document order");
		if (all[2].className !== "note") throw new Error("last");
	`)
}

func TestMatchesAndClosest(t *testing.T) {
	mustRun(t, selectorPage, `
		var input = document.getElementById("name");
		if (!input.matches("input.field")) throw new Error("matches");
		if (input.matches("textarea")) throw new Error("matches wrong tag");
		if (input.closest(".card").id !== "f") throw new Error("closest");
		if (input.closest(".field") !== input) throw new Error("closest includes self");
		if (input.closest("table") !== null) throw new Error("closest none");
	`)
}

func TestInvalidSelectorThrows(t *testing.T) {
	e, _, _ := newEngine(t, selectorPage)
	_, err := e.Run(`document.querySelector("div >")`)
	assert.ErrorContains(t, err, "querySelector")
	_, err = e.Run(`document.querySelectorAll()`)
	assert.ErrorContains(t, err, "1 argument required")
}
