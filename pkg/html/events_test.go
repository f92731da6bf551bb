package html

import "testing"

func TestDispatchBubblesToAncestors(t *testing.T) {
	doc, _ := Parse(`<div id="outer"><input id="in"></div>`)
	outer, in := doc.GetElementByID("outer"), doc.GetElementByID("in")

	var order []string
	in.AddEventListener("keyup", func(e *Event) { order = append(order, "in") })
	outer.AddEventListener("keyup", func(e *Event) {
		order = append(order, "outer")
		if e.Target != in || e.CurrentTarget != outer {
			t.Error("unexpected target/currentTarget")
		}
	})

	in.DispatchEvent(NewEvent("keyup"))
	if len(order) != 2 || order[0] != "in" || order[1] != "outer" {
		t.Errorf("unexpected dispatch order %v", order)
	}
}

func TestRemoveEventListener(t *testing.T) {
	n := NewElement("input")
	calls := 0
	id := n.AddEventListener("keyup", func(*Event) { calls++ })
	if n.ListenerCount("keyup") != 1 {
		t.Fatal("expected one listener")
	}
	if !n.RemoveEventListener("keyup", id) {
		t.Fatal("expected removal to succeed")
	}
	n.DispatchEvent(NewEvent("keyup"))
	if calls != 0 || n.ListenerCount("keyup") != 0 {
		t.Errorf("listener still active: calls=%d count=%d", calls, n.ListenerCount("keyup"))
	}
	if n.RemoveEventListener("keyup", id) {
		t.Error("second removal should report false")
	}
}

func TestListenerRemovedDuringDispatchIsSkipped(t *testing.T) {
	n := NewElement("div")
	var second ListenerID
	calls := 0
	n.AddEventListener("x", func(*Event) { n.RemoveEventListener("x", second) })
	second = n.AddEventListener("x", func(*Event) { calls++ })
	n.DispatchEvent(NewEvent("x"))
	if calls != 0 {
		t.Error("removed listener should not run")
	}
}

func TestStopPropagation(t *testing.T) {
	doc, _ := Parse(`<div id="outer"><span id="in"></span></div>`)
	outer, in := doc.GetElementByID("outer"), doc.GetElementByID("in")
	reached := false
	in.AddEventListener("x", func(e *Event) { e.StopPropagation() })
	outer.AddEventListener("x", func(*Event) { reached = true })
	in.DispatchEvent(NewEvent("x"))
	if reached {
		t.Error("event should not reach the ancestor")
	}
}
