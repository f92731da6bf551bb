package html

import "sync/atomic"

// Event is a DOM event dispatched through a node.
type Event struct {
	Type          string
	Target        *Node
	CurrentTarget *Node
	Bubbles       bool
	// Detail carries the payload of custom events.
	Detail any
	// Key is set for keyboard events.
	Key string

	stopped bool
}

// NewEvent creates a bubbling event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ, Bubbles: true}
}

// NewCustomEvent creates a bubbling event carrying detail.
func NewCustomEvent(typ string, detail any) *Event {
	return &Event{Type: typ, Bubbles: true, Detail: detail}
}

// StopPropagation prevents the event from reaching further ancestors.
func (e *Event) StopPropagation() {
	e.stopped = true
}

type Listener func(*Event)

// ListenerID identifies a registration so it can be removed again.
type ListenerID uint64

type listener struct {
	id ListenerID
	fn Listener
}

var nextListenerID atomic.Uint64

// AddEventListener registers fn for events of type typ on this node.
func (n *Node) AddEventListener(typ string, fn Listener) ListenerID {
	if n.listeners == nil {
		n.listeners = make(map[string][]listener)
	}
	id := ListenerID(nextListenerID.Add(1))
	n.listeners[typ] = append(n.listeners[typ], listener{id: id, fn: fn})
	return id
}

// RemoveEventListener removes a registration. It reports whether it was found.
func (n *Node) RemoveEventListener(typ string, id ListenerID) bool {
	list := n.listeners[typ]
	for i, l := range list {
		if l.id == id {
			n.listeners[typ] = append(list[:i:i], list[i+1:]...)
			if len(n.listeners[typ]) == 0 {
				delete(n.listeners, typ)
			}
			return true
		}
	}
	return false
}

// ListenerCount returns the number of listeners for typ on this node only.
func (n *Node) ListenerCount(typ string) int {
	return len(n.listeners[typ])
}

// DispatchEvent delivers ev to the listeners on n and, for bubbling events,
// on each ancestor. Listeners added during dispatch only see later events;
// listeners removed during dispatch are not called again.
func (n *Node) DispatchEvent(ev *Event) {
	ev.Target = n
	for cur := n; cur != nil; cur = cur.Parent {
		list := cur.listeners[ev.Type]
		if len(list) > 0 {
			snapshot := make([]listener, len(list))
			copy(snapshot, list)
			ev.CurrentTarget = cur
			for _, l := range snapshot {
				if cur.hasListener(ev.Type, l.id) {
					l.fn(ev)
				}
			}
		}
		if !ev.Bubbles || ev.stopped {
			return
		}
	}
}

func (n *Node) hasListener(typ string, id ListenerID) bool {
	for _, l := range n.listeners[typ] {
		if l.id == id {
			return true
		}
	}
	return false
}
