package dom

import "sync/atomic"

var lastListenerID atomic.Uint64

// Event is a dispatched event.
type Event struct {
	Type string

	// Target is the node the event was dispatched on.
	Target *Node

	// CurrentTarget is the node whose listener is running.
	CurrentTarget *Node

	// Bubbles controls propagation to ancestors.
	Bubbles bool

	// Detail carries event-specific data (custom events).
	Detail any

	stopped          bool
	defaultPrevented bool
}

// NewEvent creates a bubbling event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ, Bubbles: true}
}

// StopPropagation prevents ancestors from seeing the event.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// PreventDefault marks the event as handled.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// Listener handles an event.
type Listener func(*Event)

type listener struct {
	id uint64
	fn Listener
}

// AddEventListener registers fn for events of type typ on n and returns a
// function that removes it.
func (n *Node) AddEventListener(typ string, fn Listener) (remove func()) {
	if fn == nil {
		return func() {}
	}
	if n.listeners == nil {
		n.listeners = make(map[string][]*listener)
	}
	l := &listener{id: lastListenerID.Add(1), fn: fn}
	n.listeners[typ] = append(n.listeners[typ], l)

	return func() {
		ls := n.listeners[typ]
		for i, x := range ls {
			if x.id == l.id {
				n.listeners[typ] = append(ls[:i:i], ls[i+1:]...)
				return
			}
		}
	}
}

// ListenerCount returns the number of listeners registered for typ.
func (n *Node) ListenerCount(typ string) int {
	return len(n.listeners[typ])
}

// DispatchEvent runs listeners on n, then on each ancestor while the event
// bubbles. Propagation stops at a shadow root.
func (n *Node) DispatchEvent(ev *Event) {
	ev.Target = n
	for cur := n; cur != nil; cur = cur.parent {
		cur.invoke(ev)
		if ev.stopped || !ev.Bubbles || cur.host != nil {
			break
		}
	}
	ev.CurrentTarget = nil
}

// Dispatch is shorthand for DispatchEvent(NewEvent(typ)).
func (n *Node) Dispatch(typ string) *Event {
	ev := NewEvent(typ)
	n.DispatchEvent(ev)
	return ev
}

func (n *Node) invoke(ev *Event) {
	ls := n.listeners[ev.Type]
	if len(ls) == 0 {
		return
	}
	snapshot := make([]*listener, len(ls))
	copy(snapshot, ls)

	ev.CurrentTarget = n
	for _, l := range snapshot {
		l.fn(ev)
	}
}
