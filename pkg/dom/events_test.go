package dom

import "testing"

func TestDispatchBubbles(t *testing.T) {
	doc := NewDocument()
	outer := doc.CreateElement("div")
	inner := outer.AppendChild(doc.CreateElement("button"))
	doc.Body().AppendChild(outer)

	var order []string
	inner.AddEventListener("click", func(ev *Event) {
		order = append(order, "inner")
		if ev.Target != inner || ev.CurrentTarget != inner {
			t.Error("wrong targets at inner")
		}
	})
	outer.AddEventListener("click", func(ev *Event) {
		order = append(order, "outer")
		if ev.Target != inner || ev.CurrentTarget != outer {
			t.Error("wrong targets at outer")
		}
	})

	inner.Dispatch("click")
	if len(order) != 2 || order[0] != "inner" || order[1] != "outer" {
		t.Errorf("order = %v", order)
	}
}

func TestStopPropagationAndRemove(t *testing.T) {
	doc := NewDocument()
	outer := doc.CreateElement("div")
	inner := outer.AppendChild(doc.CreateElement("span"))

	outerCalls := 0
	outer.AddEventListener("input", func(*Event) { outerCalls++ })
	remove := inner.AddEventListener("input", func(ev *Event) { ev.StopPropagation() })

	inner.Dispatch("input")
	if outerCalls != 0 {
		t.Error("StopPropagation should stop bubbling")
	}

	remove()
	remove()
	if inner.ListenerCount("input") != 0 {
		t.Errorf("ListenerCount = %d after remove", inner.ListenerCount("input"))
	}
	inner.Dispatch("input")
	if outerCalls != 1 {
		t.Errorf("outerCalls = %d, want 1", outerCalls)
	}
}

func TestNonBubblingAndShadowBoundary(t *testing.T) {
	doc := NewDocument()
	host := doc.CreateElement("my-el")
	doc.Body().AppendChild(host)
	inner := host.AttachShadow().AppendChild(doc.CreateElement("input"))

	hostCalls, bodyCalls := 0, 0
	host.AddEventListener("change", func(*Event) { hostCalls++ })
	doc.Body().AddEventListener("focus", func(*Event) { bodyCalls++ })

	inner.Dispatch("change")
	if hostCalls != 0 {
		t.Error("events must not cross the shadow root")
	}

	ev := &Event{Type: "focus"}
	host.DispatchEvent(ev)
	if bodyCalls != 0 {
		t.Error("non-bubbling event reached the body")
	}
	if ev.CurrentTarget != nil {
		t.Error("CurrentTarget should reset after dispatch")
	}
}

func TestListenerAddedDuringDispatch(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")
	late := 0
	el.AddEventListener("x", func(*Event) {
		el.AddEventListener("x", func(*Event) { late++ })
	})
	el.Dispatch("x")
	if late != 0 {
		t.Error("listener added during dispatch should not run in that dispatch")
	}
	ev := el.Dispatch("x")
	if late != 1 || ev.DefaultPrevented() {
		t.Errorf("late = %d", late)
	}
}
