package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/bindery/pkg/dom"
)

func TestDataProperties(t *testing.T) {
	m := New("form")
	if m.Has("value") || m.Get("value") != nil {
		t.Fatal("fresh model should be empty")
	}

	var seen []any
	unwatch := m.Watch("value", func(v any) { seen = append(seen, v) })

	m.Set("value", "a")
	m.Set("value", "b")
	if !m.HasOwnData("value") || m.Get("value") != "b" {
		t.Errorf("value = %v", m.Get("value"))
	}

	unwatch()
	unwatch()
	m.Set("value", "c")

	if diff := cmp.Diff([]any{"a", "b"}, seen); diff != "" {
		t.Errorf("watch mismatch (-want +got):\n%s", diff)
	}
}

func TestDefineAccessor(t *testing.T) {
	m := New("form")
	m.Set("value", "seed")

	var store any
	m.Define("value", Accessor{
		Get: func() any { return store },
		Set: func(v any) { store = v; m.Notify("value") },
	})
	if m.HasOwnData("value") || !m.HasAccessor("value") || !m.Has("value") {
		t.Error("Define should replace the data property")
	}

	notified := 0
	m.Watch("value", func(v any) {
		notified++
		if v != "x" {
			t.Errorf("watcher saw %v", v)
		}
	})
	m.Set("value", "x")
	if store != "x" || m.Get("value") != "x" || notified != 1 {
		t.Errorf("store=%v notified=%d", store, notified)
	}
}

func TestHandlers(t *testing.T) {
	m := New("counter")
	count := 0
	m.Method("inc", func() { count++ })
	m.Method("add", func(ev *dom.Event) { count += ev.Detail.(int) })
	m.Set("reset", func(*dom.Event) { count = 0 })
	m.Set("label", "not callable")

	tests := []struct {
		name string
		ok   bool
	}{
		{"inc", true},
		{"add", true},
		{"reset", true},
		{"label", false},
		{"missing", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := m.Handler(tt.name); ok != tt.ok {
				t.Errorf("Handler(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			}
		})
	}

	inc, _ := m.Handler("inc")
	inc(nil)
	add, _ := m.Handler("add")
	add(&dom.Event{Detail: 5})
	if count != 6 {
		t.Errorf("count = %d, want 6", count)
	}
	reset, _ := m.Handler("reset")
	reset(nil)
	if count != 0 {
		t.Errorf("count = %d after reset", count)
	}
}

func TestMethodRejectsNonFunc(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	New("m").Method("bad", 42)
}

func TestKeysAndPropertyHost(t *testing.T) {
	m := New("widget")
	m.Set("b", 1)
	m.Define("a", Accessor{Get: func() any { return "acc" }})
	m.Method("click", func() {})

	if diff := cmp.Diff([]string{"a", "b"}, m.Keys()); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}

	var host dom.PropertyHost = m
	if !host.HasProperty("a") || host.HasProperty("click") {
		t.Error("methods are not properties")
	}
	host.SetProperty("b", 2)
	if host.Property("b") != 2 || host.Property("a") != "acc" {
		t.Error("PropertyHost should forward to Get/Set")
	}
	if m.String() != "model(widget)" {
		t.Errorf("String() = %q", m.String())
	}
}

func TestCustomElementHost(t *testing.T) {
	doc := dom.NewDocument()
	el := doc.CreateElement("x-counter")
	m := New("counter")
	m.Set("value", 3)
	el.SetPropertyHost(m)

	if !el.HasProperty("value") || el.Property("value") != 3 {
		t.Fatal("element should read through to the model")
	}
	el.SetProperty("value", 4)
	if m.Get("value") != 4 {
		t.Errorf("model value = %v", m.Get("value"))
	}
}
