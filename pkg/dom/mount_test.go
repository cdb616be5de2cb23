package dom

import (
	"testing"

	"github.com/vango-dev/bindery/pkg/vdom"
)

func TestMount(t *testing.T) {
	doc := NewDocument()
	r := &recorder{}
	observeAll(doc, doc.Body(), r)

	clicks := 0
	var seen *Event
	root := Mount(doc.Body(), vdom.Fragment(
		vdom.Div(
			vdom.Input(vdom.Type("checkbox"), vdom.Checked(true), vdom.Disabled(false), vdom.Model("isChecked")),
			vdom.Button(vdom.OnEvent("click", func() { clicks++ }), "Go"),
			vdom.Span(vdom.OnEvent("focus", func(ev *Event) { seen = ev })),
			vdom.Func(func() *vdom.VNode { return vdom.P("from component") }),
		),
		vdom.Text("tail"),
	))

	if root == nil || root.Tag() != "div" {
		t.Fatalf("Mount returned %v", root)
	}
	if err := doc.Flush(); err != nil {
		t.Fatal(err)
	}
	if len(r.batches) != 1 || len(r.batches[0]) != 1 || len(r.batches[0][0].AddedNodes) != 2 {
		t.Errorf("expected one record adding two nodes, got %+v", r.batches)
	}

	box := root.Children()[0]
	if !box.Checked() || box.HasAttribute("disabled") || box.GetAttribute("data-model") != "isChecked" {
		t.Errorf("checkbox = %s", box)
	}

	root.Children()[1].Dispatch("click")
	if clicks != 1 {
		t.Errorf("clicks = %d", clicks)
	}
	span := root.Children()[2]
	span.Dispatch("focus")
	if seen == nil || seen.Target != span {
		t.Error("func(*Event) handler not attached")
	}
	if root.Children()[3].TextContent() != "from component" {
		t.Error("component not rendered")
	}
	if Mount(doc.Body(), nil) != nil {
		t.Error("nil VNode should mount nothing")
	}
}
