package vdom

import "testing"

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindFragment, "Fragment"},
		{KindComponent, "Component"},
		{VKind(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("VKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestCreateElement(t *testing.T) {
	var nilNode *VNode
	node := Div(
		Class("a", "b"),
		nil,
		nilNode,
		[]Attr{ID("main"), Class("c")},
		OnEvent("click", func() {}),
		Span("hello"),
		[]*VNode{P(), nil},
		"tail",
	)

	if node.Kind != KindElement || node.Tag != "div" {
		t.Fatalf("got %v <%s>", node.Kind, node.Tag)
	}
	if len(node.Attrs) != 2 {
		t.Fatalf("Attrs = %v, want class and id", node.Attrs)
	}
	if v, _ := node.Attr("class"); v != "c" {
		t.Errorf("class = %v, want later value to replace earlier", v)
	}
	if len(node.Handlers) != 1 || node.Handlers[0].Event != "click" {
		t.Errorf("Handlers = %v", node.Handlers)
	}
	if len(node.Children) != 3 {
		t.Fatalf("Children = %d, want 3", len(node.Children))
	}
	if node.Children[2].Kind != KindText || node.Children[2].Text != "tail" {
		t.Errorf("string child = %+v", node.Children[2])
	}
}

func TestBindingMarkers(t *testing.T) {
	node := Input(Type("checkbox"), Model("isChecked"), BindTo("title", "tip"), On("focus", "handleFocus"))

	tests := []struct {
		key  string
		want string
	}{
		{"type", "checkbox"},
		{"data-model", "isChecked"},
		{"data-bind:title", "tip"},
		{"data-on:focus", "handleFocus"},
	}
	for _, tt := range tests {
		v, ok := node.Attr(tt.key)
		if !ok || v != tt.want {
			t.Errorf("Attr(%q) = %v, %v; want %q", tt.key, v, ok, tt.want)
		}
	}
}

func TestFragmentAndComponent(t *testing.T) {
	comp := Func(func() *VNode { return Span("x") })
	frag := Fragment(nil, "a", Div(), comp, []*VNode{P()})

	if len(frag.Children) != 4 {
		t.Fatalf("Children = %d, want 4", len(frag.Children))
	}
	if frag.Children[2].Kind != KindComponent {
		t.Errorf("expected component child, got %v", frag.Children[2].Kind)
	}
	if got := frag.Children[2].Comp.Render().Tag; got != "span" {
		t.Errorf("component rendered <%s>", got)
	}
}

func TestRangeAndIf(t *testing.T) {
	nodes := Range([]string{"A", "", "B"}, func(_ int, s string) *VNode {
		return If(s != "", Option(s))
	})
	if len(nodes) != 2 {
		t.Errorf("Range returned %d nodes, want 2", len(nodes))
	}
}
