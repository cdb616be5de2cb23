package dom

import (
	"testing"
)

func TestTreeMutation(t *testing.T) {
	doc := NewDocument()
	body := doc.Body()
	a := doc.CreateElement("DIV")
	b := doc.CreateElement("span")
	c := doc.CreateTextNode("hi")

	body.AppendChild(a)
	body.AppendChild(c)
	body.InsertBefore(b, c)

	kids := body.ChildNodes()
	if len(kids) != 3 || kids[0] != a || kids[1] != b || kids[2] != c {
		t.Fatalf("children = %v", kids)
	}
	if a.Tag() != "div" {
		t.Errorf("Tag() = %q, want lowercase div", a.Tag())
	}
	if len(body.Children()) != 2 {
		t.Errorf("Children() = %d elements, want 2", len(body.Children()))
	}

	// Moving a node detaches it from its old parent.
	a.AppendChild(b)
	if b.Parent() != a || len(body.ChildNodes()) != 2 {
		t.Errorf("move failed: parent=%v body=%v", b.Parent(), body.ChildNodes())
	}
	if !body.Contains(b) || !b.IsConnectedTo(body) {
		t.Error("body should contain moved node")
	}

	b.Remove()
	if b.Parent() != nil || a.Contains(b) {
		t.Error("Remove should detach the node")
	}
	if body.RemoveChild(b) != nil {
		t.Error("RemoveChild of a non-child should return nil")
	}
}

func TestFragmentInsertion(t *testing.T) {
	doc := NewDocument()
	frag := doc.CreateFragment()
	frag.AppendChild(doc.CreateElement("a"))
	frag.AppendChild(doc.CreateElement("b"))

	doc.Body().AppendChild(frag)
	if len(frag.ChildNodes()) != 0 {
		t.Error("fragment should be emptied")
	}
	if got := len(doc.Body().Children()); got != 2 {
		t.Errorf("body children = %d, want 2", got)
	}
}

func TestAttributes(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("input")
	el.SetAttribute("Type", "text")
	el.SetAttribute("data-model", "value")
	el.SetAttribute("type", "checkbox")

	if got := el.GetAttribute("type"); got != "checkbox" {
		t.Errorf("type = %q", got)
	}
	if len(el.Attrs()) != 2 {
		t.Errorf("Attrs = %v, want 2 entries", el.Attrs())
	}
	if !el.HasAttribute("DATA-MODEL") {
		t.Error("attribute lookup should be case-insensitive")
	}
	el.RemoveAttribute("data-model")
	if el.HasAttribute("data-model") {
		t.Error("RemoveAttribute failed")
	}
	if _, ok := el.LookupAttribute("missing"); ok {
		t.Error("missing attribute reported present")
	}
}

func TestDataset(t *testing.T) {
	doc := NewDocument()
	el := doc.Element("input", []Attr{
		{Name: "id", Value: "x"},
		{Name: "data-model", Value: "value"},
		{Name: "data-bind:text-content", Value: "label"},
		{Name: "data-on:click", Value: "handleClick"},
		{Name: "data-x-1", Value: "raw"},
	})

	ds := el.Dataset()
	want := []string{"model", "bind:textContent", "on:click", "x-1"}
	if len(ds) != len(want) {
		t.Fatalf("Dataset = %v", ds)
	}
	for i, k := range want {
		if ds[i].Key != k {
			t.Errorf("Dataset[%d].Key = %q, want %q", i, ds[i].Key, k)
		}
	}
	if ds[2].Name != "data-on:click" || ds[2].Value != "handleClick" {
		t.Errorf("Dataset[2] = %+v", ds[2])
	}
}

func TestDescendantsAndQuery(t *testing.T) {
	doc := NewDocument()
	root := doc.Element("div", nil,
		doc.Element("p", nil, doc.CreateTextNode("one")),
		doc.Element("section", nil,
			doc.Element("input", []Attr{{Name: "data-testid", Value: "in"}}),
		),
	)

	var tags []string
	for n := range root.Descendants() {
		if n.IsElement() {
			tags = append(tags, n.Tag())
		}
	}
	if len(tags) != 4 || tags[0] != "div" || tags[3] != "input" {
		t.Errorf("pre-order tags = %v", tags)
	}

	in := root.Query(func(n *Node) bool { return n.GetAttribute("data-testid") == "in" })
	if in == nil || in.Tag() != "input" {
		t.Fatalf("Query = %v", in)
	}
	if in.Closest("section") == nil || in.Closest("form") != nil {
		t.Error("Closest returned wrong ancestor")
	}
	if got := root.TextContent(); got != "one" {
		t.Errorf("TextContent = %q", got)
	}
}

func TestShadowRoot(t *testing.T) {
	doc := NewDocument()
	host := doc.CreateElement("my-widget")
	shadow := host.AttachShadow()

	if host.AttachShadow() != shadow || host.ShadowRoot() != shadow || shadow.Host() != host {
		t.Fatal("shadow root wiring broken")
	}
	if !host.IsCustomElement() {
		t.Error("my-widget should be a custom element")
	}
	inner := shadow.AppendChild(doc.CreateElement("input"))
	if host.Contains(inner) {
		t.Error("host must not contain shadow content")
	}
}

func TestString(t *testing.T) {
	doc := NewDocument()
	el := doc.Element("input", []Attr{{Name: "type", Value: "text"}, {Name: "title", Value: `a "b"`}})
	if got := el.String(); got != `<input type="text" title="a &quot;b&quot;">` {
		t.Errorf("String() = %s", got)
	}
	if got := doc.CreateTextNode("hello").String(); got != `#text "hello"` {
		t.Errorf("text String() = %s", got)
	}
	var nilNode *Node
	if nilNode.String() != "<nil>" {
		t.Error("nil node String")
	}
}

func TestSetTextContent(t *testing.T) {
	doc := NewDocument()
	el := doc.Element("p", nil, doc.CreateElement("b"))
	el.SetTextContent("plain")
	if len(el.ChildNodes()) != 1 || el.TextContent() != "plain" {
		t.Errorf("children = %v", el.ChildNodes())
	}
	el.SetTextContent("")
	if len(el.ChildNodes()) != 0 {
		t.Error("empty text should clear children")
	}
}
