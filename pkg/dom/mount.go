package dom

import (
	"fmt"

	"github.com/vango-dev/bindery/pkg/vdom"
)

// Build converts a VNode tree to detached nodes. Fragments expand to their
// children, so Build may return several nodes.
func (d *Document) Build(v *vdom.VNode) []*Node {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case vdom.KindText:
		return []*Node{d.CreateTextNode(v.Text)}
	case vdom.KindFragment:
		var out []*Node
		for _, c := range v.Children {
			out = append(out, d.Build(c)...)
		}
		return out
	case vdom.KindComponent:
		if v.Comp == nil {
			return nil
		}
		return d.Build(v.Comp.Render())
	}

	el := d.CreateElement(v.Tag)
	for _, a := range v.Attrs {
		switch val := a.Value.(type) {
		case bool:
			if val {
				el.attrs = append(el.attrs, Attr{Name: a.Key, Value: ""})
			}
		case nil:
		default:
			el.attrs = append(el.attrs, Attr{Name: a.Key, Value: fmt.Sprint(val)})
		}
	}
	for _, h := range v.Handlers {
		switch fn := h.Fn.(type) {
		case func(*Event):
			el.AddEventListener(h.Event, fn)
		case Listener:
			el.AddEventListener(h.Event, fn)
		case func():
			el.AddEventListener(h.Event, func(*Event) { fn() })
		}
	}
	for _, c := range v.Children {
		for _, n := range d.Build(c) {
			el.AppendChild(n)
		}
	}
	return []*Node{el}
}

// Mount builds v and appends the result to parent in one child-list record.
// It returns the first mounted node.
func Mount(parent *Node, v *vdom.VNode) *Node {
	nodes := parent.doc.Build(v)
	if len(nodes) == 0 {
		return nil
	}
	frag := parent.doc.CreateFragment()
	for _, n := range nodes {
		frag.AppendChild(n)
	}
	parent.AppendChild(frag)
	return nodes[0]
}
