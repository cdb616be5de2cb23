package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseHTML parses an HTML fragment in body context and returns detached
// top-level nodes. Comments and doctype nodes are dropped.
func ParseHTML(d *Document, r io.Reader) ([]*Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	parsed, err := html.ParseFragment(r, context)
	if err != nil {
		return nil, err
	}

	var out []*Node
	for _, p := range parsed {
		if n := d.convert(p); n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

// ParseHTMLString is ParseHTML over a string.
func ParseHTMLString(d *Document, s string) ([]*Node, error) {
	return ParseHTML(d, strings.NewReader(s))
}

// SetInnerHTML replaces n's children with the parsed fragment in a single
// child-list record.
func (n *Node) SetInnerHTML(s string) error {
	nodes, err := ParseHTMLString(n.doc, s)
	if err != nil {
		return err
	}
	n.ReplaceChildren(nodes...)
	return nil
}

func (d *Document) convert(p *html.Node) *Node {
	switch p.Type {
	case html.TextNode:
		return d.CreateTextNode(p.Data)
	case html.ElementNode:
		el := d.CreateElement(p.Data)
		for _, a := range p.Attr {
			name := a.Key
			if a.Namespace != "" {
				name = a.Namespace + ":" + a.Key
			}
			el.attrs = append(el.attrs, Attr{Name: name, Value: a.Val})
		}
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if child := d.convert(c); child != nil {
				child.parent = el
				el.children = append(el.children, child)
			}
		}
		return el
	default:
		return nil
	}
}
