package dom

import (
	"iter"
	"strings"
)

// NodeType is the node type discriminator.
type NodeType uint8

const (
	ElementNode  NodeType = iota + 1 // <div>, <input>, etc.
	TextNode                         // Plain text node
	FragmentNode                     // Document fragment or shadow root
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case FragmentNode:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// Attr is a single attribute.
type Attr struct {
	Name  string
	Value string
}

// Node is an element, text node, or fragment.
type Node struct {
	Type NodeType

	doc      *Document
	tag      string
	data     string
	attrs    []Attr
	parent   *Node
	children []*Node

	// shadow is the element's shadow root; host is the shadow root's element.
	shadow *Node
	host   *Node

	// props holds expando properties set through SetProperty.
	props    map[string]any
	propHost PropertyHost

	// Form control state. A control reads its default from attributes until
	// the corresponding property is written.
	value         string
	dirtyValue    bool
	checked       bool
	dirtyChecked  bool
	selected      bool
	dirtySelected bool

	// unselected holds a select at selectedIndex -1 after an explicit
	// write, until its options change.
	unselected bool

	listeners map[string][]*listener
}

// Document returns the owning document.
func (n *Node) Document() *Document {
	return n.doc
}

// Tag returns the lowercase tag name of an element, or "" for other nodes.
func (n *Node) Tag() string {
	return n.tag
}

// IsElement reports whether n is an element.
func (n *Node) IsElement() bool {
	return n != nil && n.Type == ElementNode
}

// IsCustomElement reports whether n is an element with a custom tag name.
func (n *Node) IsCustomElement() bool {
	return n.IsElement() && strings.Contains(n.tag, "-")
}

// Data returns the text of a text node.
func (n *Node) Data() string {
	return n.data
}

// SetData replaces the text of a text node.
func (n *Node) SetData(s string) {
	n.data = s
}

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// ChildNodes returns a copy of the child list.
func (n *Node) ChildNodes() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Children returns the element children.
func (n *Node) Children() []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.IsElement() {
			out = append(out, c)
		}
	}
	return out
}

// FirstChild returns the first child node, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// AttachShadow creates the element's shadow root, or returns the existing one.
func (n *Node) AttachShadow() *Node {
	if n.shadow == nil {
		n.shadow = &Node{Type: FragmentNode, doc: n.doc, host: n}
	}
	return n.shadow
}

// ShadowRoot returns the element's shadow root, or nil.
func (n *Node) ShadowRoot() *Node {
	return n.shadow
}

// Host returns the element owning a shadow root, or nil.
func (n *Node) Host() *Node {
	return n.host
}

// Contains reports whether other is n or a descendant of n. Shadow
// boundaries are not crossed.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// IsConnectedTo reports whether n currently sits inside root's tree.
func (n *Node) IsConnectedTo(root *Node) bool {
	return root != nil && root.Contains(n)
}

// Descendants yields n and every node below it in pre-order.
func (n *Node) Descendants() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.walk(yield)
	}
}

func (n *Node) walk(yield func(*Node) bool) bool {
	if !yield(n) {
		return false
	}
	for _, c := range n.ChildNodes() {
		if !c.walk(yield) {
			return false
		}
	}
	return true
}

// QueryAll returns every element under n (inclusive) matching match.
func (n *Node) QueryAll(match func(*Node) bool) []*Node {
	var out []*Node
	for d := range n.Descendants() {
		if d.IsElement() && match(d) {
			out = append(out, d)
		}
	}
	return out
}

// Query returns the first element under n (inclusive) matching match.
func (n *Node) Query(match func(*Node) bool) *Node {
	for d := range n.Descendants() {
		if d.IsElement() && match(d) {
			return d
		}
	}
	return nil
}

// Closest returns the nearest inclusive ancestor element with the given tag.
func (n *Node) Closest(tag string) *Node {
	for p := n; p != nil; p = p.parent {
		if p.IsElement() && p.tag == tag {
			return p
		}
	}
	return nil
}

// =============================================================================
// Tree mutation
// =============================================================================

// AppendChild appends child to n and returns it. A fragment child is
// emptied into n. A child that already has a parent is moved.
func (n *Node) AppendChild(child *Node) *Node {
	return n.InsertBefore(child, nil)
}

// InsertBefore inserts child before ref, or appends it when ref is nil.
func (n *Node) InsertBefore(child, ref *Node) *Node {
	if child == nil {
		return nil
	}

	var nodes []*Node
	if child.Type == FragmentNode && child.host == nil {
		nodes = child.ChildNodes()
		for _, c := range nodes {
			child.removeChild(c, true)
		}
	} else {
		if child.parent != nil {
			child.parent.RemoveChild(child)
		}
		nodes = []*Node{child}
	}
	if len(nodes) == 0 {
		return child
	}

	at := len(n.children)
	if ref != nil {
		if i := n.indexOf(ref); i >= 0 {
			at = i
		}
	}

	updated := make([]*Node, 0, len(n.children)+len(nodes))
	updated = append(updated, n.children[:at]...)
	updated = append(updated, nodes...)
	updated = append(updated, n.children[at:]...)
	n.children = updated
	for _, c := range nodes {
		c.parent = n
	}
	n.optionsChanged()

	n.doc.enqueue(MutationRecord{
		Type:       ChildList,
		Target:     n,
		AddedNodes: nodes,
	})
	return child
}

// RemoveChild detaches child from n and returns it.
func (n *Node) RemoveChild(child *Node) *Node {
	return n.removeChild(child, false)
}

func (n *Node) removeChild(child *Node, silent bool) *Node {
	i := n.indexOf(child)
	if i < 0 {
		return nil
	}
	n.children = append(n.children[:i:i], n.children[i+1:]...)
	child.parent = nil
	n.optionsChanged()

	if !silent {
		n.doc.enqueue(MutationRecord{
			Type:         ChildList,
			Target:       n,
			RemovedNodes: []*Node{child},
		})
	}
	return child
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

// ReplaceChildren removes every child and appends nodes, producing a single
// child-list record.
func (n *Node) ReplaceChildren(nodes ...*Node) {
	removed := n.children
	for _, c := range removed {
		c.parent = nil
	}
	n.children = nil

	var added []*Node
	for _, c := range nodes {
		if c == nil {
			continue
		}
		if c.parent != nil {
			c.parent.RemoveChild(c)
		}
		c.parent = n
		added = append(added, c)
	}
	n.children = added
	n.optionsChanged()

	if len(removed) > 0 || len(added) > 0 {
		n.doc.enqueue(MutationRecord{
			Type:         ChildList,
			Target:       n,
			AddedNodes:   added,
			RemovedNodes: removed,
		})
	}
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.data
	}
	var b strings.Builder
	for d := range n.Descendants() {
		if d.Type == TextNode {
			b.WriteString(d.data)
		}
	}
	return b.String()
}

// SetTextContent replaces the children of n with a single text node.
func (n *Node) SetTextContent(s string) {
	if n.Type == TextNode {
		n.data = s
		return
	}
	if s == "" {
		n.ReplaceChildren()
		return
	}
	n.ReplaceChildren(n.doc.CreateTextNode(s))
}

// =============================================================================
// Attributes
// =============================================================================

// Attrs returns a copy of the attribute list in document order.
func (n *Node) Attrs() []Attr {
	out := make([]Attr, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// GetAttribute returns the attribute value, or "" when absent.
func (n *Node) GetAttribute(name string) string {
	v, _ := n.LookupAttribute(name)
	return v
}

// LookupAttribute returns the attribute value and whether it is present.
func (n *Node) LookupAttribute(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttribute reports whether the attribute is present.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.LookupAttribute(name)
	return ok
}

// SetAttribute sets an attribute. Every call produces an attribute record,
// even when the value is unchanged.
func (n *Node) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	old, existed := "", false
	for i, a := range n.attrs {
		if a.Name == name {
			old, existed = a.Value, true
			n.attrs[i].Value = value
			break
		}
	}
	if !existed {
		n.attrs = append(n.attrs, Attr{Name: name, Value: value})
	}

	n.doc.enqueue(MutationRecord{
		Type:          Attributes,
		Target:        n,
		AttributeName: name,
		OldValue:      old,
	})
}

// RemoveAttribute removes an attribute if present.
func (n *Node) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	for i, a := range n.attrs {
		if a.Name == name {
			n.attrs = append(n.attrs[:i:i], n.attrs[i+1:]...)
			n.doc.enqueue(MutationRecord{
				Type:          Attributes,
				Target:        n,
				AttributeName: name,
				OldValue:      a.Value,
			})
			return
		}
	}
}

// DataAttr is one data-* marker as exposed through Dataset.
type DataAttr struct {
	// Key is the dataset key: the attribute name without "data-", with
	// "-x" sequences camel-cased ("data-bind:text-content" → "bind:textContent").
	Key string

	// Name is the full attribute name.
	Name string

	Value string
}

// Dataset returns the element's data-* markers in attribute order.
func (n *Node) Dataset() []DataAttr {
	var out []DataAttr
	for _, a := range n.attrs {
		if !strings.HasPrefix(a.Name, "data-") {
			continue
		}
		out = append(out, DataAttr{
			Key:   datasetKey(a.Name[len("data-"):]),
			Name:  a.Name,
			Value: a.Value,
		})
	}
	return out
}

// datasetKey camel-cases every "-" followed by an ASCII lowercase letter.
func datasetKey(s string) string {
	if !strings.Contains(s, "-") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '-' && i+1 < len(s) && s[i+1] >= 'a' && s[i+1] <= 'z' {
			b.WriteByte(s[i+1] - 'a' + 'A')
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// String describes the node as its opening tag, for diagnostics.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Type {
	case TextNode:
		return "#text " + quoteText(n.data)
	case FragmentNode:
		if n.host != nil {
			return "#shadow-root(" + n.host.String() + ")"
		}
		return "#fragment"
	}

	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(n.tag)
	for _, a := range n.attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(strings.ReplaceAll(a.Value, `"`, "&quot;"))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	return b.String()
}

func quoteText(s string) string {
	const max = 24
	if len(s) > max {
		s = s[:max] + "…"
	}
	return `"` + s + `"`
}
