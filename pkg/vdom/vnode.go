package vdom

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindFragment               // Grouping without wrapper
	KindComponent              // Nested component
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// VNode is the virtual node.
type VNode struct {
	Kind     VKind     // Node type
	Tag      string    // Element tag name (e.g., "div")
	Attrs    []Attr    // Attributes in declaration order
	Handlers []Handler // Event handlers attached on mount
	Children []*VNode  // Child nodes
	Text     string    // For KindText
	Comp     Component // For KindComponent
}

// Attr represents a single attribute. A Value of false omits the attribute;
// true renders it with an empty value.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Handler is an event listener attached directly to the mounted element.
type Handler struct {
	Event string // "click", "input", etc.
	Fn    any    // func() or func(*dom.Event)
}

// Component is anything that can render to a VNode.
type Component interface {
	Render() *VNode
}

// FuncComponent wraps a render function.
type FuncComponent struct {
	render func() *VNode
}

// Render implements Component.
func (f *FuncComponent) Render() *VNode {
	return f.render()
}

// Func creates a component from a render function.
func Func(render func() *VNode) Component {
	return &FuncComponent{render: render}
}

// Attr returns the value of the named attribute and whether it is set.
func (v *VNode) Attr(key string) (any, bool) {
	for _, a := range v.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return nil, false
}
