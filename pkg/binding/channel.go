package binding

import (
	"fmt"

	"github.com/vango-dev/bindery/pkg/dom"
)

// Channel reads and writes one element-side value. The channel for a
// binding is chosen when the binding is installed and never changes.
type Channel interface {
	Read() any
	Write(v any)
	String() string
}

// DirectChannel moves typed values through an element property.
type DirectChannel struct {
	el   *dom.Node
	name string
}

func (c DirectChannel) Read() any {
	return c.el.Property(c.name)
}

func (c DirectChannel) Write(v any) {
	c.el.SetProperty(c.name, v)
}

func (c DirectChannel) String() string {
	return "property:" + c.name
}

// AttributeChannel moves stringified values through an attribute. Writing
// nil removes the attribute; reading a missing attribute returns nil.
type AttributeChannel struct {
	el   *dom.Node
	name string
}

func (c AttributeChannel) Read() any {
	v, ok := c.el.LookupAttribute(c.name)
	if !ok {
		return nil
	}
	return v
}

func (c AttributeChannel) Write(v any) {
	if v == nil {
		c.el.RemoveAttribute(c.name)
		return
	}
	s := fmt.Sprint(v)
	if cur, ok := c.el.LookupAttribute(c.name); ok && cur == s {
		return
	}
	c.el.SetAttribute(c.name, s)
}

func (c AttributeChannel) String() string {
	return "attribute:" + c.name
}

// channelFor picks the property channel when el already has name as a
// property, and the attribute channel otherwise.
func channelFor(el *dom.Node, name string) Channel {
	if el.HasProperty(name) {
		return DirectChannel{el: el, name: name}
	}
	return AttributeChannel{el: el, name: name}
}

// initialView probes el for the starting value of name: property, then
// attribute, then the empty string.
func initialView(el *dom.Node, name string) any {
	if el.HasProperty(name) {
		return el.Property(name)
	}
	if v, ok := el.LookupAttribute(name); ok {
		return v
	}
	return ""
}
