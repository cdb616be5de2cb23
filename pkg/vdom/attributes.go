package vdom

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// TestID sets data-testid, the hook used by test queries.
func TestID(id string) Attr { return Data("testid", id) }

// Form attributes

// Type sets the type attribute of an input or button.
func Type(t string) Attr { return attr("type", t) }

// Value sets the value attribute.
func Value(v string) Attr { return attr("value", v) }

// Placeholder sets the placeholder attribute.
func Placeholder(p string) Attr { return attr("placeholder", p) }

// Checked sets the checked boolean attribute.
func Checked(on bool) Attr { return attr("checked", on) }

// Selected sets the selected boolean attribute of an option.
func Selected(on bool) Attr { return attr("selected", on) }

// Multiple sets the multiple boolean attribute of a select.
func Multiple(on bool) Attr { return attr("multiple", on) }

// Disabled sets the disabled boolean attribute.
func Disabled(on bool) Attr { return attr("disabled", on) }

// Binding markers

// Model declares a two-way binding of the element's natural value to the
// model property prop (data-model="prop").
func Model(prop string) Attr { return Data("model", prop) }

// BindTo declares a one-way binding from model property prop to the
// element's view property (data-bind:view="prop").
func BindTo(view, prop string) Attr { return Data("bind:"+view, prop) }

// On declares that the view event invokes the model handler
// (data-on:event="handler").
func On(event, handler string) Attr { return Data("on:"+event, handler) }
