package binding

import (
	"fmt"

	"github.com/vango-dev/bindery/pkg/dom"
)

// Bindable names the property holding an element's value and the event
// fired when the user changes it.
type Bindable struct {
	Property string
	Event    string
}

var (
	checkable = Bindable{Property: "checked", Event: "change"}
	dated     = Bindable{Property: "valueAsDate", Event: "change"}
	numeric   = Bindable{Property: "valueAsNumber", Event: "input"}
	textual   = Bindable{Property: "value", Event: "input"}
	indexed   = Bindable{Property: "selectedIndex", Event: "change"}
	hosted    = Bindable{Property: "value", Event: "change"}
)

// inputBindables maps input types to their bindable. Types absent from the
// map (button, reset, submit, image, file) have no bound value.
var inputBindables = map[string]Bindable{
	"radio":          checkable,
	"checkbox":       checkable,
	"week":           dated,
	"month":          dated,
	"date":           dated,
	"datetime":       dated,
	"datetime-local": dated,
	"range":          numeric,
	"number":         numeric,
	"search":         textual,
	"email":          textual,
	"color":          textual,
	"password":       textual,
	"tel":            textual,
	"time":           textual,
	"url":            textual,
	"text":           textual,
	"hidden":         textual,
}

// Resolve returns the bindable property and change event for el.
func Resolve(el *dom.Node) (Bindable, error) {
	if el == nil || !el.IsElement() {
		return Bindable{}, unsupported(el, "not an element")
	}
	switch el.Tag() {
	case "input":
		t := el.InputType()
		if b, ok := inputBindables[t]; ok {
			return b, nil
		}
		return Bindable{}, unsupported(el, fmt.Sprintf(`<input type="%s"> does not support data-model`, t))
	case "textarea":
		return textual, nil
	case "select":
		return indexed, nil
	}
	if el.IsCustomElement() && el.PropertyHost() != nil {
		return hosted, nil
	}
	return Bindable{}, unsupported(el, fmt.Sprintf("<%s> does not support data-model", el.Tag()))
}
