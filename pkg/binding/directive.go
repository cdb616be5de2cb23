package binding

import (
	"fmt"
	"iter"
	"strings"

	"github.com/vango-dev/bindery/internal/errors"
	"github.com/vango-dev/bindery/pkg/dom"
)

// Kind is the binding variant.
type Kind uint8

const (
	KindModel Kind = iota + 1 // two-way
	KindBind                  // model -> view
	KindEvent                 // view event -> model handler
)

func (k Kind) String() string {
	switch k {
	case KindModel:
		return "model"
	case KindBind:
		return "bind"
	case KindEvent:
		return "on"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Marker prefixes inside data-*.
const (
	markerModel = "model"
	markerBind  = "bind:"
	markerOn    = "on:"
)

// ID identifies a directive on one element. Directives with the same fields
// share an ID, which is what makes installation idempotent.
type ID string

// Directive is one parsed binding declaration.
type Directive struct {
	Kind Kind

	// ViewProperty is the element property for model and bind directives.
	ViewProperty string

	// ViewEvent is the change event for model directives and the listened
	// event for event directives.
	ViewEvent string

	// ModelProperty is the model property for model and bind directives.
	ModelProperty string

	// Handler names the model method or function property of an event
	// directive.
	Handler string

	// HandlerFunc, when set, is called instead of looking up Handler.
	// Handler then only names it in the ID. Funcs cannot be compared, so
	// an unnamed HandlerFunc gets a fresh ID on every Install.
	HandlerFunc func(*dom.Event)
}

// ID returns the directive's id: kind, view side and model side.
func (d Directive) ID() ID {
	switch d.Kind {
	case KindEvent:
		return ID(fmt.Sprintf("%s:%s=%s", d.Kind, d.ViewEvent, d.Handler))
	default:
		return ID(fmt.Sprintf("%s:%s=%s", d.Kind, d.ViewProperty, d.ModelProperty))
	}
}

// Parse yields the directives declared on el in marker order. A marker
// that fails to parse yields an error and does not stop the sequence.
// The sequence is recomputed on every iteration.
func Parse(el *dom.Node) iter.Seq2[Directive, error] {
	return func(yield func(Directive, error) bool) {
		if el == nil || !el.IsElement() {
			return
		}
		for _, m := range el.Dataset() {
			d, ok, err := parseMarker(el, m)
			if !ok {
				continue
			}
			if !yield(d, err) {
				return
			}
		}
	}
}

func parseMarker(el *dom.Node, m dom.DataAttr) (Directive, bool, error) {
	switch {
	case m.Key == markerModel:
		if m.Value == "" {
			return Directive{}, true, malformed(el, m.Key).WithSuggestion(`Name the model property: data-model="value"`)
		}
		b, err := Resolve(el)
		if err != nil {
			return Directive{}, true, err
		}
		return Directive{
			Kind:          KindModel,
			ViewProperty:  b.Property,
			ViewEvent:     b.Event,
			ModelProperty: m.Value,
		}, true, nil

	case strings.HasPrefix(m.Key, markerBind):
		name := strings.TrimPrefix(m.Key, markerBind)
		if name == "" {
			return Directive{}, true, malformed(el, m.Key).
				WithSuggestion("Name the view property after the colon, e.g. data-bind:checked")
		}
		return Directive{Kind: KindBind, ViewProperty: name, ModelProperty: m.Value}, true, nil

	case strings.HasPrefix(m.Key, markerOn):
		name := strings.TrimPrefix(m.Key, markerOn)
		if name == "" {
			return Directive{}, true, malformed(el, m.Key).
				WithSuggestion("Name the event after the colon, e.g. data-on:click")
		}
		return Directive{Kind: KindEvent, ViewEvent: name, Handler: m.Value}, true, nil
	}
	return Directive{}, false, nil
}

// Directives collects Parse into a slice and joins the errors.
func Directives(el *dom.Node) ([]Directive, error) {
	var (
		out  []Directive
		errs []error
	)
	for d, err := range Parse(el) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, d)
	}
	return out, errors.Join(errs...)
}
