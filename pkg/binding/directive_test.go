package binding

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/vango-dev/bindery/pkg/dom"
)

func parseAll(el *dom.Node) ([]Directive, []error) {
	var (
		ds   []Directive
		errs []error
	)
	for d, err := range Parse(el) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ds = append(ds, d)
	}
	return ds, errs
}

func TestParse(t *testing.T) {
	doc := dom.NewDocument()
	el := doc.Element("input", []dom.Attr{
		{Name: "type", Value: "checkbox"},
		{Name: "data-testid", Value: "box"},
		{Name: "data-model", Value: "isChecked"},
		{Name: "data-bind:title", Value: "label"},
		{Name: "data-on:click", Value: "handleClick"},
		{Name: "data-on:focus", Value: "handleFocus"},
	})

	got, errs := parseAll(el)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := []Directive{
		{Kind: KindModel, ViewProperty: "checked", ViewEvent: "change", ModelProperty: "isChecked"},
		{Kind: KindBind, ViewProperty: "title", ModelProperty: "label"},
		{Kind: KindEvent, ViewEvent: "click", Handler: "handleClick"},
		{Kind: KindEvent, ViewEvent: "focus", Handler: "handleFocus"},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(Directive{}, "HandlerFunc")); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}

	var ids []ID
	for _, d := range got {
		ids = append(ids, d.ID())
	}
	wantIDs := []ID{"model:checked=isChecked", "bind:title=label", "on:click=handleClick", "on:focus=handleFocus"}
	if diff := cmp.Diff(wantIDs, ids); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}

	// The sequence is recomputed on every iteration.
	el.RemoveAttribute("data-on:focus")
	again, _ := parseAll(el)
	if len(again) != 3 {
		t.Errorf("second iteration = %d directives, want 3", len(again))
	}
}

func TestParseCamelCasesBindName(t *testing.T) {
	doc := dom.NewDocument()
	el := doc.Element("input", []dom.Attr{{Name: "data-bind:value-as-number", Value: "n"}})
	got, _ := parseAll(el)
	if len(got) != 1 || got[0].ViewProperty != "valueAsNumber" {
		t.Errorf("Parse = %+v", got)
	}
}

func TestParseErrorsDoNotStopSequence(t *testing.T) {
	doc := dom.NewDocument()
	el := doc.Element("button", []dom.Attr{
		{Name: "data-model", Value: "x"},
		{Name: "data-bind:", Value: "y"},
		{Name: "data-on:", Value: "z"},
		{Name: "data-on:click", Value: "go"},
	})

	got, errs := parseAll(el)
	if len(got) != 1 || got[0].ViewEvent != "click" {
		t.Errorf("directives = %+v", got)
	}
	if len(errs) != 3 {
		t.Fatalf("errors = %v", errs)
	}
	if !errors.Is(errs[0], ErrUnsupportedBinding) {
		t.Errorf("errs[0] = %v, want E201", errs[0])
	}
	for _, err := range errs[1:] {
		if !errors.Is(err, ErrMalformedDirective) {
			t.Errorf("error = %v, want E202", err)
		}
	}
}

func TestParseEmptyModel(t *testing.T) {
	doc := dom.NewDocument()
	el := doc.Element("input", []dom.Attr{{Name: "data-model", Value: ""}})
	_, err := Directives(el)
	if !errors.Is(err, ErrMalformedDirective) {
		t.Errorf("Directives() error = %v, want E202", err)
	}
}

func TestParseStopsEarly(t *testing.T) {
	doc := dom.NewDocument()
	el := doc.Element("div", []dom.Attr{
		{Name: "data-on:a", Value: "x"},
		{Name: "data-on:b", Value: "y"},
	})
	n := 0
	for range Parse(el) {
		n++
		break
	}
	if n != 1 {
		t.Errorf("iterated %d times", n)
	}
	for range Parse(doc.CreateTextNode("x")) {
		t.Error("text nodes have no directives")
	}
}


func TestIDs(t *testing.T) {
	a := Directive{Kind: KindBind, ViewProperty: "checked", ModelProperty: "on"}
	b := Directive{Kind: KindBind, ViewProperty: "checked", ModelProperty: "on"}
	if a.ID() != b.ID() {
		t.Error("equal directives must share an id")
	}
	if a.ID() == (Directive{Kind: KindModel, ViewProperty: "checked", ModelProperty: "on"}).ID() {
		t.Error("kind must be part of the id")
	}

	fa := Directive{Kind: KindEvent, ViewEvent: "click", Handler: "save", HandlerFunc: func(*dom.Event) {}}
	fb := Directive{Kind: KindEvent, ViewEvent: "click", Handler: "save"}
	if fa.ID() != fb.ID() || fa.ID() != "event:click=save" {
		t.Errorf("named func ids: %s %s", fa.ID(), fb.ID())
	}
	if Kind(9).String() != "kind(9)" {
		t.Errorf("Kind(9) = %s", Kind(9))
	}
}
