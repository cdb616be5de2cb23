// Package bindtest provides a headless harness for testing bindings.
//
// The harness owns a document and an engine with a private Prometheus
// registry. Components are host elements with a shadow root bound to a
// model, and user events are simulated the way a browser would fire them.
//
// # Quick Start
//
//	func TestForm(t *testing.T) {
//	    h := bindtest.New(t)
//	    m := model.New("form")
//	    m.Set("value", "initial")
//
//	    root := h.Component("x-form", m)
//	    h.MountHTML(root, `<input data-testid="name" data-model="value">`)
//
//	    input := h.ByTestID(root, "name")
//	    bindtest.ExpectValue(t, input, "initial")
//
//	    h.Clear(input)
//	    h.Type(input, "Hello")
//	    bindtest.ExpectProperty(t, m, "value", "Hello")
//	}
//
// # User Events
//
// Type, Clear, Click and SelectOptions change the element first and then
// dispatch the events a browser dispatches (click, input, change), so
// bindings see exactly what they would see in a page.
//
// # Mutation Delivery
//
// Mutations are queued until Flush, the analog of a microtask checkpoint.
// Mount, MountHTML and Remove flush and fail the test on binding errors;
// call h.Doc methods directly to inspect errors yourself.
package bindtest
