// Package model provides the host objects that bindings attach to.
//
// An Object is a named bag of properties. Properties start out as plain data
// and can be replaced by an Accessor, which is how the binding engine turns
// a model property into a façade over a cell:
//
//	m := model.New("form")
//	m.Set("value", "hello")
//	m.Method("submit", func(ev *dom.Event) { ... })
//
// Watchers registered with Watch run after every write to a data property
// and whenever Notify is called for an accessor property.
//
// Set is an observable string set used for checkbox groups bound to set
// semantics.
package model
