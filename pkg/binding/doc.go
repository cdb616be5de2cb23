// Package binding connects models to view elements through declarative
// data markers.
//
// Three markers are recognized on any element under a bound root:
//
//	data-model="prop"         two-way: the element's natural value <-> model.prop
//	data-bind:<name>="prop"   one-way: model.prop -> element property or attribute <name>
//	data-on:<event>="handler" the model's handler runs when <event> fires
//
// An Engine owns a Registry of bound models. Bind scans the root once and
// then observes it, installing bindings as elements arrive, releasing them
// as elements leave, and re-parsing elements whose markers change:
//
//	eng := binding.New(binding.WithLogger(logger))
//	if err := eng.Bind(ctx, m, binding.Options{Root: shadow}); err != nil {
//	    // per-element failures; every other element is bound
//	}
//
// Every binding is backed by one cell per element and binding id. Two-way
// bindings replace the model property with an accessor over a property
// group, which keeps checkbox groups, radio groups and selects consistent
// with sequence, set and scalar model values.
package binding
