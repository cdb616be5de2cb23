// Package vdom provides a virtual node tree for describing bound views in Go.
//
// VNode trees are plain data. dom.Mount turns them into live nodes that the
// binding engine can observe.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(
//	    Input(Type("text"), Model("value")),
//	    Input(Type("checkbox"), Value("Brown"), Model("checkedNames")),
//	    Button(On("click", "handleClick"), Text("Increment")),
//	)
//
// Model, BindTo, and On produce the declarative markers the engine reads
// (data-model, data-bind:<prop>, data-on:<event>).
package vdom
