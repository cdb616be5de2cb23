// Package errors provides structured, coded errors for the binding engine.
//
// Every failure the engine surfaces carries a stable code (e.g. "E201") that
// maps to a registered template with a category, a short message, and a longer
// explanation. Errors can be decorated with the element they concern, a fix
// suggestion, and a wrapped cause.
//
// # Error Categories
//
//   - binding: a directive could not be installed on an element
//   - directive: declarative markers are syntactically invalid
//   - lifecycle: bind/unbind misuse
//   - config: configuration loading and validation
//   - internal: invariant violations (programmer errors)
//
// # Usage
//
//	err := errors.New("E201").
//	    WithElement(`<input type="file">`).
//	    WithSuggestion("Bind a text, checkbox, or select element instead")
//
//	fmt.Println(err.Format())
//
// Two errors with the same code match under errors.Is, so callers can test
// against exported sentinels without comparing messages.
package errors
