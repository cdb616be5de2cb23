package errors

import "sort"

// Template defines a registered error type.
type Template struct {
	Category    Category
	Message     string
	Explanation string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Binding Errors (E201-E219)
	// ============================================

	"E201": {
		Category:    CategoryBinding,
		Message:     "Element does not support data-model",
		Explanation: "Only inputs with a value-like type, textareas, selects, and custom elements bound by this engine have a natural bound value.",
	},
	"E202": {
		Category:    CategoryDirective,
		Message:     "Malformed binding directive",
		Explanation: "bind: and on: markers must name the view property or event after the colon, e.g. data-bind:checked or data-on:click.",
	},
	"E203": {
		Category:    CategoryBinding,
		Message:     "Event handler not found on model",
		Explanation: "The on: marker names a handler that is neither a method registered on the model nor a property holding a function.",
	},
	"E204": {
		Category:    CategoryInternal,
		Message:     "Invalid binding kind",
		Explanation: "A directive carried a kind outside model, bind, and event. This is an engine bug, never a markup problem.",
	},

	// ============================================
	// Lifecycle Errors (E205-E219)
	// ============================================

	"E205": {
		Category:    CategoryLifecycle,
		Message:     "Model is already bound",
		Explanation: "The engine is configured to reject rebinding. Unbind the model first or use the teardown rebind policy.",
	},
	"E206": {
		Category:    CategoryLifecycle,
		Message:     "Model is not bound",
		Explanation: "The operation requires a model registered with Bind.",
	},
	"E207": {
		Category:    CategoryLifecycle,
		Message:     "Bind root is missing",
		Explanation: "Bind needs a root node whose subtree carries the binding markers.",
	},

	// ============================================
	// Config Errors (E220-E239)
	// ============================================

	"E220": {
		Category:    CategoryConfig,
		Message:     "Invalid configuration file",
		Explanation: "The configuration file could not be read or decoded.",
	},
	"E221": {
		Category:    CategoryConfig,
		Message:     "Configuration file not found",
		Explanation: "No bindery.json, bindery.yaml, or bindery.toml was found.",
	},
	"E222": {
		Category:    CategoryConfig,
		Message:     "Invalid configuration value",
		Explanation: "A configuration field holds a value outside its allowed set.",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns all registered error codes in ascending order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
