// Package dom is a headless element tree with the slice of browser DOM
// behavior the binding engine depends on.
//
// # Tree
//
// A Document owns nodes created with CreateElement and CreateTextNode.
// Nodes form a tree through AppendChild, InsertBefore, and RemoveChild.
// AttachShadow gives an element a shadow root: a separate tree whose events
// do not bubble out to the host.
//
// # Attributes and Properties
//
// Attributes are ordered string pairs. Properties are typed values: form
// controls expose the same native properties a browser does (value, checked,
// valueAsNumber, valueAsDate, selectedIndex, selected, ...) with the same
// default-from-attribute then dirty-after-write behavior. Any other property
// name is an expando stored on the node.
//
// # Mutation Observation
//
// Observe registers a callback for child-list and attribute changes under a
// root. Records queue up as mutations happen and are delivered, in detection
// order, when Document.Flush runs:
//
//	obs := doc.Observe(root, dom.ObserveOptions{ChildList: true, Attributes: true, Subtree: true},
//	    func(records []dom.MutationRecord, _ *dom.Observer) error {
//	        return handle(records)
//	    })
//	root.AppendChild(doc.CreateElement("input"))
//	err := doc.Flush()
//
// Property writes never produce records; attribute writes always do.
//
// The tree is not safe for concurrent use. Like a browser DOM, it belongs to
// one goroutine.
package dom
