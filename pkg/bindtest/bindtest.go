package bindtest

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vango-dev/bindery/pkg/binding"
	"github.com/vango-dev/bindery/pkg/dom"
	"github.com/vango-dev/bindery/pkg/model"
	"github.com/vango-dev/bindery/pkg/vdom"
)

// Harness is a document plus a binding engine.
type Harness struct {
	T        testing.TB
	Doc      *dom.Document
	Engine   *binding.Engine
	Registry *prometheus.Registry

	// Errors collects every per-element failure reported by the engine.
	Errors []error

	// Activity collects every engine activity.
	Activity []binding.Activity
}

// New creates a harness. opts are applied after the harness's own logger,
// metrics and error collection options.
func New(t testing.TB, opts ...binding.Option) *Harness {
	t.Helper()
	h := &Harness{
		T:        t,
		Doc:      dom.NewDocument(),
		Registry: prometheus.NewRegistry(),
	}
	base := []binding.Option{
		binding.WithMetrics(binding.NewMetrics(binding.WithMetricsRegistry(h.Registry))),
		binding.WithErrorHandler(func(err error) { h.Errors = append(h.Errors, err) }),
		binding.WithActivity(func(a binding.Activity) { h.Activity = append(h.Activity, a) }),
	}
	h.Engine = binding.New(append(base, opts...)...)
	return h
}

// Component appends a <tag> host to the body, attaches a shadow root, and
// binds m to it. It returns the shadow root.
func (h *Harness) Component(tag string, m *model.Object) *dom.Node {
	h.T.Helper()
	host := h.Doc.CreateElement(tag)
	h.Doc.Body().AppendChild(host)
	root := host.AttachShadow()
	if err := h.Engine.Bind(context.Background(), m, binding.Options{Root: root}); err != nil {
		h.T.Fatalf("Bind(%s): %v", m, err)
	}
	h.Settle()
	return root
}

// Mount builds v under parent and settles.
func (h *Harness) Mount(parent *dom.Node, v *vdom.VNode) *dom.Node {
	h.T.Helper()
	n := dom.Mount(parent, v)
	h.Settle()
	return n
}

// MountHTML replaces parent's children with markup and settles. It returns
// the first element child.
func (h *Harness) MountHTML(parent *dom.Node, markup string) *dom.Node {
	h.T.Helper()
	if err := parent.SetInnerHTML(markup); err != nil {
		h.T.Fatalf("parse markup: %v", err)
	}
	h.Settle()
	if kids := parent.Children(); len(kids) > 0 {
		return kids[0]
	}
	return nil
}

// Remove detaches n and settles.
func (h *Harness) Remove(n *dom.Node) {
	h.T.Helper()
	n.Remove()
	h.Settle()
}

// Flush delivers pending mutation records.
func (h *Harness) Flush() error {
	return h.Doc.Flush()
}

// Settle flushes and fails the test on error.
func (h *Harness) Settle() {
	h.T.Helper()
	if err := h.Doc.Flush(); err != nil {
		h.T.Fatalf("flush: %v", err)
	}
}

// =============================================================================
// Queries
// =============================================================================

// ByTestID returns the element under root with data-testid id.
func (h *Harness) ByTestID(root *dom.Node, id string) *dom.Node {
	h.T.Helper()
	el := QueryByTestID(root, id)
	if el == nil {
		h.T.Fatalf("no element with data-testid %q under %s", id, root)
	}
	return el
}

// QueryByTestID returns the element under root with data-testid id, or nil.
func QueryByTestID(root *dom.Node, id string) *dom.Node {
	return root.Query(func(n *dom.Node) bool {
		return n.IsElement() && n.GetAttribute("data-testid") == id
	})
}

// ByDisplayValue returns the form control under root whose current value
// is v. Selects match on the text of a selected option.
func (h *Harness) ByDisplayValue(root *dom.Node, v string) *dom.Node {
	h.T.Helper()
	el := root.Query(func(n *dom.Node) bool {
		switch n.Tag() {
		case "input", "textarea":
			return n.Value() == v
		case "select":
			for _, o := range n.Options() {
				if o.Selected() && o.Property("text") == v {
					return true
				}
			}
		}
		return false
	})
	if el == nil {
		h.T.Fatalf("no form control with display value %q under %s", v, root)
	}
	return el
}

// =============================================================================
// User events
// =============================================================================

// Type appends text to el's value one character at a time, firing input
// after each character.
func (h *Harness) Type(el *dom.Node, text string) {
	h.T.Helper()
	h.Click(el)
	for _, r := range text {
		el.SetValue(el.Value() + string(r))
		el.Dispatch("input")
	}
}

// Clear empties el's value and fires input.
func (h *Harness) Clear(el *dom.Node) {
	el.SetValue("")
	el.Dispatch("input")
}

// Blur fires change, which text controls fire when they lose focus.
func (h *Harness) Blur(el *dom.Node) {
	el.Dispatch("change")
}

// Click clicks el. Checkboxes toggle and radios check, unchecking radios
// of the same name in the same tree; both then fire input and change
// unless a click listener prevented the default.
func (h *Harness) Click(el *dom.Node) {
	checkable := el.Tag() == "input" && (el.InputType() == "checkbox" || el.InputType() == "radio")
	if !checkable {
		el.Dispatch("click")
		return
	}

	radio := el.InputType() == "radio"
	was := el.Checked()
	if radio && was {
		el.Dispatch("click")
		return
	}

	var cleared []*dom.Node
	if radio {
		for _, other := range radioGroup(el) {
			if other.Checked() {
				other.SetChecked(false)
				cleared = append(cleared, other)
			}
		}
	}
	el.SetChecked(!was)

	if ev := el.Dispatch("click"); ev.DefaultPrevented() {
		el.SetChecked(was)
		for _, other := range cleared {
			other.SetChecked(true)
		}
		return
	}
	el.Dispatch("input")
	el.Dispatch("change")
}

// SelectOptions selects the options of sel whose value or text is in
// values, then fires input and change. A single select ends up with the
// last match selected; a multiple select keeps its other selections.
func (h *Harness) SelectOptions(sel *dom.Node, values ...string) {
	h.T.Helper()
	h.setOptions(sel, true, values)
}

// DeselectOptions deselects the matching options of a multiple select.
func (h *Harness) DeselectOptions(sel *dom.Node, values ...string) {
	h.T.Helper()
	if sel.Property("multiple") != true {
		h.T.Fatalf("DeselectOptions needs a multiple select, got %s", sel)
	}
	h.setOptions(sel, false, values)
}

func (h *Harness) setOptions(sel *dom.Node, on bool, values []string) {
	h.T.Helper()
	matched := 0
	for _, o := range sel.Options() {
		if matchesOption(o, values) {
			o.SetSelected(on)
			matched++
		}
	}
	if matched == 0 {
		h.T.Fatalf("no option of %s matches %q", sel, values)
	}
	sel.Dispatch("input")
	sel.Dispatch("change")
}

func matchesOption(o *dom.Node, values []string) bool {
	for _, v := range values {
		if o.Property("value") == v || o.Property("text") == v {
			return true
		}
	}
	return false
}

func radioGroup(el *dom.Node) []*dom.Node {
	name := el.GetAttribute("name")
	if name == "" {
		return nil
	}
	top := el
	for top.Parent() != nil {
		top = top.Parent()
	}
	return top.QueryAll(func(n *dom.Node) bool {
		return n != el && n.Tag() == "input" && n.InputType() == "radio" &&
			strings.EqualFold(n.GetAttribute("name"), name)
	})
}
