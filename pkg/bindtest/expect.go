package bindtest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/vango-dev/bindery/pkg/dom"
	"github.com/vango-dev/bindery/pkg/model"
)

// ExpectValue asserts el's value property.
//
// Example:
//
//	bindtest.ExpectValue(t, input, "Hello World!")
func ExpectValue(t testing.TB, el *dom.Node, want string) {
	t.Helper()
	if got := el.Value(); got != want {
		t.Errorf("%s value = %q, want %q", el, got, want)
	}
}

// ExpectChecked asserts el's checked property.
func ExpectChecked(t testing.TB, el *dom.Node, want bool) {
	t.Helper()
	if got := el.Checked(); got != want {
		t.Errorf("%s checked = %v, want %v", el, got, want)
	}
}

// ExpectSelected asserts which option values of sel are selected, in any
// order.
func ExpectSelected(t testing.TB, sel *dom.Node, want ...string) {
	t.Helper()
	var got []string
	for _, o := range sel.Options() {
		if o.Selected() {
			got = append(got, o.Property("value").(string))
		}
	}
	expectSameStrings(t, sel.String(), got, want)
}

// ExpectProperty asserts a model property with cmp.Diff.
func ExpectProperty(t testing.TB, m *model.Object, prop string, want any) {
	t.Helper()
	if diff := cmp.Diff(want, m.Get(prop)); diff != "" {
		t.Errorf("%s.%s mismatch (-want +got):\n%s", m.Name(), prop, diff)
	}
}

// ExpectStrings asserts that a []string or *model.Set model property holds
// exactly want, in any order.
//
// Example:
//
//	bindtest.ExpectStrings(t, m, "checkedNames", "Brown", "Boring")
func ExpectStrings(t testing.TB, m *model.Object, prop string, want ...string) {
	t.Helper()
	var got []string
	switch v := m.Get(prop).(type) {
	case []string:
		got = v
	case *model.Set:
		got = v.Values()
	default:
		t.Errorf("%s.%s is %T, want []string or *model.Set", m.Name(), prop, v)
		return
	}
	expectSameStrings(t, m.Name()+"."+prop, got, want)
}

func expectSameStrings(t testing.TB, what string, got, want []string) {
	t.Helper()
	opts := []cmp.Option{cmpopts.SortSlices(func(a, b string) bool { return a < b }), cmpopts.EquateEmpty()}
	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Errorf("%s mismatch (-want +got):\n%s", what, diff)
	}
}

// ExpectMetric asserts the value of a single-series metric family, such
// as bindery_bound_models, or of a labeled series, such as
// bindery_installs_total{kind="model"} via labels.
func (h *Harness) ExpectMetric(name string, want float64, labels ...string) {
	h.T.Helper()
	got, err := metricValue(h, name, labels)
	if err != nil {
		h.T.Errorf("metric %s: %v", name, err)
		return
	}
	if got != want {
		h.T.Errorf("metric %s%v = %v, want %v", name, labels, got, want)
	}
}

// CollectCount returns how many series the harness registry exposes for
// the named metric families.
func (h *Harness) CollectCount(names ...string) int {
	h.T.Helper()
	n, err := testutil.GatherAndCount(h.Registry, names...)
	if err != nil {
		h.T.Fatalf("gather: %v", err)
	}
	return n
}
