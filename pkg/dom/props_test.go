package dom

import (
	"math"
	"testing"
	"time"
)

func TestInputTypeNormalization(t *testing.T) {
	doc := NewDocument()
	tests := []struct {
		attr string
		want string
	}{
		{"", "text"},
		{"CHECKBOX", "checkbox"},
		{"bogus", "text"},
		{"datetime-local", "datetime-local"},
		{"week", "week"},
	}
	for _, tt := range tests {
		el := doc.CreateElement("input")
		if tt.attr != "" {
			el.SetAttribute("type", tt.attr)
		}
		if got := el.Property("type"); got != tt.want {
			t.Errorf("type %q → %v, want %q", tt.attr, got, tt.want)
		}
	}
}

func TestTextValueDirtiness(t *testing.T) {
	doc := NewDocument()
	el := doc.Element("input", []Attr{{Name: "value", Value: "default"}})

	if el.Value() != "default" {
		t.Errorf("Value() = %q, want attribute default", el.Value())
	}
	el.SetValue("typed")
	el.SetAttribute("value", "ignored")
	if el.Value() != "typed" {
		t.Errorf("Value() = %q, want dirty value", el.Value())
	}
	if el.Property("defaultValue") != "ignored" {
		t.Errorf("defaultValue = %v", el.Property("defaultValue"))
	}
}

func TestCheckable(t *testing.T) {
	doc := NewDocument()
	el := doc.Element("input", []Attr{{Name: "type", Value: "checkbox"}, {Name: "checked", Value: ""}})

	if !el.Checked() {
		t.Error("checked attribute should set default checkedness")
	}
	if el.Value() != "on" {
		t.Errorf("checkbox default value = %q, want on", el.Value())
	}
	el.SetChecked(false)
	if el.Checked() || !el.HasAttribute("checked") {
		t.Error("checked property should not touch the attribute")
	}
	el.SetProperty("checked", "yes")
	if !el.Checked() {
		t.Error("truthy string should check")
	}
	el.SetValue("Brown")
	if el.GetAttribute("value") != "Brown" || el.Value() != "Brown" {
		t.Error("checkbox value writes through to attribute")
	}
}

func TestValueAsNumber(t *testing.T) {
	doc := NewDocument()
	el := doc.Element("input", []Attr{{Name: "type", Value: "number"}, {Name: "value", Value: "4.5"}})

	if got := el.Property("valueAsNumber"); got != 4.5 {
		t.Errorf("valueAsNumber = %v", got)
	}
	el.SetProperty("valueAsNumber", 7)
	if el.Value() != "7" {
		t.Errorf("value = %q after valueAsNumber write", el.Value())
	}
	el.SetValue("abc")
	if f := el.Property("valueAsNumber").(float64); !math.IsNaN(f) {
		t.Errorf("valueAsNumber = %v, want NaN", f)
	}

	text := doc.CreateElement("input")
	if f := text.Property("valueAsNumber").(float64); !math.IsNaN(f) {
		t.Errorf("text valueAsNumber = %v, want NaN", f)
	}
}

func TestValueAsDate(t *testing.T) {
	doc := NewDocument()
	tests := []struct {
		typ   string
		value string
		want  time.Time
	}{
		{"date", "2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"month", "2024-03", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"datetime-local", "2024-03-05T10:30", time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)},
		{"week", "2024-W01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"week", "2021-W01", time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		el := doc.Element("input", []Attr{{Name: "type", Value: tt.typ}, {Name: "value", Value: tt.value}})
		got, ok := el.Property("valueAsDate").(time.Time)
		if !ok || !got.Equal(tt.want) {
			t.Errorf("%s %q → %v, want %v", tt.typ, tt.value, got, tt.want)
		}
	}

	el := doc.Element("input", []Attr{{Name: "type", Value: "week"}})
	if el.Property("valueAsDate") != nil {
		t.Error("empty week should read nil")
	}
	el.SetProperty("valueAsDate", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))
	if el.Value() != "2024-W01" {
		t.Errorf("week value = %q", el.Value())
	}
	el.SetProperty("valueAsDate", nil)
	if el.Value() != "" {
		t.Errorf("nil date should clear, got %q", el.Value())
	}
}

func buildSelect(doc *Document, multiple bool, selected ...string) *Node {
	sel := doc.CreateElement("select")
	if multiple {
		sel.SetAttribute("multiple", "")
	}
	for _, v := range []string{"A", "B", "C"} {
		opt := doc.Element("option", nil, doc.CreateTextNode(" "+v+" "))
		for _, s := range selected {
			if s == v {
				opt.SetAttribute("selected", "")
			}
		}
		sel.AppendChild(opt)
	}
	return sel
}

func TestSingleSelect(t *testing.T) {
	doc := NewDocument()
	sel := buildSelect(doc, false)

	if sel.SelectedIndex() != 0 {
		t.Errorf("default selectedIndex = %d, want 0", sel.SelectedIndex())
	}
	if !sel.Options()[0].Selected() {
		t.Error("first option should read selected by default")
	}
	if sel.Property("value") != "A" {
		t.Errorf("value = %v, want trimmed option text", sel.Property("value"))
	}

	sel.SetProperty("value", "C")
	if sel.SelectedIndex() != 2 {
		t.Errorf("selectedIndex = %d after value write", sel.SelectedIndex())
	}
	sel.Options()[1].SetSelected(true)
	if sel.SelectedIndex() != 1 || sel.Options()[2].Selected() {
		t.Error("selecting an option should deselect the others")
	}
	sel.SetProperty("selectedIndex", -1)
	if sel.SelectedIndex() != -1 || sel.Property("value") != "" {
		t.Errorf("selectedIndex = %d value = %v after explicit -1", sel.SelectedIndex(), sel.Property("value"))
	}
	if sel.Options()[0].Selected() {
		t.Error("no option should read selected after explicit -1")
	}
	sel.AppendChild(doc.Element("option", nil, doc.CreateTextNode("D")))
	if sel.SelectedIndex() != 0 {
		t.Errorf("selectedIndex = %d, single select falls back to first once options change", sel.SelectedIndex())
	}

	sel.SetProperty("value", "missing")
	if sel.SelectedIndex() != -1 {
		t.Errorf("selectedIndex = %d after unmatched value write", sel.SelectedIndex())
	}
	sel.Options()[2].SetSelected(true)
	if sel.SelectedIndex() != 2 {
		t.Errorf("selectedIndex = %d after selecting an option", sel.SelectedIndex())
	}

	last := buildSelect(doc, false, "A", "B")
	if last.SelectedIndex() != 1 {
		t.Errorf("last selected attribute should win, got %d", last.SelectedIndex())
	}
	if got := last.Options()[2].Property("index"); got != 2 {
		t.Errorf("option index = %v", got)
	}
}

func TestMultiSelect(t *testing.T) {
	doc := NewDocument()
	sel := buildSelect(doc, true, "B")

	if sel.SelectedIndex() != 1 {
		t.Errorf("selectedIndex = %d", sel.SelectedIndex())
	}
	sel.Options()[2].SetSelected(true)
	got := sel.Property("selectedValues").([]string)
	if len(got) != 2 || got[0] != "B" || got[1] != "C" {
		t.Errorf("selectedValues = %v", got)
	}
	sel.SetProperty("selectedValues", []string{"A"})
	if sel.Options()[1].Selected() || !sel.Options()[0].Selected() {
		t.Error("selectedValues write should replace the selection")
	}
	sel.SetProperty("selectedIndex", -1)
	if sel.SelectedIndex() != -1 {
		t.Errorf("multi select with nothing selected = %d, want -1", sel.SelectedIndex())
	}
}

func TestOptgroupOptions(t *testing.T) {
	doc := NewDocument()
	sel := doc.Element("select", nil,
		doc.Element("optgroup", nil, doc.Element("option", []Attr{{Name: "value", Value: "x"}})),
		doc.Element("option", []Attr{{Name: "value", Value: "y"}}),
	)
	opts := sel.Options()
	if len(opts) != 2 || opts[0].OwnerSelect() != sel {
		t.Fatalf("Options = %v", opts)
	}
}

func TestTextarea(t *testing.T) {
	doc := NewDocument()
	ta := doc.Element("textarea", nil, doc.CreateTextNode("draft"))
	if ta.Value() != "draft" {
		t.Errorf("textarea default value = %q", ta.Value())
	}
	ta.SetValue("edited")
	if ta.Value() != "edited" || ta.TextContent() != "draft" {
		t.Error("textarea value should not rewrite content")
	}
}

func TestExpandoAndHost(t *testing.T) {
	doc := NewDocument()
	div := doc.CreateElement("div")
	if div.HasProperty("title") {
		t.Error("div has no title property until set")
	}
	div.SetProperty("title", "x")
	if !div.HasProperty("title") || div.Property("title") != "x" {
		t.Error("expando not stored")
	}
	if !div.HasProperty("textContent") {
		t.Error("every element has textContent")
	}

	widget := doc.CreateElement("my-widget")
	host := &mapHost{props: map[string]any{"value": "v1"}}
	widget.SetPropertyHost(host)
	if widget.Property("value") != "v1" {
		t.Errorf("host property = %v", widget.Property("value"))
	}
	widget.SetProperty("value", "v2")
	if host.props["value"] != "v2" {
		t.Error("write should reach the host")
	}
}

type mapHost struct {
	props map[string]any
}

func (h *mapHost) HasProperty(name string) bool { _, ok := h.props[name]; return ok }
func (h *mapHost) Property(name string) any     { return h.props[name] }
func (h *mapHost) SetProperty(name string, v any) {
	h.props[name] = v
}
