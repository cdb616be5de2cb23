package dom

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// PropertyHost backs the properties of a custom element. A model bound to
// an element's shadow root becomes that element's host.
type PropertyHost interface {
	HasProperty(name string) bool
	Property(name string) any
	SetProperty(name string, v any)
}

// SetPropertyHost installs h as the element's property host.
func (n *Node) SetPropertyHost(h PropertyHost) {
	n.propHost = h
}

// PropertyHost returns the element's property host, or nil.
func (n *Node) PropertyHost() PropertyHost {
	return n.propHost
}

// inputTypes are the recognized input types. Anything else reads as "text".
var inputTypes = map[string]bool{
	"button": true, "checkbox": true, "color": true, "date": true,
	"datetime": true, "datetime-local": true, "email": true, "file": true,
	"hidden": true, "image": true, "month": true, "number": true,
	"password": true, "radio": true, "range": true, "reset": true,
	"search": true, "submit": true, "tel": true, "text": true,
	"time": true, "url": true, "week": true,
}

// dateLayouts maps date-like input types to their value formats.
var dateLayouts = map[string]string{
	"date":           "2006-01-02",
	"month":          "2006-01",
	"datetime-local": "2006-01-02T15:04",
	"datetime":       time.RFC3339,
}

// InputType returns the normalized type of an input element.
func (n *Node) InputType() string {
	t := strings.ToLower(strings.TrimSpace(n.GetAttribute("type")))
	if inputTypes[t] {
		return t
	}
	return "text"
}

// nativeProperty reports whether name is a built-in property for the tag.
func (n *Node) nativeProperty(name string) bool {
	if name == "textContent" {
		return n.IsElement()
	}
	switch n.tag {
	case "input":
		switch name {
		case "type", "value", "checked", "valueAsNumber", "valueAsDate", "defaultValue":
			return true
		}
	case "textarea":
		return name == "value" || name == "defaultValue"
	case "select":
		switch name {
		case "selectedIndex", "value", "multiple", "options", "selectedValues":
			return true
		}
	case "option":
		switch name {
		case "value", "selected", "text", "index":
			return true
		}
	}
	return false
}

// HasProperty reports whether name is a native property of the element, an
// expando previously set on it, or a property of its host.
func (n *Node) HasProperty(name string) bool {
	if n.propHost != nil && n.propHost.HasProperty(name) {
		return true
	}
	if n.nativeProperty(name) {
		return true
	}
	_, ok := n.props[name]
	return ok
}

// Property reads a property. Unknown names read as nil.
func (n *Node) Property(name string) any {
	if n.propHost != nil && n.propHost.HasProperty(name) {
		return n.propHost.Property(name)
	}
	if n.nativeProperty(name) {
		return n.nativeGet(name)
	}
	return n.props[name]
}

// SetProperty writes a property. Writes to native properties coerce v to
// the property's type; other names become expandos. Property writes never
// produce mutation records, except textContent which replaces children.
func (n *Node) SetProperty(name string, v any) {
	if n.propHost != nil && n.propHost.HasProperty(name) {
		n.propHost.SetProperty(name, v)
		return
	}
	if n.nativeProperty(name) {
		n.nativeSet(name, v)
		return
	}
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[name] = v
}

// Value returns the value property as a string.
func (n *Node) Value() string {
	s, _ := n.Property("value").(string)
	return s
}

// SetValue writes the value property.
func (n *Node) SetValue(v string) {
	n.SetProperty("value", v)
}

// Checked returns the checked property.
func (n *Node) Checked() bool {
	b, _ := n.Property("checked").(bool)
	return b
}

// SetChecked writes the checked property.
func (n *Node) SetChecked(v bool) {
	n.SetProperty("checked", v)
}

// Selected returns an option's selectedness.
func (n *Node) Selected() bool {
	b, _ := n.Property("selected").(bool)
	return b
}

// SetSelected writes an option's selectedness.
func (n *Node) SetSelected(v bool) {
	n.SetProperty("selected", v)
}

// SelectedIndex returns a select's selectedIndex.
func (n *Node) SelectedIndex() int {
	i, _ := n.Property("selectedIndex").(int)
	return i
}

// Options returns the option elements of a select, including those inside
// optgroups, in tree order.
func (n *Node) Options() []*Node {
	var out []*Node
	for _, c := range n.children {
		switch c.tag {
		case "option":
			out = append(out, c)
		case "optgroup":
			for _, g := range c.children {
				if g.tag == "option" {
					out = append(out, g)
				}
			}
		}
	}
	return out
}

// OwnerSelect returns the select an option belongs to, or nil.
func (n *Node) OwnerSelect() *Node {
	if n.tag != "option" || n.parent == nil {
		return nil
	}
	if n.parent.tag == "select" {
		return n.parent
	}
	if n.parent.tag == "optgroup" && n.parent.parent != nil && n.parent.parent.tag == "select" {
		return n.parent.parent
	}
	return nil
}

func (n *Node) nativeGet(name string) any {
	if name == "textContent" {
		return n.TextContent()
	}
	switch n.tag {
	case "input":
		return n.inputGet(name)
	case "textarea":
		if name == "defaultValue" || !n.dirtyValue {
			return n.TextContent()
		}
		return n.value
	case "select":
		return n.selectGet(name)
	case "option":
		return n.optionGet(name)
	}
	return nil
}

func (n *Node) nativeSet(name string, v any) {
	if name == "textContent" {
		n.SetTextContent(toString(v))
		return
	}
	switch n.tag {
	case "input":
		n.inputSet(name, v)
	case "textarea":
		if name == "defaultValue" {
			n.SetTextContent(toString(v))
			return
		}
		n.value = toString(v)
		n.dirtyValue = true
	case "select":
		n.selectSet(name, v)
	case "option":
		n.optionSet(name, v)
	}
}

// =============================================================================
// input
// =============================================================================

func (n *Node) inputGet(name string) any {
	switch name {
	case "type":
		return n.InputType()
	case "defaultValue":
		return n.GetAttribute("value")
	case "value":
		return n.inputValue()
	case "checked":
		if n.dirtyChecked {
			return n.checked
		}
		return n.HasAttribute("checked")
	case "valueAsNumber":
		return n.valueAsNumber()
	case "valueAsDate":
		t, ok := n.valueAsDate()
		if !ok {
			return nil
		}
		return t
	}
	return nil
}

func (n *Node) inputValue() string {
	t := n.InputType()
	if t == "checkbox" || t == "radio" {
		// Checkable inputs report their value attribute, "on" by default.
		if v, ok := n.LookupAttribute("value"); ok {
			return v
		}
		return "on"
	}
	if n.dirtyValue {
		return n.value
	}
	return n.GetAttribute("value")
}

func (n *Node) inputSet(name string, v any) {
	switch name {
	case "type":
		n.SetAttribute("type", toString(v))
	case "defaultValue":
		n.SetAttribute("value", toString(v))
	case "value":
		t := n.InputType()
		if t == "checkbox" || t == "radio" {
			n.SetAttribute("value", toString(v))
			return
		}
		n.value = toString(v)
		n.dirtyValue = true
	case "checked":
		n.checked = truthy(v)
		n.dirtyChecked = true
	case "valueAsNumber":
		f := toFloat(v)
		if layout, ok := dateLayouts[n.InputType()]; ok && !math.IsNaN(f) {
			n.value = time.UnixMilli(int64(f)).UTC().Format(layout)
		} else if math.IsNaN(f) {
			n.value = ""
		} else {
			n.value = strconv.FormatFloat(f, 'f', -1, 64)
		}
		n.dirtyValue = true
	case "valueAsDate":
		n.value = formatDate(n.InputType(), v)
		n.dirtyValue = true
	}
}

func (n *Node) valueAsNumber() float64 {
	t := n.InputType()
	if _, ok := dateLayouts[t]; ok || t == "week" {
		d, ok := n.valueAsDate()
		if !ok {
			return math.NaN()
		}
		return float64(d.UnixMilli())
	}
	if t != "number" && t != "range" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(n.inputValue()), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func (n *Node) valueAsDate() (time.Time, bool) {
	return parseDate(n.InputType(), n.inputValue())
}

func parseDate(inputType, s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if inputType == "week" {
		return parseWeek(s)
	}
	layout, ok := dateLayouts[inputType]
	if !ok {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// parseWeek parses "2006-W05" to the Monday starting that ISO week.
func parseWeek(s string) (time.Time, bool) {
	var year, week int
	if _, err := fmt.Sscanf(s, "%d-W%d", &year, &week); err != nil || week < 1 || week > 53 {
		return time.Time{}, false
	}
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	monday := jan4.AddDate(0, 0, -offset)
	return monday.AddDate(0, 0, (week-1)*7), true
}

func formatDate(inputType string, v any) string {
	var t time.Time
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		t = x
	case *time.Time:
		if x == nil {
			return ""
		}
		t = *x
	case string:
		parsed, ok := parseDate(inputType, x)
		if !ok {
			return ""
		}
		t = parsed
	default:
		return ""
	}
	if t.IsZero() {
		return ""
	}
	t = t.UTC()
	if inputType == "week" {
		y, w := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", y, w)
	}
	layout, ok := dateLayouts[inputType]
	if !ok {
		return ""
	}
	return t.Format(layout)
}

// =============================================================================
// select / option
// =============================================================================

func (n *Node) multiple() bool {
	return n.HasAttribute("multiple")
}

func (n *Node) selectGet(name string) any {
	switch name {
	case "multiple":
		return n.multiple()
	case "options":
		return n.Options()
	case "selectedIndex":
		return n.selectedIndex()
	case "value":
		i := n.selectedIndex()
		opts := n.Options()
		if i < 0 || i >= len(opts) {
			return ""
		}
		return opts[i].optionValue()
	case "selectedValues":
		var out []string
		for _, o := range n.Options() {
			if o.Selected() {
				out = append(out, o.optionValue())
			}
		}
		return out
	}
	return nil
}

func (n *Node) selectSet(name string, v any) {
	switch name {
	case "multiple":
		if truthy(v) {
			n.SetAttribute("multiple", "")
		} else {
			n.RemoveAttribute("multiple")
		}
	case "selectedIndex":
		i := toInt(v)
		opts := n.Options()
		for idx, o := range opts {
			o.selected = idx == i
			o.dirtySelected = true
		}
		n.unselected = i < 0 || i >= len(opts)
	case "value":
		s := toString(v)
		found := false
		for _, o := range n.Options() {
			match := !found && o.optionValue() == s
			if match {
				found = true
			}
			o.selected = match
			o.dirtySelected = true
		}
		n.unselected = !found
	case "selectedValues":
		want := toStrings(v)
		for _, o := range n.Options() {
			o.selected = containsString(want, o.optionValue())
			o.dirtySelected = true
		}
		n.unselected = false
	}
}

// optionsChanged clears an explicit empty selection when n is a select, or
// an optgroup of one, whose children changed.
func (n *Node) optionsChanged() {
	switch {
	case n.tag == "select":
		n.unselected = false
	case n.tag == "optgroup" && n.parent != nil && n.parent.tag == "select":
		n.parent.unselected = false
	}
}

// selectedIndex follows the browser rules for a select with display size 1:
// the last selected option wins, and the first option is selected when none
// is, unless the selection was explicitly emptied.
func (n *Node) selectedIndex() int {
	opts := n.Options()
	if n.multiple() {
		for i, o := range opts {
			if o.rawSelected() {
				return i
			}
		}
		return -1
	}
	idx := -1
	for i, o := range opts {
		if o.rawSelected() {
			idx = i
		}
	}
	if idx < 0 && len(opts) > 0 && !n.unselected {
		return 0
	}
	return idx
}

func (n *Node) rawSelected() bool {
	if n.dirtySelected {
		return n.selected
	}
	return n.HasAttribute("selected")
}

func (n *Node) optionValue() string {
	if v, ok := n.LookupAttribute("value"); ok {
		return v
	}
	return strings.Join(strings.Fields(n.TextContent()), " ")
}

func (n *Node) optionGet(name string) any {
	switch name {
	case "value":
		return n.optionValue()
	case "text":
		return strings.Join(strings.Fields(n.TextContent()), " ")
	case "index":
		if sel := n.OwnerSelect(); sel != nil {
			for i, o := range sel.Options() {
				if o == n {
					return i
				}
			}
		}
		return 0
	case "selected":
		sel := n.OwnerSelect()
		if sel == nil || sel.multiple() {
			return n.rawSelected()
		}
		opts := sel.Options()
		i := sel.selectedIndex()
		return i >= 0 && i < len(opts) && opts[i] == n
	}
	return nil
}

func (n *Node) optionSet(name string, v any) {
	switch name {
	case "value":
		n.SetAttribute("value", toString(v))
	case "text":
		n.SetTextContent(toString(v))
	case "selected":
		on := truthy(v)
		sel := n.OwnerSelect()
		if on && sel != nil && !sel.multiple() {
			for _, o := range sel.Options() {
				o.selected = false
				o.dirtySelected = true
			}
		}
		n.selected = on
		n.dirtySelected = true
		if sel != nil {
			sel.unselected = false
		}
	}
}

// =============================================================================
// Coercion
// =============================================================================

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func toStrings(v any) []string {
	switch x := v.(type) {
	case []string:
		return x
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			out = append(out, toString(e))
		}
		return out
	case nil:
		return nil
	default:
		return []string{toString(x)}
	}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != "" && x != "false"
	case int:
		return x != 0
	case float64:
		return x != 0 && !math.IsNaN(x)
	default:
		return true
	}
}

func toInt(v any) int {
	switch x := v.(type) {
	case int:
		return x
	case int64:
		return int(x)
	case float64:
		return int(x)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return -1
		}
		return i
	default:
		return -1
	}
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}
