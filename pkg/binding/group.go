package binding

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/vango-dev/bindery/pkg/cell"
	"github.com/vango-dev/bindery/pkg/dom"
	"github.com/vango-dev/bindery/pkg/model"
)

// elementKind classifies a group member by how its view value relates to
// the model value.
type elementKind uint8

const (
	kindValue    elementKind = iota // text-like inputs, textareas, custom elements
	kindCheckbox                    // checked, keyed by value
	kindRadio                       // checked, keyed by value
	kindOption                      // selected, keyed by value (multi-select)
	kindSelect                      // selectedIndex (single select)
)

func elementKindOf(el *dom.Node) elementKind {
	switch el.Tag() {
	case "input":
		switch el.InputType() {
		case "checkbox":
			return kindCheckbox
		case "radio":
			return kindRadio
		}
	case "select":
		return kindSelect
	case "option":
		return kindOption
	}
	return kindValue
}

// groupMode is how the model value maps onto member view values.
type groupMode uint8

const (
	modeScalar   groupMode = iota // view value is the model value
	modeSequence                  // checked/selected <-> key in []string
	modeSet                       // checked/selected <-> key in *model.Set
	modeRadio                     // checked <-> model value equals key
	modeSelect                    // selectedIndex <-> option value, or index when the model holds an int
)

func (m groupMode) String() string {
	switch m {
	case modeScalar:
		return "scalar"
	case modeSequence:
		return "sequence"
	case modeSet:
		return "set"
	case modeRadio:
		return "radio"
	case modeSelect:
		return "select"
	}
	return "unknown"
}

func modeFor(kind elementKind, v any, owned bool) (mode groupMode, index bool) {
	switch kind {
	case kindRadio:
		return modeRadio, false
	case kindSelect:
		_, isInt := v.(int)
		return modeSelect, owned && isInt
	case kindCheckbox, kindOption:
		switch v.(type) {
		case *model.Set:
			return modeSet, false
		case []string, []any:
			return modeSequence, false
		}
		if kind == kindOption {
			return modeSequence, false
		}
	}
	return modeScalar, false
}

// member is one element participating in a group.
type member struct {
	el    *dom.Node
	kind  elementKind
	prop  string
	cell  *cell.Cell[any]
	stops []func()
}

// key is the value an aggregate member contributes when checked or selected.
func (m *member) key() string {
	switch m.kind {
	case kindOption:
		s, _ := m.el.Property("value").(string)
		return s
	default:
		return m.el.Value()
	}
}

// group backs one model property shared by every element bound to it with
// data-model. The model accessor reads and writes value; members hold their
// own view values and are kept consistent with it.
type group struct {
	model *model.Object
	prop  string
	kind  elementKind
	mode  groupMode
	index bool

	// value is the model-side value.
	value *cell.Cell[any]

	// seeded is set once the model value is authoritative. Until then,
	// joining members contribute their view state instead of receiving the
	// model's.
	seeded bool

	// fromView is set when a scalar group took its value from its first
	// member rather than from the model.
	fromView bool

	members []*member
	syncing int

	set     *model.Set
	setStop func()

	refreshers map[int]func()
	nextRef    int
}

// newGroup replaces prop on m with an accessor over a new group. An
// existing data or accessor value becomes the group's value.
func newGroup(m *model.Object, prop string, kind elementKind) *group {
	g := &group{
		model:      m,
		prop:       prop,
		kind:       kind,
		value:      cell.New[any](),
		refreshers: make(map[int]func()),
	}

	owned := m.HasOwnData(prop) || m.HasAccessor(prop)
	initial := m.Get(prop)
	g.mode, g.index = modeFor(g.kind, initial, owned)

	switch {
	case owned:
		g.seeded = true
		g.value.Set(normalize(initial))
	case g.mode == modeSequence:
		g.value.Set([]string{})
	}
	g.watchSet()

	m.Define(prop, model.Accessor{Get: g.value.Get, Set: g.assign})
	g.value.On(func(any) {
		g.watchSet()
		g.projectAll()
		g.model.Notify(g.prop)
	})
	return g
}

// assign is the model-side setter.
func (g *group) assign(v any) {
	for _, refresh := range g.refresherList() {
		refresh()
	}
	v = normalize(v)
	g.mode, g.index = modeFor(g.kind, v, true)
	g.seeded = true
	g.fromView = false
	g.value.Set(v)
}

// join adds m to the group and performs its first sync.
func (g *group) join(m *member) {
	if g.splits(m) {
		g.promote()
	}
	g.members = append(g.members, m)
	m.stops = append(m.stops, m.cell.On(func(v any) {
		if g.syncing == 0 {
			g.merge(m, v)
		}
	}))

	if g.seeded {
		g.project(m)
		return
	}

	view := initialView(m.el, m.prop)
	g.syncing++
	m.cell.Set(view)
	g.syncing--
	g.merge(m, view)
	if g.mode == modeScalar || g.mode == modeSelect {
		g.seeded = true
		g.fromView = true
	}
}

// splits reports whether m is a checkbox whose value differs from a
// checkbox already sharing a scalar group the model never typed.
func (g *group) splits(m *member) bool {
	if m.kind != kindCheckbox || g.mode != modeScalar || !g.fromView {
		return false
	}
	for _, x := range g.members {
		if x.kind == kindCheckbox && x.key() != m.key() {
			return true
		}
	}
	return false
}

// promote turns a view-seeded scalar checkbox group into a sequence of the
// values of its checked members. Later members contribute their own state.
func (g *group) promote() {
	keys := []string{}
	for _, x := range g.members {
		if truthy(x.cell.Get()) && !slices.Contains(keys, x.key()) {
			keys = append(keys, x.key())
		}
	}
	g.mode, g.index = modeSequence, false
	g.seeded, g.fromView = false, false
	g.value.Set(keys)
}

// leave removes m and stops its subscriptions. The group keeps its value.
func (g *group) leave(m *member) {
	g.members = slices.DeleteFunc(g.members, func(x *member) bool { return x == m })
	for i := len(m.stops) - 1; i >= 0; i-- {
		m.stops[i]()
	}
	m.stops = nil
}

// detach stops every member and the set subscription.
func (g *group) detach() {
	for _, m := range slices.Clone(g.members) {
		g.leave(m)
	}
	if g.setStop != nil {
		g.setStop()
		g.setStop, g.set = nil, nil
	}
	clear(g.refreshers)
}

// merge folds a member's new view value into the model value.
func (g *group) merge(m *member, view any) {
	switch g.mode {
	case modeScalar:
		g.value.Set(view)

	case modeSequence:
		cur := toStrings(g.value.Get())
		key := m.key()
		has := slices.Contains(cur, key)
		switch {
		case truthy(view) && !has:
			g.value.Set(append(slices.Clone(cur), key))
		case !truthy(view) && has:
			g.value.Set(slices.DeleteFunc(slices.Clone(cur), func(s string) bool { return s == key }))
		}

	case modeSet:
		if g.set == nil {
			return
		}
		if truthy(view) {
			g.set.Add(m.key())
		} else {
			g.set.Delete(m.key())
		}

	case modeRadio:
		if truthy(view) {
			g.value.Set(m.key())
		}

	case modeSelect:
		i := toInt(view)
		if g.index {
			g.value.Set(i)
			return
		}
		opts := m.el.Options()
		if i < 0 || i >= len(opts) {
			g.value.Set("")
			return
		}
		g.value.Set(opts[i].Property("value"))
	}
}

// project pushes the model value into m's cell.
func (g *group) project(m *member) {
	g.syncing++
	defer func() { g.syncing-- }()
	m.cell.Set(g.viewFor(m))
}

func (g *group) projectAll() {
	for _, m := range slices.Clone(g.members) {
		g.project(m)
	}
}

func (g *group) viewFor(m *member) any {
	v := g.value.Get()
	switch g.mode {
	case modeSequence:
		return slices.Contains(toStrings(v), m.key())
	case modeSet:
		return g.set != nil && g.set.Has(m.key())
	case modeRadio:
		return v != nil && fmt.Sprint(v) == m.key()
	case modeSelect:
		if g.index {
			return toInt(v)
		}
		want := fmt.Sprint(v)
		for i, o := range m.el.Options() {
			if o.Property("value") == want {
				return i
			}
		}
		return -1
	default:
		return v
	}
}

// watchSet follows the *model.Set currently held by the group.
func (g *group) watchSet() {
	s, _ := g.value.Get().(*model.Set)
	if g.mode != modeSet {
		s = nil
	}
	if s == g.set {
		return
	}
	if g.setStop != nil {
		g.setStop()
		g.setStop = nil
	}
	g.set = s
	if s != nil {
		g.setStop = s.On(func(*model.Set) {
			g.projectAll()
			g.model.Notify(g.prop)
		})
	}
}

// addRefresher registers fn to run before every model-side assignment.
func (g *group) addRefresher(fn func()) (remove func()) {
	id := g.nextRef
	g.nextRef++
	g.refreshers[id] = fn
	return func() { delete(g.refreshers, id) }
}

func (g *group) refresherList() []func() {
	ids := make([]int, 0, len(g.refreshers))
	for id := range g.refreshers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]func(), 0, len(ids))
	for _, id := range ids {
		out = append(out, g.refreshers[id])
	}
	return out
}

// =============================================================================
// Coercion
// =============================================================================

func normalize(v any) any {
	if xs, ok := v.([]any); ok {
		return toStrings(xs)
	}
	return v
}

func toStrings(v any) []string {
	switch x := v.(type) {
	case []string:
		return x
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			out = append(out, fmt.Sprint(e))
		}
		return out
	case *model.Set:
		if x == nil {
			return nil
		}
		return x.Values()
	}
	return nil
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
		return x != 0
	}
	return true
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
		if i, err := strconv.Atoi(x); err == nil {
			return i
		}
	}
	return -1
}
