package binding

import (
	"fmt"

	"github.com/vango-dev/bindery/internal/errors"
	"github.com/vango-dev/bindery/pkg/cell"
	"github.com/vango-dev/bindery/pkg/dom"
	"github.com/vango-dev/bindery/pkg/model"
)

// binding is one installed directive on one element.
type binding struct {
	id   ID
	dir  Directive
	el   *dom.Node
	desc string

	// channel and cell are nil for event bindings and for multi-selects,
	// whose cells live on their options.
	channel Channel
	cell    *cell.Cell[any]

	group  *group
	member *member

	// options of a multi-select, keyed by option element. Option bindings
	// point back at the select through parent.
	options map[*dom.Node]*binding
	parent  *binding

	stops    []func()
	released bool
}

func (b *binding) release() {
	if b.released {
		return
	}
	b.released = true
	for i := len(b.stops) - 1; i >= 0; i-- {
		b.stops[i]()
	}
	b.stops = nil
	if b.group != nil && b.member != nil {
		b.group.leave(b.member)
	}
}

func newBinding(el *dom.Node, d Directive) *binding {
	return &binding{id: d.ID(), dir: d, el: el, desc: describe(el)}
}

func (e *Entry) group(prop string, kind elementKind) *group {
	g, ok := e.groups[prop]
	if !ok {
		g = newGroup(e.Model, prop, kind)
		e.groups[prop] = g
	}
	return g
}

// Install installs d on el for the bound model m. Installing a directive
// whose id is already present on el is a no-op.
func (e *Engine) Install(m *model.Object, el *dom.Node, d Directive) error {
	ent, ok := e.registry.Lookup(m)
	if !ok {
		return errors.New("E206").WithDetail(m.String())
	}
	_, err := e.install(ent, el, d)
	return err
}

// install reports whether a new binding was created.
func (e *Engine) install(ent *Entry, el *dom.Node, d Directive) (bool, error) {
	if d.Kind == KindEvent && d.HandlerFunc != nil && d.Handler == "" {
		ent.funcs++
		d.Handler = fmt.Sprintf("func#%d", ent.funcs)
	}
	id := d.ID()
	if _, ok := ent.lookup(el, id); ok {
		return false, nil
	}

	var (
		b   *binding
		err error
	)
	switch d.Kind {
	case KindModel:
		b = e.installModel(ent, el, d)
	case KindBind:
		b = e.installBind(ent, el, d)
	case KindEvent:
		b, err = e.installEvent(ent, el, d)
	default:
		err = errors.New("E204").WithElement(describe(el)).WithDetailf("%s", d.Kind)
	}
	if err != nil {
		return false, err
	}

	ent.add(b)
	e.metrics.installed(d.Kind)
	e.logger.Debug("binding installed", "model", ent.Model.Name(), "element", b.desc, "id", id)
	e.emit(Activity{Op: OpInstall, Model: ent.Model.Name(), Element: b.desc, ID: id})
	return true, nil
}

// installModel wires a two-way binding through the property group.
func (e *Engine) installModel(ent *Entry, el *dom.Node, d Directive) *binding {
	kind := elementKindOf(el)
	if kind == kindSelect && el.Property("multiple") == true {
		return e.installMultiSelect(ent, el, d)
	}

	g := ent.group(d.ModelProperty, kind)
	b := newBinding(el, d)
	b.channel = channelFor(el, d.ViewProperty)
	b.cell = cell.New[any]()
	b.stops = append(b.stops, b.cell.On(b.channel.Write))
	b.stops = append(b.stops, el.AddEventListener(d.ViewEvent, func(*dom.Event) {
		b.cell.Set(b.channel.Read())
	}))

	// A custom element bound to its own model reports changes through it.
	if host, ok := el.PropertyHost().(*model.Object); ok && host != ent.Model {
		b.stops = append(b.stops, host.Watch(d.ViewProperty, func(v any) {
			b.cell.Set(v)
		}))
	}

	b.group = g
	b.member = &member{el: el, kind: kind, prop: d.ViewProperty, cell: b.cell}
	g.join(b.member)
	return b
}

// installMultiSelect binds the options of a multiple select as members of
// one sequence group. Options are discovered on every change event and
// before every model-side assignment.
func (e *Engine) installMultiSelect(ent *Entry, sel *dom.Node, d Directive) *binding {
	g := ent.group(d.ModelProperty, kindOption)
	b := newBinding(sel, d)
	b.options = make(map[*dom.Node]*binding)

	refresh := func() { e.syncOptions(ent, b, g) }
	b.stops = append(b.stops, g.addRefresher(refresh))
	b.stops = append(b.stops, sel.AddEventListener(d.ViewEvent, func(*dom.Event) {
		refresh()
		for _, opt := range sel.Options() {
			if ob, ok := b.options[opt]; ok {
				ob.cell.Set(ob.channel.Read())
			}
		}
	}))
	refresh()
	return b
}

func (e *Engine) syncOptions(ent *Entry, b *binding, g *group) {
	if b.released {
		return
	}
	for opt, ob := range b.options {
		if ob.released || opt.OwnerSelect() != b.el {
			delete(b.options, opt)
			e.releaseOne(ent, ob)
		}
	}
	for _, opt := range b.el.Options() {
		if _, ok := b.options[opt]; ok {
			continue
		}
		ob := newBinding(opt, b.dir)
		ob.parent = b
		ob.channel = DirectChannel{el: opt, name: "selected"}
		ob.cell = cell.New[any]()
		ob.stops = append(ob.stops, ob.cell.On(ob.channel.Write))
		ob.group = g
		ob.member = &member{el: opt, kind: kindOption, prop: "selected", cell: ob.cell}
		b.options[opt] = ob
		ent.add(ob)
		e.metrics.installed(ob.dir.Kind)
		g.join(ob.member)
	}
}

// installBind wires a one-way binding fed by the model's watchers.
func (e *Engine) installBind(ent *Entry, el *dom.Node, d Directive) *binding {
	b := newBinding(el, d)
	b.channel = channelFor(el, d.ViewProperty)
	b.cell = cell.New[any]()
	b.stops = append(b.stops, b.cell.On(b.channel.Write))
	b.stops = append(b.stops, ent.Model.Watch(d.ModelProperty, func(v any) {
		b.cell.Set(v)
	}))
	if ent.Model.Has(d.ModelProperty) {
		b.cell.Set(ent.Model.Get(d.ModelProperty))
	}
	return b
}

// installEvent wires a listener that calls the model's handler. A handler
// replaced on the model after installation is picked up on the next event.
func (e *Engine) installEvent(ent *Entry, el *dom.Node, d Directive) (*binding, error) {
	fallback := d.HandlerFunc
	if fallback == nil {
		h, ok := ent.Model.Handler(d.Handler)
		if !ok {
			return nil, errors.New("E203").
				WithElement(describe(el)).
				WithDetailf("%s has no handler %q", ent.Model, d.Handler).
				WithSuggestion("Register it with Method or store a func(*dom.Event) in the property")
		}
		fallback = h
	}

	b := newBinding(el, d)
	m, name, explicit := ent.Model, d.Handler, d.HandlerFunc != nil
	b.stops = append(b.stops, el.AddEventListener(d.ViewEvent, func(ev *dom.Event) {
		h := fallback
		if !explicit {
			if cur, ok := m.Handler(name); ok {
				h = cur
			}
		}
		e.metrics.handled(d.ViewEvent)
		h(ev)
	}))
	return b, nil
}

// releaseElement drops every binding on el.
func (e *Engine) releaseElement(ent *Entry, el *dom.Node) {
	for _, b := range ent.removeElement(el) {
		e.releaseBinding(ent, b)
	}
}

// releaseOne drops a single binding.
func (e *Engine) releaseOne(ent *Entry, b *binding) {
	ent.remove(b)
	e.releaseBinding(ent, b)
}

func (e *Engine) releaseBinding(ent *Entry, b *binding) {
	if b.released {
		return
	}
	b.release()
	for opt, ob := range b.options {
		delete(b.options, opt)
		e.releaseOne(ent, ob)
	}
	e.metrics.released(b.dir.Kind)
	e.logger.Debug("binding released", "model", ent.Model.Name(), "element", b.desc, "id", b.id)
	e.emit(Activity{Op: OpRelease, Model: ent.Model.Name(), Element: b.desc, ID: b.id})
}
