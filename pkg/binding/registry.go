package binding

import (
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/vango-dev/bindery/pkg/cell"
	"github.com/vango-dev/bindery/pkg/dom"
	"github.com/vango-dev/bindery/pkg/model"
)

// Registry maps bound models to their entries. The zero value is not
// usable; create one with NewRegistry.
type Registry struct {
	mu      sync.RWMutex
	entries map[*model.Object]*Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[*model.Object]*Entry)}
}

// Create registers a fresh entry for m and returns it together with the
// entry it replaced, if any.
func (r *Registry) Create(m *model.Object, root *dom.Node) (entry, prev *Entry) {
	entry = &Entry{
		Model:    m,
		Root:     root,
		elements: make(map[*dom.Node]map[ID]*binding),
		groups:   make(map[string]*group),
	}
	r.mu.Lock()
	prev = r.entries[m]
	r.entries[m] = entry
	r.mu.Unlock()
	return entry, prev
}

// Lookup returns the entry for m.
func (r *Registry) Lookup(m *model.Object) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[m]
	return e, ok
}

// Release removes the entry for m and returns it.
func (r *Registry) Release(m *model.Object) (*Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[m]
	delete(r.entries, m)
	return e, ok
}

// Len returns the number of bound models.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Snapshot describes every entry, ordered by model name.
func (r *Registry) Snapshot() []EntryInfo {
	r.mu.RLock()
	entries := slices.Collect(maps.Values(r.entries))
	r.mu.RUnlock()

	out := make([]EntryInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.info())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Model < out[j].Model })
	return out
}

// Entry is the binding state of one model.
type Entry struct {
	Model *model.Object
	Root  *dom.Node

	// mu guards elements for readers on other goroutines. All writes happen
	// on the goroutine driving the document.
	mu       sync.RWMutex
	elements map[*dom.Node]map[ID]*binding

	// groups are keyed by model property. A group outlives its members so
	// an element that is removed and re-added rejoins the same value.
	groups map[string]*group

	observer *dom.Observer
	rootDesc string

	// funcs numbers unnamed HandlerFunc directives.
	funcs int
	onError  func(error)
}

func (e *Entry) lookup(el *dom.Node, id ID) (*binding, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, ok := e.elements[el][id]
	return b, ok
}

func (e *Entry) add(b *binding) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := e.elements[b.el]
	if ids == nil {
		ids = make(map[ID]*binding)
		e.elements[b.el] = ids
	}
	ids[b.id] = b
}

// remove drops b if it is still the binding registered for its element
// and id.
func (e *Entry) remove(b *binding) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := e.elements[b.el]
	if ids[b.id] != b {
		return false
	}
	delete(ids, b.id)
	if len(ids) == 0 {
		delete(e.elements, b.el)
	}
	return true
}

func (e *Entry) removeElement(el *dom.Node) []*binding {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := e.elements[el]
	delete(e.elements, el)
	return sortedBindings(ids)
}

func (e *Entry) removeAll() []*binding {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []*binding
	for _, ids := range e.elements {
		out = append(out, sortedBindings(ids)...)
	}
	clear(e.elements)
	return out
}

// IDs returns the binding ids installed on el, sorted.
func (e *Entry) IDs(el *dom.Node) []ID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Sorted(maps.Keys(e.elements[el]))
}

// Cell returns the cell of binding id on el. Event bindings have none.
func (e *Entry) Cell(el *dom.Node, id ID) (*cell.Cell[any], bool) {
	b, ok := e.lookup(el, id)
	if !ok || b.cell == nil {
		return nil, false
	}
	return b.cell, true
}

// Len returns the number of installed bindings.
func (e *Entry) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	n := 0
	for _, ids := range e.elements {
		n += len(ids)
	}
	return n
}

func sortedBindings(ids map[ID]*binding) []*binding {
	out := slices.Collect(maps.Values(ids))
	slices.SortFunc(out, func(a, b *binding) int {
		switch {
		case a.id < b.id:
			return -1
		case a.id > b.id:
			return 1
		}
		return 0
	})
	return out
}

// EntryInfo describes a bound model.
type EntryInfo struct {
	Model    string        `json:"model"`
	Root     string        `json:"root"`
	Elements []ElementInfo `json:"elements"`
}

// ElementInfo describes the bindings of one element.
type ElementInfo struct {
	Element  string        `json:"element"`
	Bindings []BindingInfo `json:"bindings"`
}

// BindingInfo describes one binding.
type BindingInfo struct {
	ID      ID     `json:"id"`
	Kind    string `json:"kind"`
	Channel string `json:"channel,omitempty"`
	Value   any    `json:"value,omitempty"`
}

func (e *Entry) info() EntryInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()

	info := EntryInfo{Model: e.Model.Name(), Root: e.rootDesc}
	for _, ids := range e.elements {
		var el ElementInfo
		for _, b := range sortedBindings(ids) {
			el.Element = b.desc
			bi := BindingInfo{ID: b.id, Kind: b.dir.Kind.String()}
			if b.channel != nil {
				bi.Channel = b.channel.String()
			}
			if b.cell != nil {
				bi.Value = b.cell.Get()
			}
			el.Bindings = append(el.Bindings, bi)
		}
		info.Elements = append(info.Elements, el)
	}
	sort.SliceStable(info.Elements, func(i, j int) bool {
		return info.Elements[i].Element < info.Elements[j].Element
	})
	return info
}
