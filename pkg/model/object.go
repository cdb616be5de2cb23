package model

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/bindery/pkg/dom"
)

var lastWatchID atomic.Uint64

// Accessor replaces a data property. Reads and writes of the property go
// through Get and Set.
type Accessor struct {
	Get func() any
	Set func(any)
}

type watcher struct {
	id uint64
	fn func(any)
}

// Object is a bindable model.
type Object struct {
	name string

	mu        sync.RWMutex
	data      map[string]any
	accessors map[string]Accessor
	methods   map[string]func(*dom.Event)
	watchers  map[string][]watcher
}

// New creates an empty model. The name only shows up in logs and snapshots.
func New(name string) *Object {
	return &Object{
		name:      name,
		data:      make(map[string]any),
		accessors: make(map[string]Accessor),
		methods:   make(map[string]func(*dom.Event)),
		watchers:  make(map[string][]watcher),
	}
}

// Name returns the model's name.
func (o *Object) Name() string {
	return o.name
}

func (o *Object) String() string {
	return fmt.Sprintf("model(%s)", o.name)
}

// Get reads a property. Missing properties read as nil.
func (o *Object) Get(name string) any {
	o.mu.RLock()
	acc, ok := o.accessors[name]
	v := o.data[name]
	o.mu.RUnlock()
	if ok {
		return acc.Get()
	}
	return v
}

// Set writes a property. Data properties notify watchers; accessor
// properties delegate to the accessor, which is responsible for calling
// Notify.
func (o *Object) Set(name string, v any) {
	o.mu.Lock()
	acc, ok := o.accessors[name]
	if !ok {
		o.data[name] = v
	}
	o.mu.Unlock()

	if ok {
		if acc.Set != nil {
			acc.Set(v)
		}
		return
	}
	o.Notify(name)
}

// Has reports whether name is a data property, an accessor, or a method.
func (o *Object) Has(name string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if _, ok := o.data[name]; ok {
		return true
	}
	if _, ok := o.accessors[name]; ok {
		return true
	}
	_, ok := o.methods[name]
	return ok
}

// HasOwnData reports whether name holds a plain value rather than an
// accessor.
func (o *Object) HasOwnData(name string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	_, ok := o.data[name]
	return ok
}

// HasAccessor reports whether name has been replaced by Define.
func (o *Object) HasAccessor(name string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	_, ok := o.accessors[name]
	return ok
}

// Define replaces name with an accessor. Any data value is discarded, so
// callers that need it should read it first.
func (o *Object) Define(name string, acc Accessor) {
	o.mu.Lock()
	delete(o.data, name)
	o.accessors[name] = acc
	o.mu.Unlock()
}

// Watch registers fn to run with the property's current value whenever it
// changes. The returned function removes the watcher and may be called more
// than once.
func (o *Object) Watch(name string, fn func(any)) (unwatch func()) {
	if fn == nil {
		return func() {}
	}
	id := lastWatchID.Add(1)

	o.mu.Lock()
	o.watchers[name] = append(o.watchers[name], watcher{id: id, fn: fn})
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			ws := o.watchers[name]
			for i, w := range ws {
				if w.id == id {
					o.watchers[name] = slices.Delete(ws, i, i+1)
					break
				}
			}
			if len(o.watchers[name]) == 0 {
				delete(o.watchers, name)
			}
		})
	}
}

// Notify runs the watchers of name with its current value.
func (o *Object) Notify(name string) {
	o.mu.RLock()
	ws := slices.Clone(o.watchers[name])
	o.mu.RUnlock()
	if len(ws) == 0 {
		return
	}

	v := o.Get(name)
	for _, w := range ws {
		w.fn(v)
	}
}

// Method registers a handler under name. fn must be a func(*dom.Event),
// a dom.Listener, or a func().
func (o *Object) Method(name string, fn any) {
	h, ok := asHandler(fn)
	if !ok {
		panic(fmt.Sprintf("model: method %q has unsupported type %T", name, fn))
	}
	o.mu.Lock()
	o.methods[name] = h
	o.mu.Unlock()
}

// Handler resolves name to something callable: a registered method first,
// then a function-valued property.
func (o *Object) Handler(name string) (func(*dom.Event), bool) {
	o.mu.RLock()
	h, ok := o.methods[name]
	o.mu.RUnlock()
	if ok {
		return h, true
	}
	return asHandler(o.Get(name))
}

func asHandler(fn any) (func(*dom.Event), bool) {
	switch f := fn.(type) {
	case func(*dom.Event):
		return f, f != nil
	case dom.Listener:
		return f, f != nil
	case func():
		if f == nil {
			return nil, false
		}
		return func(*dom.Event) { f() }, true
	}
	return nil, false
}

// Keys returns the data and accessor property names, sorted.
func (o *Object) Keys() []string {
	o.mu.RLock()
	keys := make([]string, 0, len(o.data)+len(o.accessors))
	for k := range o.data {
		keys = append(keys, k)
	}
	for k := range o.accessors {
		keys = append(keys, k)
	}
	o.mu.RUnlock()
	slices.Sort(keys)
	return keys
}

// =============================================================================
// dom.PropertyHost
// =============================================================================

// HasProperty reports whether name is a data or accessor property.
func (o *Object) HasProperty(name string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if _, ok := o.data[name]; ok {
		return true
	}
	_, ok := o.accessors[name]
	return ok
}

// Property is Get.
func (o *Object) Property(name string) any {
	return o.Get(name)
}

// SetProperty is Set.
func (o *Object) SetProperty(name string, v any) {
	o.Set(name, v)
}

var _ dom.PropertyHost = (*Object)(nil)
