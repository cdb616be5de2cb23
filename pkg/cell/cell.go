package cell

import (
	"reflect"
	"sync"
	"sync/atomic"
)

var lastID atomic.Uint64

func nextID() uint64 {
	return lastID.Add(1)
}

// subscriber is one registered callback.
type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// Cell is a reactive value container.
type Cell[T any] struct {
	id uint64

	// value is the current value.
	value T

	// initialized is false until the first Set.
	initialized bool

	// subs are notified in registration order.
	subs []subscriber[T]

	// mu protects value, initialized, and subs.
	mu sync.RWMutex

	// equal decides whether a write changed the value.
	// If nil, uses default equality checking.
	equal func(T, T) bool
}

// New creates an uninitialized cell.
func New[T any]() *Cell[T] {
	return &Cell[T]{id: nextID()}
}

// Of creates a cell holding initial.
func Of[T any](initial T) *Cell[T] {
	return &Cell[T]{
		id:          nextID(),
		value:       initial,
		initialized: true,
	}
}

// ID returns the unique identifier for this cell.
func (c *Cell[T]) ID() uint64 {
	return c.id
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Initialized reports whether the cell has ever been written.
func (c *Cell[T]) Initialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

// Set stores v and notifies subscribers if the cell was uninitialized or the
// value changed. Subscribers run after the lock is released, so they may read
// or write the cell again.
func (c *Cell[T]) Set(v T) {
	c.mu.Lock()
	changed := !c.initialized || !c.equals(c.value, v)
	c.value = v
	c.initialized = true
	var subs []subscriber[T]
	if changed {
		subs = make([]subscriber[T], len(c.subs))
		copy(subs, c.subs)
	}
	c.mu.Unlock()

	for _, s := range subs {
		s.fn(v)
	}
}

// Update atomically reads and replaces the value.
func (c *Cell[T]) Update(fn func(T) T) {
	c.Set(fn(c.Get()))
}

// On registers fn and returns a function that removes it. The returned
// function is safe to call more than once.
func (c *Cell[T]) On(fn func(T)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	sid := nextID()
	c.mu.Lock()
	c.subs = append(c.subs, subscriber[T]{id: sid, fn: fn})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, s := range c.subs {
				if s.id == sid {
					// Preserve order: later subscribers keep firing after earlier ones.
					c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Subscribers returns the number of registered subscribers.
func (c *Cell[T]) Subscribers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subs)
}

// WithEquals returns the cell configured with a custom equality function.
func (c *Cell[T]) WithEquals(fn func(T, T) bool) *Cell[T] {
	c.equal = fn
	return c
}

func (c *Cell[T]) equals(a, b T) bool {
	if c.equal != nil {
		return c.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals uses == for common scalar types and reflect.DeepEqual otherwise.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		bv, ok := any(b).(int)
		return ok && av == bv
	case int64:
		bv, ok := any(b).(int64)
		return ok && av == bv
	case float64:
		bv, ok := any(b).(float64)
		// NaN never equals itself; treat two NaNs as unchanged.
		return ok && (av == bv || (av != av && bv != bv))
	case string:
		bv, ok := any(b).(string)
		return ok && av == bv
	case bool:
		bv, ok := any(b).(bool)
		return ok && av == bv
	default:
		return reflect.DeepEqual(a, b)
	}
}
