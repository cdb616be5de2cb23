package model

import (
	"slices"
	"sync"
)

// Set is an observable set of strings.
type Set struct {
	mu    sync.RWMutex
	items map[string]struct{}
	subs  []setSub
	next  uint64
}

type setSub struct {
	id uint64
	fn func(*Set)
}

// NewSet creates a set holding values.
func NewSet(values ...string) *Set {
	s := &Set{items: make(map[string]struct{}, len(values))}
	for _, v := range values {
		s.items[v] = struct{}{}
	}
	return s
}

// Add inserts values and notifies once if any was new.
func (s *Set) Add(values ...string) {
	s.mu.Lock()
	changed := false
	for _, v := range values {
		if _, ok := s.items[v]; !ok {
			s.items[v] = struct{}{}
			changed = true
		}
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// Delete removes v and reports whether it was present.
func (s *Set) Delete(v string) bool {
	s.mu.Lock()
	_, ok := s.items[v]
	delete(s.items, v)
	s.mu.Unlock()
	if ok {
		s.notify()
	}
	return ok
}

// Clear removes every value.
func (s *Set) Clear() {
	s.mu.Lock()
	n := len(s.items)
	clear(s.items)
	s.mu.Unlock()
	if n > 0 {
		s.notify()
	}
}

// Has reports membership.
func (s *Set) Has(v string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[v]
	return ok
}

// Len returns the number of values.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Values returns the members in sorted order.
func (s *Set) Values() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.items))
	for v := range s.items {
		out = append(out, v)
	}
	s.mu.RUnlock()
	slices.Sort(out)
	return out
}

// On registers fn to run after every change.
func (s *Set) On(fn func(*Set)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	s.next++
	id := s.next
	s.subs = append(s.subs, setSub{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.subs = slices.DeleteFunc(s.subs, func(sub setSub) bool { return sub.id == id })
		})
	}
}

func (s *Set) notify() {
	s.mu.RLock()
	subs := slices.Clone(s.subs)
	s.mu.RUnlock()
	for _, sub := range subs {
		sub.fn(s)
	}
}
