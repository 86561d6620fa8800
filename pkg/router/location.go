package router

import "sync"

// Location is the Router's bridge to its host environment: it reads
// and writes the current fragment and delivers change signals.
//
// Fragment returns the current fragment including the leading "#", or
// "" when the location has none. SetFragment navigates. Listen
// registers fn to run after every fragment change and returns a
// function that removes the registration. Setting a fragment equal to
// the current one emits no signal, matching hashchange semantics.
type Location interface {
	Fragment() string
	SetFragment(fragment string)
	Listen(fn func()) (stop func())
}

type memoryListener struct {
	id int
	fn func()
}

// MemoryLocation is an in-memory Location for tests and headless use.
// Listeners run synchronously, in registration order, on the goroutine
// that changed the fragment.
//
// The zero value is ready to use and holds no fragment.
type MemoryLocation struct {
	mu        sync.Mutex
	fragment  string
	nextID    int
	listeners []memoryListener
}

// NewMemoryLocation returns a MemoryLocation positioned at fragment.
func NewMemoryLocation(fragment string) *MemoryLocation {
	return &MemoryLocation{fragment: fragment}
}

// Fragment returns the current fragment.
func (l *MemoryLocation) Fragment() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fragment
}

// SetFragment stores fragment and, when it differs from the current
// one, notifies listeners. Listeners are invoked outside the lock, so
// they may navigate again.
func (l *MemoryLocation) SetFragment(fragment string) {
	l.mu.Lock()
	if fragment == l.fragment {
		l.mu.Unlock()
		return
	}
	l.fragment = fragment
	fns := make([]func(), len(l.listeners))
	for i, lis := range l.listeners {
		fns[i] = lis.fn
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Listen registers fn to run after every fragment change. The returned
// stop function removes the registration; calling it again is a no-op.
func (l *MemoryLocation) Listen(fn func()) (stop func()) {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.listeners = append(l.listeners, memoryListener{id: id, fn: fn})
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		for i := range l.listeners {
			if l.listeners[i].id == id {
				l.listeners = append(l.listeners[:i], l.listeners[i+1:]...)
				break
			}
		}
	}
}
