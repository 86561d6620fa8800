package router

import (
	"context"
	"fmt"
	"reflect"
	"regexp"

	"github.com/looplab/fsm"
)

// Definition identifies a route in the registry. Accepted dynamic types
// are string, an exact fragment compared by value, and *regexp.Regexp,
// a compiled pattern compared by identity. Registration methods also
// accept slices of definitions.
type Definition = any

// Handler receives the outcome of one resolution.
type Handler func(ResolvedRoute)

// ResolvedRoute describes one resolution of a fragment against the
// registry.
type ResolvedRoute struct {
	// URL is the fragment that was resolved, e.g. "#/users/7".
	URL string

	// Route is the matching Definition, or nil when nothing matched.
	Route Definition

	// Params holds named pattern captures. It is never nil; literal
	// matches and misses leave it empty.
	Params map[string]string
}

const (
	stateUnconnected  = "unconnected"
	stateConnected    = "connected"
	stateDisconnected = "disconnected"

	eventConnect    = "connect"
	eventDisconnect = "disconnect"
)

type entry struct {
	def     Definition
	handler Handler
}

// Router resolves location fragments against registered definitions.
//
// Methods are not safe for concurrent use: drive a Router from a single
// goroutine, the way the browser event loop does.
type Router struct {
	loc       Location
	entries   []entry
	fallback  Handler
	afterEach Handler
	startAt   string
	lifecycle *fsm.FSM
	stop      func()
}

// Option configures a Router.
type Option func(*Router)

// StartAt sets the fragment Connect applies when the location has no
// fragment yet. Empty means no start route.
func StartAt(fragment string) Option {
	return func(r *Router) { r.startAt = fragment }
}

// New returns an unconnected Router bound to loc. It panics when loc
// is nil.
func New(loc Location, opts ...Option) *Router {
	if loc == nil {
		panic("router: nil Location")
	}
	r := &Router{
		loc: loc,
		lifecycle: fsm.NewFSM(
			stateUnconnected,
			fsm.Events{
				{Name: eventConnect, Src: []string{stateUnconnected}, Dst: stateConnected},
				{Name: eventDisconnect, Src: []string{stateConnected}, Dst: stateDisconnected},
			},
			fsm.Callbacks{},
		),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// On registers handler under def, a single definition or a slice of
// definitions. Re-registering an existing definition replaces its
// handler in place, keeping its position in the match order. On panics
// when handler is nil or a definition has an unsupported type.
func (r *Router) On(def Definition, handler Handler) *Router {
	if handler == nil {
		panic("router: nil handler")
	}
	for _, d := range expand(def) {
		r.set(d, handler)
	}
	return r
}

// Off removes def from the registry, accepting a single definition or
// a slice. Definitions that were never registered are ignored.
func (r *Router) Off(def Definition) *Router {
	for _, d := range expand(def) {
		for i := range r.entries {
			if r.entries[i].def == d {
				r.entries = append(r.entries[:i], r.entries[i+1:]...)
				break
			}
		}
	}
	return r
}

// Fallback sets the handler invoked when no definition matches. A nil
// handler clears it.
func (r *Router) Fallback(handler Handler) *Router {
	r.fallback = handler
	return r
}

// AfterEach sets a hook invoked after every resolution, match or not,
// with the same ResolvedRoute the handler saw. A nil hook clears it.
func (r *Router) AfterEach(handler Handler) *Router {
	r.afterEach = handler
	return r
}

// Connect activates the Router. It subscribes to the Location, then
// either applies the configured start route (only when the current
// fragment is empty, letting the resulting change signal drive the
// resolution) or resolves the current fragment immediately. Connect
// does nothing unless the Router has never been connected.
func (r *Router) Connect() *Router {
	if err := r.lifecycle.Event(context.Background(), eventConnect); err != nil {
		return r
	}
	r.stop = r.loc.Listen(func() {
		r.resolve(r.loc.Fragment())
	})
	if r.startAt != "" && r.loc.Fragment() == "" {
		r.loc.SetFragment(r.startAt)
	} else {
		r.resolve(r.loc.Fragment())
	}
	return r
}

// Disconnect deactivates the Router for good: the Location
// subscription is removed and later Connect calls have no effect.
// Registration methods stay usable but only update the registry.
func (r *Router) Disconnect() {
	if err := r.lifecycle.Event(context.Background(), eventDisconnect); err != nil {
		return
	}
	if r.stop != nil {
		r.stop()
		r.stop = nil
	}
}

// resolve matches fragment against the registry in registration order
// and dispatches the outcome. The first matching entry wins; without a
// match the fallback runs. The afterEach hook always runs last.
func (r *Router) resolve(fragment string) {
	res := ResolvedRoute{URL: fragment, Params: make(map[string]string)}
	var handler Handler

	for _, e := range r.entries {
		switch def := e.def.(type) {
		case string:
			if fragment != def {
				continue
			}
		case *regexp.Regexp:
			m := def.FindStringSubmatch(fragment)
			if m == nil || m[0] != fragment {
				continue
			}
			for i, name := range def.SubexpNames() {
				if name != "" {
					res.Params[name] = m[i]
				}
			}
		}
		res.Route = e.def
		handler = e.handler
		break
	}

	switch {
	case handler != nil:
		handler(res)
	case r.fallback != nil:
		r.fallback(res)
	}
	if r.afterEach != nil {
		r.afterEach(res)
	}
}

func (r *Router) set(def Definition, handler Handler) {
	for i := range r.entries {
		if r.entries[i].def == def {
			r.entries[i].handler = handler
			return
		}
	}
	r.entries = append(r.entries, entry{def: def, handler: handler})
}

// expand normalizes the def argument of On and Off into individual
// validated definitions.
func expand(def Definition) []Definition {
	v := reflect.ValueOf(def)
	if v.Kind() != reflect.Slice {
		return []Definition{checkDef(def)}
	}
	defs := make([]Definition, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		defs = append(defs, checkDef(v.Index(i).Interface()))
	}
	return defs
}

func checkDef(def Definition) Definition {
	switch d := def.(type) {
	case string:
		return d
	case *regexp.Regexp:
		if d == nil {
			panic("router: nil route pattern")
		}
		return d
	default:
		panic(fmt.Sprintf("router: unsupported route definition type %T", def))
	}
}
