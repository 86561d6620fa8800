// Package routeutil provides the public API for hash-fragment routing.
//
// This is the recommended import for apps:
//
//	import "github.com/andreasphil/routeutil"
//
// Usage:
//
//	loc := browser.Window() // or routeutil.NewMemoryLocation("") in tests
//
//	routeutil.New(loc, routeutil.StartAt("#/")).
//		On("#/", showHome).
//		On(routeutil.MustRoute("#/users/", routeutil.Param("id")), showUser).
//		Fallback(showNotFound).
//		Connect()
package routeutil

import (
	"regexp"

	"github.com/andreasphil/routeutil/pkg/fragment"
	"github.com/andreasphil/routeutil/pkg/router"
)

// =============================================================================
// Router (re-export from pkg/router)
// =============================================================================

// Router resolves location fragments against registered definitions.
type Router = router.Router

// Handler receives the outcome of one resolution.
type Handler = router.Handler

// ResolvedRoute describes one resolution of a fragment against the
// registry.
type ResolvedRoute = router.ResolvedRoute

// Definition identifies a route in the registry: a string for exact
// fragments, a *regexp.Regexp for patterns, or a slice of either.
type Definition = router.Definition

// Option configures a Router.
type Option = router.Option

// New returns an unconnected Router bound to loc.
//
// Example:
//
//	r := routeutil.New(routeutil.NewMemoryLocation(""))
//	r.On("#/", func(routeutil.ResolvedRoute) { showHome() })
//	r.Connect()
func New(loc Location, opts ...Option) *Router {
	return router.New(loc, opts...)
}

// StartAt sets the fragment Connect applies when the location has no
// fragment yet.
var StartAt = router.StartAt

// =============================================================================
// Patterns (re-export from pkg/fragment)
// =============================================================================

// Raw is a pattern fragment inserted into a route verbatim, without
// escaping.
type Raw = fragment.Raw

// ErrInvalidRoute is returned by Route when the assembled parts do not
// form a valid route. Detect it with errors.Is.
var ErrInvalidRoute = fragment.ErrInvalidRoute

// Route assembles literal text and Raw parts into an anchored route
// pattern.
//
// Example:
//
//	re, err := routeutil.Route("#/users/", routeutil.Param("id"))
func Route(parts ...any) (*regexp.Regexp, error) {
	return fragment.Route(parts...)
}

// MustRoute is like Route but panics on error. It simplifies
// package-level route variables.
func MustRoute(parts ...any) *regexp.Regexp {
	return fragment.MustRoute(parts...)
}

// Param returns a capture that matches one or more word characters and
// records them under name.
func Param(name string) Raw {
	return fragment.Param(name)
}

// =============================================================================
// Locations (re-export from pkg/router)
// =============================================================================

// Location is the Router's bridge to its host environment. In the
// browser, pkg/browser provides the window.location implementation.
type Location = router.Location

// MemoryLocation is an in-memory Location for tests and headless use.
type MemoryLocation = router.MemoryLocation

// NewMemoryLocation returns a MemoryLocation positioned at the given
// fragment.
var NewMemoryLocation = router.NewMemoryLocation
